// Package services holds the nearby-place finder and the contracts for the
// session's optional collaborators: map rendering, speech output, the share
// sheet, the clipboard, and reminder notifications. The core never assumes a
// collaborator is present; missing capabilities degrade instead of failing.
package services

import "log"

// MapRenderer displays a position on the map collaborator.
type MapRenderer interface {
	Render(lat, lng float64, zoom int)
}

// Speaker speaks text through the speech-output collaborator. voice is an
// index into the platform voice list, -1 for the system default.
type Speaker interface {
	Speak(text string, voice int, rate, pitch float64)
}

// ShareSheet is the platform share dialog, which may not exist everywhere.
type ShareSheet interface {
	CanShare() bool
	Share(title, text, url string) error
}

// Clipboard is the fallback target when no share sheet is available.
type Clipboard interface {
	Write(text string) error
}

// Notifier delivers the one-shot parking reminder.
type Notifier interface {
	Notify(title, body string)
}

// ShareOrCopy pushes a link through the share sheet when the platform has
// one, falling back to the clipboard otherwise. Returns false when the
// clipboard was used, so callers can word the confirmation accordingly.
func ShareOrCopy(sheet ShareSheet, clip Clipboard, title, text, url string) (shared bool, err error) {
	if sheet != nil && sheet.CanShare() {
		return true, sheet.Share(title, text, url)
	}
	if clip != nil {
		return false, clip.Write(url)
	}
	return false, nil
}

// The log-backed implementations stand in for platform I/O, the way a push
// gateway would be faked in development.

type LogMapRenderer struct{}

func (LogMapRenderer) Render(lat, lng float64, zoom int) {
	log.Printf("[MAP] center (%.5f, %.5f) zoom %d", lat, lng, zoom)
}

type LogSpeaker struct{}

func (LogSpeaker) Speak(text string, voice int, rate, pitch float64) {
	log.Printf("[VOICE] %q (voice %d, rate %.1f, pitch %.1f)", text, voice, rate, pitch)
}

type LogNotifier struct{}

func (LogNotifier) Notify(title, body string) {
	log.Printf("[REMINDER] %s: %s", title, body)
}

type LogClipboard struct{}

func (LogClipboard) Write(text string) error {
	log.Printf("[CLIPBOARD] copied %q", text)
	return nil
}
