package store

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DefaultNotifyDelay is the reminder delay used before the user picks one.
const DefaultNotifyDelay = 2 * time.Hour

// SystemVoice is the preferred-voice value meaning "no explicit selection":
// the speech collaborator uses the platform default.
const SystemVoice = -1

// International-format phone number: leading + and 6-15 digits.
var whatsappNumberRe = regexp.MustCompile(`^\+[0-9]{6,15}$`)

// ErrInvalidPhoneNumber is returned when a WhatsApp number isn't in
// international format.
var ErrInvalidPhoneNumber = fmt.Errorf("phone number must be in international format, e.g. +1234567890")

// Prefs persists the user preference slots alongside the parking spot.
// Every getter falls back to a default when the slot is empty or unreadable;
// a bad stored value never fails a read.
type Prefs struct {
	kv *KV
}

// NewPrefs creates a Prefs over the given key-value store.
func NewPrefs(kv *KV) *Prefs {
	return &Prefs{kv: kv}
}

// NotifyDelay returns the user-chosen reminder delay, defaulting to 2 hours.
func (p *Prefs) NotifyDelay(ctx context.Context) (time.Duration, error) {
	value, ok, err := p.kv.Get(ctx, keyNotifyTime)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultNotifyDelay, nil
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms <= 0 {
		return DefaultNotifyDelay, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// SetNotifyDelay stores the reminder delay as stringified milliseconds.
func (p *Prefs) SetNotifyDelay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("notify delay must be positive, got %v", d)
	}
	return p.kv.Set(ctx, keyNotifyTime, strconv.FormatInt(d.Milliseconds(), 10))
}

// PreferredVoice returns the saved voice index, or SystemVoice when none is
// selected.
func (p *Prefs) PreferredVoice(ctx context.Context) (int, error) {
	value, ok, err := p.kv.Get(ctx, keyVoice)
	if err != nil {
		return SystemVoice, err
	}
	if !ok {
		return SystemVoice, nil
	}
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 0 {
		return SystemVoice, nil
	}
	return idx, nil
}

// SetPreferredVoice stores the voice index. SystemVoice clears the selection.
func (p *Prefs) SetPreferredVoice(ctx context.Context, idx int) error {
	if idx < 0 {
		return p.kv.Delete(ctx, keyVoice)
	}
	return p.kv.Set(ctx, keyVoice, strconv.Itoa(idx))
}

// DarkMode returns the saved theme flag, defaulting to false.
func (p *Prefs) DarkMode(ctx context.Context) (bool, error) {
	value, ok, err := p.kv.Get(ctx, keyDarkMode)
	if err != nil {
		return false, err
	}
	return ok && value == "true", nil
}

// SetDarkMode stores the theme flag as "true"/"false".
func (p *Prefs) SetDarkMode(ctx context.Context, dark bool) error {
	return p.kv.Set(ctx, keyDarkMode, strconv.FormatBool(dark))
}

// WhatsAppNumber returns the saved reminder number, or "" when unset.
func (p *Prefs) WhatsAppNumber(ctx context.Context) (string, error) {
	value, _, err := p.kv.Get(ctx, keyWhatsApp)
	return value, err
}

// SetWhatsAppNumber validates and stores a number in international format.
// An empty string clears the slot.
func (p *Prefs) SetWhatsAppNumber(ctx context.Context, number string) error {
	if number == "" {
		return p.kv.Delete(ctx, keyWhatsApp)
	}
	if !whatsappNumberRe.MatchString(number) {
		return ErrInvalidPhoneNumber
	}
	return p.kv.Set(ctx, keyWhatsApp, number)
}
