// Package session implements the parking session state machine: the decision
// between owner and shared view at startup, the save/find/reset transitions,
// elapsed-time tracking, and the one-shot parking reminder.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"parkhere/internal/config"
	"parkhere/internal/domain/entities"
	"parkhere/internal/geo"
	"parkhere/internal/locate"
	"parkhere/internal/services"
	"parkhere/internal/share"
	"parkhere/internal/store"
)

// State is the session's position in its lifecycle. It starts Uninitialized
// and settles into exactly one of the other three on Start.
type State int

const (
	StateUninitialized State = iota
	StateOwnerIdle           // owner view, no spot saved
	StateOwnerActive         // owner view, a spot is saved
	StateSharedView          // read-only view of someone else's spot
)

func (s State) String() string {
	switch s {
	case StateOwnerIdle:
		return "owner_idle"
	case StateOwnerActive:
		return "owner_active"
	case StateSharedView:
		return "shared_view"
	default:
		return "uninitialized"
	}
}

var (
	// ErrNoSpot is returned by spot-dependent operations when no spot is saved.
	ErrNoSpot = errors.New("no parking spot saved")
	// ErrSharedView is returned when a mutating operation is attempted in the
	// read-only shared view.
	ErrSharedView = errors.New("session is a read-only shared view")
	// ErrSuperseded is returned when a find completed after a newer find,
	// save, or reset replaced the state it was issued against.
	ErrSuperseded = errors.New("find request superseded by a newer action")
	// ErrNoWhatsAppNumber is returned when a WhatsApp reminder is requested
	// before a number was configured.
	ErrNoWhatsAppNumber = errors.New("no WhatsApp number configured")
)

// Capabilities is the set of user actions available in the current state.
// It is a pure function of the state: everything spot-dependent is enabled
// exactly when a spot is active.
type Capabilities struct {
	Save       bool `json:"save"`
	Find       bool `json:"find"`
	Share      bool `json:"share"`
	Directions bool `json:"directions"`
	Nearby     bool `json:"nearby"`
	Reset      bool `json:"reset"`
	Photo      bool `json:"photo"`
}

func capabilitiesFor(state State) Capabilities {
	active := state == StateOwnerActive
	owner := active || state == StateOwnerIdle
	return Capabilities{
		Save:       owner,
		Find:       active,
		Share:      active,
		Directions: active,
		Nearby:     active,
		Reset:      active,
		Photo:      owner,
	}
}

// ReverseGeocoder labels a coordinate pair. Lookups are best-effort; failures
// fall back to a placeholder name and never fail a save.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Collaborators are the optional platform integrations. Any field may be nil;
// the controller checks before calling and degrades silently.
type Collaborators struct {
	Maps   services.MapRenderer
	Voice  services.Speaker
	Notify services.Notifier
	Sheet  services.ShareSheet
	Clip   services.Clipboard
}

// FindResult is the answer to "how far is my car": elapsed parked time and
// the distance from the caller's current position to the spot.
type FindResult struct {
	Spot           *entities.ParkingSpot `json:"spot"`
	Elapsed        time.Duration         `json:"-"`
	ElapsedClock   string                `json:"elapsed"`
	ElapsedSpoken  string                `json:"elapsed_spoken"`
	DistanceMeters float64               `json:"distance_meters"`
	DistanceText   string                `json:"distance_text"`
	Bearing        float64               `json:"bearing"`
	Compass        string                `json:"compass"`
}

// Controller owns one page session. All mutation goes through its mutex, the
// single serialization point standing in for the UI event loop; asynchronous
// completions (geolocation reads, the reminder timer) re-acquire it before
// touching state.
type Controller struct {
	mu    sync.Mutex
	cfg   *config.Config
	spots *store.SpotStore
	prefs *store.Prefs

	geocoder ReverseGeocoder
	collab   Collaborators

	state  State
	spot   *entities.ParkingSpot
	shared *entities.SharedSpotView

	// findSeq supersedes in-flight finds: each find takes the next number and
	// discards its result if the counter moved on before it completed.
	findSeq uint64

	ticker      *time.Ticker
	tickerDone  chan struct{}
	elapsedText string

	reminder      *time.Timer
	reminderArmed bool
	reminderFired bool
}

// NewController wires a session controller. The geocoder and any collaborator
// may be nil.
func NewController(cfg *config.Config, spots *store.SpotStore, prefs *store.Prefs, geocoder ReverseGeocoder, collab Collaborators) *Controller {
	return &Controller{
		cfg:      cfg,
		spots:    spots,
		prefs:    prefs,
		geocoder: geocoder,
		collab:   collab,
		state:    StateUninitialized,
	}
}

// Start decides the session mode from the incoming URL parameters. Share
// parameters that decode switch the session into the terminal SharedView
// state, which never touches the store. Otherwise the spot is restored from
// the store: OwnerActive when one exists, OwnerIdle when not (including when
// the stored record was corrupt and got discarded).
//
// Start is safe to call again on a re-render: the view is recomputed but the
// reminder is not re-armed.
func (c *Controller) Start(ctx context.Context, query url.Values) (State, error) {
	if view := share.Decode(query); view != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state = StateSharedView
		c.shared = view
		if c.collab.Maps != nil {
			c.collab.Maps.Render(view.Latitude, view.Longitude, c.cfg.Geo.MapZoom)
		}
		return c.state, nil
	}

	spot, err := c.spots.Load(ctx)
	if err != nil {
		return StateUninitialized, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if spot == nil {
		c.state = StateOwnerIdle
		c.spot = nil
		return c.state, nil
	}

	c.state = StateOwnerActive
	c.spot = spot
	if c.collab.Maps != nil {
		c.collab.Maps.Render(spot.Latitude, spot.Longitude, c.cfg.Geo.MapZoom)
	}
	c.startTickerLocked()
	if !c.reminderArmed {
		c.armReminderLocked(ctx, spot)
	}
	return c.state, nil
}

// Save reads the current position from the provider and persists it as the
// new spot, replacing any previous one. On a geolocation failure the session
// stays in its current state and the typed failure is returned. An invalid
// fix is rejected by the store and leaves the previous spot untouched.
func (c *Controller) Save(ctx context.Context, provider locate.Provider) (*entities.ParkingSpot, error) {
	c.mu.Lock()
	if c.state == StateSharedView {
		c.mu.Unlock()
		return nil, ErrSharedView
	}
	c.mu.Unlock()

	pos, err := locate.WithTimeout(provider, c.cfg.Locate.Timeout).Locate(ctx)
	if err != nil {
		return nil, err
	}

	spot := entities.NewParkingSpot(pos, time.Now().UTC())
	spot.LocationName = c.lookupName(ctx, pos)

	if err := c.spots.Save(ctx, spot); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.spot = spot
	c.state = StateOwnerActive
	c.findSeq++ // supersede any find still in flight against the old spot
	c.elapsedText = "Parked: " + geo.FormatClock(0)
	if c.collab.Maps != nil {
		c.collab.Maps.Render(spot.Latitude, spot.Longitude, c.cfg.Geo.MapZoom)
	}
	c.startTickerLocked()
	c.rearmReminderLocked(ctx, spot)

	return spot, nil
}

// Find recomputes the elapsed parked duration and, from a fresh position
// read, the distance back to the car. It never changes persisted state. Each
// call closes over its own spot snapshot and sequence number; a result that
// arrives after a newer find, save, or reset is discarded with ErrSuperseded.
func (c *Controller) Find(ctx context.Context, provider locate.Provider) (*FindResult, error) {
	c.mu.Lock()
	if c.state != StateOwnerActive || c.spot == nil {
		c.mu.Unlock()
		return nil, ErrNoSpot
	}
	spot := c.spot
	c.findSeq++
	seq := c.findSeq
	if c.collab.Maps != nil {
		c.collab.Maps.Render(spot.Latitude, spot.Longitude, c.cfg.Geo.MapZoom)
	}
	voice := c.voiceIndex(ctx)
	if c.collab.Voice != nil {
		c.collab.Voice.Speak(fmt.Sprintf("You parked at %s.", spot.RecordedAt.Format("3:04 PM")), voice, 0.9, 1.0)
	}
	c.mu.Unlock()

	pos, err := locate.WithTimeout(provider, c.cfg.Locate.Timeout).Locate(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.findSeq || c.spot != spot {
		return nil, ErrSuperseded
	}

	elapsed := time.Since(spot.RecordedAt)
	distance := geo.DistanceMeters(pos.Latitude, pos.Longitude, spot.Latitude, spot.Longitude)
	bearing := geo.InitialBearing(pos.Latitude, pos.Longitude, spot.Latitude, spot.Longitude)
	compass := geo.CompassPoint(bearing)

	if c.collab.Voice != nil {
		c.collab.Voice.Speak(fmt.Sprintf("Your car is %s away, to the %s.", geo.FormatDistance(distance), compass), voice, 0.8, 1.0)
	}

	return &FindResult{
		Spot:           spot,
		Elapsed:        elapsed,
		ElapsedClock:   geo.FormatClock(elapsed),
		ElapsedSpoken:  geo.FormatDurationSpoken(elapsed),
		DistanceMeters: distance,
		DistanceText:   geo.FormatDistance(distance),
		Bearing:        bearing,
		Compass:        compass,
	}, nil
}

// Reset clears the spot and its photo and returns the session to OwnerIdle,
// tearing down the elapsed ticker and any pending reminder. Resetting an
// already idle session is not an error.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateSharedView {
		c.mu.Unlock()
		return ErrSharedView
	}
	c.mu.Unlock()

	if err := c.spots.Clear(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.spot = nil
	c.state = StateOwnerIdle
	c.findSeq++
	c.elapsedText = ""
	c.stopTickerLocked()
	c.cancelReminderLocked()
	return nil
}

// ShareLink builds the shareable URL for the current spot. The photo is
// included only on request, to keep the link short.
func (c *Controller) ShareLink(ctx context.Context, includePhoto bool) (string, error) {
	spot, err := c.activeSpot()
	if err != nil {
		return "", err
	}

	var photo *entities.Photo
	if includePhoto {
		photo, err = c.spots.LoadPhoto(ctx)
		if err != nil {
			return "", err
		}
	}
	return share.Encode(spot, c.cfg.Share.BaseURL, photo)
}

// Share builds the link and hands it to the platform share sheet, falling
// back to the clipboard when no sheet is available. Returns the link and
// whether the sheet (as opposed to the clipboard) delivered it.
func (c *Controller) Share(ctx context.Context, includePhoto bool) (string, bool, error) {
	link, err := c.ShareLink(ctx, includePhoto)
	if err != nil {
		return "", false, err
	}
	shared, err := services.ShareOrCopy(c.collab.Sheet, c.collab.Clip,
		"My Parking Spot", "Here's where I parked!", link)
	if err != nil {
		return "", false, err
	}
	return link, shared, nil
}

// DirectionsURL builds a walking-directions link back to the spot.
func (c *Controller) DirectionsURL() (string, error) {
	spot, err := c.activeSpot()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%v,%v", spot.Latitude, spot.Longitude), nil
}

// MapsViewURL builds a plain map link to the spot.
func (c *Controller) MapsViewURL() (string, error) {
	spot, err := c.activeSpot()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", spot.Latitude, spot.Longitude), nil
}

// WhatsAppURL builds a wa.me link that sends the share link to the saved
// reminder number. The number must have been configured.
func (c *Controller) WhatsAppURL(ctx context.Context) (string, error) {
	spot, err := c.activeSpot()
	if err != nil {
		return "", err
	}

	number, err := c.prefs.WhatsAppNumber(ctx)
	if err != nil {
		return "", err
	}
	if number == "" {
		return "", ErrNoWhatsAppNumber
	}

	link, err := share.Encode(spot, c.cfg.Share.BaseURL, nil)
	if err != nil {
		return "", err
	}
	message := fmt.Sprintf("ParkHere: I parked at %s.\n\nTap to see location:\n%s",
		spot.RecordedAt.Format("3:04 PM"), link)
	return "https://wa.me/" + number[1:] + "?text=" + url.QueryEscape(message), nil
}

// Elapsed returns how long the car has been parked as of now.
func (c *Controller) Elapsed(now time.Time) (time.Duration, error) {
	spot, err := c.activeSpot()
	if err != nil {
		return 0, err
	}
	return now.Sub(spot.RecordedAt), nil
}

// ElapsedText returns the latest live-timer display text ("Parked: 0h 1m 5s"),
// empty when no spot is active.
func (c *Controller) ElapsedText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedText
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Spot returns the active spot, or ErrNoSpot / ErrSharedView.
func (c *Controller) Spot() (*entities.ParkingSpot, error) {
	return c.activeSpot()
}

// SharedView returns the decoded shared spot when the session is a shared
// view, nil otherwise.
func (c *Controller) SharedView() *entities.SharedSpotView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSharedView {
		return nil
	}
	return c.shared
}

// Capabilities derives the enabled user actions from the current state.
func (c *Controller) Capabilities() Capabilities {
	c.mu.Lock()
	defer c.mu.Unlock()
	return capabilitiesFor(c.state)
}

// Close tears the session down: the ticker and any pending reminder timer
// are stopped so nothing fires against a finished session.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTickerLocked()
	c.cancelReminderLocked()
}

func (c *Controller) activeSpot() (*entities.ParkingSpot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSharedView {
		return nil, ErrSharedView
	}
	if c.state != StateOwnerActive || c.spot == nil {
		return nil, ErrNoSpot
	}
	return c.spot, nil
}

// lookupName reverse-geocodes a label for the spot, falling back to the
// synthesized placeholder. Lookup failures never fail a save.
func (c *Controller) lookupName(ctx context.Context, pos entities.Position) string {
	if c.geocoder != nil {
		if name, err := c.geocoder.ReverseGeocode(ctx, pos.Latitude, pos.Longitude); err == nil && name != "" {
			return name
		}
	}
	return entities.PlaceholderName(pos.Latitude, pos.Longitude)
}

func (c *Controller) voiceIndex(ctx context.Context) int {
	voice, err := c.prefs.PreferredVoice(ctx)
	if err != nil {
		return store.SystemVoice
	}
	return voice
}

// startTickerLocked (re)starts the one-second elapsed display ticker.
// Callers must hold c.mu.
func (c *Controller) startTickerLocked() {
	c.stopTickerLocked()

	c.ticker = time.NewTicker(time.Second)
	c.tickerDone = make(chan struct{})

	ticker, done := c.ticker, c.tickerDone
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				c.mu.Lock()
				if c.state == StateOwnerActive && c.spot != nil {
					c.elapsedText = "Parked: " + geo.FormatClock(now.Sub(c.spot.RecordedAt))
				}
				c.mu.Unlock()
			}
		}
	}()
}

func (c *Controller) stopTickerLocked() {
	if c.tickerDone != nil {
		close(c.tickerDone)
		c.tickerDone = nil
		c.ticker = nil
	}
}

// armReminderLocked schedules the one-shot reminder relative to the time
// already spent parked. A spot restored after the delay has fully elapsed
// fires immediately, once. Callers must hold c.mu.
func (c *Controller) armReminderLocked(ctx context.Context, spot *entities.ParkingSpot) {
	delay, err := c.prefs.NotifyDelay(ctx)
	if err != nil {
		delay = c.cfg.Reminder.DefaultDelay
	}

	remaining := delay - time.Since(spot.RecordedAt)
	if remaining < 0 {
		remaining = 0
	}

	c.reminderArmed = true
	c.reminderFired = false
	c.reminder = time.AfterFunc(remaining, c.fireReminder)
}

// rearmReminderLocked replaces any pending reminder with one for a freshly
// saved spot.
func (c *Controller) rearmReminderLocked(ctx context.Context, spot *entities.ParkingSpot) {
	c.cancelReminderLocked()
	c.armReminderLocked(ctx, spot)
}

func (c *Controller) cancelReminderLocked() {
	if c.reminder != nil {
		c.reminder.Stop()
		c.reminder = nil
	}
	c.reminderArmed = false
	c.reminderFired = false
}

// fireReminder runs on the reminder timer's goroutine. It delivers at most
// one notification per armed reminder, and only while a spot is still active.
func (c *Controller) fireReminder() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reminderFired || c.state != StateOwnerActive {
		return
	}
	c.reminderFired = true

	if c.collab.Notify != nil {
		c.collab.Notify.Notify("Park Reminder", "You've been parked for a while!")
		return
	}
	log.Printf("[REMINDER] no notifier configured; reminder elapsed for spot at (%.5f, %.5f)",
		c.spot.Latitude, c.spot.Longitude)
}
