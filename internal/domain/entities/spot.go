package entities

import (
	"fmt"
	"math"
	"time"
)

// Position is a WGS-84 coordinate pair in decimal degrees.
//
// Position is a small immutable value type, so it is passed and returned by
// value. The JSON field names match the persisted record layout ("lat"/"lng").
type Position struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewPosition creates a Position value from latitude and longitude.
func NewPosition(lat, lng float64) Position {
	return Position{
		Latitude:  lat,
		Longitude: lng,
	}
}

// Valid reports whether both coordinates are finite numbers inside the
// WGS-84 range (lat in [-90, 90], lng in [-180, 180]).
func (p Position) Valid() bool {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return false
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// ParkingSpot is the single persisted parking record. At most one spot is
// active at a time; saving a new one replaces the previous one wholesale.
// RecordedAt is set once at save time and never mutated afterwards.
type ParkingSpot struct {
	Latitude     float64   `json:"lat"`
	Longitude    float64   `json:"lng"`
	RecordedAt   time.Time `json:"time"`
	LocationName string    `json:"locationName,omitempty"`
}

// NewParkingSpot creates a ParkingSpot at the given position, recorded at the
// given instant. The location name starts empty; callers fill it in from
// reverse geocoding (or the placeholder) before saving.
func NewParkingSpot(pos Position, recordedAt time.Time) *ParkingSpot {
	return &ParkingSpot{
		Latitude:   pos.Latitude,
		Longitude:  pos.Longitude,
		RecordedAt: recordedAt,
	}
}

// Position returns the spot's coordinates as a Position value.
func (s *ParkingSpot) Position() Position {
	return Position{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Valid reports whether the spot's coordinates are finite and in range.
func (s *ParkingSpot) Valid() bool {
	return s.Position().Valid()
}

// PlaceholderName synthesizes a location label for a spot whose reverse
// geocoding lookup failed or returned nothing meaningful.
func PlaceholderName(lat, lng float64) string {
	return fmt.Sprintf("Parking Spot at %.5f, %.5f", lat, lng)
}

// SharedSpotView is a read-only projection of someone else's parking spot,
// reconstructed entirely from share-link query parameters. It lives only for
// the duration of the page view and is never written back to the store.
// A zero RecordedAt means the link carried no usable timestamp.
type SharedSpotView struct {
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	RecordedAt time.Time `json:"time,omitempty"`
	PhotoData  string    `json:"photo,omitempty"`
}

// HasTime reports whether the share link carried a parseable timestamp.
func (v *SharedSpotView) HasTime() bool {
	return !v.RecordedAt.IsZero()
}

// Photo is the locally stored image attached to a spot. Ref is an opaque
// handle; Data is the Data-URL payload. A photo is not part of location
// identity and a spot is valid without one.
type Photo struct {
	Ref  string `json:"ref"`
	Data string `json:"data"`
}

// NearbyPlace is a ranked point of interest near the parking spot. Produced
// fresh on every nearby-search request, never cached.
type NearbyPlace struct {
	Name           string  `json:"name"`
	Street         string  `json:"street,omitempty"`
	Latitude       float64 `json:"lat"`
	Longitude      float64 `json:"lng"`
	Category       string  `json:"category"`
	DistanceMeters float64 `json:"distance_meters"`
	DistanceText   string  `json:"distance_text"`
}
