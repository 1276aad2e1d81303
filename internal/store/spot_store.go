package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"parkhere/internal/domain/entities"
)

// Storage slot keys. The layout matches the original device-local store.
const (
	keySpot       = "parkingSpot"
	keyPhoto      = "parkingPhoto"
	keyNotifyTime = "notifyTime"
	keyVoice      = "preferredVoice"
	keyDarkMode   = "darkMode"
	keyWhatsApp   = "whatsappNumber"
)

// ErrInvalidLocation is returned when a save is attempted with missing, NaN,
// or out-of-range coordinates. The previously stored spot, if any, is left
// untouched.
var ErrInvalidLocation = fmt.Errorf("invalid location: coordinates must be finite and in range")

// SpotStore owns the single persisted parking spot and its photo slot.
// The spot slot and the photo slot are written independently: a photo may be
// attached before or after the spot is saved, and a spot without a photo is
// valid.
type SpotStore struct {
	kv *KV
}

// NewSpotStore creates a SpotStore over the given key-value store.
func NewSpotStore(kv *KV) *SpotStore {
	return &SpotStore{kv: kv}
}

// Save validates and persists the spot, atomically replacing any previous
// one. An invalid spot is rejected with ErrInvalidLocation before anything
// is written.
func (s *SpotStore) Save(ctx context.Context, spot *entities.ParkingSpot) error {
	if spot == nil || !spot.Valid() {
		return ErrInvalidLocation
	}

	payload, err := json.Marshal(spot)
	if err != nil {
		return fmt.Errorf("encoding parking spot: %w", err)
	}
	return s.kv.Set(ctx, keySpot, string(payload))
}

// Load returns the stored spot, or nil if none was ever saved. A record that
// fails to deserialize is treated as corrupt: the slot is cleared so the
// failure doesn't repeat, and nil is returned.
func (s *SpotStore) Load(ctx context.Context) (*entities.ParkingSpot, error) {
	payload, ok, err := s.kv.Get(ctx, keySpot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var spot entities.ParkingSpot
	if err := json.Unmarshal([]byte(payload), &spot); err != nil || !spot.Valid() {
		log.Printf("[STORE] discarding corrupt parking spot record: %v", err)
		if clearErr := s.kv.Delete(ctx, keySpot); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}
	return &spot, nil
}

// Clear removes the spot and its photo. Idempotent.
func (s *SpotStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keySpot); err != nil {
		return err
	}
	return s.kv.Delete(ctx, keyPhoto)
}

// SavePhoto stores a photo payload (a Data URL) in the photo slot and returns
// the opaque handle naming it. Saving a photo never touches the spot slot.
func (s *SpotStore) SavePhoto(ctx context.Context, data string) (*entities.Photo, error) {
	photo := &entities.Photo{
		Ref:  uuid.New().String(),
		Data: data,
	}
	payload, err := json.Marshal(photo)
	if err != nil {
		return nil, fmt.Errorf("encoding photo record: %w", err)
	}
	if err := s.kv.Set(ctx, keyPhoto, string(payload)); err != nil {
		return nil, err
	}
	return photo, nil
}

// LoadPhoto returns the stored photo, or nil if none is attached. A corrupt
// photo record is cleared and treated as absent, same as the spot slot.
func (s *SpotStore) LoadPhoto(ctx context.Context) (*entities.Photo, error) {
	payload, ok, err := s.kv.Get(ctx, keyPhoto)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var photo entities.Photo
	if err := json.Unmarshal([]byte(payload), &photo); err != nil {
		log.Printf("[STORE] discarding corrupt photo record: %v", err)
		if clearErr := s.kv.Delete(ctx, keyPhoto); clearErr != nil {
			return nil, clearErr
		}
		return nil, nil
	}
	return &photo, nil
}
