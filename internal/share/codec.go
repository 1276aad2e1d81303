// Package share encodes a parking spot into a shareable URL and decodes such
// a URL back into a read-only view. Encoding and decoding are deliberately
// asymmetric: encode works from trusted stored data, decode consumes
// untrusted URL input and must never fail on anything but missing or
// unparseable coordinates.
package share

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"parkhere/internal/domain/entities"
)

// Query parameter names carried by a share link.
const (
	paramLat   = "lat"
	paramLng   = "lng"
	paramTime  = "time"
	paramPhoto = "photo"
)

// Encode serializes the spot's coordinates and timestamp as query parameters
// on baseURL. The photo is optional; callers omit it to keep the link short.
func Encode(spot *entities.ParkingSpot, baseURL string, photo *entities.Photo) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing share base URL: %w", err)
	}

	q := u.Query()
	q.Set(paramLat, strconv.FormatFloat(spot.Latitude, 'f', -1, 64))
	q.Set(paramLng, strconv.FormatFloat(spot.Longitude, 'f', -1, 64))
	q.Set(paramTime, spot.RecordedAt.Format(time.RFC3339))
	if photo != nil && photo.Data != "" {
		q.Set(paramPhoto, photo.Data)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Decode builds a SharedSpotView from incoming query parameters. It returns
// nil unless both lat and lng are present and parse as finite, in-range
// numbers — that gate decides whether the session is a shared view at all.
// The timestamp parses best-effort: a missing or malformed time leaves the
// view with a zero RecordedAt ("unknown time") rather than failing the
// decode. The photo passes through opaquely.
func Decode(query url.Values) *entities.SharedSpotView {
	if !query.Has(paramLat) || !query.Has(paramLng) {
		return nil
	}

	lat, err := strconv.ParseFloat(query.Get(paramLat), 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(query.Get(paramLng), 64)
	if err != nil {
		return nil
	}
	if !entities.NewPosition(lat, lng).Valid() {
		return nil
	}

	view := &entities.SharedSpotView{
		Latitude:  lat,
		Longitude: lng,
		PhotoData: query.Get(paramPhoto),
	}
	if t, err := time.Parse(time.RFC3339, query.Get(paramTime)); err == nil {
		view.RecordedAt = t
	}
	return view
}
