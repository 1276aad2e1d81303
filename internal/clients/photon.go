// Package clients holds the outbound HTTP clients for the external geocoding
// collaborators: Photon for place search and Nominatim for reverse geocoding.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Feature is one place in a Photon (GeoJSON) search response. Coordinates
// are [longitude, latitude], per GeoJSON.
type Feature struct {
	Properties struct {
		Name     string `json:"name"`
		Street   string `json:"street"`
		City     string `json:"city"`
		OSMKey   string `json:"osm_key"`
		OSMValue string `json:"osm_value"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// Latitude returns the feature's latitude, or NaN-free zero when the
// geometry is malformed.
func (f Feature) Latitude() float64 {
	if len(f.Geometry.Coordinates) < 2 {
		return 0
	}
	return f.Geometry.Coordinates[1]
}

// Longitude returns the feature's longitude.
func (f Feature) Longitude() float64 {
	if len(f.Geometry.Coordinates) < 1 {
		return 0
	}
	return f.Geometry.Coordinates[0]
}

// Photon is a client for the Photon place-search API
// (https://photon.komoot.io).
type Photon struct {
	baseURL    string
	httpClient *http.Client
}

// NewPhoton creates a Photon client against the given base URL.
func NewPhoton(baseURL string, timeout time.Duration) *Photon {
	return &Photon{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search queries places matching query, biased around (lat, lng), returning
// at most limit features.
func (c *Photon) Search(ctx context.Context, lat, lng float64, query string, limit int) ([]Feature, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building place search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling place search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place search returned status %d", resp.StatusCode)
	}

	var result struct {
		Features []Feature `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing place search response: %w", err)
	}
	return result.Features, nil
}
