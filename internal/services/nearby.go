package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"parkhere/internal/clients"
	"parkhere/internal/domain/entities"
	"parkhere/internal/geo"
)

// ErrNearbySearchFailed is returned when every category search failed and
// there is nothing to show.
var ErrNearbySearchFailed = errors.New("nearby search failed for all categories")

// PlaceSearcher is the external place-search collaborator.
type PlaceSearcher interface {
	Search(ctx context.Context, lat, lng float64, query string, limit int) ([]clients.Feature, error)
}

// Category is one searchable place category with its display label.
type Category struct {
	Query string
	Label string
}

// Categories is the fixed category list, searched in this order.
var Categories = []Category{
	{Query: "restaurant", Label: "Restaurants"},
	{Query: "cafe", Label: "Cafes"},
	{Query: "supermarket", Label: "Supermarkets"},
	{Query: "shopping_mall", Label: "Shopping Malls"},
	{Query: "park", Label: "Parks"},
	{Query: "parking", Label: "Carparks"},
	{Query: "fuel", Label: "Gas Stations"},
}

// CategoryResult is the ranked places for one category. Categories with zero
// matches are omitted from the result entirely.
type CategoryResult struct {
	Category string                `json:"category"`
	Label    string                `json:"label"`
	Places   []entities.NearbyPlace `json:"places"`
}

// Result is one nearby-search response. Failures maps a category to the
// reason its search failed; a failed category never hides the others.
type Result struct {
	Categories []CategoryResult  `json:"categories"`
	Failures   map[string]string `json:"failures,omitempty"`
}

// NearbyFinder ranks external search results by distance from the spot.
type NearbyFinder struct {
	searcher       PlaceSearcher
	searchLimit    int
	maxPerCategory int
}

// NewNearbyFinder creates a finder that fetches up to searchLimit raw results
// per category and keeps the nearest maxPerCategory of them.
func NewNearbyFinder(searcher PlaceSearcher, searchLimit, maxPerCategory int) *NearbyFinder {
	return &NearbyFinder{
		searcher:       searcher,
		searchLimit:    searchLimit,
		maxPerCategory: maxPerCategory,
	}
}

// FindNearby searches every category around the spot and returns the nearest
// matches per category, ascending by distance. Results are computed fresh on
// every call and never cached. ErrNearbySearchFailed is returned only when
// no category produced anything and at least one failed.
func (f *NearbyFinder) FindNearby(ctx context.Context, spot *entities.ParkingSpot) (*Result, error) {
	result := &Result{Failures: make(map[string]string)}

	for _, cat := range Categories {
		features, err := f.searcher.Search(ctx, spot.Latitude, spot.Longitude, cat.Query, f.searchLimit)
		if err != nil {
			result.Failures[cat.Query] = err.Error()
			continue
		}

		places := f.rank(spot, cat, features)
		if len(places) == 0 {
			continue
		}
		result.Categories = append(result.Categories, CategoryResult{
			Category: cat.Query,
			Label:    cat.Label,
			Places:   places,
		})
	}

	if len(result.Categories) == 0 && len(result.Failures) == len(Categories) {
		return result, ErrNearbySearchFailed
	}
	if len(result.Failures) == 0 {
		result.Failures = nil
	}
	return result, nil
}

// rank filters features to the category, computes each distance, sorts
// ascending, and truncates to the nearest maxPerCategory.
func (f *NearbyFinder) rank(spot *entities.ParkingSpot, cat Category, features []clients.Feature) []entities.NearbyPlace {
	places := make([]entities.NearbyPlace, 0, len(features))
	for _, feature := range features {
		if !matchesCategory(feature, cat.Query) {
			continue
		}
		name := feature.Properties.Name
		if name == "" {
			name = "Unknown"
		}
		dist := geo.DistanceMeters(spot.Latitude, spot.Longitude, feature.Latitude(), feature.Longitude())
		places = append(places, entities.NearbyPlace{
			Name:           name,
			Street:         feature.Properties.Street,
			Latitude:       feature.Latitude(),
			Longitude:      feature.Longitude(),
			Category:       cat.Query,
			DistanceMeters: dist,
			DistanceText:   geo.FormatDistance(dist),
		})
	}

	sort.Slice(places, func(i, j int) bool {
		return places[i].DistanceMeters < places[j].DistanceMeters
	})

	if len(places) > f.maxPerCategory {
		places = places[:f.maxPerCategory]
	}
	return places
}

// matchesCategory reports whether a raw search result actually belongs to the
// queried category: the term must appear in the place's name or its OSM tag
// value, case-insensitively.
func matchesCategory(feature clients.Feature, query string) bool {
	query = strings.ToLower(query)
	if strings.Contains(strings.ToLower(feature.Properties.Name), query) {
		return true
	}
	return strings.Contains(strings.ToLower(feature.Properties.OSMValue), query)
}
