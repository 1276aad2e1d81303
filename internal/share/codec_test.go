package share

import (
	"math"
	"net/url"
	"testing"
	"time"

	"parkhere/internal/domain/entities"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	spot := entities.NewParkingSpot(entities.NewPosition(1.3521, 103.8198), time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC))
	spot.LocationName = "Bugis Junction"

	link, err := Encode(spot, "https://parkhere.example.com", nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("encoded link does not parse: %v", err)
	}

	view := Decode(u.Query())
	if view == nil {
		t.Fatal("Decode returned nil for a freshly encoded link")
	}
	if view.Latitude != spot.Latitude || view.Longitude != spot.Longitude {
		t.Errorf("coordinates = (%v, %v), want (%v, %v)",
			view.Latitude, view.Longitude, spot.Latitude, spot.Longitude)
	}
	if !view.RecordedAt.Equal(spot.RecordedAt) {
		t.Errorf("RecordedAt = %v, want %v", view.RecordedAt, spot.RecordedAt)
	}
	if view.PhotoData != "" {
		t.Errorf("unexpected photo in link without one: %q", view.PhotoData)
	}
}

func TestEncodeWithPhoto(t *testing.T) {
	spot := entities.NewParkingSpot(entities.NewPosition(1.35, 103.82), time.Now().UTC())
	photo := &entities.Photo{Ref: "r1", Data: "data:image/png;base64,AAAA"}

	link, err := Encode(spot, "https://parkhere.example.com", photo)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	u, _ := url.Parse(link)
	view := Decode(u.Query())
	if view == nil || view.PhotoData != photo.Data {
		t.Errorf("photo did not round-trip: %+v", view)
	}
}

func TestEncodePreservesBaseQuery(t *testing.T) {
	spot := entities.NewParkingSpot(entities.NewPosition(1.35, 103.82), time.Now().UTC())

	link, err := Encode(spot, "https://parkhere.example.com/?src=qr", nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	u, _ := url.Parse(link)
	if u.Query().Get("src") != "qr" {
		t.Errorf("base URL query was dropped: %s", link)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		wantNil  bool
		wantTime bool
	}{
		{
			name:     "lat and lng only, unknown time",
			rawQuery: "lat=1.35&lng=103.82",
			wantNil:  false,
			wantTime: false,
		},
		{
			name:     "full link",
			rawQuery: "lat=1.35&lng=103.82&time=2025-06-01T08:30:00Z",
			wantNil:  false,
			wantTime: true,
		},
		{
			name:     "garbage time still decodes",
			rawQuery: "lat=1.35&lng=103.82&time=yesterday",
			wantNil:  false,
			wantTime: false,
		},
		{
			name:     "non-numeric latitude",
			rawQuery: "lat=abc&lng=103.82",
			wantNil:  true,
		},
		{
			name:     "missing longitude",
			rawQuery: "lat=1.35",
			wantNil:  true,
		},
		{
			name:     "missing both",
			rawQuery: "time=2025-06-01T08:30:00Z",
			wantNil:  true,
		},
		{
			name:     "latitude out of range",
			rawQuery: "lat=95&lng=103.82",
			wantNil:  true,
		},
		{
			name:     "longitude out of range",
			rawQuery: "lat=1.35&lng=185",
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.rawQuery)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}

			view := Decode(query)
			if tt.wantNil {
				if view != nil {
					t.Errorf("Decode(%q) = %+v, want nil", tt.rawQuery, view)
				}
				return
			}
			if view == nil {
				t.Fatalf("Decode(%q) = nil, want a view", tt.rawQuery)
			}
			if view.HasTime() != tt.wantTime {
				t.Errorf("HasTime() = %v, want %v", view.HasTime(), tt.wantTime)
			}
		})
	}
}

func TestDecodeCoordinatePrecision(t *testing.T) {
	spot := entities.NewParkingSpot(entities.NewPosition(1.3000001, 103.7999999), time.Now().UTC())

	link, _ := Encode(spot, "https://parkhere.example.com", nil)
	u, _ := url.Parse(link)
	view := Decode(u.Query())

	if view == nil {
		t.Fatal("Decode returned nil")
	}
	if math.Abs(view.Latitude-spot.Latitude) > 1e-9 || math.Abs(view.Longitude-spot.Longitude) > 1e-9 {
		t.Errorf("precision lost: (%v, %v) vs (%v, %v)",
			view.Latitude, view.Longitude, spot.Latitude, spot.Longitude)
	}
}
