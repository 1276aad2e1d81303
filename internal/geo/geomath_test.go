package geo

import (
	"math"
	"testing"
	"time"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		want      float64
		tolerance float64
	}{
		{
			name:      "short walk in Singapore",
			lat1:      1.3010,
			lon1:      103.8010,
			lat2:      1.3000,
			lon2:      103.8000,
			want:      157, // ~111m lat + ~111m lng legs, great-circle ≈ 157m
			tolerance: 2,
		},
		{
			name:      "one arcminute of latitude",
			lat1:      0,
			lon1:      0,
			lat2:      1.0 / 60,
			lon2:      0,
			want:      1853, // one nautical mile, near enough on a 6371 km sphere
			tolerance: 2,
		},
		{
			name:      "SF to NYC",
			lat1:      37.7749,
			lon1:      -122.4194,
			lat2:      40.7128,
			lon2:      -74.0060,
			want:      4129086,
			tolerance: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceMeters() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceMetersSymmetric(t *testing.T) {
	pairs := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{1.3000, 103.8000, 1.3010, 103.8010},
		{37.7749, -122.4194, 40.7128, -74.0060},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0, 0, 0, 179},
	}

	for _, p := range pairs {
		ab := DistanceMeters(p.lat1, p.lon1, p.lat2, p.lon2)
		ba := DistanceMeters(p.lat2, p.lon2, p.lat1, p.lon1)
		if ab == 0 {
			t.Fatalf("expected nonzero distance for %+v", p)
		}
		if math.Abs(ab-ba)/ab > 1e-6 {
			t.Errorf("asymmetric distance: %v vs %v for %+v", ab, ba, p)
		}
	}
}

func TestDistanceMetersZeroForSamePoint(t *testing.T) {
	if got := DistanceMeters(1.35, 103.82, 1.35, 103.82); got != 0 {
		t.Errorf("DistanceMeters(A, A) = %v, want 0", got)
	}
}

func TestFindScenarioDistance(t *testing.T) {
	// Spot at (1.3000, 103.8000), current position (1.3010, 103.8010):
	// a sub-kilometer result rendered as whole meters.
	got := DistanceMeters(1.3010, 103.8010, 1.3000, 103.8000)
	if got < 100 || got >= 1000 {
		t.Fatalf("distance = %v, want a sub-kilometer walk", got)
	}
	want := FormatDistance(got)
	if want != "157 m" {
		t.Errorf("FormatDistance(%v) = %q, want %q", got, want, "157 m")
	}
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		want      float64
		tolerance float64
	}{
		{name: "due north", lat1: 0, lon1: 0, lat2: 1, lon2: 0, want: 0, tolerance: 0.01},
		{name: "due east", lat1: 0, lon1: 0, lat2: 0, lon2: 1, want: 90, tolerance: 0.01},
		{name: "due south", lat1: 1, lon1: 0, lat2: 0, lon2: 0, want: 180, tolerance: 0.01},
		{name: "due west", lat1: 0, lon1: 1, lat2: 0, lon2: 0, want: 270, tolerance: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InitialBearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("InitialBearing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		bearing float64
		want    string
	}{
		{0, "north"},
		{44, "northeast"},
		{90, "east"},
		{135, "southeast"},
		{180, "south"},
		{225, "southwest"},
		{270, "west"},
		{315, "northwest"},
		{359, "north"},
		{-45, "northwest"},
	}

	for _, tt := range tests {
		if got := CompassPoint(tt.bearing); got != tt.want {
			t.Errorf("CompassPoint(%v) = %q, want %q", tt.bearing, got, tt.want)
		}
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{148.2, "148 m"},
		{999.4, "999 m"},
		{1000, "1.0 km"},
		{1500, "1.5 km"},
		{12345, "12.3 km"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.meters); got != tt.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", tt.meters, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m 0s"},
		{5 * time.Second, "0h 0m 5s"},
		{90 * time.Minute, "1h 30m 0s"},
		{3*time.Hour + 2*time.Minute + 1*time.Second, "3h 2m 1s"},
		{-time.Minute, "0h 0m 0s"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatDurationSpoken(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "less than a minute"},
		{time.Minute, "1 minute"},
		{45 * time.Minute, "45 minutes"},
		{90 * time.Minute, "1 hour and 30 minutes"},
		{time.Hour, "1 hour"},
		{2*time.Hour + time.Minute, "2 hours and 1 minute"},
	}

	for _, tt := range tests {
		if got := FormatDurationSpoken(tt.d); got != tt.want {
			t.Errorf("FormatDurationSpoken(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
