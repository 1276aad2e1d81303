// Package geo provides the distance, bearing, and formatting math used by the
// parking session. All functions are pure: great-circle distance on a
// spherical-earth approximation, plus the display formats for distance and
// elapsed-parked duration.
package geo

import (
	"fmt"
	"math"
	"time"
)

// EarthRadiusMeters is the mean earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// DistanceMeters computes the great-circle distance in meters between two
// coordinates using the haversine formula. Symmetric in its arguments and
// zero for identical points. Assumes a spherical earth; antipodal wraparound
// is not handled, which is fine at pedestrian scale.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// InitialBearing computes the forward azimuth in degrees [0, 360) from the
// first point toward the second.
func InitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(deltaLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) -
		math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLambda)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// compassPoints are the 8-wind names, each covering a 45° sector.
var compassPoints = []string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}

// CompassPoint converts a bearing in degrees to an 8-wind compass name
// ("north", "northeast", ...).
func CompassPoint(bearing float64) string {
	bearing = math.Mod(math.Mod(bearing, 360)+360, 360)
	idx := int(math.Round(bearing/45)) % len(compassPoints)
	return compassPoints[idx]
}

// FormatDistance renders a distance for display: kilometers with one decimal
// place at or above 1000 m, whole meters below.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	return fmt.Sprintf("%d m", int(math.Round(meters)))
}

// FormatClock renders an elapsed duration in the live-timer form "1h 30m 5s".
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// FormatDurationSpoken renders an elapsed duration the way it is spoken:
// "1 hour and 30 minutes", "45 minutes", "less than a minute".
func FormatDurationSpoken(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 || hours == 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if len(parts) == 2 {
		return parts[0] + " and " + parts[1]
	}
	return parts[0]
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
