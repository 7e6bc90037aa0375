package memory

import (
	"math"

	"github.com/aretw0/navbridge/pkg/domain"
)

const earthRadiusMeters = 6371000.0

// distance is the great-circle distance in meters.
func distance(a, b domain.LatLng) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// toward moves from a to b by at most meters, returning the new point and
// whether b was reached.
func toward(a, b domain.LatLng, meters float64) (domain.LatLng, bool) {
	d := distance(a, b)
	if d <= meters || d == 0 {
		return b, true
	}
	f := meters / d
	return domain.LatLng{
		Lat: a.Lat + (b.Lat-a.Lat)*f,
		Lng: a.Lng + (b.Lng-a.Lng)*f,
	}, false
}

// bearing is the initial heading from a to b in degrees.
func bearing(a, b domain.LatLng) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// speed in meters per second for each travel mode.
func speed(mode domain.TravelMode) float64 {
	switch mode {
	case domain.TravelModeWalking:
		return 1.4
	case domain.TravelModeCycling:
		return 5
	case domain.TravelModeTwoWheeler:
		return 11
	default:
		return 13.9
	}
}
