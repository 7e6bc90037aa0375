package domain

// LatLng is a WGS84 coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// LatLngBounds is an axis-aligned box given by its corners.
type LatLngBounds struct {
	NorthEast LatLng `mapstructure:"northEast"`
	SouthWest LatLng `mapstructure:"southWest"`
}

// Center returns the midpoint of the box.
func (b LatLngBounds) Center() LatLng {
	return LatLng{
		Lat: (b.NorthEast.Lat + b.SouthWest.Lat) / 2,
		Lng: (b.NorthEast.Lng + b.SouthWest.Lng) / 2,
	}
}

// Path is an ordered polyline of coordinates.
type Path []LatLng

// Waypoint is a route destination given either by position or by place id.
type Waypoint struct {
	Title                *string `mapstructure:"title"`
	PlaceID              *string `mapstructure:"placeId"`
	Position             *LatLng `mapstructure:"position"`
	PreferredHeading     *int64  `mapstructure:"preferredHeading"`
	VehicleStopover      bool    `mapstructure:"vehicleStopover"`
	PreferSameSideOfRoad bool    `mapstructure:"preferSameSideOfRoad"`
}

// Location is a single position fix reported by the engine.
type Location struct {
	LatLng
	// Time is the fix time in milliseconds since the Unix epoch.
	Time             int64
	Speed            float64
	Provider         *string
	Bearing          *float64
	Accuracy         *float64
	Altitude         *float64
	VerticalAccuracy *float64
}

// CameraPosition describes the viewpoint of a map surface.
type CameraPosition struct {
	Target  LatLng  `mapstructure:"target"`
	Zoom    float64 `mapstructure:"zoom"`
	Tilt    float64 `mapstructure:"tilt"`
	Bearing float64 `mapstructure:"bearing"`
}

// Padding insets the map content, in pixels.
type Padding struct {
	Top    int64 `mapstructure:"top"`
	Left   int64 `mapstructure:"left"`
	Bottom int64 `mapstructure:"bottom"`
	Right  int64 `mapstructure:"right"`
}
