package domain

// OverlayKind names the families of map entities a surface can hold.
type OverlayKind string

const (
	OverlayMarker        OverlayKind = "marker"
	OverlayPolyline      OverlayKind = "polyline"
	OverlayPolygon       OverlayKind = "polygon"
	OverlayCircle        OverlayKind = "circle"
	OverlayGroundOverlay OverlayKind = "groundOverlay"
)

// OverlayKinds lists every kind in a stable order.
var OverlayKinds = []OverlayKind{
	OverlayMarker,
	OverlayPolyline,
	OverlayPolygon,
	OverlayCircle,
	OverlayGroundOverlay,
}

// Marker is a pin placed on the map.
// ID is the bridge-level id; NativeID is assigned by the rendering surface.
type Marker struct {
	ID        string   `mapstructure:"id"`
	NativeID  string   `mapstructure:"-"`
	Position  LatLng   `mapstructure:"position"`
	Title     *string  `mapstructure:"title"`
	Snippet   *string  `mapstructure:"snippet"`
	Rotation  float64  `mapstructure:"rotation"`
	Alpha     float64  `mapstructure:"alpha"`
	Flat      bool     `mapstructure:"flat"`
	Draggable bool     `mapstructure:"draggable"`
	Visible   bool     `mapstructure:"visible"`
	ZIndex    *float64 `mapstructure:"zIndex"`
}

type Polyline struct {
	ID        string   `mapstructure:"id"`
	NativeID  string   `mapstructure:"-"`
	Points    Path     `mapstructure:"points"`
	Width     float64  `mapstructure:"width"`
	Color     *string  `mapstructure:"color"`
	Clickable bool     `mapstructure:"clickable"`
	Geodesic  bool     `mapstructure:"geodesic"`
	Visible   bool     `mapstructure:"visible"`
	ZIndex    *float64 `mapstructure:"zIndex"`
}

type Polygon struct {
	ID          string   `mapstructure:"id"`
	NativeID    string   `mapstructure:"-"`
	Points      Path     `mapstructure:"points"`
	Holes       []Path   `mapstructure:"holes"`
	FillColor   *string  `mapstructure:"fillColor"`
	StrokeColor *string  `mapstructure:"strokeColor"`
	StrokeWidth float64  `mapstructure:"strokeWidth"`
	Clickable   bool     `mapstructure:"clickable"`
	Geodesic    bool     `mapstructure:"geodesic"`
	Visible     bool     `mapstructure:"visible"`
	ZIndex      *float64 `mapstructure:"zIndex"`
}

type Circle struct {
	ID          string   `mapstructure:"id"`
	NativeID    string   `mapstructure:"-"`
	Center      LatLng   `mapstructure:"center"`
	Radius      float64  `mapstructure:"radius"`
	StrokeWidth float64  `mapstructure:"strokeWidth"`
	StrokeColor *string  `mapstructure:"strokeColor"`
	FillColor   *string  `mapstructure:"fillColor"`
	Clickable   bool     `mapstructure:"clickable"`
	Visible     bool     `mapstructure:"visible"`
	ZIndex      *float64 `mapstructure:"zIndex"`
}

// GroundOverlay is an image pinned to the ground, placed either by
// position and size or by bounds.
type GroundOverlay struct {
	ID           string        `mapstructure:"id"`
	NativeID     string        `mapstructure:"-"`
	Position     LatLng        `mapstructure:"position"`
	Bounds       *LatLngBounds `mapstructure:"bounds"`
	Width        float64       `mapstructure:"width"`
	Height       float64       `mapstructure:"height"`
	Bearing      float64       `mapstructure:"bearing"`
	Transparency float64       `mapstructure:"transparency"`
	Clickable    bool          `mapstructure:"clickable"`
	Visible      bool          `mapstructure:"visible"`
	ZIndex       *float64      `mapstructure:"zIndex"`
	Image        *string       `mapstructure:"image"`
}
