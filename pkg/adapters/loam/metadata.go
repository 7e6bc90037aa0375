package loam

// ScenarioMetadata is the frontmatter of a scenario document. Keys use
// snake_case like the rest of the repository's YAML.
type ScenarioMetadata struct {
	ID              string             `json:"id" mapstructure:"id"`
	Title           string             `json:"title" mapstructure:"title"`
	Origin          *PointMetadata     `json:"origin" mapstructure:"origin"`
	Waypoints       []WaypointMetadata `json:"waypoints" mapstructure:"waypoints"`
	TravelMode      string             `json:"travel_mode" mapstructure:"travel_mode"`
	Avoid           []string           `json:"avoid" mapstructure:"avoid"`
	SpeedMultiplier float64            `json:"speed_multiplier" mapstructure:"speed_multiplier"`

	// General Metadata
	Metadata map[string]string `json:"metadata" mapstructure:"metadata"`
}

type PointMetadata struct {
	Lat float64 `json:"lat" mapstructure:"lat"`
	Lng float64 `json:"lng" mapstructure:"lng"`
}

type WaypointMetadata struct {
	Title    string         `json:"title" mapstructure:"title"`
	PlaceID  string         `json:"place_id" mapstructure:"place_id"`
	Position *PointMetadata `json:"position" mapstructure:"position"`
	Heading  *int64         `json:"heading" mapstructure:"heading"`
	Stopover bool           `json:"stopover" mapstructure:"stopover"`
	SameSide bool           `json:"same_side" mapstructure:"same_side"`
}
