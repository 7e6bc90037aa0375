package domain

// RoadStretch is a rendered traffic span along a route segment.
type RoadStretch struct {
	Style        TrafficStyle
	LengthMeters int64
	OffsetMeters int64
}

// TrafficData is the traffic overlay of a route segment.
type TrafficData struct {
	Status    TrafficStatus
	Stretches []RoadStretch
}

// RouteSegment is one leg of the active route, ending at a destination.
type RouteSegment struct {
	Destination         LatLng
	DestinationWaypoint *Waypoint
	Points              Path
	Traffic             *TrafficData
}

// StepInfo describes a single maneuver of the route.
type StepInfo struct {
	DistanceFromPrevStepMeters int64
	TimeFromPrevStepSeconds    int64
	DrivingSide                DrivingSide
	StepNumber                 int64
	Maneuver                   int64
	RoundaboutTurnNumber       *int64
	ExitNumber                 *string
	FullRoadName               *string
	FullInstructionText        *string
}

// NavInfo is the turn-by-turn snapshot delivered while guidance runs.
type NavInfo struct {
	State                            NavState
	RouteChanged                     bool
	DistanceToCurrentStepMeters      *int64
	DistanceToFinalDestinationMeters *int64
	DistanceToNextDestinationMeters  *int64
	TimeToCurrentStepSeconds         *int64
	TimeToFinalDestinationSeconds    *int64
	TimeToNextDestinationSeconds     *int64
	CurrentStep                      *StepInfo
	RemainingSteps                   []StepInfo
}

// TimeAndDistance is the remaining effort to the next destination.
type TimeAndDistance struct {
	Meters        int64
	Seconds       int64
	DelaySeverity DelaySeverity
}

// RoutingOptions tune route computation.
type RoutingOptions struct {
	TravelMode        TravelMode `mapstructure:"travelMode"`
	AvoidTolls        bool       `mapstructure:"avoidTolls"`
	AvoidFerries      bool       `mapstructure:"avoidFerries"`
	AvoidHighways     bool       `mapstructure:"avoidHighways"`
	LocationTimeoutMs int64      `mapstructure:"locationTimeoutMs"`
}

// DisplayOptions control what the engine draws for the route.
type DisplayOptions struct {
	ShowDestinationMarkers bool `mapstructure:"showDestinationMarkers"`
	ShowStopSigns          bool `mapstructure:"showStopSigns"`
	ShowTrafficLights      bool `mapstructure:"showTrafficLights"`
}

// SpeedAlertOptions configure the speeding thresholds.
type SpeedAlertOptions struct {
	MinorSpeedAlertPercentThreshold float64 `mapstructure:"minorSpeedAlertPercentThreshold"`
	MajorSpeedAlertPercentThreshold float64 `mapstructure:"majorSpeedAlertPercentThreshold"`
	SeverityUpgradeDurationSeconds  float64 `mapstructure:"severityUpgradeDurationSeconds"`
}
