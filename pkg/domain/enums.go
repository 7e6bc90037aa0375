package domain

// RouteStatus is the outcome of a route computation.
type RouteStatus int

const (
	RouteStatusOK RouteStatus = iota
	RouteStatusNoRouteFound
	RouteStatusNetworkError
	RouteStatusQuotaCheckFailed
	RouteStatusRouteCanceled
	RouteStatusLocationDisabled
	RouteStatusLocationUnknown
	RouteStatusWaypointError
	RouteStatusInvalidPlaceID
	RouteStatusUnknown
)

var routeStatusNames = [...]string{
	RouteStatusOK:               "OK",
	RouteStatusNoRouteFound:     "NO_ROUTE_FOUND",
	RouteStatusNetworkError:     "NETWORK_ERROR",
	RouteStatusQuotaCheckFailed: "QUOTA_CHECK_FAILED",
	RouteStatusRouteCanceled:    "ROUTE_CANCELED",
	RouteStatusLocationDisabled: "LOCATION_DISABLED",
	RouteStatusLocationUnknown:  "LOCATION_UNKNOWN",
	RouteStatusWaypointError:    "WAYPOINT_ERROR",
	RouteStatusInvalidPlaceID:   "INVALID_PLACE_ID",
	RouteStatusUnknown:          "UNKNOWN",
}

func (s RouteStatus) String() string {
	if s < 0 || int(s) >= len(routeStatusNames) {
		return routeStatusNames[RouteStatusUnknown]
	}
	return routeStatusNames[s]
}

// NavigationInitErrorCode is reported when the engine refuses to start.
type NavigationInitErrorCode int

const (
	InitErrorNotAuthorized NavigationInitErrorCode = iota + 1
	InitErrorTermsNotAccepted
	InitErrorNetworkError
	InitErrorLocationPermissionMissing
)

func (c NavigationInitErrorCode) String() string {
	switch c {
	case InitErrorNotAuthorized:
		return "NOT_AUTHORIZED"
	case InitErrorTermsNotAccepted:
		return "TERMS_NOT_ACCEPTED"
	case InitErrorNetworkError:
		return "NETWORK_ERROR"
	case InitErrorLocationPermissionMissing:
		return "LOCATION_PERMISSION_MISSING"
	}
	return "UNKNOWN"
}

type NavState int

const (
	NavStateUnknown NavState = iota
	NavStateEnroute
	NavStateRerouting
	NavStateStopped
)

type DrivingSide int

const (
	DrivingSideNone DrivingSide = iota
	DrivingSideLeft
	DrivingSideRight
)

type AudioGuidance int

const (
	AudioGuidanceSilent AudioGuidance = iota
	AudioGuidanceAlertsOnly
	AudioGuidanceAlertsAndGuidance
)

type TravelMode int

const (
	TravelModeDriving TravelMode = iota
	TravelModeCycling
	TravelModeWalking
	TravelModeTwoWheeler
	TravelModeTaxi
)

type DelaySeverity int

const (
	DelaySeverityLight DelaySeverity = iota
	DelaySeverityMedium
	DelaySeverityHeavy
	DelaySeverityNoData
)

type TrafficStatus int

const (
	TrafficStatusOK TrafficStatus = iota
	TrafficStatusUnavailable
)

type TrafficStyle int

const (
	TrafficStyleUnknown TrafficStyle = iota
	TrafficStyleSlowerTraffic
	TrafficStyleTrafficJam
)

type MapType int

const (
	MapTypeNone MapType = iota
	MapTypeNormal
	MapTypeSatellite
	MapTypeTerrain
	MapTypeHybrid
)

// CameraPerspective selects how the camera follows the device location.
type CameraPerspective int

const (
	PerspectiveTilted CameraPerspective = iota
	PerspectiveTopDownHeadingUp
	PerspectiveTopDownNorthUp
)

// Toggle names a boolean UI or styling switch of a map surface.
type Toggle string

const (
	ToggleTraffic             Toggle = "trafficEnabled"
	ToggleCompass             Toggle = "compassEnabled"
	ToggleMyLocation          Toggle = "myLocationEnabled"
	ToggleMyLocationButton    Toggle = "myLocationButtonEnabled"
	ToggleIndoor              Toggle = "indoorEnabled"
	ToggleBuildings           Toggle = "buildingsEnabled"
	ToggleZoomControls        Toggle = "zoomControlsEnabled"
	ToggleZoomGestures        Toggle = "zoomGesturesEnabled"
	ToggleScrollGestures      Toggle = "scrollGesturesEnabled"
	ToggleTiltGestures        Toggle = "tiltGesturesEnabled"
	ToggleRotateGestures      Toggle = "rotateGesturesEnabled"
	ToggleMapToolbar          Toggle = "mapToolbarEnabled"
	ToggleNavigationUI        Toggle = "navigationUIEnabled"
	ToggleHeader              Toggle = "headerEnabled"
	ToggleFooter              Toggle = "footerEnabled"
	ToggleSpeedometer         Toggle = "speedometerEnabled"
	ToggleSpeedLimitIcon      Toggle = "speedLimitIconEnabled"
	ToggleRecenterButton      Toggle = "recenterButtonEnabled"
	ToggleTripProgressBar     Toggle = "tripProgressBarEnabled"
	ToggleTrafficIncidentCard Toggle = "trafficIncidentCardsEnabled"
	ToggleNightMode           Toggle = "nightModeEnabled"
)

var toggles = map[Toggle]struct{}{
	ToggleTraffic: {}, ToggleCompass: {}, ToggleMyLocation: {}, ToggleMyLocationButton: {},
	ToggleIndoor: {}, ToggleBuildings: {}, ToggleZoomControls: {}, ToggleZoomGestures: {},
	ToggleScrollGestures: {}, ToggleTiltGestures: {}, ToggleRotateGestures: {}, ToggleMapToolbar: {},
	ToggleNavigationUI: {}, ToggleHeader: {}, ToggleFooter: {}, ToggleSpeedometer: {},
	ToggleSpeedLimitIcon: {}, ToggleRecenterButton: {}, ToggleTripProgressBar: {},
	ToggleTrafficIncidentCard: {}, ToggleNightMode: {},
}

// ParseToggle validates a toggle name.
func ParseToggle(name string) (Toggle, bool) {
	t := Toggle(name)
	_, ok := toggles[t]
	return t, ok
}
