package domain

// EventType names an outbound event.
type EventType string

// Navigation events, emitted by the multiplexer.
const (
	EventRemainingTimeOrDistanceChanged EventType = "onRemainingTimeOrDistanceChanged"
	EventRouteChanged                   EventType = "onRouteChanged"
	EventArrival                        EventType = "onArrival"
	EventTurnByTurn                     EventType = "onTurnByTurn"
	EventStartGuidance                  EventType = "onStartGuidance"
	EventReroutingRequestedByOffRoute   EventType = "onReroutingRequestedByOffRoute"
	EventNavigationReady                EventType = "onNavigationReady"
	EventNavigationInitError            EventType = "onNavigationInitError"
	EventLocationChanged                EventType = "onLocationChanged"
	EventRawLocationChanged             EventType = "onRawLocationChanged"
	EventTrafficUpdated                 EventType = "onTrafficUpdated"
	EventRouteStatusResult              EventType = "onRouteStatusResult"
	EventLogDebugInfo                   EventType = "logDebugInfo"
)

// Surface events, emitted by a view surface binding.
const (
	EventMapReady                EventType = "onMapReady"
	EventMapClick                EventType = "onMapClick"
	EventMarkerClick             EventType = "onMarkerClick"
	EventMarkerInfoWindowTapped  EventType = "onMarkerInfoWindowTapped"
	EventPolylineClick           EventType = "onPolylineClick"
	EventPolygonClick            EventType = "onPolygonClick"
	EventCircleClick             EventType = "onCircleClick"
	EventGroundOverlayClick      EventType = "onGroundOverlayClick"
	EventRecenterButtonClick     EventType = "onRecenterButtonClick"
	EventPromptVisibilityChanged EventType = "onPromptVisibilityChanged"
)
