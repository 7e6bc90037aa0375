/*
Package domain contains the native navigation model shared by every layer of navbridge.

It mirrors the objects the embedded engine hands out (coordinates, waypoints,
route segments, turn-by-turn snapshots, map overlays) together with the
enumerations, event names and errors the bridge reports. This package is kept
pure: no I/O, no engine calls, no boundary encoding.

# Key Entities

  - LatLng, Path, Waypoint, Location: positions and route stops.
  - RouteSegment, NavInfo, StepInfo, TimeAndDistance: route progress.
  - Marker, Polyline, Polygon, Circle, GroundOverlay: map entities owned by a surface.
  - EventType: the names of every outbound event.
*/
package domain
