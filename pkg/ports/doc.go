/*
Package ports defines the native engine surface navbridge drives.

The embedded navigation engine and its rendering views are external
collaborators. These interfaces describe exactly what the bridge consumes from
them, so the core can run against the real engine or an in-memory one.

# Key Interfaces

  - SessionFactory: the privileged call that creates the navigation session.
  - Navigator: the live session (destinations, guidance, simulation, queries).
  - RouteListener, LocationListener: the two native listener protocols.
  - MapSurface, SurfaceListener: one rendering view and its interaction callbacks.
*/
package ports
