/*
Package observability provides Prometheus instrumentation for navbridge.

Metrics cover the session lifecycle, event delivery (emitted and dropped per
event type) and the overlays held by each kind of map entity. A nil *Metrics
is valid and records nothing, so components can take it as an optional
dependency.
*/
package observability
