// Package navigation exposes the command surface of the shared navigation
// session: routing, guidance, simulation and progress queries. Commands take
// and return tagged values and report engine notifications through an
// events.Multiplexer.
package navigation
