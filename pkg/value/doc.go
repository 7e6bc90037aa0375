// Package value defines the tagged value that crosses the host boundary.
//
// A Value is one of null, bool, int64, double, string, an ordered sequence
// of values or an ordered mapping from string to value. Every outbound event
// payload and query result is built as a Value before being converted to the
// host's own containers.
package value
