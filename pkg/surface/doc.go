/*
Package surface binds native map views to the navigation session.

A Binding is created per rendering view. It forwards camera and styling
commands to the native surface, keeps one overlay registry per entity kind
keyed by the caller's id (or a generated uuid), and republishes the view's
interaction callbacks as events through a single-consumer tap.
*/
package surface
