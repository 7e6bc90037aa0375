package domain

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when a command needs a live navigation session and none exists.
var ErrNoSession = errors.New("navigation session not initialized")

// ErrUnknownEntity is returned when an overlay id is not present in a surface registry.
var ErrUnknownEntity = errors.New("unknown entity id")

// ErrDuplicateID is returned when an id is already registered.
var ErrDuplicateID = errors.New("id already registered")

// ErrNoWaypoints is returned when guidance is started without destinations.
var ErrNoWaypoints = errors.New("no waypoints set for guidance")

// ErrSurfaceNotFound is returned when a surface id is not registered.
var ErrSurfaceNotFound = errors.New("surface not found")

// ErrSurfaceNotAttached is returned for surface commands that need a session.
var ErrSurfaceNotAttached = errors.New("surface not attached to a session")

// ErrInvalidArgument is returned when a command argument cannot be decoded.
var ErrInvalidArgument = errors.New("invalid argument")

// InitError carries the code the engine reported when it refused to start.
type InitError struct {
	Code NavigationInitErrorCode
}

func (e *InitError) Error() string {
	return fmt.Sprintf("navigation init failed: %s (%d)", e.Code, int(e.Code))
}
