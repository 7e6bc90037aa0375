/*
Package session owns the single navigation session of the process.

The Manager creates the engine session lazily through the injected factory,
keeps the set of view surfaces attached to it, and tears everything down on
dispose. Consumers can register one "ready" and one "disposed" callback at any
time: a callback registered after its event already happened is replayed
immediately, so registration order relative to engine readiness never matters.

All state changes are serialized by one mutex. Callbacks and hooks always run
after the mutex is released, so they may call back into the Manager.
*/
package session
