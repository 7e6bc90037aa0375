/*
Package navbridge bridges a host scripting layer to a stateful native
navigation engine.

The engine owns one live navigation session and any number of map surfaces.
The bridge keeps that session single and shared, republishes the engine's
callbacks as named events with boundary-safe payloads, and translates native
objects (waypoints, routes, locations, map overlays) to and from a generic
tree of scalars, sequences and ordered mappings.

# Architecture

The module is laid out hexagonally. The core packages know nothing about a
particular engine:

  - pkg/value: the tagged value tree that crosses the boundary.
  - pkg/translate: native objects to values and back.
  - pkg/events: the single-consumer event tap and the navigation multiplexer.
  - pkg/session: the session lifecycle and readiness callbacks.
  - pkg/surface: per-view overlay registries, camera and styling commands.
  - pkg/navigation: routing, guidance and simulation commands.

Engines plug in through pkg/ports. pkg/adapters/memory ships an in-process
engine used by the tests and the CLI; pkg/adapters/http, pkg/adapters/mcp
and pkg/adapters/redis expose a Bridge to remote hosts.

# Usage

	engine := memory.NewEngine()
	bridge := navbridge.New(engine,
		navbridge.WithConsumer(events.ConsumerFunc(func(e events.Event) {
			log.Printf("%s %s", e.Type, e.Payload)
		})),
	)
	defer bridge.Close(context.Background())

	nav := bridge.Navigation()
	if err := nav.Init(ctx); err != nil {
		log.Fatal(err)
	}
	status, err := nav.SetDestinations(ctx, waypoints, value.Null(), value.Null())

Commands take and return value.Value. Use pkg/hostvalue to convert between
values and plain Go containers or JSON.
*/
package navbridge
