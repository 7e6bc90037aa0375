package navigation

import (
	"errors"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/ports"
	"github.com/aretw0/navbridge/pkg/session"
)

// SessionHooks connects session lifecycle to mux: a new session gets mux as
// its route listener and announces onNavigationReady; a failed start is
// reported as onNavigationInitError.
func SessionHooks(mux *events.Multiplexer) session.Hooks {
	return session.Hooks{
		OnCreated: func(nav ports.Navigator) {
			nav.AddRouteListener(mux)
			mux.NavigationReady()
		},
		OnInitError: func(err error) {
			var initErr *domain.InitError
			if errors.As(err, &initErr) {
				mux.NavigationInitError(initErr.Code)
				return
			}
			mux.DebugInfo("navigation init failed: " + err.Error())
		},
	}
}
