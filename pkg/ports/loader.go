package ports

import (
	"context"

	"github.com/aretw0/navbridge/pkg/domain"
)

// ScenarioLoader retrieves drive scenarios from storage, decoupling the
// simulate command from where scenarios live (Loam, memory).
type ScenarioLoader interface {
	// Load returns the scenario with the given id. Ids carry no extension.
	Load(ctx context.Context, id string) (domain.Scenario, error)

	// List returns the ids of every stored scenario.
	List(ctx context.Context) ([]string, error)
}
