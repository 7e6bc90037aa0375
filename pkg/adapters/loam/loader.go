package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/navbridge/pkg/domain"
)

var travelModes = map[string]domain.TravelMode{
	"":            domain.TravelModeDriving,
	"driving":     domain.TravelModeDriving,
	"cycling":     domain.TravelModeCycling,
	"walking":     domain.TravelModeWalking,
	"two_wheeler": domain.TravelModeTwoWheeler,
	"taxi":        domain.TravelModeTaxi,
}

// Loader adapts a Loam repository to ports.ScenarioLoader.
type Loader struct {
	Repo *loam.TypedRepository[ScenarioMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ScenarioMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithVersioning(false),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ScenarioMetadata](repo)), nil
}

// Load reads and validates one scenario. Loam resolves "downtown" to
// downtown.md (or .yaml, .json).
func (l *Loader) Load(ctx context.Context, id string) (domain.Scenario, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	rawID := doc.Data.ID
	if rawID == "" {
		rawID = doc.ID
	}
	return buildScenario(trimExtension(rawID), doc.Data, doc.Content)
}

func buildScenario(id string, meta ScenarioMetadata, content string) (domain.Scenario, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("scenario %s: %w: %s", id, domain.ErrInvalidArgument, fmt.Sprintf(format, args...))
	}

	if meta.Origin == nil {
		return domain.Scenario{}, invalid("origin is required")
	}
	if len(meta.Waypoints) == 0 {
		return domain.Scenario{}, invalid("at least one waypoint is required")
	}
	mode, ok := travelModes[strings.ToLower(meta.TravelMode)]
	if !ok {
		return domain.Scenario{}, invalid("unknown travel_mode %q", meta.TravelMode)
	}

	routing := domain.RoutingOptions{TravelMode: mode}
	for _, a := range meta.Avoid {
		switch a {
		case "tolls":
			routing.AvoidTolls = true
		case "ferries":
			routing.AvoidFerries = true
		case "highways":
			routing.AvoidHighways = true
		default:
			return domain.Scenario{}, invalid("cannot avoid %q", a)
		}
	}

	waypoints := make([]domain.Waypoint, 0, len(meta.Waypoints))
	for i, w := range meta.Waypoints {
		if w.Position == nil && w.PlaceID == "" {
			return domain.Scenario{}, invalid("waypoint %d needs a position or a place_id", i)
		}
		waypoints = append(waypoints, toWaypoint(w))
	}

	sc := domain.Scenario{
		ID:              id,
		Title:           meta.Title,
		Description:     strings.TrimSpace(content),
		Origin:          domain.LatLng{Lat: meta.Origin.Lat, Lng: meta.Origin.Lng},
		Waypoints:       waypoints,
		Routing:         routing,
		SpeedMultiplier: meta.SpeedMultiplier,
	}
	if sc.Title == "" {
		sc.Title = id
	}
	if sc.SpeedMultiplier <= 0 {
		sc.SpeedMultiplier = 1
	}
	return sc, nil
}

func toWaypoint(w WaypointMetadata) domain.Waypoint {
	out := domain.Waypoint{
		PreferredHeading:     w.Heading,
		VehicleStopover:      w.Stopover,
		PreferSameSideOfRoad: w.SameSide,
	}
	if w.Title != "" {
		title := w.Title
		out.Title = &title
	}
	if w.PlaceID != "" {
		placeID := w.PlaceID
		out.PlaceID = &placeID
	}
	if w.Position != nil {
		out.Position = &domain.LatLng{Lat: w.Position.Lat, Lng: w.Position.Lng}
	}
	return out
}

// List returns every scenario id, extensions stripped. Two documents
// resolving to the same id are an error.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	return ids, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
