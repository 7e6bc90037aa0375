package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/navbridge/pkg/domain"
)

// Progress marks how far a run got along the route.
type Progress struct {
	// Reached counts the waypoints arrived at, in route order.
	Reached int
	// Completed is set when the last waypoint was left behind.
	Completed bool
}

// RouteMermaid renders the scenario's stops as a Mermaid flowchart:
// - Origin: ((Circle))
// - Stopover: [[Subroutine]]
// - Place id only: [/Parallelogram/]
// - Default: [Rectangle]
// Reached stops get the visited class and the next one the current class.
func RouteMermaid(sc domain.Scenario, progress *Progress) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	fmt.Fprintf(&sb, "    origin((\"%s\"))\n", formatPoint(sc.Origin))

	prev := "origin"
	for i, w := range sc.Waypoints {
		id := fmt.Sprintf("wp%d", i+1)

		opener, closer := "[", "]"
		switch {
		case w.VehicleStopover:
			opener, closer = "[[", "]]"
		case w.Position == nil && w.PlaceID != nil:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label(i, w), closer)

		arrow := "-->"
		if w.PreferredHeading != nil {
			arrow = fmt.Sprintf("-- \"%d°\" -->", *w.PreferredHeading)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", prev, arrow, id)
		prev = id
	}

	if progress != nil {
		sb.WriteString("\n    %% Progress\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		reached := min(progress.Reached, len(sc.Waypoints))
		sb.WriteString("    class origin visited;\n")
		for i := range reached {
			fmt.Fprintf(&sb, "    class wp%d visited;\n", i+1)
		}
		if !progress.Completed && reached < len(sc.Waypoints) {
			fmt.Fprintf(&sb, "    class wp%d current;\n", reached+1)
		}
	}
	return sb.String()
}

func label(i int, w domain.Waypoint) string {
	var name string
	switch {
	case w.Title != nil && *w.Title != "":
		name = *w.Title
	case w.PlaceID != nil:
		name = *w.PlaceID
	default:
		name = fmt.Sprintf("stop %d", i+1)
	}
	// Double quotes end a Mermaid label.
	name = strings.ReplaceAll(name, "\"", "'")
	if w.Position != nil {
		return name + " <br/> " + formatPoint(*w.Position)
	}
	return name
}

func formatPoint(p domain.LatLng) string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}
