package runner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/navbridge/pkg/domain"
	"github.com/aretw0/navbridge/pkg/events"
)

// Report is the outcome of one scenario run.
type Report struct {
	Scenario       domain.Scenario
	Status         string
	Steps          int
	TraveledPoints int
	Arrivals       []string
	Completed      bool
	Events         []events.Event
}

// Counts tallies events by type.
func (r *Report) Counts() map[domain.EventType]int {
	counts := make(map[domain.EventType]int)
	for _, e := range r.Events {
		counts[e.Type]++
	}
	return counts
}

// Markdown renders the report for terminal display.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Scenario.Title)
	if r.Scenario.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Scenario.Description)
	}

	outcome := "stopped before the last destination"
	switch {
	case r.Status != domain.RouteStatusOK.String():
		outcome = "route rejected"
	case r.Completed:
		outcome = "completed"
	}
	fmt.Fprintf(&b, "- **Route status:** `%s`\n", r.Status)
	fmt.Fprintf(&b, "- **Outcome:** %s\n", outcome)
	fmt.Fprintf(&b, "- **Steps:** %d\n", r.Steps)
	fmt.Fprintf(&b, "- **Traveled points:** %d\n\n", r.TraveledPoints)

	if len(r.Arrivals) > 0 {
		b.WriteString("## Arrivals\n\n")
		for i, name := range r.Arrivals {
			if name == "" {
				name = "_untitled_"
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		}
		b.WriteString("\n")
	}

	counts := r.Counts()
	if len(counts) > 0 {
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, string(t))
		}
		slices.Sort(types)

		b.WriteString("## Events\n\n| Event | Count |\n| --- | ---: |\n")
		for _, t := range types {
			fmt.Fprintf(&b, "| `%s` | %d |\n", t, counts[domain.EventType(t)])
		}
	}
	return b.String()
}
