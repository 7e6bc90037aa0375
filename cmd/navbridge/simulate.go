package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/navbridge"
	"github.com/aretw0/navbridge/internal/presentation/graph"
	"github.com/aretw0/navbridge/internal/presentation/tui"
	loamAdapter "github.com/aretw0/navbridge/pkg/adapters/loam"
	"github.com/aretw0/navbridge/pkg/adapters/memory"
	"github.com/aretw0/navbridge/pkg/events"
	"github.com/aretw0/navbridge/pkg/runner"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario]",
	Short: "Play a scenario against the in-memory engine",
	Long: `Loads a scenario from the scenario directory (Markdown or JSON with
frontmatter), drives the simulated device along its route and prints a report.
Without arguments it lists the available scenarios.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Scenarios
		if cmd.Flags().Changed("dir") {
			dir, _ = cmd.Flags().GetString("dir")
		}
		loader, err := loamAdapter.Open(dir)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			ids, err := loader.List(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintf(out, "no scenarios in %s\n", dir)
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		}

		sc, err := loader.Load(ctx, args[0])
		if err != nil {
			return err
		}
		sc.SpeedMultiplier *= cfg.Sim.SpeedMultiplier

		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		interval, _ := cmd.Flags().GetDuration("interval")
		opts := []runner.Option{
			runner.WithLogger(logger.With("component", "runner")),
			runner.WithMaxSteps(maxSteps),
			runner.WithInterval(interval),
		}
		if follow, _ := cmd.Flags().GetBool("follow"); follow {
			opts = append(opts, runner.WithObserver(events.ConsumerFunc(func(e events.Event) {
				fmt.Fprintf(cmd.ErrOrStderr(), "%-36s %s\n", e.Type, e.Payload)
			})))
		}

		bridge := navbridge.New(memory.NewEngine(), navbridge.WithLogger(logger))
		defer bridge.Close(context.Background())

		report, runErr := runner.New(bridge, opts...).Run(ctx, sc)
		if report == nil {
			return runErr
		}

		md := report.Markdown()
		if withGraph, _ := cmd.Flags().GetBool("graph"); withGraph {
			var b strings.Builder
			b.WriteString(md)
			b.WriteString("\n## Route\n\n```mermaid\n")
			b.WriteString(graph.RouteMermaid(sc, &graph.Progress{Reached: len(report.Arrivals), Completed: report.Completed}))
			b.WriteString("```\n")
			md = b.String()
		}

		render := tui.NewRenderer(os.Stdout)
		rendered, err := render(md)
		if err != nil {
			rendered = md
		}
		fmt.Fprint(out, rendered)

		if runErr != nil {
			return runErr
		}
		if !report.Completed {
			return fmt.Errorf("scenario %s did not complete", sc.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().String("dir", "scenarios", "Directory containing scenarios (overrides the configured one)")
	simulateCmd.Flags().Int("max-steps", runner.DefaultMaxSteps, "Give up after this many simulation steps")
	simulateCmd.Flags().Duration("interval", 0, "Pause between simulation steps")
	simulateCmd.Flags().Bool("graph", false, "Append a Mermaid diagram of the route")
	simulateCmd.Flags().BoolP("follow", "f", false, "Print every navigation event to stderr")
}
