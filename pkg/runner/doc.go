/*
Package runner drives a scripted scenario through a Bridge and reports what
happened.

It is the loop behind the simulate command: start the session, place the
device at the scenario origin, route through the waypoints, start guidance
and step the simulation until every destination is reached. Arrivals are
followed by continueToNextDestination, like a host app would do.

# Usage

	r := runner.New(bridge, runner.WithMaxSteps(5000))
	report, err := r.Run(ctx, scenario)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Markdown())

The engine's navigator must implement Stepper; the memory engine does.
*/
package runner
