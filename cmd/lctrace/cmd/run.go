package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/go-drift/lifecycle/cmd/lctrace/internal/config"
	"github.com/go-drift/lifecycle/cmd/lctrace/internal/scenario"
	"github.com/go-drift/lifecycle/pkg/diagnostics"
	"github.com/go-drift/lifecycle/pkg/errors"
	"github.com/go-drift/lifecycle/pkg/lifecycle"
	"github.com/go-drift/lifecycle/pkg/messenger"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Replay a scenario and trace it",
		Long: `Build the tree a scenario declares, replay its steps in order and log
what happens.

Every event delivered to a node is logged at debug level. Cleanups and
disappearing messages are logged at info level, hook failures at error
level. A summary of delivered events and cleanups is printed at the end.

Usage:
  lctrace run checkout.yaml                 # Full trace
  lctrace --log-level info run panel.toml   # Steps and cleanups only
  lctrace --json run checkout.yaml          # JSON lines`,
		Usage: "lctrace run <scenario>",
		Run:   runScenario,
	})
}

func runScenario(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("scenario file is required\n\nUsage: lctrace run <scenario>")
	}

	res, err := config.Resolve(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger(stdout, logLevel, logFormat)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := diagnostics.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	restore := install(logger, metrics)
	defer restore()

	s := res.Scenario
	logger.Info().
		Str("scenario", s.Name).
		Int("nodes", len(s.Nodes)).
		Int("steps", len(s.Steps)).
		Msg("scenario loaded")

	tree, err := scenario.Build(s)
	if err != nil {
		return err
	}
	err = tree.Run(s.Steps, func(i int, st config.Step) {
		e := logger.Info().Int("step", i+1).Str("action", st.Action).Str("target", st.Target)
		if st.To != "" {
			e = e.Str("to", st.To)
		}
		e.Msg("step")
	})
	if err != nil {
		return err
	}

	return printSummary(reg)
}

// install routes relay activity to logger and metrics on a private
// messenger, returning a func that restores the process-wide defaults.
func install(logger zerolog.Logger, metrics *diagnostics.Metrics) func() {
	m := messenger.New()
	messenger.SetDefault(m)

	tracer := diagnostics.NewTracer(logger)
	tracer.Attach(m)
	lifecycle.SetObserver(diagnostics.Multi(tracer, metrics))
	errors.SetHandler(diagnostics.NewErrorLogger(logger))

	return func() {
		tracer.Detach()
		lifecycle.SetObserver(nil)
		errors.SetHandler(nil)
		messenger.SetDefault(nil)
	}
}

func printSummary(reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		name := strings.TrimSuffix(strings.TrimPrefix(mf.GetName(), "lifecycle_"), "_total")
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("  %-10s %-36s %d",
				name, strings.Join(labels, ","), int64(m.GetCounter().GetValue())))
		}
	}
	sort.Strings(lines)

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Summary:")
	if len(lines) == 0 {
		fmt.Fprintln(stdout, "  nothing delivered")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	return nil
}
