// Package diagnostics observes the relay: a zerolog Tracer that logs every
// delivered event and cleanup, and prometheus Metrics that count them.
//
// Both implement lifecycle.Observer. Install them together with Multi:
//
//	tracer := diagnostics.NewTracer(logger)
//	metrics, err := diagnostics.NewMetrics(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//	lifecycle.SetObserver(diagnostics.Multi(tracer, metrics))
package diagnostics
