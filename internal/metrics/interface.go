package metrics

import "codeberg.org/mutker/ecopass/internal/pass"

// Collector instruments a pass. It observes samples and the final report,
// and counts degraded telemetry reads.
type Collector interface {
	pass.Observer
	TelemetryFailure(metric string, err error)
	Close() error
}
