package telemetry

import "context"

// Inspector reads raw host state. Implementations may fail; Reader turns
// every failure into a zero reading.
type Inspector interface {
	// LoadAverage returns a one-line status text holding the 1, 5 and 15
	// minute load averages, such as uptime's "load average: A, B, C" or the
	// contents of /proc/loadavg.
	LoadAverage(ctx context.Context) (string, error)

	// ProcessCount returns the number of processes currently on the host.
	ProcessCount(ctx context.Context) (int, error)
}

// FailureHook is told about every degraded read. metric is "load" or
// "processes".
type FailureHook func(metric string, err error)

const (
	MetricLoad      = "load"
	MetricProcesses = "processes"
)
