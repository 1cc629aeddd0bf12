package telemetry

import (
	"context"

	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/logger"
)

// Reader reads load averages and process counts through an Inspector.
// Reads are best effort: any failure yields 0 and never an error.
type Reader struct {
	inspector Inspector
	logger    logger.Logger
	onFailure FailureHook
}

type ReaderOption func(*Reader)

// WithLogger sets the logger used to report degraded reads at debug level.
func WithLogger(log logger.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = log
	}
}

// WithFailureHook registers a callback for degraded reads.
func WithFailureHook(hook FailureHook) ReaderOption {
	return func(r *Reader) {
		r.onFailure = hook
	}
}

func NewReader(inspector Inspector, opts ...ReaderOption) *Reader {
	r := &Reader{
		inspector: inspector,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ReadLoadAverages returns the 1 and 5 minute load averages, or 0, 0 when
// they cannot be read or parsed.
func (r *Reader) ReadLoadAverages(ctx context.Context) (load1, load5 float64) {
	line, err := r.inspector.LoadAverage(ctx)
	if err != nil {
		r.degrade(MetricLoad, err)
		return 0, 0
	}

	load1, load5, _, err = ParseLoadAverages(line)
	if err != nil {
		r.degrade(MetricLoad, err)
		return 0, 0
	}

	return load1, load5
}

// ReadProcessCount returns the number of processes on the host, or 0 when it
// cannot be read.
func (r *Reader) ReadProcessCount(ctx context.Context) int {
	count, err := r.inspector.ProcessCount(ctx)
	if err != nil {
		r.degrade(MetricProcesses, err)
		return 0
	}
	if count < 0 {
		r.degrade(MetricProcesses, errors.New().WithData(ErrParseFailed, count))
		return 0
	}

	return count
}

func (r *Reader) degrade(metric string, err error) {
	r.logger.Debug().
		Str("metric", metric).
		Str("error_code", string(errors.CodeOf(err))).
		Err(err).
		Msg("Telemetry read degraded to zero")

	if r.onFailure != nil {
		r.onFailure(metric, err)
	}
}
