package pass

import (
	"context"
	"time"

	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/logger"
	"codeberg.org/mutker/ecopass/internal/power"
	"codeberg.org/mutker/ecopass/internal/telemetry"
)

// ISO-8601 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// TelemetryReader is the best-effort host reader a pass samples from.
// Implementations return 0 instead of failing.
type TelemetryReader interface {
	ReadLoadAverages(ctx context.Context) (load1, load5 float64)
	ReadProcessCount(ctx context.Context) int
}

// Observer is notified of every sample and of the final report.
type Observer interface {
	ObserveSample(sample Sample, class Class)
	ObserveReport(report *Report)
}

type noopObserver struct{}

func (noopObserver) ObserveSample(Sample, Class) {}
func (noopObserver) ObserveReport(*Report)       {}

type Runner struct {
	reader   TelemetryReader
	clock    Clock
	logger   logger.Logger
	observer Observer
}

type Option func(*Runner)

func WithClock(clock Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		r.logger = log
	}
}

func WithObserver(observer Observer) Option {
	return func(r *Runner) {
		r.observer = observer
	}
}

func NewRunner(reader TelemetryReader, opts ...Option) *Runner {
	r := &Runner{
		reader:   reader,
		clock:    SystemClock{},
		logger:   logger.Nop(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run validates cfg, takes cfg.Iterations samples with a cfg.IntervalMs pause
// after each one, and aggregates them into a Report. The only error is an
// invalid cfg, returned before any sampling. ctx is handed to the telemetry
// reads; the loop itself always runs to completion.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	interval := time.Duration(cfg.IntervalMs) * time.Millisecond
	samples := make([]Sample, 0, cfg.Iterations)
	var counts tally

	r.logger.Info().
		Str("node", cfg.NodeLabel).
		Int("iterations", cfg.Iterations).
		Int("interval_ms", cfg.IntervalMs).
		Msg("Pass started")

	start := r.clock.Now()

	for i := 0; i < cfg.Iterations; i++ {
		load1, load5 := r.reader.ReadLoadAverages(ctx)
		processes := r.reader.ReadProcessCount(ctx)
		index := power.EstimateIndex(load1, processes)

		sample := Sample{
			Index:               i,
			Timestamp:           r.clock.Now().UTC().Format(timestampLayout),
			Load1:               load1,
			Load5:               load5,
			ProcessCount:        processes,
			EstimatedPowerIndex: index,
		}
		samples = append(samples, sample)

		class := Classify(load1, index)
		counts.add(class)
		r.observer.ObserveSample(sample, class)

		r.logger.Debug().
			Int("index", i).
			Float64("load1", load1).
			Float64("load5", load5).
			Int("processes", processes).
			Float64("power_index", index).
			Str("class", class.String()).
			Msg("Sample captured")

		if interval > 0 {
			r.clock.Sleep(interval)
		}
	}

	report := summarize(cfg, samples, counts, r.clock.Now().Sub(start))
	r.observer.ObserveReport(report)

	r.logger.Info().
		Str("node", report.NodeLabel).
		Int64("duration_ms", report.DurationMs).
		Float64("average_power_index", report.AveragePowerIndex).
		Float64("eco_score", report.EcoScore).
		Msg("Pass finished")

	return report, nil
}

// Run runs a pass against the local host through the default command
// inspector and the system clock.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inspector, err := telemetry.NewInspector(telemetry.DefaultConfig())
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrInitFailed, err)
	}

	return NewRunner(telemetry.NewReader(inspector)).Run(ctx, cfg)
}
