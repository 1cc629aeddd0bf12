package metrics

import (
	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/pass"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ecopass"

// PromCollector exports pass progress as Prometheus metrics.
type PromCollector struct {
	samples      *prometheus.CounterVec
	readFailures *prometheus.CounterVec
	powerIndex   prometheus.Gauge
	load1        prometheus.Gauge
	processes    prometheus.Gauge
	powerHistory prometheus.Histogram
	ecoScore     prometheus.Gauge
	idleWaste    prometheus.Gauge
	busyWaste    prometheus.Gauge
	averagePower prometheus.Gauge
	passDuration prometheus.Gauge
	passesTotal  prometheus.Counter
}

func NewPromCollector(reg prometheus.Registerer, node string) (*PromCollector, error) {
	labels := prometheus.Labels{"node": node}

	c := &PromCollector{
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "samples_total",
			Help:        "Samples captured, by waste class.",
			ConstLabels: labels,
		}, []string{"class"}),
		readFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "telemetry_read_failures_total",
			Help:        "Telemetry reads that degraded to zero.",
			ConstLabels: labels,
		}, []string{"metric"}),
		powerIndex: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "power_index",
			Help:        "Relative power index of the latest sample.",
			ConstLabels: labels,
		}),
		load1: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "load1",
			Help:        "1-minute load average of the latest sample.",
			ConstLabels: labels,
		}),
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "processes",
			Help:        "Process count of the latest sample.",
			ConstLabels: labels,
		}),
		powerHistory: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "power_index_distribution",
			Help:        "Distribution of per-sample relative power index.",
			ConstLabels: labels,
			Buckets:     prometheus.LinearBuckets(15, 5, 10),
		}),
		ecoScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "eco_score",
			Help:        "Eco score of the last completed pass.",
			ConstLabels: labels,
		}),
		idleWaste: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "idle_waste_ratio",
			Help:        "Share of idle-heavy samples in the last completed pass.",
			ConstLabels: labels,
		}),
		busyWaste: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "busy_waste_ratio",
			Help:        "Share of busy-heavy samples in the last completed pass.",
			ConstLabels: labels,
		}),
		averagePower: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "average_power_index",
			Help:        "Average relative power index of the last completed pass.",
			ConstLabels: labels,
		}),
		passDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "pass_duration_seconds",
			Help:        "Wall-clock duration of the last completed pass.",
			ConstLabels: labels,
		}),
		passesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "passes_total",
			Help:        "Completed passes.",
			ConstLabels: labels,
		}),
	}

	for _, collector := range []prometheus.Collector{
		c.samples, c.readFailures, c.powerIndex, c.load1, c.processes, c.powerHistory,
		c.ecoScore, c.idleWaste, c.busyWaste, c.averagePower, c.passDuration, c.passesTotal,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, errors.New().Wrap(ErrRegisterFailed, err)
		}
	}

	return c, nil
}

func (c *PromCollector) ObserveSample(sample pass.Sample, class pass.Class) {
	c.samples.WithLabelValues(class.String()).Inc()
	c.powerIndex.Set(sample.EstimatedPowerIndex)
	c.load1.Set(sample.Load1)
	c.processes.Set(float64(sample.ProcessCount))
	c.powerHistory.Observe(sample.EstimatedPowerIndex)
}

func (c *PromCollector) ObserveReport(report *pass.Report) {
	c.ecoScore.Set(report.EcoScore)
	c.idleWaste.Set(report.IdleWasteRatio)
	c.busyWaste.Set(report.BusyWasteRatio)
	c.averagePower.Set(report.AveragePowerIndex)
	c.passDuration.Set(float64(report.DurationMs) / 1000)
	c.passesTotal.Inc()
}

func (c *PromCollector) TelemetryFailure(metric string, _ error) {
	c.readFailures.WithLabelValues(metric).Inc()
}
