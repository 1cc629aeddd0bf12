package metrics_test

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/logger"
	"codeberg.org/mutker/ecopass/internal/metrics"
	"codeberg.org/mutker/ecopass/internal/pass"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromCollectorSamples(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewPromCollector(reg, "lab-1")
	require.NoError(t, err)

	c.ObserveSample(pass.Sample{Load1: 0.1, ProcessCount: 200, EstimatedPowerIndex: 27}, pass.ClassIdleHeavy)
	c.ObserveSample(pass.Sample{Load1: 0.5, ProcessCount: 100, EstimatedPowerIndex: 30}, pass.ClassNormal)
	c.ObserveSample(pass.Sample{Load1: 0.4, ProcessCount: 90, EstimatedPowerIndex: 27.5}, pass.ClassNormal)

	count, err := testutil.GatherAndCount(reg, "ecopass_power_index_distribution")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expected := `
# HELP ecopass_samples_total Samples captured, by waste class.
# TYPE ecopass_samples_total counter
ecopass_samples_total{class="idle_heavy",node="lab-1"} 1
ecopass_samples_total{class="normal",node="lab-1"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "ecopass_samples_total"))

	gauges := `
# HELP ecopass_power_index Relative power index of the latest sample.
# TYPE ecopass_power_index gauge
ecopass_power_index{node="lab-1"} 27.5
# HELP ecopass_processes Process count of the latest sample.
# TYPE ecopass_processes gauge
ecopass_processes{node="lab-1"} 90
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(gauges), "ecopass_power_index", "ecopass_processes"))
}

func TestPromCollectorReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewPromCollector(reg, "lab-1")
	require.NoError(t, err)

	c.ObserveReport(&pass.Report{
		DurationMs:        2500,
		AveragePowerIndex: 33.5,
		IdleWasteRatio:    0.25,
		BusyWasteRatio:    0.125,
		EcoScore:          78.8,
	})

	expected := `
# HELP ecopass_eco_score Eco score of the last completed pass.
# TYPE ecopass_eco_score gauge
ecopass_eco_score{node="lab-1"} 78.8
# HELP ecopass_idle_waste_ratio Share of idle-heavy samples in the last completed pass.
# TYPE ecopass_idle_waste_ratio gauge
ecopass_idle_waste_ratio{node="lab-1"} 0.25
# HELP ecopass_pass_duration_seconds Wall-clock duration of the last completed pass.
# TYPE ecopass_pass_duration_seconds gauge
ecopass_pass_duration_seconds{node="lab-1"} 2.5
# HELP ecopass_passes_total Completed passes.
# TYPE ecopass_passes_total counter
ecopass_passes_total{node="lab-1"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"ecopass_eco_score", "ecopass_idle_waste_ratio", "ecopass_pass_duration_seconds", "ecopass_passes_total"))
}

func TestPromCollectorTelemetryFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewPromCollector(reg, "lab-1")
	require.NoError(t, err)

	c.TelemetryFailure("load", fmt.Errorf("uptime missing"))
	c.TelemetryFailure("load", nil)
	c.TelemetryFailure("processes", nil)

	expected := `
# HELP ecopass_telemetry_read_failures_total Telemetry reads that degraded to zero.
# TYPE ecopass_telemetry_read_failures_total counter
ecopass_telemetry_read_failures_total{metric="load",node="lab-1"} 2
ecopass_telemetry_read_failures_total{metric="processes",node="lab-1"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "ecopass_telemetry_read_failures_total"))
}

func TestPromCollectorDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewPromCollector(reg, "lab-1")
	require.NoError(t, err)

	_, err = metrics.NewPromCollector(reg, "lab-1")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, metrics.ErrRegisterFailed))
}

func TestNewServiceDisabled(t *testing.T) {
	c, err := metrics.NewService(metrics.DefaultConfig(), logger.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		c.ObserveSample(pass.Sample{}, pass.ClassNormal)
		c.ObserveReport(&pass.Report{})
		c.TelemetryFailure("load", nil)
	})
	assert.NoError(t, c.Close())
}

func TestNewServiceInvalidAddr(t *testing.T) {
	cfg := metrics.DefaultConfig()
	cfg.Addr = "not-an-address"

	_, err := metrics.NewService(cfg, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, metrics.ErrInvalidAddr))
}

func TestNewServiceServesMetrics(t *testing.T) {
	cfg := metrics.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.NodeLabel = "lab-2"

	c, err := metrics.NewService(cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	c.ObserveSample(pass.Sample{EstimatedPowerIndex: 42}, pass.ClassBusyHeavy)

	addr := c.(interface{ Addr() string }).Addr()
	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `ecopass_samples_total{class="busy_heavy",node="lab-2"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
