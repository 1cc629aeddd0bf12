package pass

import (
	"math"
	"time"
)

const (
	idleLoadCeiling  = 0.25
	idlePowerFloor   = 20.0
	busyLoadFloor    = 0.8
	busyPowerFloor   = 40.0
	idleWastePenalty = 40.0
	busyWastePenalty = 30.0
	powerPenaltyFrom = 35.0
	idleHintRatio    = 0.2
	hardwareHintFrom = 45.0
	previewSize      = 10

	hintConsolidate = "Consolidate workloads into fewer time windows and power down unused services between batches."
	hintTrim        = "Current load distribution is reasonably efficient; focus on trimming background daemons and unused containers."
	hintMigrate     = "Consider migrating constant low-value workloads to lower-power hardware (e.g., ARM edge devices) or increasing sleep states."
	hintModerate    = "Hardware utilization looks moderate; gains will come mostly from smarter scheduling and container hygiene."
	hintGeneral     = "Use this node for bursty, high-value compute; move long-lived, low-priority jobs to greener hardware or off-peak hours."
)

// Classify labels a sample. Idle-heavy is checked first, so the classes never
// overlap.
func Classify(load1, powerIndex float64) Class {
	if load1 < idleLoadCeiling && powerIndex > idlePowerFloor {
		return ClassIdleHeavy
	}
	if load1 > busyLoadFloor && powerIndex > busyPowerFloor {
		return ClassBusyHeavy
	}

	return ClassNormal
}

// Score returns the eco score for the given waste ratios and average power
// index, floored at 0. With no waste and an average at or below 35 it is 100.
func Score(idleWasteRatio, busyWasteRatio, averagePowerIndex float64) float64 {
	score := 100 -
		idleWasteRatio*idleWastePenalty -
		busyWasteRatio*busyWastePenalty -
		max(0, averagePowerIndex-powerPenaltyFrom)

	return max(0, score)
}

func ScheduleHint(idleWasteRatio float64) string {
	if idleWasteRatio > idleHintRatio {
		return hintConsolidate
	}

	return hintTrim
}

func HardwareHint(averagePowerIndex float64) string {
	if averagePowerIndex > hardwareHintFrom {
		return hintMigrate
	}

	return hintModerate
}

type tally struct {
	idleHeavy int
	busyHeavy int
}

func (t *tally) add(c Class) {
	switch c {
	case ClassIdleHeavy:
		t.idleHeavy++
	case ClassBusyHeavy:
		t.busyHeavy++
	}
}

func summarize(cfg Config, samples []Sample, counts tally, elapsed time.Duration) *Report {
	var average, idleRatio, busyRatio float64

	if n := len(samples); n > 0 {
		var sum float64
		for _, s := range samples {
			sum += s.EstimatedPowerIndex
		}
		average = sum / float64(n)
		idleRatio = float64(counts.idleHeavy) / float64(n)
		busyRatio = float64(counts.busyHeavy) / float64(n)
	}

	preview := make([]Sample, min(len(samples), previewSize))
	copy(preview, samples)

	return &Report{
		NodeLabel:         cfg.NodeLabel,
		Iterations:        cfg.Iterations,
		IntervalMs:        cfg.IntervalMs,
		DurationMs:        elapsed.Milliseconds(),
		SampleCount:       len(samples),
		IdleHeavyCount:    counts.idleHeavy,
		BusyHeavyCount:    counts.busyHeavy,
		AveragePowerIndex: round(average, 2),
		IdleWasteRatio:    round(idleRatio, 3),
		BusyWasteRatio:    round(busyRatio, 3),
		EcoScore:          round(Score(idleRatio, busyRatio, average), 1),
		Recommendations: Recommendations{
			ScheduleHint: ScheduleHint(idleRatio),
			HardwareHint: HardwareHint(average),
			General:      hintGeneral,
		},
		SamplePreview: preview,
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
