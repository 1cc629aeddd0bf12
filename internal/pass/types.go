package pass

// Sample is one telemetry reading. Samples are never modified after capture.
type Sample struct {
	Index               int     `json:"index" yaml:"index"`
	Timestamp           string  `json:"timestamp" yaml:"timestamp"`
	Load1               float64 `json:"load1" yaml:"load1"`
	Load5               float64 `json:"load5" yaml:"load5"`
	ProcessCount        int     `json:"processCount" yaml:"processCount"`
	EstimatedPowerIndex float64 `json:"estimatedPowerIndex" yaml:"estimatedPowerIndex"`
}

// Recommendations are the categorical hints derived from a pass.
type Recommendations struct {
	ScheduleHint string `json:"scheduleHint" yaml:"scheduleHint"`
	HardwareHint string `json:"hardwareHint" yaml:"hardwareHint"`
	General      string `json:"general" yaml:"general"`
}

// Report aggregates a completed pass. Averages carry 2 decimals, ratios 3
// and the score 1.
type Report struct {
	NodeLabel         string          `json:"nodeLabel" yaml:"nodeLabel"`
	Iterations        int             `json:"iterations" yaml:"iterations"`
	IntervalMs        int             `json:"intervalMs" yaml:"intervalMs"`
	DurationMs        int64           `json:"durationMs" yaml:"durationMs"`
	SampleCount       int             `json:"sampleCount" yaml:"sampleCount"`
	IdleHeavyCount    int             `json:"idleHeavyCount" yaml:"idleHeavyCount"`
	BusyHeavyCount    int             `json:"busyHeavyCount" yaml:"busyHeavyCount"`
	AveragePowerIndex float64         `json:"averagePowerIndex" yaml:"averagePowerIndex"`
	IdleWasteRatio    float64         `json:"idleWasteRatio" yaml:"idleWasteRatio"`
	BusyWasteRatio    float64         `json:"busyWasteRatio" yaml:"busyWasteRatio"`
	EcoScore          float64         `json:"ecoScore" yaml:"ecoScore"`
	Recommendations   Recommendations `json:"recommendations" yaml:"recommendations"`
	SamplePreview     []Sample        `json:"samplePreview" yaml:"samplePreview"`
}

// Class is the waste classification of a single sample.
type Class int

const (
	ClassNormal Class = iota
	ClassIdleHeavy
	ClassBusyHeavy
)

func (c Class) String() string {
	switch c {
	case ClassIdleHeavy:
		return "idle_heavy"
	case ClassBusyHeavy:
		return "busy_heavy"
	default:
		return "normal"
	}
}
