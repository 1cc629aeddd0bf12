// Package power turns raw host load figures into a relative power index.
//
// The index is an uncalibrated heuristic meant for comparing passes on the
// same host. It is not a wattage.
package power

const (
	// BaseIdle is the index of a host with no load and no processes.
	BaseIdle = 15.0
	// LoadWeight is the index added per unit of 1-minute load average.
	LoadWeight = 20.0
	// ProcessWeight is the index added per running process.
	ProcessWeight = 0.05
	// ProcessCap bounds the process term so a single spike cannot dominate.
	ProcessCap = 500
)

// EstimateIndex returns BaseIdle + load1*LoadWeight + min(processes, ProcessCap)*ProcessWeight.
func EstimateIndex(load1 float64, processCount int) float64 {
	processes := min(max(processCount, 0), ProcessCap)

	return BaseIdle + load1*LoadWeight + float64(processes)*ProcessWeight
}
