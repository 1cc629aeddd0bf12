package telemetry

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/mutker/ecopass/internal/errors"
)

// Matches uptime output on Linux ("load average: 0.31, 0.44, 0.48") and on
// BSD/macOS ("load averages: 1.52 1.71 1.80").
var loadAverageRe = regexp.MustCompile(
	`load averages?:\s*([0-9]*\.?[0-9]+),?\s+([0-9]*\.?[0-9]+),?\s+([0-9]*\.?[0-9]+)`,
)

// ParseLoadAverages extracts the 1, 5 and 15 minute load averages from line.
// Lines without a "load average:" label are read as a bare leading triple,
// the /proc/loadavg layout.
func ParseLoadAverages(line string) (load1, load5, load15 float64, err error) {
	errFactory := errors.New()

	var fields []string
	if m := loadAverageRe.FindStringSubmatch(line); m != nil {
		fields = m[1:4]
	} else {
		fields = strings.Fields(line)
		if len(fields) < 3 {
			return 0, 0, 0, errFactory.WithData(ErrParseFailed, line)
		}
		fields = fields[:3]
	}

	var values [3]float64
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, 0, 0, errFactory.Wrap(ErrParseFailed, err)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, errFactory.WithData(ErrParseFailed, field)
		}
		values[i] = v
	}

	return values[0], values[1], values[2], nil
}
