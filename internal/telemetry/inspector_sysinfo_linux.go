//go:build linux

package telemetry

import (
	"context"
	"fmt"

	"codeberg.org/mutker/ecopass/internal/errors"
	"golang.org/x/sys/unix"
)

// Load averages from sysinfo(2) are fixed point with 16 fractional bits.
const sysinfoLoadScale = 1 << 16

// SysinfoInspector reads load and process count with a single sysinfo(2)
// call. The kernel's process figure counts tasks, so it runs higher than ps.
type SysinfoInspector struct{}

func NewSysinfoInspector() *SysinfoInspector {
	return &SysinfoInspector{}
}

func (s *SysinfoInspector) LoadAverage(ctx context.Context) (string, error) {
	info, err := sysinfo(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("load average: %.2f, %.2f, %.2f",
		float64(info.Loads[0])/sysinfoLoadScale,
		float64(info.Loads[1])/sysinfoLoadScale,
		float64(info.Loads[2])/sysinfoLoadScale,
	), nil
}

func (s *SysinfoInspector) ProcessCount(ctx context.Context) (int, error) {
	info, err := sysinfo(ctx)
	if err != nil {
		return 0, err
	}

	return int(info.Procs), nil
}

func sysinfo(ctx context.Context) (*unix.Sysinfo_t, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New().Wrap(ErrSysinfoFailed, err)
	}

	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return nil, errors.New().Wrap(ErrSysinfoFailed, err)
	}

	return &info, nil
}
