//go:build !linux

package telemetry

import (
	"context"

	"codeberg.org/mutker/ecopass/internal/errors"
)

// SysinfoInspector is only backed by sysinfo(2) on Linux. Elsewhere every
// read fails, which the Reader turns into zero readings.
type SysinfoInspector struct{}

func NewSysinfoInspector() *SysinfoInspector {
	return &SysinfoInspector{}
}

func (s *SysinfoInspector) LoadAverage(_ context.Context) (string, error) {
	return "", errors.New().WithData(ErrUnsupported, "sysinfo")
}

func (s *SysinfoInspector) ProcessCount(_ context.Context) (int, error) {
	return 0, errors.New().WithData(ErrUnsupported, "sysinfo")
}
