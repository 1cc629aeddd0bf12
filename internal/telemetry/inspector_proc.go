package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/ecopass/internal/errors"
)

// ProcInspector reads a procfs mount directly, without spawning processes.
type ProcInspector struct {
	root string
}

func NewProcInspector(root string) *ProcInspector {
	return &ProcInspector{root: root}
}

func (p *ProcInspector) LoadAverage(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.New().Wrap(ErrProcReadFailed, err)
	}

	data, err := os.ReadFile(filepath.Join(p.root, "loadavg"))
	if err != nil {
		return "", errors.New().Wrap(ErrProcReadFailed, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// ProcessCount counts the numeric directories under the proc root.
func (p *ProcInspector) ProcessCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.New().Wrap(ErrProcReadFailed, err)
	}

	entries, err := os.ReadDir(p.root)
	if err != nil {
		return 0, errors.New().Wrap(ErrProcReadFailed, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() && isPID(entry.Name()) {
			count++
		}
	}

	return count, nil
}

func isPID(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
