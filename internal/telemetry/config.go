package telemetry

import (
	"time"

	"codeberg.org/mutker/ecopass/internal/errors"
)

const (
	InspectorCommand = "command"
	InspectorProc    = "proc"
	InspectorSysinfo = "sysinfo"

	defaultCommandTimeout = 2 * time.Second
	defaultProcRoot       = "/proc"
)

type Config struct {
	Inspector      string
	CommandTimeout time.Duration
	ProcRoot       string
}

func DefaultConfig() Config {
	return Config{
		Inspector:      InspectorCommand,
		CommandTimeout: defaultCommandTimeout,
		ProcRoot:       defaultProcRoot,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	switch c.Inspector {
	case InspectorCommand, InspectorProc, InspectorSysinfo:
	default:
		return errFactory.WithData(ErrInvalidInspector, c.Inspector)
	}

	if c.Inspector == InspectorCommand && c.CommandTimeout <= 0 {
		return errFactory.WithData(ErrInvalidTimeout, c.CommandTimeout)
	}

	return nil
}

// NewInspector builds the inspector named by cfg.Inspector.
func NewInspector(cfg Config) (Inspector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	switch cfg.Inspector {
	case InspectorProc:
		root := cfg.ProcRoot
		if root == "" {
			root = defaultProcRoot
		}
		return NewProcInspector(root), nil
	case InspectorSysinfo:
		return NewSysinfoInspector(), nil
	default:
		return NewCommandInspector(cfg.CommandTimeout), nil
	}
}
