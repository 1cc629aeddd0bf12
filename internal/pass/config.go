package pass

import "codeberg.org/mutker/ecopass/internal/errors"

const (
	DefaultIterations = 5000
	DefaultIntervalMs = 100
	DefaultNodeLabel  = "lab-node-192.168.1.12"
)

// Config describes one pass. It is validated once and not changed while the
// pass runs.
type Config struct {
	Iterations int
	IntervalMs int
	NodeLabel  string
}

func DefaultConfig() Config {
	return Config{
		Iterations: DefaultIterations,
		IntervalMs: DefaultIntervalMs,
		NodeLabel:  DefaultNodeLabel,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Iterations <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidArgument,
			"iterations must be > 0 for a meaningful pass").WithData(c.Iterations)
	}

	if c.IntervalMs < 0 {
		return errFactory.WithMessage(errors.ErrInvalidInterval,
			"intervalMs must be >= 0").WithData(c.IntervalMs)
	}

	return nil
}
