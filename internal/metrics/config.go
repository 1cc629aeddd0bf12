package metrics

import (
	"net"
	"time"

	"codeberg.org/mutker/ecopass/internal/errors"
)

const defaultShutdownTimeout = 5 * time.Second

type Config struct {
	// Addr is the listen address of the /metrics endpoint. Empty disables
	// metrics collection.
	Addr            string
	NodeLabel       string
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

func (c Config) Enabled() bool {
	return c.Addr != ""
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate the address if metrics is enabled
	if !c.Enabled() {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return errFactory.Wrap(ErrInvalidAddr, err)
	}

	return nil
}
