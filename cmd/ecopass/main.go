// Copyright © 2024 Mutker Telag <witty.text5011@fastmail.com>
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/ecopass/internal/config"
	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/logger"
	"codeberg.org/mutker/ecopass/internal/metrics"
	"codeberg.org/mutker/ecopass/internal/pass"
	"codeberg.org/mutker/ecopass/internal/pid"
	"codeberg.org/mutker/ecopass/internal/render"
	"codeberg.org/mutker/ecopass/internal/telemetry"
	"github.com/spf13/pflag"
)

var cfg *config.Config

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")

	passCfg, err := start(cfg)
	if err != nil {
		logger.FatalWithCode(toAppError(err)).Msg("refusing to start")
	}

	go handleSignals()

	if err := run(context.Background(), passCfg); err != nil {
		logger.ErrorWithCode(toAppError(err)).Msg("pass failed")
		cleanup()
		os.Exit(1)
	}
	cleanup()
}

// start rejects an invalid pass before taking the PID file, so a rejected
// run leaves nothing behind.
func start(cfg *config.Config) (pass.Config, error) {
	passCfg := cfg.PassConfig()
	if err := passCfg.Validate(); err != nil {
		return pass.Config{}, err
	}

	if err := pid.Write(); err != nil {
		return pass.Config{}, err
	}

	return passCfg, nil
}

func run(ctx context.Context, passCfg pass.Config) error {
	errFactory := errors.New()
	log := logger.Default()

	collector, err := metrics.NewService(cfg.MetricsConfig(), log)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitMetrics, err)
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.ErrorWithCode(toAppError(err)).Msg("failed to close metrics endpoint")
		}
	}()

	inspector, err := telemetry.NewInspector(cfg.TelemetryConfig())
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	logger.Debug().Str("inspector", cfg.Inspector).Msg("Telemetry inspector ready")

	reader := telemetry.NewReader(inspector,
		telemetry.WithLogger(log),
		telemetry.WithFailureHook(collector.TelemetryFailure),
	)
	runner := pass.NewRunner(reader,
		pass.WithLogger(log),
		pass.WithObserver(collector),
	)

	report, err := runner.Run(ctx, passCfg)
	if err != nil {
		return errFactory.Wrap(errors.ErrRunPass, err)
	}

	if err := render.Encode(os.Stdout, report, cfg.Format); err != nil {
		return errFactory.Wrap(errors.ErrRenderPass, err)
	}

	return nil
}

// A pass cannot be cancelled; a termination signal only releases the PID
// file before exiting.
func handleSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	logger.Info().Str("signal", sig.String()).Msg("Received termination signal, abandoning pass")
	cleanup()
	os.Exit(1)
}

func cleanup() {
	if err := pid.Remove(); err != nil {
		logger.ErrorWithCode(errors.New().Wrap(errors.ErrShutdownFailed, err)).Msg("failed to remove PID file")
	}
	logger.Debug().Msg("Exiting...")
}

func toAppError(err error) errors.Error {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return errors.New().Wrap(errors.ErrInternal, err)
}
