package metrics

import "codeberg.org/mutker/ecopass/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidAddr   = errors.ErrorCode("metrics_invalid_addr")

	// Registration Errors
	ErrRegisterFailed = errors.ErrorCode("metrics_register_failed")

	// Listener Errors
	ErrListenFailed = errors.ErrorCode("metrics_listen_failed")
	ErrServeFailed  = errors.ErrorCode("metrics_serve_failed")

	// Service Errors
	ErrServiceShutdown = errors.ErrCloseMetrics
)
