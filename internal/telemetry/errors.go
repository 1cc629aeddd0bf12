package telemetry

import "codeberg.org/mutker/ecopass/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig    = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidInspector = errors.ErrorCode("telemetry_invalid_inspector")
	ErrInvalidTimeout   = errors.ErrorCode("telemetry_invalid_timeout")

	// Read Errors
	ErrCommandFailed  = errors.ErrorCode("telemetry_command_failed")
	ErrProcReadFailed = errors.ErrorCode("telemetry_proc_read_failed")
	ErrSysinfoFailed  = errors.ErrorCode("telemetry_sysinfo_failed")
	ErrParseFailed    = errors.ErrorCode("telemetry_parse_failed")
	ErrUnsupported    = errors.ErrUnsupported
)
