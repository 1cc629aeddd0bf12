package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/metrics"
	"codeberg.org/mutker/ecopass/internal/pass"
	"codeberg.org/mutker/ecopass/internal/render"
	"codeberg.org/mutker/ecopass/internal/telemetry"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix        = "ECOPASS"
	DefaultLogLevel         = string(LogLevelInfo)
	DefaultFormat           = render.FormatJSON
	DefaultInspector        = telemetry.InspectorCommand
	DefaultCommandTimeoutMs = 2000

	configName = "ecopass.toml"
	configType = "toml"

	ErrParseFlags = errors.ErrorCode("parse_flags_failed")
)

type Config struct {
	Iterations       int    `mapstructure:"iterations"`
	IntervalMs       int    `mapstructure:"interval_ms"`
	NodeLabel        string `mapstructure:"node_label"`
	Inspector        string `mapstructure:"inspector"`
	CommandTimeoutMs int    `mapstructure:"command_timeout_ms"`
	ProcRoot         string `mapstructure:"proc_root"`
	Format           string `mapstructure:"format"`
	MetricsAddr      string `mapstructure:"metrics_addr"`
	LogLevel         string `mapstructure:"log_level"`
}

// Load reads configuration from, in order of precedence, command line flags,
// ECOPASS_* environment variables, a TOML file and built-in defaults.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{
		args:      os.Args[1:],
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	flags := newFlagSet()
	if err := flags.Parse(o.args); err != nil {
		return nil, errFactory.Wrap(ErrParseFlags, err)
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, configPath(o, flags)); err != nil {
		return nil, err
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("iterations", pass.DefaultIterations)
	v.SetDefault("interval_ms", pass.DefaultIntervalMs)
	v.SetDefault("node_label", pass.DefaultNodeLabel)
	v.SetDefault("inspector", DefaultInspector)
	v.SetDefault("command_timeout_ms", DefaultCommandTimeoutMs)
	v.SetDefault("proc_root", telemetry.DefaultConfig().ProcRoot)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", DefaultLogLevel)
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("ecopass", pflag.ContinueOnError)

	flags.String("config", "", "Path to a TOML configuration file")
	flags.Int("iterations", pass.DefaultIterations, "Number of samples to take")
	flags.Int("interval-ms", pass.DefaultIntervalMs, "Delay after each sample in milliseconds")
	flags.String("node-label", pass.DefaultNodeLabel, "Label copied into the report")
	flags.String("inspector", DefaultInspector, "Telemetry source: command, proc or sysinfo")
	flags.Int("command-timeout-ms", DefaultCommandTimeoutMs, "Timeout for each inspection command")
	flags.String("proc-root", telemetry.DefaultConfig().ProcRoot, "procfs mount used by the proc inspector")
	flags.String("format", DefaultFormat, "Report format: json, yaml or text")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address while the pass runs")
	flags.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")

	return flags
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})

	return bindErr
}

func configPath(o *options, flags *pflag.FlagSet) string {
	if path, _ := flags.GetString("config"); path != "" {
		return path
	}
	if o.configPath != "" {
		return o.configPath
	}

	return os.Getenv(o.envPrefix + "_CONFIG")
}

func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	v.SetConfigType(configType)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	// The full file name keeps viper from matching an extensionless "ecopass",
	// such as the binary itself.
	v.SetConfigName(configName)
	v.AddConfigPath("/etc")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

// Validate checks the settings owned by the CLI. Iterations and interval are
// left to pass.Config.Validate so a pass has a single rejection point.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if !render.IsValidFormat(c.Format) {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			errFactory.WithData(render.ErrUnknownFormat, c.Format))
	}

	if err := c.TelemetryConfig().Validate(); err != nil {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := c.MetricsConfig().Validate(); err != nil {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) PassConfig() pass.Config {
	return pass.Config{
		Iterations: c.Iterations,
		IntervalMs: c.IntervalMs,
		NodeLabel:  c.NodeLabel,
	}
}

func (c *Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Inspector:      c.Inspector,
		CommandTimeout: time.Duration(c.CommandTimeoutMs) * time.Millisecond,
		ProcRoot:       c.ProcRoot,
	}
}

func (c *Config) MetricsConfig() metrics.Config {
	cfg := metrics.DefaultConfig()
	cfg.Addr = c.MetricsAddr
	cfg.NodeLabel = c.NodeLabel

	return cfg
}
