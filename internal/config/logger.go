package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// defaultSampleInitial/defaultSampleThereafter bound the log volume from the
// PTA capture loop and DFE's per-host probe fan-out, both of which can log
// one line per packet or per probe at debug level during a large scan.
// Without sampling, a noisy capture session can dwarf every other log line.
const (
	defaultSampleInitial    = 100
	defaultSampleThereafter = 100
)

// NewLogger creates a configured Zap logger from Viper settings.
// Reads "logging.level" (debug, info, warn, error; default "info"),
// "logging.format" (json, console; default "json"), and "logging.sampling"
// (bool, default true) plus "logging.sampling_initial"/"sampling_thereafter"
// which govern whether repeated log lines from the capture loop and probe
// fan-out are sampled down.
func NewLogger(v *viper.Viper) (*zap.Logger, error) {
	cfg, err := buildZapConfig(v)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "aegisd")), nil
}

// buildZapConfig translates Viper settings into a zap.Config. Split out from
// NewLogger so the sampling/level/format decisions can be asserted on
// directly in tests without inspecting a built *zap.Logger.
func buildZapConfig(v *viper.Viper) (zap.Config, error) {
	level := v.GetString("logging.level")
	format := v.GetString("logging.format")

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
	default:
		return zap.Config{}, fmt.Errorf("invalid log format %q: must be \"json\" or \"console\"", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	samplingEnabled := true
	if v.IsSet("logging.sampling") {
		samplingEnabled = v.GetBool("logging.sampling")
	}
	if !samplingEnabled {
		cfg.Sampling = nil
		return cfg, nil
	}

	initial := v.GetInt("logging.sampling_initial")
	if initial <= 0 {
		initial = defaultSampleInitial
	}
	thereafter := v.GetInt("logging.sampling_thereafter")
	if thereafter <= 0 {
		thereafter = defaultSampleThereafter
	}
	cfg.Sampling = &zap.SamplingConfig{Initial: initial, Thereafter: thereafter}

	return cfg, nil
}
