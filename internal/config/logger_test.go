package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestNewLogger_Defaults(t *testing.T) {
	v := viper.New()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewLogger_DebugLevel(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "debug")
	v.Set("logging.format", "json")

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "warn")
	v.Set("logging.format", "console")

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "banana")
	v.Set("logging.format", "json")

	_, err := NewLogger(v)
	if err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "xml")

	_, err := NewLogger(v)
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestNewLogger_BuildConfigSamplingDefaults(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "json")

	cfg, err := buildZapConfig(v)
	if err != nil {
		t.Fatalf("buildZapConfig: %v", err)
	}
	if cfg.Sampling == nil {
		t.Fatal("expected sampling to be enabled by default")
	}
	if cfg.Sampling.Initial != defaultSampleInitial || cfg.Sampling.Thereafter != defaultSampleThereafter {
		t.Errorf("sampling = %+v, want defaults %d/%d", cfg.Sampling, defaultSampleInitial, defaultSampleThereafter)
	}
}

func TestNewLogger_BuildConfigSamplingDisabled(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "json")
	v.Set("logging.sampling", false)

	cfg, err := buildZapConfig(v)
	if err != nil {
		t.Fatalf("buildZapConfig: %v", err)
	}
	if cfg.Sampling != nil {
		t.Errorf("sampling = %+v, want nil when disabled", cfg.Sampling)
	}
}

func TestNewLogger_BuildConfigCustomSamplingRates(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "json")
	v.Set("logging.sampling_initial", 10)
	v.Set("logging.sampling_thereafter", 5)

	cfg, err := buildZapConfig(v)
	if err != nil {
		t.Fatalf("buildZapConfig: %v", err)
	}
	if cfg.Sampling == nil || cfg.Sampling.Initial != 10 || cfg.Sampling.Thereafter != 5 {
		t.Errorf("sampling = %+v, want 10/5", cfg.Sampling)
	}
}
