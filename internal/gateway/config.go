// Package gateway provides the appliance's HTTP and WebSocket surface: it
// drives on-demand discovery scans, serves the passive traffic snapshot, and
// streams live updates to a single authenticated operator.
package gateway

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the gateway's HTTP server configuration.
type Config struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	DevMode        bool          `mapstructure:"dev_mode"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	OperatorUser   string        `mapstructure:"operator_username"`
	OperatorHash   string        `mapstructure:"operator_password_hash"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads gateway configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8443)
	v.SetDefault("gateway.dev_mode", false)
	v.SetDefault("gateway.rate_limit_rps", 20)
	v.SetDefault("gateway.rate_limit_burst", 40)
	v.SetDefault("gateway.token_ttl", "1h")
	v.SetDefault("gateway.operator_username", "operator")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("aegisnet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/aegisnet")
	}

	v.SetEnvPrefix("AEGIS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}
