// Package pta implements the Passive Traffic Analyzer: a raw-socket packet
// sniffer feeding a flow-aggregation and deep-packet-inspection pipeline.
package pta

import "time"

// Config holds the Passive Traffic Analyzer's tunables.
type Config struct {
	ReadBufferSize int           `mapstructure:"read_buffer_size"`
	RDNSTimeout    time.Duration `mapstructure:"rdns_timeout"`
	RecvErrorSleep time.Duration `mapstructure:"recv_error_sleep"`
}

// DefaultConfig returns the engine's default tunables: a 64KiB capture
// buffer and a 100ms backoff after a recv error, matching the reference
// capture loop's behavior.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize: 65535,
		RDNSTimeout:    2 * time.Second,
		RecvErrorSleep: 100 * time.Millisecond,
	}
}
