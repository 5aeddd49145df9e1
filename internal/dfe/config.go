package dfe

import "time"

// Config holds the Discovery & Fingerprint Engine's tunables. Every timeout
// below matches the budget the fusion algorithm assumes; changing them
// changes how aggressively the engine trades completeness for scan time.
type Config struct {
	ICMPTimeout    time.Duration `mapstructure:"icmp_timeout"`
	TCPTimeout     time.Duration `mapstructure:"tcp_timeout"`
	EnrichTimeout  time.Duration `mapstructure:"enrich_timeout"`
	UDPWindow      time.Duration `mapstructure:"udp_window"`
	LLMNRWindow    time.Duration `mapstructure:"llmnr_window"`
	MDNSWindow     time.Duration `mapstructure:"mdns_window"`
	SSDPWindow     time.Duration `mapstructure:"ssdp_window"`
	NetBIOSWindow  time.Duration `mapstructure:"netbios_window"`
	ARPSettleDelay time.Duration `mapstructure:"arp_settle_delay"`
	Concurrency    int           `mapstructure:"concurrency"`
	OUISnapshotDir string        `mapstructure:"oui_snapshot_dir"`
	HistoryDBPath  string        `mapstructure:"history_db_path"`
}

// DefaultConfig returns the engine configuration matching the probe budgets
// the fusion algorithm is specified against.
func DefaultConfig() Config {
	return Config{
		ICMPTimeout:    200 * time.Millisecond,
		TCPTimeout:     150 * time.Millisecond,
		EnrichTimeout:  40 * time.Millisecond,
		UDPWindow:      4 * time.Second,
		LLMNRWindow:    4 * time.Second,
		MDNSWindow:     4 * time.Second,
		SSDPWindow:     5 * time.Second,
		NetBIOSWindow:  6 * time.Second,
		ARPSettleDelay: 500 * time.Millisecond,
		Concurrency:    255,
		OUISnapshotDir: "./data",
		HistoryDBPath:  "./data/scan_history.db",
	}
}
