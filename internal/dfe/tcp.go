package dfe

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TCPSweepPorts are the ports probed against every host during Phase 1
// discovery -- a hit on any of them marks the host alive.
var TCPSweepPorts = []int{22, 53, 80, 443, 445, 3389, 5000, 7000, 8080, 62078}

// EnrichmentPorts are re-probed per host during Phase 2 enrichment with a
// tighter timeout to build the Host's open-port list.
var EnrichmentPorts = []int{21, 22, 23, 80, 443, 445, 3389, 8080}

// TCPSweep attempts a connection to any of ports on each host and returns
// the set of hosts that accepted at least one connection within timeout.
func TCPSweep(ctx context.Context, hosts []string, ports []int, timeout time.Duration, concurrency int, logger *zap.Logger) map[string]bool {
	alive := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, ip := range hosts {
		select {
		case <-ctx.Done():
			wg.Wait()
			return alive
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(ip string) {
			defer wg.Done()
			defer func() { <-sem }()
			if anyPortOpen(ctx, ip, ports, timeout) {
				mu.Lock()
				alive[ip] = true
				mu.Unlock()
			}
		}(ip)
	}
	wg.Wait()
	logger.Debug("TCP sweep complete", zap.Int("alive", len(alive)))
	return alive
}

func anyPortOpen(ctx context.Context, ip string, ports []int, timeout time.Duration) bool {
	for _, port := range ports {
		if ctx.Err() != nil {
			return false
		}
		if isPortOpen(ctx, ip, port, timeout) {
			return true
		}
	}
	return false
}

func isPortOpen(ctx context.Context, ip string, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(ip, strconv.Itoa(port))
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// ScanOpenPorts re-probes ports on a single host with a bounded,
// concurrency-limited fan-out and returns the sorted open subset. Used
// during Phase 2 enrichment (step 5).
func ScanOpenPorts(ctx context.Context, ip string, ports []int, timeout time.Duration, concurrency int) []int {
	var mu sync.Mutex
	var open []int
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, port := range ports {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(p int) {
			defer wg.Done()
			defer func() { <-sem }()
			if isPortOpen(ctx, ip, p, timeout) {
				mu.Lock()
				open = append(open, p)
				mu.Unlock()
			}
		}(port)
	}
	wg.Wait()
	sort.Ints(open)
	return open
}
