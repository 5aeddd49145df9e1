package dfe

import (
	"context"
	"net"
	"runtime"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// ICMPResult is a single alive response captured during the ICMP sweep.
type ICMPResult struct {
	IP  string
	TTL int
}

// ICMPSweep pings every host in a /24 once with a tight timeout, matching
// the engine's 200ms/host budget. At most concurrency pings run at once;
// replies are collected into a mutex-guarded IP-to-TTL map, which is
// returned once every ping has finished.
func ICMPSweep(ctx context.Context, hosts []string, timeout time.Duration, concurrency int, logger *zap.Logger) map[string]int {
	results := make(map[string]int)
	var mu sync.Mutex

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	privileged := runtime.GOOS == "windows"

	for _, ip := range hosts {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(ip string) {
			defer wg.Done()
			defer func() { <-sem }()

			alive, ttl := pingOnce(ctx, ip, timeout, privileged, logger)
			if alive {
				mu.Lock()
				results[ip] = ttl
				mu.Unlock()
			}
		}(ip)
	}

	wg.Wait()
	return results
}

func pingOnce(ctx context.Context, ip string, timeout time.Duration, privileged bool, logger *zap.Logger) (alive bool, ttl int) {
	pinger, err := probing.NewPinger(ip)
	if err != nil {
		logger.Debug("failed to create pinger", zap.String("ip", ip), zap.Error(err))
		return false, 0
	}

	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(privileged)

	var receivedTTL int
	pinger.OnRecv = func(pkt *probing.Packet) {
		if receivedTTL == 0 {
			receivedTTL = pkt.TTL
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			logger.Debug("ping failed", zap.String("ip", ip), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return false, 0
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		return true, receivedTTL
	}
	return false, 0
}

// HostsInCIDR returns every host address (.1..=.254) for a /24 CIDR.
func HostsInCIDR(cidr string) []string {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil
	}
	ones, bits := ipnet.Mask.Size()
	if ones != 24 || bits != 32 {
		return nil
	}
	base := ip.Mask(ipnet.Mask).To4()
	if base == nil {
		return nil
	}
	hosts := make([]string, 0, 254)
	for i := 1; i <= 254; i++ {
		next := net.IPv4(base[0], base[1], base[2], byte(i))
		hosts = append(hosts, next.String())
	}
	return hosts
}
