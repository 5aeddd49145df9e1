package dfe

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// dnsProbeQuery is a standard A-record query for google.com with a fixed
// transaction ID -- any well-formed response indicates a live UDP/53
// listener.
var dnsProbeQuery = buildDNSQuery("google.com")

func buildDNSQuery(name string) []byte {
	pkt := []byte{
		0x12, 0x34, // transaction ID
		0x01, 0x00, // flags: standard query, recursion desired
		0x00, 0x01, // QDCOUNT=1
		0x00, 0x00, // ANCOUNT=0
		0x00, 0x00, // NSCOUNT=0
		0x00, 0x00, // ARCOUNT=0
	}
	pkt = append(pkt, encodeDNSName(name)...)
	pkt = append(pkt, 0x00, 0x01) // QTYPE=A
	pkt = append(pkt, 0x00, 0x01) // QCLASS=IN
	return pkt
}

func encodeDNSName(name string) []byte {
	var out []byte
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			label := name[start:i]
			out = append(out, byte(len(label)))
			out = append(out, label...)
			start = i + 1
		}
	}
	out = append(out, 0x00)
	return out
}

// ntpProbeRequest is a minimal SNTP client request: LI=0, VN=3, Mode=3
// (client), all other fields zero.
var ntpProbeRequest = buildNTPRequest()

func buildNTPRequest() []byte {
	req := make([]byte, 48)
	req[0] = 0x1B
	return req
}

// UDPSweep sends a DNS query to :53 and an NTP request to :123 on each host;
// any reply within the discovery window marks the host alive.
func UDPSweep(ctx context.Context, hosts []string, window time.Duration, concurrency int, logger *zap.Logger) map[string]bool {
	alive := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	deadline := time.Now().Add(window)

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
			if probeUDPHost(ip, deadline) {
				mu.Lock()
				alive[ip] = true
				mu.Unlock()
			}
		}(ip)
	}
	wg.Wait()
	logger.Debug("UDP sweep complete", zap.Int("alive", len(alive)))
	return alive
}

func probeUDPHost(ip string, deadline time.Time) bool {
	if udpReplies(ip, 53, dnsProbeQuery, deadline) {
		return true
	}
	return udpReplies(ip, 123, ntpProbeRequest, deadline)
}

func udpReplies(ip string, port int, payload []byte, deadline time.Time) bool {
	addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return false
	}
	defer conn.Close()

	remaining := time.Until(deadline)
	if remaining <= 0 {
		remaining = 200 * time.Millisecond
	}
	if remaining > 500*time.Millisecond {
		remaining = 500 * time.Millisecond
	}
	_ = conn.SetDeadline(time.Now().Add(remaining))

	if _, err := conn.Write(payload); err != nil {
		return false
	}
	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	return err == nil && n > 0
}
