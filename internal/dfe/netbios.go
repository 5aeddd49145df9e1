package dfe

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// netbiosStatusQuery builds an RFC-1002 NBSTAT (node status) query for the
// wildcard name "*", used to ask a host for its NetBIOS name table.
var netbiosStatusQuery = buildNetBIOSStatusQuery()

func buildNetBIOSStatusQuery() []byte {
	pkt := []byte{
		0x82, 0x28, // transaction ID
		0x00, 0x00, // flags
		0x00, 0x01, // QDCOUNT=1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	pkt = append(pkt, encodeNetBIOSName("*")...)
	pkt = append(pkt, 0x00, 0x21) // NBSTAT
	pkt = append(pkt, 0x00, 0x01) // IN
	return pkt
}

// encodeNetBIOSName applies RFC 1001 first-level encoding: the 16-byte
// padded name is split into nibbles, each offset into 'A'..'P'.
func encodeNetBIOSName(name string) []byte {
	raw := make([]byte, 16)
	copy(raw, name)
	for i := len(name); i < 16; i++ {
		raw[i] = ' '
	}
	raw[15] = 0x00

	encoded := make([]byte, 0, 33)
	encoded = append(encoded, 0x20) // length of encoded name: 32
	for _, b := range raw {
		encoded = append(encoded, 'A'+(b>>4), 'A'+(b&0x0F))
	}
	encoded = append(encoded, 0x00)
	return encoded
}

// NetBIOSResult is a single hostname learned via NBSTAT.
type NetBIOSResult struct {
	IP       string
	Hostname string
}

// NetBIOSSweep unicasts an NBSTAT query to port 137 of every host and
// extracts the first returned name as the host's NetBIOS hostname.
func NetBIOSSweep(ctx context.Context, hosts []string, window time.Duration, concurrency int, logger *zap.Logger) map[string]string {
	results := make(map[string]string)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	deadline := time.Now().Add(window)

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
			if name, ok := probeNetBIOS(ip, deadline); ok {
				mu.Lock()
				results[ip] = name
				mu.Unlock()
			}
		}(ip)
	}
	wg.Wait()
	logger.Debug("NetBIOS sweep complete", zap.Int("hosts", len(results)))
	return results
}

func probeNetBIOS(ip string, deadline time.Time) (string, bool) {
	addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: 137}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return "", false
	}
	defer conn.Close()

	remaining := time.Until(deadline)
	if remaining <= 0 || remaining > time.Second {
		remaining = time.Second
	}
	_ = conn.SetDeadline(time.Now().Add(remaining))

	if _, err := conn.Write(netbiosStatusQuery); err != nil {
		return "", false
	}
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return "", false
	}
	return ParseNetBIOSResponse(buf[:n])
}

// ParseNetBIOSResponse extracts the first NetBIOS name from an NBSTAT
// response. The reference implementation assumes a fixed offset (57) for
// the first name entry and takes 15 bytes verbatim -- fragile against
// non-standard responders, preserved here intentionally (see open
// questions).
func ParseNetBIOSResponse(data []byte) (string, bool) {
	const nameOffset = 57
	const nameLen = 15
	if len(data) < nameOffset+nameLen {
		return "", false
	}
	name := strings.TrimRight(string(data[nameOffset:nameOffset+nameLen]), " \x00")
	if name == "" {
		return "", false
	}
	return name, true
}
