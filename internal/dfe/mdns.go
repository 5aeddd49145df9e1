package dfe

import (
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MDNSMulticastAddr is the mDNS multicast group.
const MDNSMulticastAddr = "224.0.0.251:5353"

var mdnsQueryNames = []string{
	"_services._dns-sd._udp.local",
	"_apple-mobdev2._tcp.local",
	"_googlecast._tcp.local",
}

// MDNSHint is the evidence mDNS contributes for a single IP.
type MDNSHint struct {
	Hostname string
	Model    string
}

// MDNSSweep joins the mDNS multicast group, sends three PTR queries 50ms
// apart (the sender then sleeps 200ms after the last one), and listens for
// window for responses, scraping
// each for a ".local" hostname and a "model=" TXT hint. Both hints are
// best-effort substring scrapes -- see open questions for their known
// false-positive modes.
func MDNSSweep(window time.Duration, logger *zap.Logger) map[string]MDNSHint {
	hints := make(map[string]MDNSHint)

	groupAddr, err := net.ResolveUDPAddr("udp4", MDNSMulticastAddr)
	if err != nil {
		logger.Debug("mDNS resolve failed", zap.Error(err))
		return hints
	}
	listener, err := net.ListenMulticastUDP("udp4", nil, groupAddr)
	if err != nil {
		logger.Debug("mDNS join failed", zap.Error(err))
		return hints
	}
	defer listener.Close()

	sender, err := net.DialUDP("udp4", nil, groupAddr)
	if err != nil {
		logger.Debug("mDNS sender socket failed", zap.Error(err))
		return hints
	}
	defer sender.Close()

	spacing := []time.Duration{50 * time.Millisecond, 50 * time.Millisecond, 200 * time.Millisecond}
	go func() {
		for i, name := range mdnsQueryNames {
			_, _ = sender.Write(buildMDNSPTRQuery(name))
			if i < len(spacing) {
				time.Sleep(spacing[i])
			}
		}
	}()

	deadline := time.Now().Add(window)
	_ = listener.SetReadDeadline(deadline)
	buf := make([]byte, 4096)
	for time.Now().Before(deadline) {
		n, src, err := listener.ReadFromUDP(buf)
		if err != nil || n == 0 || src == nil {
			break
		}
		ip := src.IP.String()
		hint := hints[ip]
		scrapeMDNSResponse(buf[:n], &hint)
		hints[ip] = hint
	}
	return hints
}

func buildMDNSPTRQuery(name string) []byte {
	pkt := []byte{
		0x00, 0x00, // transaction ID (0 for mDNS)
		0x00, 0x00, // flags
		0x00, 0x01, // QDCOUNT=1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	pkt = append(pkt, encodeDNSName(name)...)
	pkt = append(pkt, 0x00, 0x0C) // QTYPE=PTR
	pkt = append(pkt, 0x00, 0x01) // QCLASS=IN
	return pkt
}

// scrapeMDNSResponse is a substring scrape, not a real DNS-RR parse: it
// looks for ".local" to hint at a hostname and "model=" to hint at a
// device model, exactly as the reference implementation does.
func scrapeMDNSResponse(data []byte, hint *MDNSHint) {
	text := string(data)
	if hint.Hostname == "" {
		if idx := strings.Index(text, ".local"); idx > 0 {
			start := idx
			for start > 0 && isHostnameChar(text[start-1]) {
				start--
			}
			if start < idx {
				hint.Hostname = text[start:idx]
			}
		}
	}
	if hint.Model == "" {
		if idx := strings.Index(text, "model="); idx >= 0 {
			rest := text[idx+len("model="):]
			end := 0
			for end < len(rest) && rest[end] >= 0x20 && rest[end] < 0x7F {
				end++
			}
			if end > 0 {
				hint.Model = rest[:end]
			}
		}
	}
}

func isHostnameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'
}
