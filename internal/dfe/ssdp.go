package dfe

import (
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SSDPMulticastAddr is the SSDP multicast group used for M-SEARCH discovery.
const SSDPMulticastAddr = "239.255.255.250:1900"

const ssdpSearchRequest = "M-SEARCH * HTTP/1.1\r\n" +
	"HOST: 239.255.255.250:1900\r\n" +
	"MAN: \"ssdp:discover\"\r\n" +
	"MX: 2\r\n" +
	"ST: ssdp:all\r\n\r\n"

// UPnPDevice is the evidence SSDP contributes for a single IP, parsed from
// the SERVER header of its M-SEARCH response.
type UPnPDevice struct {
	Server string
	Vendor string
	Model  string
}

// SSDPSweep sends an M-SEARCH to the SSDP multicast group three times from
// an ephemeral socket and collects responses for window, text-scraping the
// SERVER header for vendor/model heuristics.
func SSDPSweep(window time.Duration, logger *zap.Logger) map[string]UPnPDevice {
	devices := make(map[string]UPnPDevice)

	groupAddr, err := net.ResolveUDPAddr("udp4", SSDPMulticastAddr)
	if err != nil {
		logger.Debug("SSDP resolve failed", zap.Error(err))
		return devices
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		logger.Debug("SSDP socket failed", zap.Error(err))
		return devices
	}
	defer conn.Close()

	go func() {
		for i := 0; i < 3; i++ {
			_, _ = conn.WriteToUDP([]byte(ssdpSearchRequest), groupAddr)
			time.Sleep(500 * time.Millisecond)
		}
	}()

	deadline := time.Now().Add(window)
	_ = conn.SetReadDeadline(deadline)
	buf := make([]byte, 2048)
	for time.Now().Before(deadline) {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil || n == 0 || src == nil {
			break
		}
		devices[src.IP.String()] = parseSSDPResponse(string(buf[:n]))
	}
	return devices
}

// parseSSDPResponse text-scrapes the SERVER header out of an SSDP
// response, matching the spec's simple heuristic rather than a full
// HTTP-response parse.
func parseSSDPResponse(response string) UPnPDevice {
	var dev UPnPDevice
	for _, line := range strings.Split(response, "\r\n") {
		if !strings.HasPrefix(strings.ToUpper(line), "SERVER:") {
			continue
		}
		value := strings.TrimSpace(line[len("SERVER:"):])
		dev.Server = value
		parts := strings.Fields(value)
		if len(parts) > 0 {
			dev.Vendor = parts[0]
		}
		if len(parts) > 1 {
			dev.Model = parts[1]
		}
		break
	}
	return dev
}
