package dfe

import (
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LLMNRMulticastAddr is the LLMNR multicast group.
const LLMNRMulticastAddr = "224.0.0.252:5355"

// LLMNRListen joins the LLMNR multicast group and records every sender
// address observed during window. It is purely passive -- the engine
// relies on ambient chatter from Windows hosts rather than sending a query.
func LLMNRListen(window time.Duration, logger *zap.Logger) map[string]bool {
	alive := make(map[string]bool)

	addr, err := net.ResolveUDPAddr("udp4", LLMNRMulticastAddr)
	if err != nil {
		logger.Debug("LLMNR resolve failed", zap.Error(err))
		return alive
	}
	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		logger.Debug("LLMNR join failed", zap.Error(err))
		return alive
	}
	defer conn.Close()

	var mu sync.Mutex
	deadline := time.Now().Add(window)
	_ = conn.SetReadDeadline(deadline)

	buf := make([]byte, 1500)
	for time.Now().Before(deadline) {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			break
		}
		if n == 0 || src == nil {
			continue
		}
		mu.Lock()
		alive[src.IP.String()] = true
		mu.Unlock()
	}
	return alive
}
