package pta

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/aegisnet/appliance/pkg/plugin"
)

// capturedProtocols lists the IPv4 protocol numbers the analyzer opens a
// raw socket for: ICMP, IGMP, TCP, and UDP, matching parseTransportLayer's
// dispatch table. Anything else never reaches a raw IPv4 socket listener
// without link-layer capture, which this engine does not attempt.
var capturedProtocols = []int{1, 2, 6, 17}

// Analyzer owns the background capture loop, the flow/device store, and
// the start/stop/snapshot lifecycle used by callers (including the
// gateway's traffic endpoints).
type Analyzer struct {
	cfg    Config
	bus    plugin.EventBus
	logger *zap.Logger
	store  *Store

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewAnalyzer constructs an Analyzer. resolver is used for background
// reverse-DNS lookups; pass NewNetReverseResolver() for the real resolver.
func NewAnalyzer(cfg Config, bus plugin.EventBus, logger *zap.Logger, resolver ReverseResolver) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		bus:    bus,
		logger: logger,
		store:  NewStore(resolver),
	}
}

// Start opens one raw IPv4 socket per captured protocol and begins
// feeding every observed packet into the flow store. It returns once all
// listeners are open; capture continues on background goroutines until
// Stop is called or ctx is canceled.
func (a *Analyzer) Start(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return fmt.Errorf("pta: analyzer already running")
	}

	captureCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	localIP := detectLocalIP()

	opened := 0
	for _, proto := range capturedProtocols {
		conn, err := net.ListenPacket(fmt.Sprintf("ip4:%d", proto), "0.0.0.0")
		if err != nil {
			a.logger.Warn("pta: raw socket unavailable, skipping protocol",
				zap.Int("protocol", proto), zap.Error(err))
			continue
		}
		opened++
		a.wg.Add(1)
		go a.captureLoop(captureCtx, conn, byte(proto))
	}

	if opened == 0 {
		a.running.Store(false)
		cancel()
		err := fmt.Errorf("pta: no raw sockets could be opened (run with elevated privileges)")
		a.publish(ctx, TopicCaptureFailed, CaptureFailedEvent{Error: err.Error()})
		return err
	}

	a.publish(ctx, TopicCaptureStarted, CaptureStartedEvent{LocalIP: localIP})
	return nil
}

// Stop cancels the capture loops and waits for them to exit.
func (a *Analyzer) Stop(ctx context.Context) error {
	if !a.running.CompareAndSwap(true, false) {
		return nil
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	a.publish(ctx, TopicCaptureStopped, struct{}{})
	return nil
}

// Snapshot returns the current flow table and per-device stats.
func (a *Analyzer) Snapshot() ([]TrafficFlow, []DeviceTraffic) {
	return a.store.Snapshot()
}

// captureLoop owns one raw socket for the lifetime of a capture session.
// It runs on a locked OS thread since repeatedly handing a raw-socket file
// descriptor to arbitrary goroutines is the kind of thing that bites you
// under heavy load.
func (a *Analyzer) captureLoop(ctx context.Context, conn net.PacketConn, proto byte) {
	defer a.wg.Done()
	defer conn.Close()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	buf := make([]byte, a.cfg.ReadBufferSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			a.logger.Debug("pta: raw socket read error", zap.Error(err))
			time.Sleep(a.cfg.RecvErrorSleep)
			continue
		}

		header, err := ipv4.ParseHeader(buf[:n])
		if err != nil || header == nil || header.Len > n {
			continue
		}
		payload := buf[header.Len:n]

		obs := parseTransportLayer(proto, payload)
		a.store.Observe(header.Src.String(), header.Dst.String(), uint64(n), obs)
	}
}

func (a *Analyzer) publish(ctx context.Context, topic string, payload any) {
	if a.bus == nil {
		return
	}
	a.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "pta",
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// detectLocalIP finds the outbound-facing local address using the same
// UDP-dial trick the discovery engine uses to find its own subnet; no
// actual packet is sent, the kernel just resolves the route.
func detectLocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}
