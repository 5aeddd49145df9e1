package dfe

import (
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aegisnet/appliance/pkg/models"
	"github.com/aegisnet/appliance/pkg/plugin"
)

// AutoCIDR is the sentinel CIDR value that triggers local-subnet detection
// instead of scanning a literal /24.
const AutoCIDR = "auto"

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dfe_scans_total",
			Help: "Total number of discovery scans run.",
		},
		[]string{"result"},
	)
	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dfe_scan_duration_seconds",
			Help:    "Discovery scan duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	hostsDiscovered = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dfe_hosts_discovered",
			Help:    "Number of hosts returned per scan.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 254},
		},
	)
)

func init() {
	prometheus.MustRegister(scansTotal, scanDuration, hostsDiscovered)
}

// Scanner runs the two-phase discovery-and-fusion algorithm. It is safe
// for concurrent use; each Scan call owns its own transient probe state.
type Scanner struct {
	cfg     Config
	bus     plugin.EventBus
	logger  *zap.Logger
	oui     *OuiDb
	history *HistoryStore

	multicastLimiter *rate.Limiter
}

// NewScanner wires a Scanner from configuration, an optional OUI live
// database (nil falls back to the static table only), an optional history
// store (nil disables audit persistence), an event bus, and a logger.
func NewScanner(cfg Config, oui *OuiDb, history *HistoryStore, bus plugin.EventBus, logger *zap.Logger) *Scanner {
	return &Scanner{
		cfg:     cfg,
		bus:     bus,
		logger:  logger,
		oui:     oui,
		history: history,
		// Multicast probes (LLMNR/mDNS/SSDP) share one pacing budget so a
		// single scan never floods the segment with join/query traffic.
		multicastLimiter: rate.NewLimiter(rate.Limit(20), 10),
	}
}

// Scan executes the full discovery-and-fusion pipeline for cidr (or the
// auto-detected local /24 if cidr is AutoCIDR) and returns the fused host
// inventory, sorted by final IP octet. Every probe inside is best-effort
// and the returned error is always nil; a cidr that is not an a.b.c.0/24
// yields no per-host targets, so only the multicast probes and the ARP
// table contribute hosts.
func (s *Scanner) Scan(ctx context.Context, cidr string) ([]Host, error) {
	scanID := uuid.New()
	started := time.Now()

	resolvedCIDR := cidr
	if cidr == AutoCIDR || cidr == "" {
		resolvedCIDR = DetectLocalSubnet()
	}

	s.publish(ctx, TopicScanStarted, ScanStartedEvent{ScanID: scanID.String(), CIDR: resolvedCIDR})

	hosts := HostsInCIDR(resolvedCIDR)
	fused := s.runPhases(ctx, scanID, hosts)

	SortHostsByLastOctet(fused)

	duration := time.Since(started)
	scanDuration.Observe(duration.Seconds())
	hostsDiscovered.Observe(float64(len(fused)))
	scansTotal.WithLabelValues("ok").Inc()

	s.publish(ctx, TopicScanCompleted, ScanCompletedEvent{
		ScanID: scanID.String(), CIDR: resolvedCIDR, HostCount: len(fused), Duration: duration,
	})

	if s.history != nil {
		rec := ScanRecord{ID: scanID, CIDR: resolvedCIDR, StartedAt: started, FinishedAt: time.Now(), HostCount: len(fused)}
		if err := s.history.Record(ctx, rec); err != nil {
			s.logger.Warn("scan history record failed", zap.Error(err))
		}
	}

	return fused, nil
}

// runPhases executes Phase 1 discovery and Phase 2 fusion/enrichment.
func (s *Scanner) runPhases(ctx context.Context, scanID uuid.UUID, hosts []string) []Host {
	var (
		arpTable    map[string]string
		icmpResults map[string]int
		tcpAlive    map[string]bool
		udpAlive    map[string]bool
		netbiosMap  map[string]string
		llmnrAlive  map[string]bool
		mdnsHints   map[string]MDNSHint
		ssdpDevices map[string]UPnPDevice
	)

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() { defer wg.Done(); fn() }()
	}

	run(func() { icmpResults = ICMPSweep(ctx, hosts, s.cfg.ICMPTimeout, s.cfg.Concurrency, s.logger) })
	run(func() { tcpAlive = TCPSweep(ctx, hosts, TCPSweepPorts, s.cfg.TCPTimeout, s.cfg.Concurrency, s.logger) })
	run(func() { udpAlive = UDPSweep(ctx, hosts, s.cfg.UDPWindow, s.cfg.Concurrency, s.logger) })
	run(func() { netbiosMap = NetBIOSSweep(ctx, hosts, s.cfg.NetBIOSWindow, s.cfg.Concurrency, s.logger) })
	run(func() {
		_ = s.multicastLimiter.Wait(ctx)
		llmnrAlive = LLMNRListen(s.cfg.LLMNRWindow, s.logger)
	})
	run(func() {
		_ = s.multicastLimiter.Wait(ctx)
		mdnsHints = MDNSSweep(s.cfg.MDNSWindow, s.logger)
	})
	run(func() {
		_ = s.multicastLimiter.Wait(ctx)
		ssdpDevices = SSDPSweep(s.cfg.SSDPWindow, s.logger)
	})
	wg.Wait()

	// Sleep for the kernel ARP cache to settle after the noise above, then
	// read it. This read happens outside the fan-out on purpose: it must
	// observe the ARP table *after* every active probe has had a chance
	// to provoke an entry.
	time.Sleep(s.cfg.ARPSettleDelay)
	arpTable = NewARPReader(s.logger).ReadTable(ctx)

	s.publish(ctx, TopicScanProgress, ScanProgressEvent{ScanID: scanID.String(), HostsAlive: len(icmpResults) + len(tcpAlive)})

	upnpEnrichment := DiscoverUPnP(ctx, s.cfg.EnrichTimeout*4, s.logger)

	reliable := make(map[string]bool)
	for ip := range icmpResults {
		reliable[ip] = true
	}
	for ip := range udpAlive {
		reliable[ip] = true
	}
	for ip := range llmnrAlive {
		reliable[ip] = true
	}
	for ip := range netbiosMap {
		reliable[ip] = true
	}
	for ip := range mdnsHints {
		reliable[ip] = true
	}
	for ip := range ssdpDevices {
		reliable[ip] = true
	}

	unique := make(map[string]bool)
	var order []string
	add := func(ip string) {
		if !unique[ip] {
			unique[ip] = true
			order = append(order, ip)
		}
	}
	for ip := range icmpResults {
		add(ip)
	}
	for ip := range tcpAlive {
		add(ip)
	}
	for ip := range udpAlive {
		add(ip)
	}
	for ip := range llmnrAlive {
		add(ip)
	}
	for ip := range netbiosMap {
		add(ip)
	}
	for ip := range mdnsHints {
		add(ip)
	}
	for ip := range ssdpDevices {
		add(ip)
	}
	for ip := range arpTable {
		add(ip)
	}

	fusion := &fusionInputs{
		arpTable:       arpTable,
		icmpResults:    icmpResults,
		netbiosMap:     netbiosMap,
		mdnsHints:      mdnsHints,
		ssdpDevices:    ssdpDevices,
		upnpEnrichment: upnpEnrichment,
		reliable:       reliable,
	}

	var (
		mu     sync.Mutex
		fused  []Host
		enWg   sync.WaitGroup
		enrich = make(chan struct{}, s.cfg.Concurrency)
	)
	for _, ip := range order {
		enWg.Add(1)
		enrich <- struct{}{}
		go func(ip string) {
			defer enWg.Done()
			defer func() { <-enrich }()
			host, ok := s.enrichHost(ctx, ip, fusion)
			if !ok {
				return
			}
			mu.Lock()
			fused = append(fused, host)
			mu.Unlock()
			s.publish(ctx, TopicHostDiscovered, HostDiscoveredEvent{ScanID: scanID.String(), Host: host})
		}(ip)
	}
	enWg.Wait()

	return fused
}

// fusionInputs bundles Phase 1 evidence consumed by enrichHost.
type fusionInputs struct {
	arpTable       map[string]string
	icmpResults    map[string]int
	netbiosMap     map[string]string
	mdnsHints      map[string]MDNSHint
	ssdpDevices    map[string]UPnPDevice
	upnpEnrichment map[string]UPnPEnrichment
	reliable       map[string]bool
}

// enrichHost runs Phase 2 fusion and enrichment for a single IP.
func (s *Scanner) enrichHost(ctx context.Context, ip string, f *fusionInputs) (Host, bool) {
	if IsBroadcastOrMulticastIP(ip) {
		return Host{}, false
	}

	mac, haveMAC := f.arpTable[ip]
	if !haveMAC {
		mac = ZeroMAC
	}
	if IsBroadcastMAC(mac) {
		return Host{}, false
	}

	vendor := s.lookupVendor(mac)

	netbiosName, haveNetBIOS := f.netbiosMap[ip]
	mdnsHint, haveMDNS := f.mdnsHints[ip]

	var hostname string
	switch {
	case haveNetBIOS && netbiosName != "":
		hostname = netbiosName
	case haveMDNS && mdnsHint.Hostname != "":
		hostname = mdnsHint.Hostname
	default:
		hostname = vendor
	}

	openPorts := ScanOpenPorts(ctx, ip, EnrichmentPorts, s.cfg.EnrichTimeout, s.cfg.Concurrency)

	// Drop rule: stale ARP ghosts are entries with no open ports that
	// weren't independently confirmed by ARP, NetBIOS, or any reliable
	// probe.
	if len(openPorts) == 0 && !haveMAC && !haveNetBIOS && !f.reliable[ip] {
		return Host{}, false
	}

	ttl, haveTTL := f.icmpResults[ip]
	if !haveTTL {
		ttl = 64
	}
	osFamily := InferOSFamily(ttl, openPorts)
	if osFamily == models.OSFamilyUnknownOS {
		osFamily = InferOSFamilyFromVendor(vendor)
	}

	deviceType := classifyDeviceType(vendor, openPorts, haveNetBIOS)

	services, risk := s.grabServicesAndRisk(ctx, ip, openPorts)

	var snmpDescr string
	var snmpOK bool
	var snmpRisk int
	snmpDescr, snmpOK = ProbeSNMP(ip)
	if snmpOK {
		snmpRisk = 5
		services = append(services, Service{
			Port: 161, Protocol: "UDP", Name: "snmp", Banner: snmpDescr, Version: "v2c",
		})
	}

	host := Host{
		IP:               ip,
		MAC:              strings.ToUpper(mac),
		Hostname:         hostname,
		Vendor:           vendor,
		OSFamily:         osFamily,
		DeviceType:       deviceType,
		OpenPorts:        openPorts,
		Services:         services,
		RiskScore:        clampRisk(risk + snmpRisk),
		DiscoveryMethods: discoveryMethods(ip, haveMAC, haveTTL, haveNetBIOS, haveMDNS, f),
	}

	if upnp, ok := f.upnpEnrichment[ip]; ok {
		host.Manufacturer = upnp.Manufacturer
		host.Model = upnp.ModelName
		host.FriendlyName = upnp.FriendlyName
	}
	if ssdp, ok := f.ssdpDevices[ip]; ok && host.Model == "" {
		host.Model = ssdp.Model
	}
	if haveMDNS && host.Model == "" && mdnsHint.Model != "" {
		host.Model = mdnsHint.Model
	}

	signals := &DeviceSignals{
		OUIDeviceType: ClassifyByManufacturer(vendor),
		Manufacturer:  vendor,
		TTL:           ttl,
	}
	if upnp, ok := f.upnpEnrichment[ip]; ok {
		signals.UPnPDeviceType = upnp.DeviceType
	}
	if snmpOK {
		if info, ok := EnrichSNMP(ip); ok {
			signals.SNMPInfo = info
		}
	}
	if result := Classify(signals); result.DeviceType != models.DeviceTypeUnknown {
		host.ClassificationConfidence = result.Confidence
		host.ClassificationSource = result.Source
	}

	return host, true
}

func (s *Scanner) lookupVendor(mac string) string {
	if s.oui != nil {
		return s.oui.Lookup(mac)
	}
	return LookupOUI(mac)
}

func (s *Scanner) grabServicesAndRisk(ctx context.Context, ip string, openPorts []int) ([]Service, int) {
	var services []Service
	var risk int
	for _, port := range openPorts {
		if ctx.Err() != nil {
			break
		}
		var banner, name string
		switch {
		case port == 445:
			if b, isWindows := ProbeSMB(ip); isWindows {
				banner, name = b, "smb"
			} else {
				banner, name = GrabBanner(ip, port), "smb"
			}
		case port == 80, port == 443, port == 8080:
			http := ProbeHTTP(ip, port)
			if http.Raw != "" {
				banner = "Server: " + http.Server + " | Title: " + http.Title
				name = "http"
				if port == 443 {
					name = "https"
				}
			} else {
				banner, name = GrabBanner(ip, port), "http"
			}
		default:
			banner, name = GrabBanner(ip, port), "tcp"
		}

		vulns := CheckVulnerabilities(port, banner)
		risk += 10 * len(vulns)
		cves := make([]string, 0, len(vulns))
		for _, v := range vulns {
			cves = append(cves, v.CVE)
		}
		services = append(services, Service{
			Port: port, Protocol: "TCP", Name: name, Banner: banner, CVEs: cves,
		})
	}
	return services, risk
}

func classifyDeviceType(vendor string, openPorts []int, haveNetBIOS bool) DeviceType {
	lower := strings.ToLower(vendor)
	switch {
	case strings.Contains(lower, "apple"), strings.Contains(lower, "samsung"):
		return DeviceTypeMobileTablet
	case hasAnyPort(openPorts, 80, 443):
		return DeviceTypeServerWeb
	case hasPort(openPorts, 3389), haveNetBIOS:
		return DeviceTypeWindowsWorkstation
	default:
		return DeviceTypeNetworkDevice
	}
}

func discoveryMethods(ip string, haveARP, haveICMP, haveNetBIOS, haveMDNS bool, f *fusionInputs) []string {
	var methods []string
	if haveARP {
		methods = append(methods, "arp")
	}
	if haveICMP {
		methods = append(methods, "icmp")
	}
	if haveNetBIOS {
		methods = append(methods, "netbios")
	}
	if haveMDNS {
		methods = append(methods, "mdns")
	}
	if _, ok := f.ssdpDevices[ip]; ok {
		methods = append(methods, "ssdp")
	}
	return methods
}

func clampRisk(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func (s *Scanner) publish(ctx context.Context, topic string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.PublishAsync(ctx, plugin.Event{
		Topic: topic, Source: "dfe", Timestamp: time.Now(), Payload: payload,
	})
}

// DetectLocalSubnet determines the local /24 by opening a UDP socket
// "connected" to 8.8.8.8:80 -- no packet is transmitted, the kernel only
// resolves which local address would be used to route there -- and
// returns that address's /24. Falls back to the loopback /24 if detection
// fails for any reason.
func DetectLocalSubnet() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1/24"
	}
	defer conn.Close()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || localAddr.IP == nil {
		return "127.0.0.1/24"
	}
	ip4 := localAddr.IP.To4()
	if ip4 == nil {
		return "127.0.0.1/24"
	}
	return strconv.Itoa(int(ip4[0])) + "." + strconv.Itoa(int(ip4[1])) + "." + strconv.Itoa(int(ip4[2])) + ".0/24"
}
