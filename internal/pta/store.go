package pta

import (
	"fmt"
	"sync"
	"time"
)

// TrafficFlow is a single aggregated flow, keyed by the 5-tuple
// (src_ip, src_port, dst_ip, dst_port, proto_name). Optional string
// fields are sticky: once set by Store.Observe they are never
// overwritten. Counters only increase.
type TrafficFlow struct {
	SrcIP          string `json:"src_ip"`
	DstIP          string `json:"dst_ip"`
	SrcPort        uint16 `json:"src_port"`
	DstPort        uint16 `json:"dst_port"`
	Protocol       string `json:"protocol"`
	Service        string `json:"service"`
	Application    string `json:"application,omitempty"`
	SNI            string `json:"sni,omitempty"`
	DNSQuery       string `json:"dns_query,omitempty"`
	HTTPHost       string `json:"http_host,omitempty"`
	ResolvedDomain string `json:"resolved_domain,omitempty"`
	Bytes          uint64 `json:"bytes"`
	PacketCount    uint64 `json:"packet_count"`
	LastSeen       int64  `json:"last_seen"`
	Category       string `json:"category"`
	Insight        string `json:"insight"`
}

func flowKey(srcIP string, srcPort uint16, dstIP string, dstPort uint16, protocol string) string {
	return fmt.Sprintf("%s:%d|%s:%d|%s", srcIP, srcPort, dstIP, dstPort, protocol)
}

// DeviceTraffic is a running per-source-IP traffic summary. Counters only
// increase; the three breakdown maps are keyed by protocol, service, and
// destination IP respectively.
type DeviceTraffic struct {
	IP               string           `json:"ip"`
	TotalBytes       uint64           `json:"total_bytes"`
	TotalPackets     uint64           `json:"total_packets"`
	Protocols        map[string]uint64 `json:"protocols"`
	TopServices      map[string]uint64 `json:"top_services"`
	TopDestinations  map[string]uint64 `json:"top_destinations"`
}

// observation is the parsed evidence for one packet, assembled by
// parseTransportLayer and its per-protocol helpers before being handed to
// Store.Observe.
type observation struct {
	protocol string
	srcPort  uint16
	dstPort  uint16
	service  string
	sni      string
	dnsQuery string
	httpHost string
}

// Store holds the flow table, device stats, and the DNS/RDNS caches. All
// maps are guarded by their own mutex, matching the engine's one-lock-
// per-concern concurrency shape; there is no global lock across them.
type Store struct {
	flowMu sync.Mutex
	flows  map[string]*TrafficFlow

	deviceMu sync.Mutex
	devices  map[string]*DeviceTraffic

	dnsMu     sync.RWMutex
	dnsCache  map[string]string // dst IP -> domain observed in a DNS query

	rdnsMu    sync.RWMutex
	rdnsCache map[string]string // IP -> reverse-resolved hostname

	rdnsInFlight sync.Map // IP -> struct{}, dedupes concurrent lookups
	resolver     ReverseResolver
}

// ReverseResolver performs a reverse DNS lookup. Abstracted so tests can
// substitute a fake without touching the real resolver.
type ReverseResolver interface {
	LookupAddr(ip string) (string, error)
}

// NewStore constructs an empty Store using resolver for background
// reverse-DNS lookups.
func NewStore(resolver ReverseResolver) *Store {
	return &Store{
		flows:     make(map[string]*TrafficFlow),
		devices:   make(map[string]*DeviceTraffic),
		dnsCache:  make(map[string]string),
		rdnsCache: make(map[string]string),
		resolver:  resolver,
	}
}

// Observe processes one IPv4 packet's evidence: it updates the DNS cache,
// resolves a domain via the priority chain in domain.go, classifies the
// flow, and upserts both the flow table and the source device's stats.
func (s *Store) Observe(srcIP, dstIP string, length uint64, obs observation) {
	if obs.dnsQuery != "" {
		s.dnsMu.Lock()
		s.dnsCache[dstIP] = obs.dnsQuery
		s.dnsMu.Unlock()
	}

	resolvedDomain, sni := s.resolveDomain(dstIP, obs.sni, obs.httpHost)
	application := identifyApplication(resolvedDomain)
	category := categorizeTraffic(obs.service, application)
	insight := generateInsight(dstIP, obs.service, category, application, resolvedDomain)

	s.upsertFlow(srcIP, dstIP, obs, length, sni, resolvedDomain, application, category, insight)
	s.upsertDevice(srcIP, dstIP, obs, length)

	if resolvedDomain == "" {
		s.triggerReverseLookup(dstIP)
	}
}

func (s *Store) upsertFlow(srcIP, dstIP string, obs observation, length uint64, sni, resolvedDomain, application, category, insight string) {
	key := flowKey(srcIP, obs.srcPort, dstIP, obs.dstPort, obs.protocol)

	s.flowMu.Lock()
	defer s.flowMu.Unlock()

	flow, ok := s.flows[key]
	if !ok {
		s.flows[key] = &TrafficFlow{
			SrcIP: srcIP, DstIP: dstIP, SrcPort: obs.srcPort, DstPort: obs.dstPort,
			Protocol: obs.protocol, Service: obs.service, Application: application,
			SNI: sni, DNSQuery: obs.dnsQuery, HTTPHost: obs.httpHost, ResolvedDomain: resolvedDomain,
			Bytes: length, PacketCount: 1, LastSeen: time.Now().Unix(),
			Category: category, Insight: insight,
		}
		return
	}

	flow.Bytes += length
	flow.PacketCount++
	flow.LastSeen = time.Now().Unix()
	if flow.SNI == "" && sni != "" {
		flow.SNI = sni
	}
	if flow.DNSQuery == "" && obs.dnsQuery != "" {
		flow.DNSQuery = obs.dnsQuery
	}
	if flow.HTTPHost == "" && obs.httpHost != "" {
		flow.HTTPHost = obs.httpHost
	}
	if flow.ResolvedDomain == "" && resolvedDomain != "" {
		flow.ResolvedDomain = resolvedDomain
	}
	if flow.Application == "" && application != "" {
		flow.Application = application
	}
}

func (s *Store) upsertDevice(srcIP, dstIP string, obs observation, length uint64) {
	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()

	dev, ok := s.devices[srcIP]
	if !ok {
		dev = &DeviceTraffic{
			IP:              srcIP,
			Protocols:       make(map[string]uint64),
			TopServices:     make(map[string]uint64),
			TopDestinations: make(map[string]uint64),
		}
		s.devices[srcIP] = dev
	}
	dev.TotalBytes += length
	dev.TotalPackets++
	dev.Protocols[obs.protocol] += length
	dev.TopServices[obs.service] += length
	dev.TopDestinations[dstIP] += length
}

// Snapshot returns cloned copies of the flow and device-stats tables,
// safe for the caller to read without holding any lock.
func (s *Store) Snapshot() ([]TrafficFlow, []DeviceTraffic) {
	s.flowMu.Lock()
	flows := make([]TrafficFlow, 0, len(s.flows))
	for _, f := range s.flows {
		flows = append(flows, *f)
	}
	s.flowMu.Unlock()

	s.deviceMu.Lock()
	devices := make([]DeviceTraffic, 0, len(s.devices))
	for _, d := range s.devices {
		devices = append(devices, cloneDeviceTraffic(d))
	}
	s.deviceMu.Unlock()

	return flows, devices
}

func cloneDeviceTraffic(d *DeviceTraffic) DeviceTraffic {
	clone := DeviceTraffic{
		IP: d.IP, TotalBytes: d.TotalBytes, TotalPackets: d.TotalPackets,
		Protocols:       make(map[string]uint64, len(d.Protocols)),
		TopServices:     make(map[string]uint64, len(d.TopServices)),
		TopDestinations: make(map[string]uint64, len(d.TopDestinations)),
	}
	for k, v := range d.Protocols {
		clone.Protocols[k] = v
	}
	for k, v := range d.TopServices {
		clone.TopServices[k] = v
	}
	for k, v := range d.TopDestinations {
		clone.TopDestinations[k] = v
	}
	return clone
}
