package pta

import "testing"

func TestStore_ObserveStickyFields(t *testing.T) {
	s := NewStore(fakeResolver{})

	obs1 := observation{protocol: "TCP", srcPort: 50000, dstPort: 443, service: "HTTPS", sni: "example.com"}
	s.Observe("10.0.0.5", "93.184.216.34", 100, obs1)

	obs2 := observation{protocol: "TCP", srcPort: 50000, dstPort: 443, service: "HTTPS"}
	s.Observe("10.0.0.5", "93.184.216.34", 200, obs2)

	flows, _ := s.Snapshot()
	if len(flows) != 1 {
		t.Fatalf("got %d flows, want 1 (same 5-tuple should merge)", len(flows))
	}
	f := flows[0]
	if f.SNI != "example.com" {
		t.Errorf("SNI = %q, want sticky value %q", f.SNI, "example.com")
	}
	if f.Bytes != 300 {
		t.Errorf("Bytes = %d, want 300 (cumulative)", f.Bytes)
	}
	if f.PacketCount != 2 {
		t.Errorf("PacketCount = %d, want 2", f.PacketCount)
	}
}

func TestStore_ObserveDistinctFlowsDoNotMerge(t *testing.T) {
	s := NewStore(fakeResolver{})
	s.Observe("10.0.0.5", "1.2.3.4", 10, observation{protocol: "TCP", srcPort: 1, dstPort: 443, service: "HTTPS"})
	s.Observe("10.0.0.5", "1.2.3.4", 10, observation{protocol: "TCP", srcPort: 2, dstPort: 443, service: "HTTPS"})

	flows, _ := s.Snapshot()
	if len(flows) != 2 {
		t.Fatalf("got %d flows, want 2 (different src ports)", len(flows))
	}
}

func TestStore_DeviceStatsAggregate(t *testing.T) {
	s := NewStore(fakeResolver{})
	s.Observe("10.0.0.5", "1.1.1.1", 100, observation{protocol: "UDP", srcPort: 1, dstPort: 53, service: "DNS"})
	s.Observe("10.0.0.5", "8.8.8.8", 50, observation{protocol: "UDP", srcPort: 1, dstPort: 53, service: "DNS"})

	_, devices := s.Snapshot()
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	d := devices[0]
	if d.TotalBytes != 150 {
		t.Errorf("TotalBytes = %d, want 150", d.TotalBytes)
	}
	if d.TotalPackets != 2 {
		t.Errorf("TotalPackets = %d, want 2", d.TotalPackets)
	}
	if d.Protocols["UDP"] != 150 {
		t.Errorf("Protocols[UDP] = %d, want 150", d.Protocols["UDP"])
	}
	if len(d.TopDestinations) != 2 {
		t.Errorf("got %d distinct destinations, want 2", len(d.TopDestinations))
	}
}

func TestStore_DNSQueryPopulatesCache(t *testing.T) {
	s := NewStore(fakeResolver{})
	s.Observe("10.0.0.5", "8.8.8.8", 60, observation{protocol: "UDP", srcPort: 1, dstPort: 53, service: "DNS", dnsQuery: "example.com"})

	s.dnsMu.RLock()
	cached := s.dnsCache["8.8.8.8"]
	s.dnsMu.RUnlock()
	if cached != "example.com" {
		t.Fatalf("dnsCache[8.8.8.8] = %q, want example.com", cached)
	}
}
