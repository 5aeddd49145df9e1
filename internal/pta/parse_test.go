package pta

import "testing"

func TestPortToService(t *testing.T) {
	tests := []struct {
		dst, src uint16
		want     string
	}{
		{443, 51000, "HTTPS"},
		{51000, 443, "HTTPS"},
		{80, 51000, "HTTP"},
		{22, 51000, "SSH"},
		{53, 51000, "DNS"},
		{5901, 51000, "VNC"},
		{51000, 51001, "Port-51000"},
	}
	for _, tt := range tests {
		if got := portToService(tt.dst, tt.src); got != tt.want {
			t.Errorf("portToService(%d, %d) = %q, want %q", tt.dst, tt.src, got, tt.want)
		}
	}
}

func TestParseTransportLayer_Dispatch(t *testing.T) {
	tcpPayload := make([]byte, 20)
	tcpPayload[12] = 5 << 4 // data offset: 20 bytes, no options
	obs := parseTransportLayer(6, tcpPayload)
	if obs.protocol != "TCP" {
		t.Errorf("protocol = %q, want TCP", obs.protocol)
	}

	udpPayload := make([]byte, 8)
	obs = parseTransportLayer(17, udpPayload)
	if obs.protocol != "UDP" {
		t.Errorf("protocol = %q, want UDP", obs.protocol)
	}

	obs = parseTransportLayer(1, nil)
	if obs.protocol != "ICMP" {
		t.Errorf("protocol = %q, want ICMP", obs.protocol)
	}

	obs = parseTransportLayer(47, nil)
	if obs.protocol != "OTHER" || obs.service != "Proto-47" {
		t.Errorf("got protocol=%q service=%q, want OTHER/Proto-47", obs.protocol, obs.service)
	}
}

func TestParseTCP_ShortPayloadDoesNotPanic(t *testing.T) {
	obs := parseTCP([]byte{0x01, 0x02})
	if obs.protocol != "TCP" {
		t.Errorf("protocol = %q, want TCP", obs.protocol)
	}
}

func TestParseUDP_ShortPayloadDoesNotPanic(t *testing.T) {
	obs := parseUDP([]byte{0x01, 0x02})
	if obs.protocol != "UDP" {
		t.Errorf("protocol = %q, want UDP", obs.protocol)
	}
}
