package dfe

import "testing"

func TestIsBroadcastOrMulticastIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.0", true},
		{"192.168.1.255", true},
		{"192.168.1.42", false},
		{"224.0.0.251", true},
		{"239.255.255.250", true},
		{"8.8.8.8", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := IsBroadcastOrMulticastIP(tt.ip); got != tt.want {
			t.Errorf("IsBroadcastOrMulticastIP(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestIsBroadcastMAC(t *testing.T) {
	tests := []struct {
		mac  string
		want bool
	}{
		{"FF:FF:FF:FF:FF:FF", true},
		{"ff-ff-ff-ff-ff-ff", true},
		{"AA:BB:CC:DD:EE:FF", false},
		{ZeroMAC, false},
	}
	for _, tt := range tests {
		if got := IsBroadcastMAC(tt.mac); got != tt.want {
			t.Errorf("IsBroadcastMAC(%q) = %v, want %v", tt.mac, got, tt.want)
		}
	}
}

func TestSortHostsByLastOctet(t *testing.T) {
	hosts := []Host{
		{IP: "192.168.1.200"},
		{IP: "192.168.1.5"},
		{IP: "192.168.1.42"},
	}
	SortHostsByLastOctet(hosts)
	want := []string{"192.168.1.5", "192.168.1.42", "192.168.1.200"}
	for i, w := range want {
		if hosts[i].IP != w {
			t.Errorf("hosts[%d].IP = %q, want %q", i, hosts[i].IP, w)
		}
	}
}
