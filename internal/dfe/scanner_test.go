package dfe

import "testing"

func TestClassifyDeviceType(t *testing.T) {
	tests := []struct {
		name        string
		vendor      string
		openPorts   []int
		haveNetBIOS bool
		want        DeviceType
	}{
		{"apple vendor wins first", "Apple, Inc.", []int{80, 3389}, true, DeviceTypeMobileTablet},
		{"samsung vendor wins first", "Samsung Electronics", nil, false, DeviceTypeMobileTablet},
		{"web ports", "Dell Inc.", []int{443}, false, DeviceTypeServerWeb},
		{"rdp port", "Dell Inc.", []int{3389}, false, DeviceTypeWindowsWorkstation},
		{"netbios present", "Dell Inc.", nil, true, DeviceTypeWindowsWorkstation},
		{"default network device", "Cisco Systems", []int{22}, false, DeviceTypeNetworkDevice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyDeviceType(tt.vendor, tt.openPorts, tt.haveNetBIOS); got != tt.want {
				t.Errorf("classifyDeviceType(%q, %v, %v) = %q, want %q", tt.vendor, tt.openPorts, tt.haveNetBIOS, got, tt.want)
			}
		})
	}
}

func TestClampRisk(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{42, 42},
		{255, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := clampRisk(tt.in); got != tt.want {
			t.Errorf("clampRisk(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDiscoveryMethods(t *testing.T) {
	f := &fusionInputs{ssdpDevices: map[string]UPnPDevice{"10.0.0.5": {}}}
	methods := discoveryMethods("10.0.0.5", true, true, false, true, f)
	want := map[string]bool{"arp": true, "icmp": true, "mdns": true, "ssdp": true}
	if len(methods) != len(want) {
		t.Fatalf("got %v, want exactly %v", methods, want)
	}
	for _, m := range methods {
		if !want[m] {
			t.Errorf("unexpected discovery method %q", m)
		}
	}
}

func TestDiscoveryMethods_NoneMatched(t *testing.T) {
	f := &fusionInputs{}
	methods := discoveryMethods("10.0.0.9", false, false, false, false, f)
	if len(methods) != 0 {
		t.Errorf("got %v, want empty", methods)
	}
}
