package dfe

import (
	"testing"

	"github.com/aegisnet/appliance/pkg/models"
)

func TestInferOSFamily(t *testing.T) {
	tests := []struct {
		name      string
		ttl       int
		openPorts []int
		want      models.OSFamily
	}{
		{"default linux ttl", 60, nil, models.OSFamilyLinux},
		{"macos afp port overrides", 60, []int{548}, models.OSFamilyMacOS},
		{"ssh without smb stays linux", 60, []int{22}, models.OSFamilyLinux},
		{"ios tether port overrides ssh", 60, []int{22, 62078}, models.OSFamilyIOS},
		{"windows smb port", 120, []int{445}, models.OSFamilyWindows},
		{"default windows ttl no port evidence", 120, nil, models.OSFamilyWindows},
		{"high ttl appliance", 200, nil, models.OSFamilyAppliance},
		{"ssh plus smb falls through to windows", 60, []int{22, 445}, models.OSFamilyWindows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferOSFamily(tt.ttl, tt.openPorts); got != tt.want {
				t.Errorf("InferOSFamily(%d, %v) = %v, want %v", tt.ttl, tt.openPorts, got, tt.want)
			}
		})
	}
}

func TestInferOSFamilyFromVendor(t *testing.T) {
	tests := []struct {
		vendor string
		want   models.OSFamily
	}{
		{"Apple, Inc.", models.OSFamilyIOS},
		{"Samsung Electronics", models.OSFamilyAndroid},
		{"Huawei Technologies", models.OSFamilyAndroid},
		{"Microsoft Corporation", models.OSFamilyWindows},
		{"Synology Incorporated", models.OSFamilyDSM},
		{"Unknown Vendor", models.OSFamilyUnknownOS},
	}
	for _, tt := range tests {
		if got := InferOSFamilyFromVendor(tt.vendor); got != tt.want {
			t.Errorf("InferOSFamilyFromVendor(%q) = %v, want %v", tt.vendor, got, tt.want)
		}
	}
}

func TestHasPortAndHasAnyPort(t *testing.T) {
	ports := []int{22, 80, 443}
	if !hasPort(ports, 80) {
		t.Error("hasPort(80) = false, want true")
	}
	if hasPort(ports, 21) {
		t.Error("hasPort(21) = true, want false")
	}
	if !hasAnyPort(ports, 21, 443) {
		t.Error("hasAnyPort(21, 443) = false, want true")
	}
	if hasAnyPort(ports, 21, 23) {
		t.Error("hasAnyPort(21, 23) = true, want false")
	}
}
