package dfe

import (
	"testing"

	"github.com/aegisnet/appliance/pkg/models"
)

func TestClassifyByManufacturer(t *testing.T) {
	tests := []struct {
		manufacturer string
		want         models.DeviceType
	}{
		{"Cisco Systems, Inc.", models.DeviceTypeRouter},
		{"Ubiquiti Inc.", models.DeviceTypeAccessPoint},
		{"Aruba Networks", models.DeviceTypeSwitch},
		{"Hangzhou Hikvision Digital Technology", models.DeviceTypeCamera},
		{"Brother Industries, Ltd.", models.DeviceTypePrinter},
		{"Synology Incorporated", models.DeviceTypeNAS},
		{"Samsung Electronics Co.,Ltd", models.DeviceTypeMobile},
		{"Sonos, Inc.", models.DeviceTypeIoT},
		{"Dell Inc.", models.DeviceTypeDesktop},
		{"Some Random Manufacturer LLC", models.DeviceTypeUnknown},
		{"", models.DeviceTypeUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyByManufacturer(tt.manufacturer); got != tt.want {
			t.Errorf("ClassifyByManufacturer(%q) = %q, want %q", tt.manufacturer, got, tt.want)
		}
	}
}

func TestClassify_NilSignalsReturnsUnknown(t *testing.T) {
	result := Classify(nil)
	if result.DeviceType != models.DeviceTypeUnknown {
		t.Errorf("Classify(nil).DeviceType = %q, want Unknown", result.DeviceType)
	}
}

func TestClassify_NoEvidenceReturnsUnknown(t *testing.T) {
	result := Classify(&DeviceSignals{})
	if result.DeviceType != models.DeviceTypeUnknown {
		t.Errorf("Classify(empty).DeviceType = %q, want Unknown", result.DeviceType)
	}
}

func TestClassify_SNMPBridgeMIBDominatesOUIVendor(t *testing.T) {
	signals := &DeviceSignals{
		OUIDeviceType: models.DeviceTypeDesktop,
		Manufacturer:  "Dell Inc.",
		SNMPInfo:      &SNMPSystemInfo{BridgeNumPorts: 24},
	}
	result := Classify(signals)
	if result.DeviceType != models.DeviceTypeSwitch {
		t.Fatalf("DeviceType = %q, want Switch (BRIDGE-MIB outweighs OUI)", result.DeviceType)
	}
	if result.Source != "snmp_bridge_mib" {
		t.Errorf("Source = %q, want snmp_bridge_mib", result.Source)
	}
	// BridgeMIB and OUI vote for different device types, so the winning
	// Switch score is just the bridge weight on its own.
	if result.Confidence != WeightSNMPBridgeMIB {
		t.Errorf("Confidence = %d, want %d", result.Confidence, WeightSNMPBridgeMIB)
	}
}

func TestClassify_AgreeingSignalsSumAndCap(t *testing.T) {
	signals := &DeviceSignals{
		OUIDeviceType:  models.DeviceTypeRouter,
		UPnPDeviceType: models.DeviceTypeRouter,
		TTL:            255,
	}
	result := Classify(signals)
	if result.DeviceType != models.DeviceTypeRouter {
		t.Fatalf("DeviceType = %q, want Router", result.DeviceType)
	}
	want := WeightOUIVendor + WeightUPnPDeviceType + WeightTTLNetwork
	if want > 100 {
		want = 100
	}
	if result.Confidence != want {
		t.Errorf("Confidence = %d, want %d", result.Confidence, want)
	}
}
