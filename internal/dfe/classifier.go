package dfe

import (
	"sort"
	"strings"

	"github.com/aegisnet/appliance/pkg/models"
)

// ClassificationSignal is a single piece of evidence for the auxiliary
// composite classifier. This never drives Host.DeviceType or
// Host.OSFamily -- those follow the rule lists in classifyDeviceType
// (scanner.go) and InferOSFamily (os_infer.go) --
// it only produces the reporting-only ClassificationConfidence/Source
// fields.
type ClassificationSignal struct {
	Source     string            `json:"source"`
	DeviceType models.DeviceType `json:"device_type"`
	Weight     int               `json:"weight"`
	Detail     string            `json:"detail"`
}

// ClassificationResult is the output of the composite classifier.
type ClassificationResult struct {
	DeviceType models.DeviceType      `json:"device_type"`
	Confidence int                    `json:"confidence"`
	Source     string                 `json:"source"`
	Signals    []ClassificationSignal `json:"signals"`
}

// Signal weight constants, mirroring the engine's evidentiary confidence
// in each source.
const (
	WeightSNMPBridgeMIB   = 35
	WeightSNMPSysServices = 30
	WeightUPnPDeviceType  = 25
	WeightPortProfile     = 15
	WeightOUIVendor       = 25
	WeightTTLNetwork      = 10
	WeightSNMPSysDescr    = 10
)

// DeviceSignals collects every piece of auxiliary evidence gathered for a
// single host during enrichment.
type DeviceSignals struct {
	OUIDeviceType  models.DeviceType
	Manufacturer   string
	SNMPInfo       *SNMPSystemInfo
	UPnPDeviceType models.DeviceType
	PortDeviceType models.DeviceType
	TTL            int
}

// Classify runs the composite classification engine and returns the
// best-scoring device type with a confidence breakdown. It is strictly
// additive to the spec's own device-type/OS rules.
func Classify(signals *DeviceSignals) *ClassificationResult {
	if signals == nil {
		return &ClassificationResult{DeviceType: models.DeviceTypeUnknown, Source: "none"}
	}

	var all []ClassificationSignal

	if signals.SNMPInfo != nil && signals.SNMPInfo.BridgeNumPorts > 1 {
		all = append(all, ClassificationSignal{
			Source: "snmp_bridge_mib", DeviceType: models.DeviceTypeSwitch,
			Weight: WeightSNMPBridgeMIB, Detail: "BRIDGE-MIB responded with bridge data",
		})
	}
	if signals.SNMPInfo != nil && signals.SNMPInfo.Services != 0 {
		var dt models.DeviceType
		switch {
		case signals.SNMPInfo.Services&0x04 != 0 && signals.SNMPInfo.Services&0x02 == 0:
			dt = models.DeviceTypeRouter
		case signals.SNMPInfo.Services&0x02 != 0:
			dt = models.DeviceTypeSwitch
		}
		if dt != "" {
			all = append(all, ClassificationSignal{
				Source: "snmp_sys_services", DeviceType: dt,
				Weight: WeightSNMPSysServices, Detail: "sysServices OSI layer bitmask",
			})
		}
	}
	if signals.UPnPDeviceType != "" && signals.UPnPDeviceType != models.DeviceTypeUnknown {
		all = append(all, ClassificationSignal{
			Source: "upnp_device_type", DeviceType: signals.UPnPDeviceType,
			Weight: WeightUPnPDeviceType, Detail: "UPnP device type URN",
		})
	}
	if signals.PortDeviceType != "" && signals.PortDeviceType != models.DeviceTypeUnknown {
		all = append(all, ClassificationSignal{
			Source: "port_fingerprint", DeviceType: signals.PortDeviceType,
			Weight: WeightPortProfile, Detail: "infrastructure port combination match",
		})
	}
	if signals.OUIDeviceType != "" && signals.OUIDeviceType != models.DeviceTypeUnknown {
		all = append(all, ClassificationSignal{
			Source: "oui_vendor", DeviceType: signals.OUIDeviceType,
			Weight: WeightOUIVendor, Detail: "manufacturer OUI classification for " + signals.Manufacturer,
		})
	}
	if signals.TTL == 255 {
		all = append(all, ClassificationSignal{
			Source: "ttl_hint", DeviceType: models.DeviceTypeRouter,
			Weight: WeightTTLNetwork, Detail: "TTL=255 indicates network equipment",
		})
	}

	if len(all) == 0 {
		return &ClassificationResult{DeviceType: models.DeviceTypeUnknown, Source: "none"}
	}

	scores := make(map[models.DeviceType]int)
	for _, s := range all {
		scores[s.DeviceType] += s.Weight
	}

	var bestType models.DeviceType
	var bestScore int
	for dt, score := range scores {
		if score > bestScore {
			bestScore, bestType = score, dt
		}
	}
	if bestScore > 100 {
		bestScore = 100
	}

	var primarySource string
	var highestWeight int
	for _, s := range all {
		if s.DeviceType == bestType && s.Weight > highestWeight {
			highestWeight, primarySource = s.Weight, s.Source
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Weight > all[j].Weight })

	return &ClassificationResult{
		DeviceType: bestType,
		Confidence: bestScore,
		Source:     primarySource,
		Signals:    all,
	}
}

// ClassifyByManufacturer maps an OUI vendor string to a device-type hint
// via ordered substring matching.
func ClassifyByManufacturer(manufacturer string) models.DeviceType {
	if manufacturer == "" {
		return models.DeviceTypeUnknown
	}
	lower := strings.ToLower(manufacturer)
	for _, rule := range manufacturerRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lower, pattern) {
				return rule.deviceType
			}
		}
	}
	return models.DeviceTypeUnknown
}

type manufacturerRule struct {
	deviceType models.DeviceType
	patterns   []string
}

var manufacturerRules = []manufacturerRule{
	{models.DeviceTypeRouter, []string{"cisco", "meraki", "mikrotik", "netgear", "tp-link", "d-link", "linksys", "asus"}},
	{models.DeviceTypeAccessPoint, []string{"ubiquiti", "eero"}},
	{models.DeviceTypeSwitch, []string{"aruba", "ruckus", "juniper"}},
	{models.DeviceTypeCamera, []string{"ring", "wyze", "hikvision", "dahua", "reolink", "amcrest"}},
	{models.DeviceTypePrinter, []string{"brother", "canon", "epson", "lexmark", "xerox", "ricoh"}},
	{models.DeviceTypeNAS, []string{"synology", "qnap", "western digital"}},
	{models.DeviceTypeMobile, []string{"samsung", "oneplus", "xiaomi", "huawei", "oppo", "vivo", "motorola", "lg electronics"}},
	{models.DeviceTypeIoT, []string{"sonos", "roku", "amazon", "chromecast", "raspberry pi", "espressif", "philips", "ikea", "shelly"}},
	{models.DeviceTypeDesktop, []string{"apple", "dell", "lenovo", "hp inc", "hewlett packard", "microsoft"}},
}
