// Package dfe implements the Discovery & Fingerprint Engine: a parallel,
// multi-protocol host-discovery pipeline that fuses ARP, ICMP, TCP, UDP,
// NetBIOS, LLMNR, mDNS, and SSDP evidence into an enriched host inventory.
package dfe

import (
	"net"
	"sort"
	"strings"

	"github.com/aegisnet/appliance/pkg/models"
)

// BroadcastMAC is the all-ones MAC address that must never appear on a Host.
const BroadcastMAC = "FF:FF:FF:FF:FF:FF"

// ZeroMAC is the sentinel used when a host's hardware address is unknown.
const ZeroMAC = "00:00:00:00:00:00"

// DeviceType is the engine's coarse four-way device classification,
// produced by the fusion rule list during enrichment. It is intentionally
// distinct from the broader models.DeviceType taxonomy: that richer enum
// is reporting-only output of the auxiliary composite classifier and
// never substitutes for this field.
type DeviceType string

const (
	DeviceTypeMobileTablet       DeviceType = "Mobile/Tablet"
	DeviceTypeServerWeb          DeviceType = "Server/Web"
	DeviceTypeWindowsWorkstation DeviceType = "Windows workstation"
	DeviceTypeNetworkDevice      DeviceType = "Network Device"
)

// Host is a fused, enriched record for a single discovered device.
// Identity is the (IP, MAC) pair; everything else is evidence gathered
// during Phase 2 enrichment. Hosts are immutable once returned from Scan.
type Host struct {
	IP               string            `json:"ip" example:"192.168.1.42"`
	MAC              string            `json:"mac" example:"AA:BB:CC:DD:EE:FF"`
	Hostname         string            `json:"hostname,omitempty" example:"pixel-7"`
	Vendor           string            `json:"vendor" example:"Google, Inc."`
	Manufacturer     string            `json:"manufacturer,omitempty"`
	Model            string            `json:"model,omitempty"`
	FriendlyName     string            `json:"friendly_name,omitempty"`
	OSFamily         models.OSFamily   `json:"os_family" example:"Linux Server"`
	DeviceType       DeviceType        `json:"device_type" example:"Server/Web"`
	OpenPorts        []int             `json:"open_ports"`
	Services         []Service         `json:"services,omitempty"`
	RiskScore        int               `json:"risk_score" example:"10"`
	DiscoveryMethods []string          `json:"discovery_methods,omitempty"`

	// ClassificationConfidence/Source are auxiliary output of the composite
	// signal classifier. They never feed back into DeviceType/OSFamily/RiskScore.
	ClassificationConfidence int    `json:"classification_confidence,omitempty"`
	ClassificationSource     string `json:"classification_source,omitempty"`
}

// Service is a single fingerprinted open port on a Host.
type Service struct {
	Port     int      `json:"port" example:"22"`
	Protocol string   `json:"protocol" example:"TCP"`
	Name     string   `json:"name" example:"ssh"`
	Banner   string   `json:"banner,omitempty"`
	Version  string   `json:"version,omitempty"`
	CVEs     []string `json:"cves,omitempty"`
}

// IsBroadcastOrMulticastIP reports whether ip is a .0/.255 host address, or
// falls in 224.0.0.0/4 (multicast) or 239.0.0.0/8 (administratively scoped).
func IsBroadcastOrMulticastIP(ip string) bool {
	parsed := net.ParseIP(ip).To4()
	if parsed == nil {
		return false
	}
	last := parsed[3]
	if last == 0 || last == 255 {
		return true
	}
	first := parsed[0]
	if first >= 224 && first <= 239 {
		return true
	}
	return false
}

// IsBroadcastMAC reports whether mac is the all-ones broadcast address,
// case-insensitively and regardless of ':' vs '-' delimiter.
func IsBroadcastMAC(mac string) bool {
	clean := strings.ToUpper(strings.NewReplacer("-", "", ":", "").Replace(mac))
	return clean == "FFFFFFFFFFFF"
}

// SortHostsByLastOctet sorts hosts by the final octet of their IP address,
// matching the output ordering the engine guarantees.
func SortHostsByLastOctet(hosts []Host) {
	sort.Slice(hosts, func(i, j int) bool {
		return lastOctet(hosts[i].IP) < lastOctet(hosts[j].IP)
	})
}

func lastOctet(ip string) int {
	parsed := net.ParseIP(ip).To4()
	if parsed == nil {
		return 0
	}
	return int(parsed[3])
}
