package dfe

import (
	"strings"

	"github.com/aegisnet/appliance/pkg/models"
)

func hasPort(ports []int, port int) bool {
	for _, p := range ports {
		if p == port {
			return true
		}
	}
	return false
}

func hasAnyPort(ports []int, candidates ...int) bool {
	for _, c := range candidates {
		if hasPort(ports, c) {
			return true
		}
	}
	return false
}

// InferOSFamily applies the TTL/open-port table from the engine's OS
// inference rules. Reassignment is sequential, not a single switch: a
// later rule can override an earlier one if its condition also matches.
// Both the ttl<=64 and the 65-128 range carry their own default (Linux and
// Windows respectively) before port evidence can narrow it further,
// mirroring the reference implementation's symmetric low/mid/high TTL
// branches.
func InferOSFamily(ttl int, openPorts []int) models.OSFamily {
	result := models.OSFamilyUnknownOS

	if ttl <= 64 {
		result = models.OSFamilyLinux
	}
	if ttl <= 64 && hasPort(openPorts, 548) {
		result = models.OSFamilyMacOS
	}
	if ttl <= 64 && hasPort(openPorts, 22) && !hasPort(openPorts, 445) {
		result = models.OSFamilyLinux
	}
	if ttl <= 64 && hasPort(openPorts, 62078) {
		result = models.OSFamilyIOS
	}
	if ttl > 64 && ttl <= 128 {
		result = models.OSFamilyWindows
	}
	if ttl <= 128 && hasAnyPort(openPorts, 135, 445) {
		result = models.OSFamilyWindows
	}
	if ttl > 128 {
		result = models.OSFamilyAppliance
	}

	return result
}

// InferOSFamilyFromVendor backs off to a vendor-based guess when the
// TTL/port table could not determine an OS family.
func InferOSFamilyFromVendor(vendor string) models.OSFamily {
	lower := strings.ToLower(vendor)
	switch {
	case strings.Contains(lower, "apple"):
		return models.OSFamilyIOS
	case strings.Contains(lower, "samsung"), strings.Contains(lower, "huawei"), strings.Contains(lower, "google"):
		return models.OSFamilyAndroid
	case strings.Contains(lower, "microsoft"):
		return models.OSFamilyWindows
	case strings.Contains(lower, "synology"):
		return models.OSFamilyDSM
	default:
		return models.OSFamilyUnknownOS
	}
}
