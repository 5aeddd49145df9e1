package dfe

import "strings"

// Vulnerability is a single CVE-oracle finding for a probed service.
type Vulnerability struct {
	CVE         string `json:"cve"`
	Description string `json:"description"`
}

// CheckVulnerabilities is the CVE oracle: a pure function of port and
// banner text. It is intentionally naive -- e.g. the port-445 finding
// fires regardless of banner content, which is a known source of noise
// (see open questions).
func CheckVulnerabilities(port int, banner string) []Vulnerability {
	var findings []Vulnerability

	if port == 21 && strings.Contains(banner, "vsFTPd 2.3.4") {
		findings = append(findings, Vulnerability{
			CVE:         "CVE-2011-2523",
			Description: "vsftpd 2.3.4 backdoor command execution",
		})
	}

	if port == 445 {
		findings = append(findings, Vulnerability{
			CVE:         "AUDIT-SMB",
			Description: "SMB service exposed; review share permissions",
		})
	}

	if (port == 80 || port == 8080) && containsLog4Shell(banner) {
		findings = append(findings, Vulnerability{
			CVE:         "CVE-2021-44228",
			Description: "Possible Log4Shell-vulnerable service (log4j/java indicator in banner)",
		})
	}

	return findings
}

func containsLog4Shell(banner string) bool {
	lower := strings.ToLower(banner)
	return strings.Contains(lower, "log4j") || strings.Contains(lower, "java")
}
