package pta

import "strings"

var httpMethodPrefixes = []string{
	"GET ", "POST ", "PUT ", "HEAD ", "DELETE ", "OPTIONS ", "PATCH ", "CONNECT ",
}

// extractHTTPHost scans a plaintext HTTP request for its Host header. It
// only looks at payloads that open with a recognizable request line, and
// strips a trailing ":port" suffix since the port is already captured on
// the flow separately.
func extractHTTPHost(payload []byte) string {
	if len(payload) < 16 {
		return ""
	}
	text := string(payload)

	isRequest := false
	for _, prefix := range httpMethodPrefixes {
		if strings.HasPrefix(text, prefix) {
			isRequest = true
			break
		}
	}
	if !isRequest {
		return ""
	}

	lines := strings.Split(text, "\r\n")
	for _, line := range lines {
		if len(line) < 6 {
			continue
		}
		if strings.EqualFold(line[:5], "Host:") {
			host := strings.TrimSpace(line[5:])
			if idx := strings.LastIndex(host, ":"); idx != -1 {
				host = host[:idx]
			}
			return host
		}
	}
	return ""
}
