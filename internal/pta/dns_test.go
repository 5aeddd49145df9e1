package pta

import "testing"

func buildDNSQuery(name string) []byte {
	payload := make([]byte, 12) // header
	for _, label := range splitLabels(name) {
		payload = append(payload, byte(len(label)))
		payload = append(payload, []byte(label)...)
	}
	payload = append(payload, 0x00)
	payload = append(payload, 0x00, 0x01, 0x00, 0x01) // QTYPE A, QCLASS IN
	return payload
}

func splitLabels(name string) []string {
	var labels []string
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			labels = append(labels, name[start:i])
			start = i + 1
		}
	}
	return labels
}

func TestExtractDNSQuery(t *testing.T) {
	payload := buildDNSQuery("example.com")
	if got := extractDNSQuery(payload); got != "example.com" {
		t.Fatalf("extractDNSQuery() = %q, want %q", got, "example.com")
	}
}

func TestExtractDNSQuery_Empty(t *testing.T) {
	if got := extractDNSQuery(nil); got != "" {
		t.Fatalf("extractDNSQuery(nil) = %q, want empty", got)
	}
	if got := extractDNSQuery(make([]byte, 10)); got != "" {
		t.Fatalf("extractDNSQuery(short) = %q, want empty", got)
	}
}

func TestExtractDNSQuery_OverrunLength(t *testing.T) {
	payload := make([]byte, 12)
	payload = append(payload, 0xFF) // claims a 255 byte label with no data behind it
	if got := extractDNSQuery(payload); got != "" {
		t.Fatalf("extractDNSQuery(overrun) = %q, want empty", got)
	}
}

func TestExtractDNSQuery_CompressionPointerRejected(t *testing.T) {
	payload := make([]byte, 12)
	payload = append(payload, 0xC0, 0x0C)
	if got := extractDNSQuery(payload); got != "" {
		t.Fatalf("extractDNSQuery(pointer) = %q, want empty", got)
	}
}
