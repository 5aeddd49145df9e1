package pta

import "testing"

func TestExtractQUICSNI(t *testing.T) {
	payload := []byte{0x80, 0x00, 0x00, 0x00, 0x01}
	payload = append(payload, 0x00, 0x00, byte(len("quic.example.com")))
	payload = append(payload, []byte("quic.example.com")...)

	got := extractQUICSNI(payload)
	if got != "quic.example.com" {
		t.Fatalf("extractQUICSNI() = %q, want %q", got, "quic.example.com")
	}
}

func TestExtractQUICSNI_ShortHeader(t *testing.T) {
	payload := []byte{0x40, 0x00, 0x00, 0x00, 0x01}
	if got := extractQUICSNI(payload); got != "" {
		t.Fatalf("extractQUICSNI(short header) = %q, want empty", got)
	}
}

func TestExtractQUICSNI_NoMatch(t *testing.T) {
	payload := []byte{0x80, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	if got := extractQUICSNI(payload); got != "" {
		t.Fatalf("extractQUICSNI(no match) = %q, want empty", got)
	}
}

func TestLooksLikeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"example.com", true},
		{"sub.example-two.com", true},
		{"nodothere", false},
		{"has space.com", false},
		{"bin\x00ary.com", false},
	}
	for _, tt := range tests {
		if got := looksLikeDomain([]byte(tt.in)); got != tt.want {
			t.Errorf("looksLikeDomain(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
