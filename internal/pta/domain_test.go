package pta

import "testing"

func TestIdentifyByIPRange(t *testing.T) {
	tests := []struct {
		ip   string
		want string
	}{
		{"8.8.8.8", "google.com"},
		{"142.250.80.46", "google.com"},
		{"1.1.1.1", "cloudflare-dns.com"},
		{"17.253.144.10", "apple.com"},
		{"203.0.113.5", ""},
		{"not-an-ip", ""},
	}
	for _, tt := range tests {
		if got := identifyByIPRange(tt.ip); got != tt.want {
			t.Errorf("identifyByIPRange(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

type fakeResolver struct {
	name string
	err  error
}

func (f fakeResolver) LookupAddr(ip string) (string, error) {
	return f.name, f.err
}

func TestResolveDomain_Priority(t *testing.T) {
	s := NewStore(fakeResolver{})

	// SNI wins over everything else.
	domain, sni := s.resolveDomain("1.2.3.4", "sni.example.com", "host.example.com")
	if domain != "sni.example.com" || sni != "sni.example.com" {
		t.Fatalf("resolveDomain with SNI = (%q, %q), want sni to win", domain, sni)
	}

	// HTTP Host wins over DNS cache / IP range when no SNI present.
	domain, _ = s.resolveDomain("1.2.3.4", "", "host.example.com")
	if domain != "host.example.com" {
		t.Fatalf("resolveDomain with HTTP host = %q, want host.example.com", domain)
	}

	// DNS cache wins over the static IP range table.
	s.dnsCache["8.8.8.8"] = "dns.example.com"
	domain, _ = s.resolveDomain("8.8.8.8", "", "")
	if domain != "dns.example.com" {
		t.Fatalf("resolveDomain with DNS cache = %q, want dns.example.com", domain)
	}

	// Falls back to the static IP range table.
	domain, _ = s.resolveDomain("8.8.4.4", "", "")
	if domain != "google.com" {
		t.Fatalf("resolveDomain IP range fallback = %q, want google.com", domain)
	}

	// Falls back to the rDNS cache last.
	s.rdnsCache["9.9.9.9"] = "rdns.example.com"
	domain, _ = s.resolveDomain("9.9.9.9", "", "")
	if domain != "rdns.example.com" {
		t.Fatalf("resolveDomain rDNS fallback = %q, want rdns.example.com", domain)
	}

	// Nothing resolves -> empty.
	domain, _ = s.resolveDomain("203.0.113.9", "", "")
	if domain != "" {
		t.Fatalf("resolveDomain with no evidence = %q, want empty", domain)
	}
}
