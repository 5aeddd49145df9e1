package pta

import (
	"strconv"
	"strings"
)

// resolveDomain runs the six-step domain-resolution priority chain for a
// single destination IP and returns the resolved domain (or "") plus the
// sni value to record on the flow -- which is promoted to the DNS-cache
// hit's domain when resolution falls through to step 3, purely for
// display consistency with the other extraction paths.
//
// Priority: TLS/QUIC SNI > HTTP Host > DNS cache > known IP range >
// reverse-DNS cache > (caller triggers an async reverse lookup).
func (s *Store) resolveDomain(dstIP, sni, httpHost string) (resolvedDomain, effectiveSNI string) {
	if sni != "" {
		return sni, sni
	}
	if httpHost != "" {
		return httpHost, sni
	}

	s.dnsMu.RLock()
	cached, ok := s.dnsCache[dstIP]
	s.dnsMu.RUnlock()
	if ok {
		return cached, cached
	}

	if provider := identifyByIPRange(dstIP); provider != "" {
		return provider, sni
	}

	s.rdnsMu.RLock()
	rdns, ok := s.rdnsCache[dstIP]
	s.rdnsMu.RUnlock()
	if ok {
		return rdns, sni
	}

	return "", sni
}

// ipRange is a single CIDR-ish octet-range rule: first octet a, second
// octet in [bLow, bHigh], mapped to a known provider domain.
type ipRange struct {
	a, bLow, bHigh int
	provider       string
}

// knownIPRanges is a best-effort, non-authoritative table mapping common
// first/second-octet combinations to the providers that tend to announce
// them. It exists purely to short-circuit the reverse-DNS path for the
// handful of services that dominate home-network traffic.
var knownIPRanges = []ipRange{
	{8, 8, 8, "google.com"}, {8, 34, 35, "google.com"},
	{34, 0, 255, "google.com"}, {35, 0, 255, "google.com"},
	{64, 233, 233, "google.com"}, {66, 102, 102, "google.com"}, {66, 249, 249, "google.com"},
	{72, 14, 14, "google.com"}, {74, 125, 125, "google.com"}, {108, 177, 177, "google.com"},
	{142, 250, 251, "google.com"}, {172, 217, 217, "google.com"}, {173, 194, 194, "google.com"},
	{209, 85, 85, "google.com"}, {216, 58, 58, "google.com"}, {216, 239, 239, "google.com"},

	{23, 246, 246, "netflix.com"}, {37, 77, 77, "netflix.com"}, {45, 57, 57, "netflix.com"},
	{64, 120, 120, "netflix.com"}, {66, 197, 197, "netflix.com"}, {108, 175, 175, "netflix.com"},
	{185, 2, 2, "netflix.com"}, {185, 9, 9, "netflix.com"}, {192, 173, 173, "netflix.com"},
	{198, 38, 38, "netflix.com"}, {198, 45, 45, "netflix.com"}, {207, 45, 45, "netflix.com"}, {208, 75, 75, "netflix.com"},

	{31, 13, 13, "facebook.com"}, {66, 220, 220, "facebook.com"}, {69, 63, 63, "facebook.com"},
	{69, 171, 171, "facebook.com"}, {74, 119, 119, "facebook.com"}, {102, 132, 132, "facebook.com"},
	{129, 134, 134, "facebook.com"}, {157, 240, 240, "facebook.com"}, {173, 252, 252, "facebook.com"},
	{179, 60, 60, "facebook.com"}, {185, 60, 60, "facebook.com"}, {204, 15, 15, "facebook.com"},

	{13, 0, 255, "microsoft.com"}, {20, 0, 255, "microsoft.com"}, {40, 0, 255, "microsoft.com"},
	{51, 0, 255, "microsoft.com"}, {52, 0, 255, "microsoft.com"}, {65, 52, 55, "microsoft.com"},
	{104, 40, 47, "microsoft.com"}, {131, 253, 253, "microsoft.com"}, {134, 170, 170, "microsoft.com"},
	{137, 116, 117, "microsoft.com"}, {157, 55, 56, "microsoft.com"}, {168, 61, 63, "microsoft.com"},
	{191, 232, 239, "microsoft.com"}, {204, 79, 79, "microsoft.com"},

	{3, 0, 255, "amazon.com"}, {18, 0, 255, "amazon.com"}, {44, 0, 255, "amazon.com"},
	{50, 0, 255, "amazon.com"}, {54, 0, 255, "amazon.com"}, {99, 0, 255, "amazon.com"},
	{107, 0, 255, "amazon.com"}, {174, 0, 255, "amazon.com"}, {176, 0, 255, "amazon.com"},

	{17, 0, 255, "apple.com"},

	{104, 16, 31, "cloudflare.com"}, {172, 64, 71, "cloudflare.com"}, {173, 245, 245, "cloudflare.com"},
	{188, 114, 114, "cloudflare.com"}, {190, 93, 93, "cloudflare.com"}, {197, 234, 234, "cloudflare.com"},
	{198, 41, 41, "cloudflare.com"}, {1, 1, 1, "cloudflare-dns.com"},

	{162, 159, 159, "discord.com"},

	{23, 160, 160, "twitch.tv"}, {185, 42, 42, "twitch.tv"}, {99, 181, 181, "twitch.tv"},

	{103, 10, 10, "steampowered.com"}, {146, 66, 66, "steampowered.com"}, {155, 133, 133, "steampowered.com"},
	{162, 254, 254, "steampowered.com"}, {185, 25, 25, "steampowered.com"}, {192, 69, 69, "steampowered.com"},
	{205, 196, 196, "steampowered.com"}, {208, 64, 64, "steampowered.com"},

	{35, 186, 186, "spotify.com"}, {78, 31, 31, "spotify.com"}, {193, 182, 182, "spotify.com"}, {194, 132, 132, "spotify.com"},

	{161, 117, 117, "tiktok.com"}, {152, 199, 199, "tiktok.com"},

	{104, 244, 244, "twitter.com"}, {192, 133, 133, "twitter.com"},

	{92, 122, 123, "akamai.net"}, {95, 100, 101, "akamai.net"}, {184, 24, 31, "akamai.net"},

	{151, 101, 101, "fastly.net"}, {199, 232, 232, "fastly.net"},
}

// identifyByIPRange looks dst up in the static provider-range table. It
// returns "" if no range matches; this is the engine's lowest-confidence
// resolution step, consulted only after SNI, HTTP Host, and DNS cache
// have all come up empty.
func identifyByIPRange(dst string) string {
	octets := strings.Split(dst, ".")
	if len(octets) != 4 {
		return ""
	}
	a, errA := strconv.Atoi(octets[0])
	b, errB := strconv.Atoi(octets[1])
	if errA != nil || errB != nil {
		return ""
	}
	for _, r := range knownIPRanges {
		if a == r.a && b >= r.bLow && b <= r.bHigh {
			return r.provider
		}
	}
	return ""
}
