package pta

import "net"

// netReverseResolver is the default ReverseResolver, backed by the
// standard resolver's PTR lookup.
type netReverseResolver struct{}

// NewNetReverseResolver returns a ReverseResolver backed by net.LookupAddr.
func NewNetReverseResolver() ReverseResolver {
	return netReverseResolver{}
}

func (netReverseResolver) LookupAddr(ip string) (string, error) {
	names, err := net.LookupAddr(ip)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// triggerReverseLookup dispatches a fire-and-forget reverse DNS lookup for
// ip on its own goroutine. Concurrent callers for the same IP are deduped
// via rdnsInFlight so only one lookup is ever in flight at a time.
func (s *Store) triggerReverseLookup(ip string) {
	if s.resolver == nil {
		return
	}
	s.rdnsMu.RLock()
	_, cached := s.rdnsCache[ip]
	s.rdnsMu.RUnlock()
	if cached {
		return
	}

	if _, loaded := s.rdnsInFlight.LoadOrStore(ip, struct{}{}); loaded {
		return
	}

	go func() {
		defer s.rdnsInFlight.Delete(ip)

		name, err := s.resolver.LookupAddr(ip)
		if err != nil || name == "" {
			return
		}
		name = trimTrailingDot(name)

		s.rdnsMu.Lock()
		s.rdnsCache[ip] = name
		s.rdnsMu.Unlock()
	}()
}

func trimTrailingDot(name string) string {
	if len(name) > 0 && name[len(name)-1] == '.' {
		return name[:len(name)-1]
	}
	return name
}
