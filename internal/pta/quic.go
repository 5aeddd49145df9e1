package pta

// extractQUICSNI applies a heuristic to QUIC Initial packets: rather than
// fully parsing the crypto frame (which would require implementing QUIC's
// variable-length integers and Initial-secret unwrapping), it scans the
// long-header packet for a length-prefixed, dot-containing ASCII run that
// looks like a TLS server_name extension value. This catches the common
// case without a full QUIC/TLS 1.3 stack.
func extractQUICSNI(payload []byte) string {
	if len(payload) < 5 {
		return ""
	}
	if payload[0]&0x80 == 0 { // not a long header
		return ""
	}

	for i := 0; i+2 < len(payload); i++ {
		if payload[i] != 0x00 || payload[i+1] != 0x00 {
			continue
		}
		nameLen := int(payload[i+2])
		if nameLen < 4 || nameLen > 255 {
			continue
		}
		start := i + 3
		end := start + nameLen
		if end > len(payload) {
			continue
		}
		candidate := payload[start:end]
		if looksLikeDomain(candidate) {
			return string(candidate)
		}
	}
	return ""
}

func looksLikeDomain(b []byte) bool {
	hasDot := false
	for _, c := range b {
		switch {
		case c == '.':
			hasDot = true
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			// allowed
		default:
			return false
		}
	}
	return hasDot
}
