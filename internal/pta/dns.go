package pta

// extractDNSQuery walks the question section of a DNS message starting at
// the fixed 12-byte header and joins the labels of the first question name
// with dots. Any length byte that would run past the payload ends the
// walk and returns "" rather than reading out of bounds.
func extractDNSQuery(payload []byte) string {
	if len(payload) < 13 {
		return ""
	}

	var labels []string
	pos := 12
	for pos < len(payload) {
		length := int(payload[pos])
		if length == 0 {
			break
		}
		if length&0xC0 == 0xC0 {
			// Compression pointer in the question section is not expected;
			// bail rather than follow it.
			return ""
		}
		pos++
		if pos+length > len(payload) {
			return ""
		}
		labels = append(labels, string(payload[pos:pos+length]))
		pos += length
	}

	if len(labels) == 0 {
		return ""
	}
	out := labels[0]
	for _, l := range labels[1:] {
		out += "." + l
	}
	return out
}
