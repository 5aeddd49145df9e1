package pta

import "encoding/binary"

// extractTLSSNI walks a TLS record looking for a ClientHello and pulls the
// server_name extension's host_name entry out of it. Every length field
// is bounds-checked against the remaining payload before use; a short or
// malformed record returns "" rather than panicking.
func extractTLSSNI(payload []byte) string {
	if len(payload) < 44 {
		return ""
	}
	if payload[0] != 0x16 { // TLS record type: Handshake
		return ""
	}
	if payload[5] != 0x01 { // Handshake type: ClientHello
		return ""
	}

	sessionIDLen := int(payload[43])
	pos := 44 + sessionIDLen
	if len(payload) < pos+2 {
		return ""
	}

	cipherSuitesLen := int(binary.BigEndian.Uint16(payload[pos : pos+2]))
	pos += 2 + cipherSuitesLen
	if len(payload) < pos+1 {
		return ""
	}

	compressionMethodsLen := int(payload[pos])
	pos += 1 + compressionMethodsLen
	if len(payload) < pos+2 {
		return ""
	}

	extensionsLen := int(binary.BigEndian.Uint16(payload[pos : pos+2]))
	extPos := pos + 2
	extEnd := extPos + extensionsLen

	for extPos+4 < extEnd && extPos+4 < len(payload) {
		extType := binary.BigEndian.Uint16(payload[extPos : extPos+2])
		extLen := int(binary.BigEndian.Uint16(payload[extPos+2 : extPos+4]))

		if extType == 0 { // server_name
			if len(payload) >= extPos+9+extLen {
				nameLen := int(binary.BigEndian.Uint16(payload[extPos+7 : extPos+9]))
				if len(payload) >= extPos+9+nameLen {
					return string(payload[extPos+9 : extPos+9+nameLen])
				}
			}
		}
		extPos += 4 + extLen
	}
	return ""
}
