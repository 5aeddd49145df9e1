package pta

import (
	"encoding/binary"
	"testing"
)

// buildClientHello assembles a minimal TLS ClientHello record wrapping a
// single server_name extension, for exercising extractTLSSNI without a
// real TLS stack.
func buildClientHello(sni string) []byte {
	ext := []byte{0x00, 0x00} // extension type: server_name
	serverNameList := []byte{0x00} // name type: host_name
	nameLen := make([]byte, 2)
	binary.BigEndian.PutUint16(nameLen, uint16(len(sni)))
	serverNameList = append(serverNameList, nameLen...)
	serverNameList = append(serverNameList, []byte(sni)...)

	listLen := make([]byte, 2)
	binary.BigEndian.PutUint16(listLen, uint16(len(serverNameList)))
	extBody := append(listLen, serverNameList...)

	extLen := make([]byte, 2)
	binary.BigEndian.PutUint16(extLen, uint16(len(extBody)))
	ext = append(ext, extLen...)
	ext = append(ext, extBody...)

	extensionsLen := make([]byte, 2)
	binary.BigEndian.PutUint16(extensionsLen, uint16(len(ext)))

	// The record header occupies payload[0:6]; body starts at payload[6].
	// payload[43] must hold the session-id-length byte, so body needs
	// 38 leading zero bytes (body[37] == payload[43]) before it, all of
	// which make([]byte, 38) already supplies as zero.
	body := make([]byte, 0, 128)
	body = append(body, make([]byte, 38)...)
	body = append(body, 0x00, 0x02, 0x00, 0x00) // cipher suites length=2, one cipher suite
	body = append(body, 0x01, 0x00)             // compression methods length=1, null method
	body = append(body, extensionsLen...)
	body = append(body, ext...)

	record := []byte{0x16, 0x03, 0x01, 0x00, 0x00, 0x01}
	record = append(record, body...)
	return record
}

func TestExtractTLSSNI(t *testing.T) {
	payload := buildClientHello("example.com")
	got := extractTLSSNI(payload)
	if got != "example.com" {
		t.Fatalf("extractTLSSNI() = %q, want %q", got, "example.com")
	}
}

func TestExtractTLSSNI_NotHandshake(t *testing.T) {
	payload := []byte{0x17, 0x03, 0x01, 0x00, 0x10}
	if got := extractTLSSNI(payload); got != "" {
		t.Fatalf("extractTLSSNI() = %q, want empty for non-handshake record", got)
	}
}

func TestExtractTLSSNI_Truncated(t *testing.T) {
	for _, n := range []int{0, 1, 10, 43, 44} {
		payload := make([]byte, n)
		if n > 0 {
			payload[0] = 0x16
		}
		if n > 5 {
			payload[5] = 0x01
		}
		if got := extractTLSSNI(payload); got != "" {
			t.Fatalf("extractTLSSNI(len=%d) = %q, want empty", n, got)
		}
	}
}
