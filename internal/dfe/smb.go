package dfe

import (
	"net"
	"strings"
	"time"
)

// smbNegotiateRequest is an SMB1 Negotiate Protocol request offering a
// single dialect, "NT LM 0.12" -- enough to elicit a response banner from
// almost any SMB server, ancient or modern.
var smbNegotiateRequest = buildSMBNegotiateRequest()

func buildSMBNegotiateRequest() []byte {
	dialect := append([]byte{0x02}, []byte("NT LM 0.12\x00")...)

	smb := []byte{
		0xFF, 'S', 'M', 'B', // protocol signature
		0x72,                   // command: Negotiate Protocol
		0x00, 0x00, 0x00, 0x00, // status
		0x18,       // flags
		0x01, 0x28, // flags2
		0x00, 0x00, // PID high
		0, 0, 0, 0, 0, 0, 0, 0, // security features
		0x00, 0x00, // reserved
		0x00, 0x00, // TID
		0xFF, 0xFF, // PID low
		0x00, 0x00, // UID
		0x00, 0x00, // MID
		0x00, // word count
	}
	byteCount := len(dialect)
	smb = append(smb, byte(byteCount), byte(byteCount>>8))
	smb = append(smb, dialect...)

	header := []byte{0x00, 0x00, 0x00, byte(len(smb))}
	return append(header, smb...)
}

// ProbeSMB sends an SMB1 Negotiate request to port 445 and text-scrapes
// the response for the literal substring "Windows". Non-English server
// strings will not match -- see open questions.
func ProbeSMB(ip string) (banner string, isWindows bool) {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(ip, "445"), bannerGrabTimeout)
	if err != nil {
		return "", false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(bannerGrabTimeout))

	if _, err := conn.Write(smbNegotiateRequest); err != nil {
		return "", false
	}
	buf := make([]byte, bannerBufSize)
	n, _ := conn.Read(buf)
	if n <= 0 {
		return "", false
	}
	banner = string(buf[:n])
	return banner, strings.Contains(banner, "Windows")
}
