package dfe

import (
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

// sysDescrOID is the BER-encoded OID for 1.3.6.1.2.1.1.1.0 (sysDescr.0).
var sysDescrOID = []byte{0x2B, 0x06, 0x01, 0x02, 0x01, 0x01, 0x01, 0x00}

// buildSNMPGetRequest hand-builds a minimal SNMPv2c GetRequest BER packet
// for community "public" and the sysDescr.0 OID, rather than pulling in a full
// SNMP client library -- the spec-literal probe is just this one GetRequest.
func buildSNMPGetRequest() []byte {
	oid := berTLV(0x06, sysDescrOID)
	null := []byte{0x05, 0x00}
	varBind := berTLV(0x30, append(append([]byte{}, oid...), null...))
	varBindList := berTLV(0x30, varBind)

	requestID := []byte{0x02, 0x04, 0x00, 0x00, 0x01, 0x01}
	errorStatus := []byte{0x02, 0x01, 0x00}
	errorIndex := []byte{0x02, 0x01, 0x00}

	pduBody := append(append(append(append([]byte{}, requestID...), errorStatus...), errorIndex...), varBindList...)
	pdu := berTLV(0xA0, pduBody) // GetRequest-PDU tag

	version := []byte{0x02, 0x01, 0x01} // SNMPv2c
	community := berTLV(0x04, []byte("public"))

	body := append(append(append([]byte{}, version...), community...), pdu...)
	return berTLV(0x30, body)
}

func berTLV(tag byte, value []byte) []byte {
	length := berLength(len(value))
	out := make([]byte, 0, 2+len(length)+len(value))
	out = append(out, tag)
	out = append(out, length...)
	out = append(out, value...)
	return out
}

func berLength(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var bytesNeeded []byte
	for n > 0 {
		bytesNeeded = append([]byte{byte(n & 0xFF)}, bytesNeeded...)
		n >>= 8
	}
	return append([]byte{0x80 | byte(len(bytesNeeded))}, bytesNeeded...)
}

var snmpGetRequest = buildSNMPGetRequest()

var printableRunRegexp = regexp.MustCompile(`[\x20-\x7E]{4,}`)

// ProbeSNMP sends the sysDescr.0 GetRequest to UDP/161 and text-scrapes the
// response for the longest printable-ASCII run, stripping the community
// string "public" from the result (it always appears verbatim in the
// response and is not useful signal).
func ProbeSNMP(ip string) (sysDescr string, ok bool) {
	conn, err := net.DialTimeout("udp4", net.JoinHostPort(ip, "161"), 300*time.Millisecond)
	if err != nil {
		return "", false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(300 * time.Millisecond))

	if _, err := conn.Write(snmpGetRequest); err != nil {
		return "", false
	}
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil || n == 0 {
		return "", false
	}

	matches := printableRunRegexp.FindAllString(string(buf[:n]), -1)
	longest := ""
	for _, m := range matches {
		cleaned := strings.ReplaceAll(m, "public", "")
		if len(cleaned) > len(longest) {
			longest = cleaned
		}
	}
	if longest == "" {
		return "", false
	}
	return longest, true
}

// SNMPSystemInfo is additive, best-effort enrichment gathered via gosnmp
// after the spec-literal sysDescr probe succeeds. It never replaces the
// sysDescr probe or its risk-score contribution -- it only feeds the
// auxiliary composite classifier. EnrichSNMP fills Services only;
// BridgeAddress and BridgeNumPorts are left at their zero values.
type SNMPSystemInfo struct {
	Services       int
	BridgeAddress  string
	BridgeNumPorts int
}

// EnrichSNMP asks for sysServices (1.3.6.1.2.1.1.7.0) via gosnmp on the
// same community string. Failure is silent -- this is additive evidence,
// not part of the spec-mandated probe contract.
func EnrichSNMP(ip string) (*SNMPSystemInfo, bool) {
	params := &gosnmp.GoSNMP{
		Target:    ip,
		Port:      161,
		Community: "public",
		Version:   gosnmp.Version2c,
		Timeout:   300 * time.Millisecond,
		Retries:   0,
	}
	if err := params.Connect(); err != nil {
		return nil, false
	}
	defer params.Conn.Close()

	result, err := params.Get([]string{"1.3.6.1.2.1.1.7.0"})
	if err != nil || len(result.Variables) == 0 {
		return nil, false
	}
	services := gosnmp.ToBigInt(result.Variables[0].Value)
	if services == nil {
		return nil, false
	}
	return &SNMPSystemInfo{Services: int(services.Int64())}, true
}
