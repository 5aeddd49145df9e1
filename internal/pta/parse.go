package pta

import (
	"encoding/binary"
	"strconv"
)

// parseTransportLayer dispatches on the IPv4 protocol number and returns
// the evidence extracted from the packet's transport-layer payload.
// Unknown protocols still produce a flow (named "Proto-N") with no port
// or DPI evidence, matching the policy that every observed packet
// contributes to some flow.
func parseTransportLayer(proto byte, payload []byte) observation {
	switch proto {
	case 6:
		return parseTCP(payload)
	case 17:
		return parseUDP(payload)
	case 1:
		return observation{protocol: "ICMP", service: "ICMP"}
	case 2:
		return observation{protocol: "IGMP", service: "IGMP"}
	default:
		return observation{protocol: "OTHER", service: protoName(proto)}
	}
}

func protoName(proto byte) string {
	return "Proto-" + strconv.Itoa(int(proto))
}

func parseTCP(payload []byte) observation {
	if len(payload) < 20 {
		return observation{protocol: "TCP", service: "TCP"}
	}
	srcPort := binary.BigEndian.Uint16(payload[0:2])
	dstPort := binary.BigEndian.Uint16(payload[2:4])
	dataOffset := int(payload[12]>>4) * 4

	var tcpPayload []byte
	if len(payload) > dataOffset {
		tcpPayload = payload[dataOffset:]
	}

	return observation{
		protocol: "TCP",
		srcPort:  srcPort,
		dstPort:  dstPort,
		service:  portToService(dstPort, srcPort),
		sni:      extractTLSSNI(tcpPayload),
		httpHost: extractHTTPHost(tcpPayload),
	}
}

func parseUDP(payload []byte) observation {
	if len(payload) < 8 {
		return observation{protocol: "UDP", service: "UDP"}
	}
	srcPort := binary.BigEndian.Uint16(payload[0:2])
	dstPort := binary.BigEndian.Uint16(payload[2:4])
	var udpPayload []byte
	if len(payload) > 8 {
		udpPayload = payload[8:]
	}

	obs := observation{
		protocol: "UDP",
		srcPort:  srcPort,
		dstPort:  dstPort,
		service:  portToService(dstPort, srcPort),
	}
	if dstPort == 53 || srcPort == 53 {
		obs.dnsQuery = extractDNSQuery(udpPayload)
	}
	if dstPort == 443 || srcPort == 443 {
		obs.sni = extractQUICSNI(udpPayload)
	}
	return obs
}

// portToService maps whichever side of the connection is in the
// well-known range (<1024) to a friendly service name, preferring the
// destination port when both (or neither) qualify.
func portToService(dstPort, srcPort uint16) string {
	port := dstPort
	if dstPort >= 1024 && srcPort < 1024 {
		port = srcPort
	}
	switch port {
	case 20, 21:
		return "FTP"
	case 22:
		return "SSH"
	case 23:
		return "Telnet"
	case 25, 587, 465:
		return "SMTP"
	case 53:
		return "DNS"
	case 67, 68:
		return "DHCP"
	case 80, 8080, 8000:
		return "HTTP"
	case 110:
		return "POP3"
	case 123:
		return "NTP"
	case 143:
		return "IMAP"
	case 443, 8443:
		return "HTTPS"
	case 445:
		return "SMB"
	case 993:
		return "IMAPS"
	case 995:
		return "POP3S"
	case 1080:
		return "SOCKS"
	case 1433:
		return "MSSQL"
	case 1723:
		return "PPTP"
	case 3306:
		return "MySQL"
	case 3389:
		return "RDP"
	case 5060, 5061:
		return "SIP"
	case 5432:
		return "PostgreSQL"
	case 6379:
		return "Redis"
	case 27017:
		return "MongoDB"
	default:
		if port >= 5900 && port <= 5903 {
			return "VNC"
		}
		return "Port-" + strconv.Itoa(int(dstPort))
	}
}
