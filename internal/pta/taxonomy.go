package pta

import "strings"

// applicationRule maps a set of domain substrings to a friendly
// application name, checked in order.
type applicationRule struct {
	name     string
	patterns []string
}

var applicationRules = []applicationRule{
	{"YouTube", []string{"youtube", "ytimg", "googlevideo", "youtu.be"}},
	{"Google", []string{"google", "gstatic", "googleapis", "gvt1", "gvt2"}},
	{"Netflix", []string{"netflix", "nflx"}},
	{"Facebook", []string{"facebook", "fbcdn", "fb.com", "fbsbx"}},
	{"Instagram", []string{"instagram", "cdninstagram"}},
	{"Twitter/X", []string{"twitter", "twimg", "x.com", "t.co"}},
	{"Microsoft", []string{"microsoft", "windows", "msn.com", "azure", "bing.", "office", "live.com", "sharepoint", "onedrive"}},
	{"Apple", []string{"apple", "icloud", "itunes"}},
	{"Amazon", []string{"amazon", "aws", "prime"}},
	{"Spotify", []string{"spotify", "scdn"}},
	{"Discord", []string{"discord"}},
	{"Steam", []string{"steam", "valve", "steampowered"}},
	{"Cloudflare", []string{"cloudflare"}},
	{"Akamai CDN", []string{"akamai"}},
	{"Fastly CDN", []string{"fastly"}},
	{"TikTok", []string{"tiktok", "bytedance", "ttoast"}},
	{"WhatsApp", []string{"whatsapp"}},
	{"Zoom", []string{"zoom", "zoomgov"}},
	{"Telegram", []string{"telegram", "t.me"}},
	{"Twitch", []string{"twitch", "jtvnw"}},
	{"Reddit", []string{"reddit"}},
	{"OpenAI", []string{"openai", "chatgpt"}},
	{"GitHub", []string{"github"}},
	{"GitLab", []string{"gitlab"}},
	{"StackOverflow", []string{"stackoverflow"}},
}

// identifyApplication maps a resolved domain to a friendly application
// name via ordered substring matching. Returns "" when domain is empty
// or matches nothing.
func identifyApplication(domain string) string {
	if domain == "" {
		return ""
	}
	d := strings.ToLower(domain)
	for _, rule := range applicationRules {
		for _, pattern := range rule.patterns {
			if strings.Contains(d, pattern) {
				return rule.name
			}
		}
	}
	return ""
}

var applicationCategories = map[string]string{
	"YouTube": "Media", "Netflix": "Media", "Spotify": "Media", "TikTok": "Media", "Twitch": "Media",
	"Facebook": "Social", "Instagram": "Social", "Twitter/X": "Social", "Discord": "Social",
	"WhatsApp": "Social", "Telegram": "Social", "Reddit": "Social",
	"Steam": "Gaming",
	"Microsoft": "System/Cloud", "Apple": "System/Cloud", "Google": "System/Cloud",
	"Cloudflare": "System/Cloud", "Akamai CDN": "System/Cloud", "Fastly CDN": "System/Cloud",
	"Zoom": "Communication",
	"OpenAI": "Development", "GitHub": "Development", "GitLab": "Development", "StackOverflow": "Development",
}

var serviceCategories = map[string]string{
	"HTTP": "Web", "HTTPS": "Web",
	"DNS": "System", "DHCP": "System", "NTP": "System", "ICMP": "System", "IGMP": "System",
	"SSH": "Remote Access", "RDP": "Remote Access", "VNC": "Remote Access", "Telnet": "Remote Access",
	"SMTP": "Email", "IMAP": "Email", "POP3": "Email", "IMAPS": "Email", "POP3S": "Email",
	"SMB": "File Transfer", "FTP": "File Transfer",
	"MySQL": "Database", "PostgreSQL": "Database", "MongoDB": "Database", "Redis": "Database", "MSSQL": "Database",
	"SIP": "VoIP",
}

// categorizeTraffic classifies a flow by application first, falling back
// to the raw service name when the application has no category mapping
// (or none was identified at all).
func categorizeTraffic(service, application string) string {
	if application != "" {
		if category, ok := applicationCategories[application]; ok {
			return category
		}
	}
	if category, ok := serviceCategories[service]; ok {
		return category
	}
	return "Unknown"
}

// generateInsight produces a short, emoji-prefixed human summary of a
// flow, preferring the friendly application name over the raw domain
// over the bare destination IP as the subject.
func generateInsight(dst, service, category, application, domain string) string {
	target := application
	if target == "" {
		target = domain
	}
	if target == "" {
		target = dst
	}

	switch category {
	case "Media":
		return "\U0001F3AC Streaming: " + target
	case "Social":
		return "\U0001F4AC Social: " + target
	case "Gaming":
		return "\U0001F3AE Gaming: " + target
	case "Web":
		return "\U0001F310 " + service + " → " + target
	case "System", "System/Cloud":
		return "⚙️ System: " + target
	case "Remote Access":
		return "⚠️ Remote: " + service + " → " + dst
	case "Email":
		return "\U0001F4E7 Email via " + service
	case "Database":
		return "⚠️ Database: " + service + " → " + dst
	case "VoIP":
		return "\U0001F4DE Voice/Video"
	case "Communication":
		return "\U0001F4F9 Conference: " + target
	case "Development":
		return "\U0001F4BB Dev: " + target
	default:
		return service + " → " + target
	}
}
