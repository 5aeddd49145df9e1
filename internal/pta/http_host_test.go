package pta

import "testing"

func TestExtractHTTPHost(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			"basic GET",
			"GET / HTTP/1.1\r\nHost: example.com\r\nUser-Agent: test\r\n\r\n",
			"example.com",
		},
		{
			"host with port",
			"GET /path HTTP/1.1\r\nHost: example.com:8080\r\n\r\n",
			"example.com",
		},
		{
			"POST request",
			"POST /api HTTP/1.1\r\nHost: api.example.com\r\n\r\n",
			"api.example.com",
		},
		{
			"not an HTTP request",
			"\x16\x03\x01\x00\x10random binary data here",
			"",
		},
		{
			"no host header",
			"GET / HTTP/1.1\r\nUser-Agent: test\r\n\r\n",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractHTTPHost([]byte(tt.payload)); got != tt.want {
				t.Errorf("extractHTTPHost(%q) = %q, want %q", tt.payload, got, tt.want)
			}
		})
	}
}

func TestExtractHTTPHost_TooShort(t *testing.T) {
	if got := extractHTTPHost([]byte("GET")); got != "" {
		t.Fatalf("extractHTTPHost(short) = %q, want empty", got)
	}
}
