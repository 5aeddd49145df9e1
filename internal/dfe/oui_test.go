package dfe

import (
	"strings"
	"testing"
)

func TestLookupOUI(t *testing.T) {
	tests := []struct {
		name string
		mac  string
		want string
	}{
		{"apple colon-delimited", "BC:5C:4C:11:22:33", "Apple, Inc."},
		{"raspberry pi dash-delimited", "B8-27-EB-11-22-33", "Raspberry Pi"},
		{"case insensitive", "bc5c4c112233", "Apple, Inc."},
		{"unmatched prefix", "AAAAAA112233", "Unknown Vendor"},
		{"malformed short mac", "AB:CD", "Unknown"},
		{"empty mac", "", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LookupOUI(tt.mac); got != tt.want {
				t.Errorf("LookupOUI(%q) = %q, want %q", tt.mac, got, tt.want)
			}
		})
	}
}

func TestOuiDb_LookupFallsBackToStaticTable(t *testing.T) {
	db := NewOuiDb()
	if got := db.Lookup("BC:5C:4C:11:22:33"); got != "Apple, Inc." {
		t.Errorf("Lookup() = %q, want static table hit before live db is loaded", got)
	}
}

func TestOuiDb_LookupPrefersLiveEntry(t *testing.T) {
	db := NewOuiDb()
	db.entries["AAAAAA"] = "Acme Corp"
	if got := db.Lookup("AA:AA:AA:11:22:33"); got != "Acme Corp" {
		t.Errorf("Lookup() = %q, want live db entry", got)
	}
}

func TestOuiDb_ParseSnapshot(t *testing.T) {
	db := NewOuiDb()
	data := "AA-BB-CC   (hex)\t\tWidget Industries\n" +
		"not a valid line\n" +
		"DD-EE-FF   (hex)\t\tGadget Corp\n"
	if err := db.parseSnapshot(strings.NewReader(data)); err != nil {
		t.Fatalf("parseSnapshot() error = %v", err)
	}
	if got := db.Lookup("AABBCC112233"); got != "Widget Industries" {
		t.Errorf("Lookup(AABBCC) = %q, want Widget Industries", got)
	}
	if got := db.Lookup("DDEEFF112233"); got != "Gadget Corp" {
		t.Errorf("Lookup(DDEEFF) = %q, want Gadget Corp", got)
	}
}
