package scraper

import "testing"

func TestIsAdHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"doubleclick.net", true},
		{"securepubads.g.doubleclick.net", true},
		{"ADS.AdThrive.com", true},
		{"www.seriouseats.com", false},
		{"net", false},
		{"", false},
		{"mediavine.com.example.org", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := isAdHost(tt.host); got != tt.want {
				t.Errorf("isAdHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}
