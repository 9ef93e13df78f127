package urlutil

import (
	"net/url"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantHost string
	}{
		{"https://WWW.Leboncoin.FR/ad/ventes_immobilieres/123#photos",
			"https://www.leboncoin.fr/ad/ventes_immobilieres/123", "www.leboncoin.fr"},
		{"//www.leboncoin.fr/annonces/456", "https://www.leboncoin.fr/annonces/456", "www.leboncoin.fr"},
	}

	for _, tt := range tests {
		got, host, err := Normalize(tt.in)
		if err != nil {
			t.Errorf("Normalize(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want || host != tt.wantHost {
			t.Errorf("Normalize(%q) = (%q, %q); want (%q, %q)", tt.in, got, host, tt.want, tt.wantHost)
		}
	}
}

func TestResolve(t *testing.T) {
	base, _ := url.Parse("https://www.leboncoin.fr/recherche?text=loyer")

	tests := []struct {
		href string
		want string
	}{
		{"/ad/ventes_immobilieres/311066#top", "https://www.leboncoin.fr/ad/ventes_immobilieres/311066"},
		{"https://other.example/x", "https://other.example/x"},
		{"mailto:contact@example.org", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Resolve(base, tt.href); got != tt.want {
			t.Errorf("Resolve(%q) = %q; want %q", tt.href, got, tt.want)
		}
	}
}

func TestIsAdURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.leboncoin.fr/ad/ventes_immobilieres/3110667700", true},
		{"https://www.leboncoin.fr/annonces/studio-nantes", true},
		{"https://www.leboncoin.fr/vi/12345", true},
		{"https://www.leboncoin.fr/ventes/fiche-98765.htm", true},
		{"https://www.leboncoin.fr/annonces", false}, // category root, no identifier
		{"https://www.leboncoin.fr/", false},
		{"https://www.leboncoin.fr/recherche?text=loyer", false},
		{"not a url at all ::", false},
	}

	for _, tt := range tests {
		if got := IsAdURL(tt.url); got != tt.want {
			t.Errorf("IsAdURL(%q) = %v; want %v", tt.url, got, tt.want)
		}
	}
}
