package discovery

import (
	"net/url"
	"testing"
)

func TestSearchURL(t *testing.T) {
	raw := SearchURL("nantes", "loyer", 1)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("SearchURL produced an unparseable URL: %v", err)
	}
	if u.Host != "www.leboncoin.fr" || u.Path != "/recherche" {
		t.Errorf("unexpected endpoint %s%s", u.Host, u.Path)
	}

	q := u.Query()
	for key, want := range map[string]string{
		"text":       "loyer",
		"locations":  "Nantes",
		"category":   "9",
		"owner_type": "all",
		"sort":       "time",
		"order":      "desc",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("param %s = %q; want %q", key, got, want)
		}
	}
	if q.Has("page") {
		t.Error("page param present on first page")
	}
}

func TestSearchURLPaging(t *testing.T) {
	u, err := url.Parse(SearchURL("NANTES", "loyer", 3))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.Query().Get("page"); got != "3" {
		t.Errorf("page = %q; want 3", got)
	}
}

func TestLocationLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"nantes", "Nantes"},
		{"SAINT-NAZAIRE", "Saint-Nazaire"},
		{" rezé ", "Rezé"},
		{"nantes__47.21_-1.55_8804_10000", "Nantes__47.21_-1.55_8804_10000"},
	}

	for _, tt := range tests {
		if got := locationLabel(tt.in); got != tt.want {
			t.Errorf("locationLabel(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
