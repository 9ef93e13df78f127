// Package urlutil normalizes listing URLs and decides whether a link found
// on a search-results page points at an individual ad.
package urlutil

import (
	"net/url"
	"strings"
)

// adPathPrefixes are the path roots the site uses for individual ads.
var adPathPrefixes = map[string]struct{}{
	"annonces": {},
	"ad":       {},
	"v":        {},
	"vi":       {},
}

// Normalize parses a raw URL, defaults the scheme to https, strips the
// fragment, and returns the normalized URL plus its lowercased host.
func Normalize(rawURL string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	return u.String(), u.Hostname(), nil
}

// Resolve turns a possibly relative href into an absolute URL against base.
func Resolve(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Fragment = ""
	return u.String()
}

// IsAdURL reports whether a URL looks like an individual ad page rather
// than a category root or navigation link. An ad path either starts with a
// known ad prefix followed by at least one more segment, or carries a
// numeric identifier or .htm(l) page somewhere in its path.
func IsAdURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	var parts []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return false
	}

	if _, ok := adPathPrefixes[parts[0]]; ok && len(parts) >= 2 {
		return true
	}
	for _, seg := range parts {
		if isDigits(seg) || strings.HasSuffix(seg, ".htm") || strings.HasSuffix(seg, ".html") {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
