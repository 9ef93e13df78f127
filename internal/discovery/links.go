package discovery

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mlegrand/immoscan/internal/urlutil"
)

// adPathRe catches ad paths embedded in inline scripts, where no anchor
// tag exists for them.
var adPathRe = regexp.MustCompile(`["'](/(?:annonces|ad|v|vi)/[^"']+)["']`)

// AdLinks extracts the individual ad URLs referenced by a search-results
// page. Three sources are combined: anchor tags, JSON-LD data islands,
// and a raw scan for quoted ad paths inside scripts. Links to other hosts
// are dropped, results are deduped, and only URLs that look like an actual
// ad survive.
func AdLinks(rawHTML []byte, base *url.URL) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(raw string) {
		normalized, host, err := urlutil.Normalize(raw)
		if err != nil || host == "" || !sameHost(base, host) {
			return
		}
		if !urlutil.IsAdURL(normalized) {
			return
		}
		if _, ok := seen[normalized]; ok {
			return
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if resolved := urlutil.Resolve(base, strings.TrimSpace(href)); resolved != "" {
			add(resolved)
		}
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		for _, link := range jsonLDLinks(s.Text(), base) {
			add(link)
		}
	})

	for _, m := range adPathRe.FindAllSubmatch(rawHTML, -1) {
		if resolved := urlutil.Resolve(base, string(m[1])); resolved != "" {
			add(resolved)
		}
	}

	return out
}

// jsonLDLinks walks an arbitrary JSON-LD payload and collects every string
// that looks like an ad path or URL. The walk order over JSON objects is
// not stable, so results are sorted before being returned.
func jsonLDLinks(raw string, base *url.URL) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}

	var links []string
	walkStrings(payload, func(s string) {
		if strings.HasPrefix(s, "/") {
			if resolved := urlutil.Resolve(base, s); resolved != "" && urlutil.IsAdURL(resolved) {
				links = append(links, resolved)
			}
			return
		}
		if strings.HasPrefix(s, "http") && urlutil.IsAdURL(s) {
			links = append(links, s)
		}
	})
	sort.Strings(links)
	return links
}

func walkStrings(payload any, fn func(string)) {
	switch t := payload.(type) {
	case string:
		fn(t)
	case map[string]any:
		for _, v := range t {
			walkStrings(v, fn)
		}
	case []any:
		for _, v := range t {
			walkStrings(v, fn)
		}
	}
}

func sameHost(base *url.URL, host string) bool {
	if base == nil || host == "" {
		return false
	}
	baseHost := strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.")
	return strings.TrimPrefix(strings.ToLower(host), "www.") == baseHost
}
