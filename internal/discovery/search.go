// Package discovery builds search-result URLs and extracts individual ad
// links from the pages they return.
package discovery

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	searchBase = "https://www.leboncoin.fr/recherche"
	// realEstateCategory is the site's category id for property sales.
	realEstateCategory = "9"
)

var frenchTitle = cases.Title(language.French)

// SearchURL builds the search URL for property-sale ads matching query in
// the given location, sorted newest first.
func SearchURL(city, query string, page int) string {
	params := url.Values{}
	params.Set("text", query)
	params.Set("locations", locationLabel(city))
	params.Set("category", realEstateCategory)
	params.Set("owner_type", "all")
	params.Set("sort", "time")
	params.Set("order", "desc")
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return searchBase + "?" + params.Encode()
}

// locationLabel title-cases a bare city name. Location strings that carry
// a coordinates suffix ("Nantes__47.23_-1.55_8804_10000") pass through
// untouched apart from the name part.
func locationLabel(city string) string {
	name, rest, found := strings.Cut(city, "__")
	name = frenchTitle.String(strings.ToLower(strings.TrimSpace(name)))
	if found {
		return name + "__" + rest
	}
	return name
}
