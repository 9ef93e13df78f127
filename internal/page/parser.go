// Package page turns a fetched listing page into the inputs of the
// extraction core: the page title, a plain-text rendering of the markup,
// and whatever structured fields the site embeds in its data island.
package page

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/mlegrand/immoscan/internal/extract"
)

// Listing is the parsed form of one ad page.
type Listing struct {
	URL        string
	Title      string
	Text       string
	Structured *extract.Structured
}

// nextData mirrors the slice of the site's __NEXT_DATA__ island we care
// about: the ad body (cleaner prose than the rendered page) and the listed
// price in euros.
type nextData struct {
	Props struct {
		PageProps struct {
			Ad struct {
				Body  string    `json:"body"`
				Price []float64 `json:"price"`
			} `json:"ad"`
		} `json:"pageProps"`
	} `json:"props"`
}

// Parse extracts title, text and structured fields from raw listing HTML.
func Parse(rawURL string, rawHTML []byte) (Listing, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHTML))
	if err != nil {
		return Listing{}, err
	}

	listing := Listing{
		URL:   rawURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	for _, node := range doc.Nodes {
		listing.Text = renderText(node)
		break
	}

	if raw := doc.Find("script#__NEXT_DATA__").First().Text(); raw != "" {
		var data nextData
		if err := json.Unmarshal([]byte(raw), &data); err == nil {
			st := &extract.Structured{Body: data.Props.PageProps.Ad.Body}
			if prices := data.Props.PageProps.Ad.Price; len(prices) > 0 && prices[0] > 0 {
				p := prices[0]
				st.Price = &p
			}
			if st.Body != "" || st.Price != nil {
				listing.Structured = st
			}
		}
	}

	return listing, nil
}

// BuildRecord parses the page and runs the financial extraction over it.
func BuildRecord(rawURL string, rawHTML []byte) (extract.Record, error) {
	listing, err := Parse(rawURL, rawHTML)
	if err != nil {
		return extract.Record{}, err
	}
	rec, err := extract.Extract(listing.Text, listing.Structured)
	if err != nil {
		return extract.Record{}, err
	}
	rec.URL = listing.URL
	rec.Title = listing.Title
	return rec, nil
}

// renderText walks the node tree and joins text nodes with spaces,
// skipping script and style contents. Whitespace runs collapse to a
// single space.
func renderText(root *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(sb.String()), " ")
}
