package discovery

import (
	"net/url"
	"reflect"
	"testing"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<a href="/ad/ventes_immobilieres/3110667700#photos">Studio Nantes</a>
<a href="/ad/ventes_immobilieres/3110667700">Studio Nantes (doublon)</a>
<a href="https://www.leboncoin.fr/ad/ventes_immobilieres/2999888777">T2 Rezé</a>
<a href="/recherche?text=loyer&page=2">Page suivante</a>
<a href="https://ailleurs.example/ad/ventes_immobilieres/1">Lien externe</a>
<a href="mailto:contact@leboncoin.fr">Contact</a>
<script type="application/ld+json">
{"@type":"ItemList","itemListElement":[{"url":"https://www.leboncoin.fr/ad/ventes_immobilieres/1234500000"}]}
</script>
<script>window.__routes = ["/annonces/maison-bouguenais/7654300000"];</script>
</body></html>`

func TestAdLinks(t *testing.T) {
	base, _ := url.Parse("https://www.leboncoin.fr/recherche?text=loyer")

	got := AdLinks([]byte(resultsPage), base)
	want := []string{
		"https://www.leboncoin.fr/ad/ventes_immobilieres/3110667700",
		"https://www.leboncoin.fr/ad/ventes_immobilieres/2999888777",
		"https://www.leboncoin.fr/ad/ventes_immobilieres/1234500000",
		"https://www.leboncoin.fr/annonces/maison-bouguenais/7654300000",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AdLinks = %v; want %v", got, want)
	}
}

func TestAdLinksEmptyPage(t *testing.T) {
	base, _ := url.Parse("https://www.leboncoin.fr/recherche")
	if got := AdLinks([]byte("<html><body>Aucun résultat.</body></html>"), base); len(got) != 0 {
		t.Errorf("AdLinks on empty page = %v; want none", got)
	}
}

func TestAdLinksDeterministic(t *testing.T) {
	base, _ := url.Parse("https://www.leboncoin.fr/recherche")
	// Two ads inside the same JSON-LD object; map iteration order must not
	// leak into the result order.
	pageWithIsland := `<html><body><script type="application/ld+json">
{"b":"/ad/ventes_immobilieres/222","a":"/ad/ventes_immobilieres/111"}
</script></body></html>`

	first := AdLinks([]byte(pageWithIsland), base)
	for i := 0; i < 20; i++ {
		if got := AdLinks([]byte(pageWithIsland), base); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: AdLinks = %v; first run was %v", i, got, first)
		}
	}
	want := []string{
		"https://www.leboncoin.fr/ad/ventes_immobilieres/111",
		"https://www.leboncoin.fr/ad/ventes_immobilieres/222",
	}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("AdLinks = %v; want %v", first, want)
	}
}
