package extract

import (
	"strings"
	"testing"
)

func TestAmountNearLenient(t *testing.T) {
	text := "Bel appartement T2. Prix de vente : 150 000 € frais d'agence inclus."
	m, ok := AmountNear(text, "prix de vente", false)
	if !ok {
		t.Fatal("AmountNear found no amount")
	}
	if m.Value != 150000 {
		t.Errorf("value = %v; want 150000", m.Value)
	}
	if !strings.Contains(m.Snippet, "150 000") {
		t.Errorf("snippet %q does not contain the amount", m.Snippet)
	}
}

func TestAmountNearIsCaseInsensitive(t *testing.T) {
	m, ok := AmountNear("PRIX DE VENTE : 99 000 €", "prix de vente", false)
	if !ok || m.Value != 99000 {
		t.Errorf("got (%v, %v); want (99000, true)", m.Value, ok)
	}
}

func TestAmountNearStrictWindow(t *testing.T) {
	// The amount sits 60 chars after the keyword: outside the strict
	// window, inside the lenient one.
	text := "charges locatives " + strings.Repeat("x", 60) + " 75 € par mois"

	if m, ok := AmountNear(text, "charges locatives", true); ok {
		t.Errorf("strict search matched %v; want no match", m.Value)
	}
	if _, ok := AmountNear(text, "charges locatives", false); !ok {
		t.Error("lenient search found nothing")
	}
}

func TestAmountNearSkipsOccurrencesWithoutAmount(t *testing.T) {
	text := "le loyer est vraiment très raisonnable pour le secteur recherché. Et le loyer est de 520 € par mois."
	m, ok := AmountNear(text, "loyer", true)
	if !ok {
		t.Fatal("no amount found")
	}
	if m.Value != 520 {
		t.Errorf("value = %v; want 520", m.Value)
	}
}

func TestAmountNearIgnoresAmountsBeforeKeyword(t *testing.T) {
	// 300 € precedes the keyword; only amounts after it may match.
	text := "caution de 300 € demandée. charges locatives raisonnables."
	if m, ok := AmountNear(text, "charges locatives", true); ok {
		t.Errorf("matched %v from before the keyword", m.Value)
	}
}

func TestAmountNearAbsent(t *testing.T) {
	if _, ok := AmountNear("maison avec jardin", "loyer", false); ok {
		t.Error("found an amount in text without keyword")
	}
	if _, ok := AmountNear("loyer attractif", "loyer", false); ok {
		t.Error("found an amount in text without any figure")
	}
}
