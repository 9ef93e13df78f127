// Package ai scores listings as rental investments through a language
// model, with a mock fallback when no API key is configured.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mlegrand/immoscan/internal/extract"
)

type Client interface {
	Analyze(ctx context.Context, rec extract.Record, adText string) (Analysis, error)
}

// Analysis is the model's opinion of a listing. Text carries the full
// response; Verdict, Opinion and Score are parsed from its trailer lines.
type Analysis struct {
	Text    string `json:"text"`
	Verdict string `json:"verdict"`
	Opinion string `json:"opinion"`
	Score   int    `json:"score"`
}

// NewClient creates an AI client based on the AI_PROVIDER environment variable.
// Supported providers: "groq" (default if GROQ_API_KEY is set), "mock"
//
// Environment variables:
//   - AI_PROVIDER: "groq" or "mock" (optional, auto-detected)
//   - GROQ_API_KEY: Groq API key (free tier at https://console.groq.com/keys)
func NewClient() Client {
	provider := strings.ToLower(os.Getenv("AI_PROVIDER"))
	groqKey := os.Getenv("GROQ_API_KEY")

	// Auto-detect provider if not specified
	if provider == "" {
		if groqKey != "" {
			provider = "groq"
		} else {
			provider = "mock"
		}
	}

	switch provider {
	case "groq":
		if groqKey == "" {
			fmt.Println("WARNING: AI_PROVIDER=groq but GROQ_API_KEY not set, falling back to mock")
			return NewMockClient()
		}
		return NewGroqClient(groqKey)
	default:
		fmt.Println("Using mock AI client (set GROQ_API_KEY for real analysis)")
		return NewMockClient()
	}
}

// MockClient produces a deterministic verdict from the computed yields, so
// the pipeline stays usable without a key.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Analyze(ctx context.Context, rec extract.Record, adText string) (Analysis, error) {
	verdict := "A EVITER"
	score := 2
	opinion := "Rentabilité inconnue, données incomplètes."

	if rec.GrossYieldPct != nil {
		switch y := *rec.GrossYieldPct; {
		case y >= 8:
			verdict, score = "BONNE AFFAIRE", 8
			opinion = "Rentabilité brute élevée pour le marché."
		case y >= 5:
			verdict, score = "CORRECT", 6
			opinion = "Rentabilité brute dans la moyenne."
		default:
			opinion = "Rentabilité brute trop faible."
		}
	}

	text := fmt.Sprintf("Analyse simulée.\nVERDICT: %s\nAVIS: %s\nSCORE: %d/10", verdict, opinion, score)
	return Analysis{Text: text, Verdict: verdict, Opinion: opinion, Score: score}, nil
}
