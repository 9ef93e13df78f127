package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mlegrand/immoscan/internal/extract"
)

const (
	groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel = "llama-3.3-70b-versatile"
)

// GroqClient implements Client against Groq's OpenAI-compatible chat API.
type GroqClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGroqClient(apiKey string) *GroqClient {
	return &GroqClient{
		apiKey: apiKey,
		model:  defaultModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithModel allows changing the model.
func (g *GroqClient) WithModel(model string) *GroqClient {
	g.model = model
	return g
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (g *GroqClient) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   900,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqEndpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("groq API error: %s (%s)", chatResp.Error.Message, chatResp.Error.Type)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Analyze asks the model for an investor's read of the listing and parses
// the mandated trailer tags out of the response.
func (g *GroqClient) Analyze(ctx context.Context, rec extract.Record, adText string) (Analysis, error) {
	prompt := fmt.Sprintf(`Tu es un conseiller en investissement locatif expérimenté.

Analyse cette annonce immobilière du point de vue d'un investisseur.
Sois concis et factuel : état probable du bien, cohérence du loyer avec le
marché, risques (vacance, copropriété, travaux), points forts.

Termine OBLIGATOIREMENT ta réponse par ces trois lignes exactes :
VERDICT: BONNE AFFAIRE ou CORRECT ou A EVITER
AVIS: une phrase résumant ton avis
SCORE: n/10

Données extraites :
%s

Texte de l'annonce :
%s`, recordSummary(rec), truncateText(adText, 2500))

	response, err := g.callAPI(ctx, prompt)
	if err != nil {
		return Analysis{}, err
	}
	return ParseAnalysis(response), nil
}

var (
	verdictRe = regexp.MustCompile(`(?im)^\s*\**\s*VERDICT\s*\**\s*:\s*(.+?)\s*$`)
	opinionRe = regexp.MustCompile(`(?im)^\s*\**\s*AVIS\s*\**\s*:\s*(.+?)\s*$`)
	scoreRe   = regexp.MustCompile(`(?im)^\s*\**\s*SCORE\s*\**\s*:\s*([0-9]{1,2})\s*/\s*10`)
)

// ParseAnalysis extracts the VERDICT, AVIS and SCORE trailer lines from a
// model response. Missing tags leave their fields zero; the raw text is
// always preserved.
func ParseAnalysis(text string) Analysis {
	a := Analysis{Text: strings.TrimSpace(text)}
	if m := verdictRe.FindStringSubmatch(text); m != nil {
		a.Verdict = strings.ToUpper(strings.Trim(m[1], " *"))
	}
	if m := opinionRe.FindStringSubmatch(text); m != nil {
		a.Opinion = strings.Trim(m[1], " *")
	}
	if m := scoreRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 && n <= 10 {
			a.Score = n
		}
	}
	return a
}

func recordSummary(rec extract.Record) string {
	var b strings.Builder
	line := func(label string, v *float64, unit string) {
		if v == nil {
			fmt.Fprintf(&b, "- %s : inconnu\n", label)
			return
		}
		fmt.Fprintf(&b, "- %s : %.2f %s\n", label, *v, unit)
	}
	fmt.Fprintf(&b, "- titre : %s\n", rec.Title)
	line("prix de vente", rec.Price, "€")
	line("loyer mensuel", rec.MonthlyRent, "€")
	line("loyer annuel", rec.AnnualRent, "€")
	line("charges mensuelles", rec.MonthlyCharges, "€")
	line("taxe foncière annuelle", rec.TaxeFonciereAnnual, "€")
	line("rentabilité brute", rec.GrossYieldPct, "%")
	line("rentabilité nette", rec.NetYieldPct, "%")
	return b.String()
}

// truncateText limits text to maxLen bytes.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
