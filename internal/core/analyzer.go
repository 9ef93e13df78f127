package core

import (
	"context"
	"fmt"

	"github.com/mlegrand/immoscan/internal/ai"
	"github.com/mlegrand/immoscan/internal/extract"
	"github.com/mlegrand/immoscan/internal/observability"
)

// AnalyzerService wraps the AI client and counts its calls.
type AnalyzerService struct {
	aiClient ai.Client
}

func NewAnalyzerService(aiClient ai.Client) *AnalyzerService {
	return &AnalyzerService{aiClient: aiClient}
}

func (s *AnalyzerService) Analyze(ctx context.Context, rec extract.Record, adText string) (*ai.Analysis, error) {
	observability.IncAICall("analyzer")
	result, err := s.aiClient.Analyze(ctx, rec, withFinancingPlan(rec, adText))
	if err != nil {
		observability.IncError(observability.ErrorAI, "analyzer")
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return &result, nil
}

// withFinancingPlan appends the investment projection to the ad text so
// the model reasons over the same financing figures shown to the user.
func withFinancingPlan(rec extract.Record, adText string) string {
	m := ComputeInvestment(rec)
	if m == nil {
		return adText
	}

	plan := fmt.Sprintf("\n\nPlan de financement (prêt %d ans à %.2f%% + %.2f%% assurance, frais de notaire %.1f%%) :\n"+
		"- coût total : %.2f € (dont notaire %.2f €)\n"+
		"- mensualité : %.2f €",
		loanYears, loanRatePct, insuranceRatePct, notaryPct, m.TotalCost, m.NotaryFees, m.MonthlyLoanPayment)
	if m.MonthlyCashFlow != nil {
		plan += fmt.Sprintf("\n- cash flow mensuel : %.2f €", *m.MonthlyCashFlow)
	}
	if m.PaybackYears != nil {
		plan += fmt.Sprintf("\n- amortissement : %.1f ans de loyer", *m.PaybackYears)
	}
	return adText + plan
}
