// Package export writes scan results out for spreadsheet use and builds
// the end-of-scan summary report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mlegrand/immoscan/internal/cache"
)

// csvHeader lists the columns in output order. Names match the record's
// JSON fields so the spreadsheet and the API speak the same vocabulary.
var csvHeader = []string{
	"url",
	"title",
	"price",
	"monthly_rent",
	"annual_rent",
	"monthly_charges",
	"annual_charges",
	"taxe_fonciere_annual",
	"gross_yield_pct",
	"net_yield_pct",
	"user_status",
	"verdict",
	"score",
}

// WriteCSV writes entries as semicolon-separated CSV, the dialect French
// Excel opens without an import wizard. Absent fields become empty cells.
func WriteCSV(w io.Writer, entries []cache.Entry) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range entries {
		r := e.Record
		row := []string{
			r.URL,
			r.Title,
			formatAmount(r.Price),
			formatAmount(r.MonthlyRent),
			formatAmount(r.AnnualRent),
			formatAmount(r.MonthlyCharges),
			formatAmount(r.AnnualCharges),
			formatAmount(r.TaxeFonciereAnnual),
			formatAmount(r.GrossYieldPct),
			formatAmount(r.NetYieldPct),
			e.UserStatus,
			e.Analysis.Verdict,
			formatScore(e.Analysis.Score),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.URL, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatScore(score int) string {
	if score == 0 {
		return ""
	}
	return strconv.Itoa(score)
}
