package export

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/mlegrand/immoscan/internal/cache"
	"github.com/mlegrand/immoscan/internal/extract"
)

// Report aggregates a set of scanned listings.
type Report struct {
	Total         int              `json:"total"`
	WithPrice     int              `json:"with_price"`
	WithRent      int              `json:"with_rent"`
	WithYield     int              `json:"with_yield"`
	MinYieldPct   *float64         `json:"min_yield_pct,omitempty"`
	MaxYieldPct   *float64         `json:"max_yield_pct,omitempty"`
	MeanYieldPct  *float64         `json:"mean_yield_pct,omitempty"`
	MinRent       *float64         `json:"min_monthly_rent,omitempty"`
	MaxRent       *float64         `json:"max_monthly_rent,omitempty"`
	MeanRent      *float64         `json:"mean_monthly_rent,omitempty"`
	TopByYield    []extract.Record `json:"top_by_yield,omitempty"`
	StatusCounts  map[string]int   `json:"status_counts,omitempty"`
	VerdictCounts map[string]int   `json:"verdict_counts,omitempty"`
}

const topSize = 10

// Summarize builds the aggregate report over cached entries.
func Summarize(entries []cache.Entry) Report {
	rep := Report{
		Total:         len(entries),
		StatusCounts:  map[string]int{},
		VerdictCounts: map[string]int{},
	}

	var withYield []extract.Record
	sum, rentSum := 0.0, 0.0
	for _, e := range entries {
		r := e.Record
		if r.Price != nil {
			rep.WithPrice++
		}
		if r.MonthlyRent != nil {
			rep.WithRent++
			rent := *r.MonthlyRent
			rentSum += rent
			if rep.MinRent == nil || rent < *rep.MinRent {
				rep.MinRent = &rent
			}
			if rep.MaxRent == nil || rent > *rep.MaxRent {
				rep.MaxRent = &rent
			}
		}
		if r.GrossYieldPct != nil {
			rep.WithYield++
			sum += *r.GrossYieldPct
			withYield = append(withYield, r)

			y := *r.GrossYieldPct
			if rep.MinYieldPct == nil || y < *rep.MinYieldPct {
				rep.MinYieldPct = &y
			}
			if rep.MaxYieldPct == nil || y > *rep.MaxYieldPct {
				rep.MaxYieldPct = &y
			}
		}
		if e.UserStatus != "" {
			rep.StatusCounts[e.UserStatus]++
		}
		if e.Analysis.Verdict != "" {
			rep.VerdictCounts[e.Analysis.Verdict]++
		}
	}

	if rep.WithYield > 0 {
		mean := math.Round(sum/float64(rep.WithYield)*100) / 100
		rep.MeanYieldPct = &mean
	}
	if rep.WithRent > 0 {
		mean := math.Round(rentSum/float64(rep.WithRent)*100) / 100
		rep.MeanRent = &mean
	}

	sort.SliceStable(withYield, func(i, j int) bool {
		if *withYield[i].GrossYieldPct != *withYield[j].GrossYieldPct {
			return *withYield[i].GrossYieldPct > *withYield[j].GrossYieldPct
		}
		return withYield[i].URL < withYield[j].URL
	})
	if len(withYield) > topSize {
		withYield = withYield[:topSize]
	}
	rep.TopByYield = withYield

	return rep
}

// WriteText renders the report for terminal output.
func (rep Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Annonces analysées : %d\n", rep.Total)
	fmt.Fprintf(w, "  avec prix        : %d\n", rep.WithPrice)
	fmt.Fprintf(w, "  avec loyer       : %d\n", rep.WithRent)
	fmt.Fprintf(w, "  avec rentabilité : %d\n", rep.WithYield)

	if rep.MeanRent != nil {
		fmt.Fprintf(w, "Loyer mensuel     : min %.0f €  max %.0f €  moyenne %.2f €\n",
			*rep.MinRent, *rep.MaxRent, *rep.MeanRent)
	}
	if rep.MeanYieldPct != nil {
		fmt.Fprintf(w, "Rentabilité brute : min %.2f%%  max %.2f%%  moyenne %.2f%%\n",
			*rep.MinYieldPct, *rep.MaxYieldPct, *rep.MeanYieldPct)
	}

	if len(rep.TopByYield) > 0 {
		fmt.Fprintln(w, "Meilleures annonces :")
		for i, r := range rep.TopByYield {
			price := 0.0
			if r.Price != nil {
				price = *r.Price
			}
			fmt.Fprintf(w, "  %2d. %.2f%%  %.0f €  %s\n", i+1, *r.GrossYieldPct, price, r.URL)
		}
	}
}
