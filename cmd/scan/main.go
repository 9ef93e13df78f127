// Command scan runs one scan pass from the terminal: walk the search
// results, extract every new ad, print the summary report, and optionally
// export a CSV and request AI analyses for the best listings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mlegrand/immoscan/internal/ai"
	"github.com/mlegrand/immoscan/internal/cache"
	"github.com/mlegrand/immoscan/internal/core"
	"github.com/mlegrand/immoscan/internal/export"
	"github.com/mlegrand/immoscan/internal/httpx"
)

func main() {
	city := flag.String("city", "nantes", "City to search in")
	query := flag.String("query", "loyer", "Search query")
	pages := flag.Int("pages", 3, "Result pages to walk")
	cachePath := flag.String("cache", "immoscan-cache.json", "Cache file path")
	csvPath := flag.String("csv", "", "Write results to this CSV file")
	analyzeTop := flag.Int("analyze", 0, "Request AI analysis for the N best listings")
	flag.Parse()

	fileCache, err := cache.Open(*cachePath)
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}

	scanner := core.NewScanService(
		httpx.NewCollyFetcher(),
		httpx.NewPoliteClient(),
		fileCache,
		nil,
		[]core.Target{{City: *city, Query: *query}},
	).WithMaxPages(*pages)

	ctx := context.Background()
	scanner.ScanOnce(ctx)

	entries := fileCache.All()
	export.Summarize(entries).WriteText(os.Stdout)

	if *analyzeTop > 0 {
		analyzeBest(ctx, fileCache, entries, *analyzeTop)
	}

	if *csvPath != "" {
		if err := writeCSVFile(*csvPath, fileCache.All()); err != nil {
			log.Fatalf("CSV export failed: %v", err)
		}
		fmt.Printf("Export CSV : %s\n", *csvPath)
	}
}

func analyzeBest(ctx context.Context, fileCache *cache.FileCache, entries []cache.Entry, n int) {
	analyzer := core.NewAnalyzerService(ai.NewClient())

	analyzed := 0
	for _, e := range entries {
		if analyzed >= n {
			break
		}
		if e.Record.GrossYieldPct == nil || e.Analysis.Verdict != "" {
			continue
		}

		result, err := analyzer.Analyze(ctx, e.Record, e.AdText)
		if err != nil {
			log.Printf("Analysis failed for %s: %v", e.Record.URL, err)
			continue
		}
		fileCache.SetAnalysis(e.Record.URL, *result)
		fmt.Printf("%s\n  %s (%d/10) %s\n", e.Record.URL, result.Verdict, result.Score, result.Opinion)
		if m := core.ComputeInvestment(e.Record); m != nil && m.MonthlyCashFlow != nil {
			fmt.Printf("  mensualité %.0f €, cash flow %.0f €/mois\n", m.MonthlyLoanPayment, *m.MonthlyCashFlow)
		}
		analyzed++
	}

	if err := fileCache.Flush(); err != nil {
		log.Printf("Failed to flush cache: %v", err)
	}
}

func writeCSVFile(path string, entries []cache.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
