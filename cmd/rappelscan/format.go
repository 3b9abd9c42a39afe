package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rappelscan/backend/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printScan prints a scan verdict as a short card
func printScan(w io.Writer, r domain.ScanResult) {
	fmt.Fprintf(w, "%s  [%s]\n", r.ProductName, r.Barcode)
	if !r.HasRecall || r.RecallInfo == nil {
		fmt.Fprintln(w, "    No recall found")
		return
	}
	info := r.RecallInfo
	fmt.Fprintf(w, "    RECALLED on %s  |  Risk: %s\n", info.Date, info.RiskLevel)
	if info.Brand != "" {
		fmt.Fprintf(w, "    Brand: %s\n", info.Brand)
	}
	if info.Lot != "" {
		fmt.Fprintf(w, "    Lot: %s\n", info.Lot)
	}
	fmt.Fprintf(w, "    Reason: %s\n", info.Reason)
	fmt.Fprintf(w, "    Action: %s\n", info.Action)
	if info.ImageURL != "" {
		fmt.Fprintf(w, "    %s\n", info.ImageURL)
	}
}

func printProducts(w io.Writer, products []domain.CandidateProduct) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tBRAND\tPRODUCT\tBARCODE\tSCORE")
	for i, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\n", i+1, p.Brand, truncate(p.ProductName, 48), p.GTIN, p.Score)
	}
	tw.Flush()
}

func printBuckets(w io.Writer, b domain.PeriodBuckets) {
	sections := []struct {
		title   string
		records []domain.RecallRecord
	}{
		{"Today", b.Today},
		{"Yesterday", b.Yesterday},
		{"Last week", b.LastWeek},
		{"Last month", b.LastMonth},
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", s.title, len(s.records))
		for _, r := range s.records {
			fmt.Fprintf(w, "  - %s  |  %s  [%s]\n", truncate(r.Libelle, 48), r.MarqueProduit, r.RiskLevel())
			if reason := strings.TrimSpace(r.MotifRappel); reason != "" {
				fmt.Fprintf(w, "    %s\n", truncate(reason, 96))
			}
		}
	}
}

func printFavorites(w io.Writer, favorites []domain.Favorite) {
	if len(favorites) == 0 {
		fmt.Fprintln(w, "No favorites saved")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tPRODUCT\tBARCODE\tADDED")
	for _, f := range favorites {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Brand, truncate(f.ProductName, 48), f.Barcode, f.CreatedAt.Format("2006-01-02"))
	}
	tw.Flush()
}

func printAlerts(w io.Writer, alerts []domain.Alert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "No recalls for your favorites")
		return
	}
	for i, a := range alerts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %d. %s  (%d recall(s))\n", i+1, favoriteLabel(domain.Favorite{
			ProductName: a.ProductName,
			Brand:       a.Brand,
			Barcode:     a.Barcode,
		}), len(a.Recalls))
		for _, r := range a.Recalls {
			fmt.Fprintf(w, "    - %s: %s [%s]\n", r.DatePublication, truncate(r.MotifRappel, 80), r.RiskLevel())
		}
	}
}

// favoriteLabel joins brand and name, falling back to the barcode
func favoriteLabel(f domain.Favorite) string {
	label := strings.TrimSpace(strings.TrimSpace(f.Brand) + " " + strings.TrimSpace(f.ProductName))
	if label == "" {
		return f.Barcode
	}
	return label
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
