package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/rappelscan/backend/internal/domain"
)

// Placeholders used when a feed record lacks a display field
const (
	DefaultAction   = "Ne pas consommer - Retourner en magasin"
	DefaultReason   = "Motif non précisé"
	DefaultDate     = "Non spécifiée"
	recallDateShape = "02/01/2006"
)

// ResolveScan turns the lookups made for one barcode into a verdict.
//
// recalls must be ordered most recent first; only the first one is reported.
// Without recalls, catalog (may be nil) only supplies the display name.
// ResolveScan does no I/O.
func ResolveScan(barcode string, recalls []domain.RecallRecord, catalog *domain.CandidateProduct) domain.ScanResult {
	barcode = strings.TrimSpace(barcode)

	if len(recalls) > 0 {
		rec := recalls[0]
		info := &domain.RecallInfo{
			Date:      recallDate(rec),
			Reason:    firstNonEmpty(rec.MotifRappel, rec.RisquesEncourus, DefaultReason),
			RiskLevel: rec.RiskLevel(),
			Action:    firstNonEmpty(rec.ConduitesATenir, DefaultAction),
			Brand:     strings.TrimSpace(rec.MarqueProduit),
			Lot:       rec.Lot(),
		}
		if urls := rec.ImageURLs(); len(urls) > 0 {
			info.ImageURL = urls[0]
		}
		return domain.ScanResult{
			Barcode:     barcode,
			ProductName: firstNonEmpty(rec.Libelle, rec.ModelesOuReferences, placeholderName(barcode)),
			HasRecall:   true,
			RecallInfo:  info,
		}
	}

	name := ""
	if catalog != nil {
		name = strings.TrimSpace(strings.TrimSpace(catalog.Brand) + " " + strings.TrimSpace(catalog.ProductName))
	}
	if name == "" {
		name = placeholderName(barcode)
	}
	return domain.ScanResult{
		Barcode:     barcode,
		ProductName: name,
		HasRecall:   false,
	}
}

func recallDate(rec domain.RecallRecord) string {
	t, ok := rec.PublishedIn(time.Local)
	if !ok {
		return DefaultDate
	}
	return t.Format(recallDateShape)
}

func placeholderName(barcode string) string {
	return fmt.Sprintf("Produit %s", barcode)
}

// firstNonEmpty returns the first value that is not blank, trimmed
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
