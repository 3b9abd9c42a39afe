package usecase

import (
	"strings"

	"github.com/rappelscan/backend/internal/domain"
)

// MatchFavorite decides which recall records cover a favorite.
//
// A favorite with a barcode and a non-empty exact barcode result set matches that set
// verbatim. Otherwise textResults (fetched by the caller for SearchPhrase(fav)) are
// filtered to records whose brand and name both overlap the favorite's.
func MatchFavorite(fav domain.Favorite, exactResults, textResults []domain.RecallRecord) []domain.RecallRecord {
	if strings.TrimSpace(fav.Barcode) != "" && len(exactResults) > 0 {
		return exactResults
	}

	if SearchPhrase(fav) == "" {
		return nil
	}

	var matched []domain.RecallRecord
	for _, rec := range textResults {
		if recallCoversFavorite(rec, fav) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// SearchPhrase joins the favorite's non-empty brand and product name with a space
func SearchPhrase(fav domain.Favorite) string {
	var parts []string
	if b := strings.TrimSpace(fav.Brand); b != "" {
		parts = append(parts, b)
	}
	if n := strings.TrimSpace(fav.ProductName); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, " ")
}

// recallCoversFavorite requires both brand and name to overlap
func recallCoversFavorite(rec domain.RecallRecord, fav domain.Favorite) bool {
	return mutualContains(rec.MarqueProduit, fav.Brand) &&
		mutualContains(rec.Libelle, fav.ProductName)
}

// mutualContains reports whether either string contains the other, ignoring case.
// An empty side never matches.
func mutualContains(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
