package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rappelscan/backend/internal/domain"
)

// Relevance scores for a query against brand and product name
const (
	brandExactScore    = 100.0
	brandPrefixScore   = 80.0
	brandContainsScore = 60.0
	nameExactScore     = 90.0
	namePrefixScore    = 70.0
	nameContainsScore  = 50.0

	popularityDivisor  = 100.0
	maxPopularityBonus = 20.0
)

// Ranking limits
const (
	MinQueryLength = 2
	MaxSuggestions = 8
)

type scoredCandidate struct {
	candidate domain.CandidateProduct
	score     float64
}

// RankProducts scores catalog candidates against a free-text query and returns at most
// MaxSuggestions of them, most relevant first. Equal scores keep input order, and only
// the first of several candidates sharing (brand, product_name) is kept.
func RankProducts(candidates []domain.CandidateProduct, query string) []domain.CandidateProduct {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []domain.CandidateProduct{}
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		brand := strings.ToLower(strings.TrimSpace(c.Brand))
		name := strings.ToLower(strings.TrimSpace(c.ProductName))
		if brand == "" && name == "" {
			continue
		}

		score := textScore(brand, q, brandExactScore, brandPrefixScore, brandContainsScore) +
			textScore(name, q, nameExactScore, namePrefixScore, nameContainsScore) +
			popularityBonus(c.Popularity)
		if score <= 0 {
			continue
		}
		scored = append(scored, scoredCandidate{candidate: c, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	type productKey struct{ brand, name string }
	seen := make(map[productKey]bool)
	ranked := make([]domain.CandidateProduct, 0, MaxSuggestions)
	for _, s := range scored {
		key := productKey{s.candidate.Brand, s.candidate.ProductName}
		if seen[key] {
			continue
		}
		seen[key] = true

		c := s.candidate
		c.Score = s.score
		ranked = append(ranked, c)
		if len(ranked) == MaxSuggestions {
			break
		}
	}
	return ranked
}

// textScore grades one field: exact beats prefix beats substring
func textScore(field, query string, exact, prefix, contains float64) float64 {
	switch {
	case field == "":
		return 0
	case field == query:
		return exact
	case strings.HasPrefix(field, query):
		return prefix
	case strings.Contains(field, query):
		return contains
	}
	return 0
}

func popularityBonus(popularity float64) float64 {
	if popularity <= 0 || math.IsNaN(popularity) {
		return 0
	}
	return math.Min(popularity/popularityDivisor, maxPopularityBonus)
}
