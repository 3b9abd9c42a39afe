package usecase

import (
	"strconv"
	"strings"
)

// normalizeForCacheKey lower-cases and trims s, the same view of a query the ranker
// scores against. Punctuation and accents are kept: "nutella!" ranks differently from
// "nutella" and "pâte" is a different catalog query from "pate".
func normalizeForCacheKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// productSearchKey is the cache key of a catalog search.
// Format: "products:{normalized_query}"
func productSearchKey(query string) string {
	return "products:" + normalizeForCacheKey(query)
}

// latestRecallsKey is the cache key of the latest feed snapshot
func latestRecallsKey(limit int) string {
	return "recalls:latest:" + strconv.Itoa(limit)
}
