package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotFound is returned when a product or favorite does not exist
	ErrNotFound = errors.New("not found")

	// ErrFeedFailure is returned when the recall feed request fails
	ErrFeedFailure = errors.New("recall feed request failed")

	// ErrCatalogFailure is returned when the product catalog request fails
	ErrCatalogFailure = errors.New("product catalog request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrDuplicateFavorite is returned when a product is already saved as a favorite
	ErrDuplicateFavorite = errors.New("product already in favorites")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
