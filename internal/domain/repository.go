package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RecallFeed defines the queries the core issues against the recall data source.
// Results are ordered by publication date, most recent first.
type RecallFeed interface {
	ByGTIN(ctx context.Context, gtin string, limit int) ([]RecallRecord, error)
	Search(ctx context.Context, phrase string, limit int) ([]RecallRecord, error)
	Latest(ctx context.Context, limit int) ([]RecallRecord, error)
}

// ProductCatalog defines the interface for the product catalog source
type ProductCatalog interface {
	Product(ctx context.Context, code string) (*CatalogProduct, error)
	Search(ctx context.Context, query string) ([]CatalogProduct, error)
}

// FavoriteStore is the locally persisted, ordered collection of favorites
type FavoriteStore interface {
	List(ctx context.Context) ([]Favorite, error)
	Create(ctx context.Context, in FavoriteInput) (Favorite, error)
	Update(ctx context.Context, id string, in FavoriteInput) (Favorite, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
