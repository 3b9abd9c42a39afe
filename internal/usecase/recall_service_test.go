package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rappelscan/backend/internal/domain"
)

func newRecallService(feed *MockRecallFeed, catalog *MockProductCatalog, cache *MockCacheRepository) *RecallService {
	return NewRecallService(feed, catalog, cache, testLogger, RecallServiceConfig{
		FeedLimit:   10,
		LatestLimit: 50,
		CacheTTL:    time.Minute,
	})
}

func TestRecallService_Scan(t *testing.T) {
	ctx := context.Background()

	t.Run("recalled barcode", func(t *testing.T) {
		feed := NewMockRecallFeed()
		feed.byGTIN["3560070976447"] = []domain.RecallRecord{{Libelle: "Saucisson sec", MotifRappel: "Listeria"}}
		catalog := NewMockProductCatalog()

		result, err := newRecallService(feed, catalog, NewMockCacheRepository()).Scan(ctx, " 3560070976447 ")
		require.NoError(t, err)
		assert.True(t, result.HasRecall)
		assert.Equal(t, domain.RiskHigh, result.RecallInfo.RiskLevel)
		assert.Equal(t, []string{"3560070976447"}, feed.gtinCalls)
	})

	t.Run("clean barcode is named from the catalog", func(t *testing.T) {
		catalog := NewMockProductCatalog()
		catalog.products["3017620422003"] = &domain.CatalogProduct{Code: "3017620422003", ProductName: "Nutella", Brands: "Ferrero"}

		result, err := newRecallService(NewMockRecallFeed(), catalog, NewMockCacheRepository()).Scan(ctx, "3017620422003")
		require.NoError(t, err)
		assert.False(t, result.HasRecall)
		assert.Equal(t, "Ferrero Nutella", result.ProductName)
	})

	t.Run("upstream failures degrade to no recall", func(t *testing.T) {
		feed := NewMockRecallFeed()
		feed.gtinErrors["1"] = errFeedDown
		catalog := NewMockProductCatalog()
		catalog.productError = domain.ErrCatalogFailure

		result, err := newRecallService(feed, catalog, NewMockCacheRepository()).Scan(ctx, "1")
		require.NoError(t, err)
		assert.False(t, result.HasRecall)
		assert.Equal(t, "Produit 1", result.ProductName)
	})

	t.Run("empty barcode is rejected before any lookup", func(t *testing.T) {
		feed := NewMockRecallFeed()
		_, err := newRecallService(feed, NewMockProductCatalog(), NewMockCacheRepository()).Scan(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		assert.Zero(t, feed.calls())
	})
}

func TestRecallService_SearchProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks and caches catalog results", func(t *testing.T) {
		catalog := NewMockProductCatalog()
		catalog.results = []domain.CatalogProduct{
			{Code: "2", ProductName: "Snack", Brands: "Nutellino", UniqueScansN: 10},
			{Code: "1", ProductName: "Pâte à tartiner", Brands: "Nutella", UniqueScansN: 5000},
		}
		cache := NewMockCacheRepository()
		svc := newRecallService(NewMockRecallFeed(), catalog, cache)

		first, err := svc.SearchProducts(ctx, "Nutella")
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "1", first[0].GTIN)

		second, err := svc.SearchProducts(ctx, "  NUTELLA ")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, catalog.searchCalls)

		exists, _ := cache.Exists(ctx, "products:nutella")
		assert.True(t, exists)
	})

	t.Run("punctuation is part of the cached query", func(t *testing.T) {
		catalog := NewMockProductCatalog()
		catalog.results = []domain.CatalogProduct{
			{Code: "1", ProductName: "Pâte à tartiner", Brands: "Nutella", UniqueScansN: 5000},
		}
		cache := NewMockCacheRepository()
		svc := newRecallService(NewMockRecallFeed(), catalog, cache)

		plain, err := svc.SearchProducts(ctx, "nutella")
		require.NoError(t, err)
		require.Len(t, plain, 1)

		punctuated, err := svc.SearchProducts(ctx, "nutella!")
		require.NoError(t, err)
		require.Len(t, punctuated, 1)

		assert.Equal(t, 2, catalog.searchCalls)
		assert.Greater(t, plain[0].Score, punctuated[0].Score)
		exists, _ := cache.Exists(ctx, "products:nutella!")
		assert.True(t, exists)
	})

	t.Run("short query makes no request", func(t *testing.T) {
		catalog := NewMockProductCatalog()
		products, err := newRecallService(NewMockRecallFeed(), catalog, NewMockCacheRepository()).SearchProducts(ctx, "n")

		require.NoError(t, err)
		assert.Empty(t, products)
		assert.NotNil(t, products)
		assert.Zero(t, catalog.searchCalls)
	})

	t.Run("catalog failure yields no suggestions and is not cached", func(t *testing.T) {
		catalog := NewMockProductCatalog()
		catalog.searchError = domain.ErrCatalogFailure
		cache := NewMockCacheRepository()

		products, err := newRecallService(NewMockRecallFeed(), catalog, cache).SearchProducts(ctx, "nutella")
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Zero(t, cache.setCalls)
	})

	t.Run("cache write failure still returns results", func(t *testing.T) {
		catalog := NewMockProductCatalog()
		catalog.results = []domain.CatalogProduct{{Code: "1", ProductName: "Nutella", Brands: "Ferrero"}}
		cache := NewMockCacheRepository()
		cache.setError = errors.New("cache full")

		products, err := newRecallService(NewMockRecallFeed(), catalog, cache).SearchProducts(ctx, "nutella")
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})
}

func TestRecallService_LookupProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("catalog hit", func(t *testing.T) {
		catalog := NewMockProductCatalog()
		catalog.products["1"] = &domain.CatalogProduct{Code: "1", GenericName: "Pâte à tartiner"}
		feed := NewMockRecallFeed()

		product, err := newRecallService(feed, catalog, NewMockCacheRepository()).LookupProduct(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, domain.ProductLookup{Barcode: "1", ProductName: "Pâte à tartiner", Brand: UnknownBrand, Found: true}, product)
		assert.Zero(t, feed.calls())
	})

	t.Run("falls back to the recall feed", func(t *testing.T) {
		feed := NewMockRecallFeed()
		feed.byGTIN["2"] = []domain.RecallRecord{{ModelesOuReferences: "Terrine 180g", MarqueProduit: "Hénaff"}}

		product, err := newRecallService(feed, NewMockProductCatalog(), NewMockCacheRepository()).LookupProduct(ctx, "2")
		require.NoError(t, err)
		assert.True(t, product.Found)
		assert.Equal(t, "Terrine 180g", product.ProductName)
		assert.Equal(t, "Hénaff", product.Brand)
	})

	t.Run("unknown barcode", func(t *testing.T) {
		product, err := newRecallService(NewMockRecallFeed(), NewMockProductCatalog(), NewMockCacheRepository()).LookupProduct(ctx, "3")
		require.NoError(t, err)
		assert.False(t, product.Found)
		assert.Equal(t, "3", product.Barcode)
	})

	t.Run("empty barcode", func(t *testing.T) {
		_, err := newRecallService(NewMockRecallFeed(), NewMockProductCatalog(), NewMockCacheRepository()).LookupProduct(ctx, "")
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})
}

func TestRecallService_RecentRecalls(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("buckets a cached snapshot", func(t *testing.T) {
		feed := NewMockRecallFeed()
		feed.latest = []domain.RecallRecord{
			dated("Rillettes", "2024-06-10"),
			dated("Pâté", "2024-06-09"),
		}
		svc := newRecallService(feed, NewMockProductCatalog(), NewMockCacheRepository())

		b, err := svc.RecentRecalls(ctx, "", now)
		require.NoError(t, err)
		assert.Len(t, b.Today, 1)
		assert.Len(t, b.Yesterday, 1)

		filtered, err := svc.RecentRecalls(ctx, "pâté", now)
		require.NoError(t, err)
		assert.Equal(t, 1, filtered.Total())
		assert.Equal(t, 1, feed.latestCalls)
	})

	t.Run("feed failure yields empty buckets", func(t *testing.T) {
		feed := NewMockRecallFeed()
		feed.latestError = errFeedDown

		b, err := newRecallService(feed, NewMockProductCatalog(), NewMockCacheRepository()).RecentRecalls(ctx, "", now)
		require.NoError(t, err)
		assert.Zero(t, b.Total())
		assert.NotNil(t, b.Today)
	})
}
