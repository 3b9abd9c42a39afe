package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/internal/domain"
)

// Placeholders for products the catalog knows only partially
const (
	UnknownProduct = "Produit"
	UnknownBrand   = "Marque inconnue"
)

// RecallServiceConfig holds configuration for the recall service
type RecallServiceConfig struct {
	FeedLimit   int           // Records per exact or text query
	LatestLimit int           // Records fetched for the recent recalls view
	CacheTTL    time.Duration // Lifetime of cached catalog searches and feed snapshots
}

// RecallService fetches from the feed and catalog and hands the results to the
// matching, ranking, resolving and bucketing functions. Upstream failures are logged
// and treated as empty results.
type RecallService struct {
	feed        domain.RecallFeed
	catalog     domain.ProductCatalog
	cache       domain.CacheRepository
	log         logrus.FieldLogger
	feedLimit   int
	latestLimit int
	cacheTTL    time.Duration
}

// NewRecallService creates a new recall service with dependencies
func NewRecallService(
	feed domain.RecallFeed,
	catalog domain.ProductCatalog,
	cache domain.CacheRepository,
	logger logrus.FieldLogger,
	config RecallServiceConfig,
) *RecallService {
	feedLimit := config.FeedLimit
	if feedLimit <= 0 {
		feedLimit = 20
	}
	latestLimit := config.LatestLimit
	if latestLimit <= 0 {
		latestLimit = 100
	}
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &RecallService{
		feed:        feed,
		catalog:     catalog,
		cache:       cache,
		log:         logger.WithField("component", "recalls"),
		feedLimit:   feedLimit,
		latestLimit: latestLimit,
		cacheTTL:    cacheTTL,
	}
}

// Scan looks up a barcode and returns its recall verdict.
// Flow: exact recall lookup -> catalog lookup when no recall -> ResolveScan
func (s *RecallService) Scan(ctx context.Context, barcode string) (domain.ScanResult, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return domain.ScanResult{}, domain.ErrInvalidRequest
	}
	log := s.log.WithField("barcode", barcode)

	recalls, err := s.feed.ByGTIN(ctx, barcode, s.feedLimit)
	if err != nil {
		log.WithError(err).Warn("Recall lookup failed, reporting no recall")
		recalls = nil
	}

	var candidate *domain.CandidateProduct
	if len(recalls) == 0 {
		product, err := s.catalog.Product(ctx, barcode)
		switch {
		case err == nil && product != nil:
			c := product.ToCandidate()
			candidate = &c
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			log.WithError(err).Warn("Catalog lookup failed")
		}
	}

	return ResolveScan(barcode, recalls, candidate), nil
}

// SearchProducts returns ranked catalog suggestions for a free-text query.
// Queries shorter than MinQueryLength return no suggestions without any request.
func (s *RecallService) SearchProducts(ctx context.Context, query string) ([]domain.CandidateProduct, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []domain.CandidateProduct{}, nil
	}

	key := productSearchKey(query)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		if products, ok := cached.([]domain.CandidateProduct); ok {
			return products, nil
		}
	}

	found, err := s.catalog.Search(ctx, query)
	if err != nil {
		s.log.WithError(err).WithField("query", query).Warn("Catalog search failed")
		return []domain.CandidateProduct{}, nil
	}

	candidates := make([]domain.CandidateProduct, 0, len(found))
	for _, p := range found {
		candidates = append(candidates, p.ToCandidate())
	}
	ranked := RankProducts(candidates, query)

	if err := s.cache.Set(ctx, key, ranked, s.cacheTTL); err != nil {
		s.log.WithError(err).Debug("Failed to cache product search")
	}
	return ranked, nil
}

// LookupProduct resolves a barcode to a product identity for saving as a favorite.
// The catalog is asked first, then the recall feed.
func (s *RecallService) LookupProduct(ctx context.Context, barcode string) (domain.ProductLookup, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return domain.ProductLookup{}, domain.ErrInvalidRequest
	}
	log := s.log.WithField("barcode", barcode)
	notFound := domain.ProductLookup{Barcode: barcode}

	product, err := s.catalog.Product(ctx, barcode)
	if err == nil && product != nil {
		return domain.ProductLookup{
			Barcode:     barcode,
			ProductName: firstNonEmpty(product.DisplayName(), UnknownProduct),
			Brand:       firstNonEmpty(product.Brands, UnknownBrand),
			Found:       true,
		}, nil
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.WithError(err).Warn("Catalog lookup failed")
	}

	recalls, err := s.feed.ByGTIN(ctx, barcode, 1)
	if err != nil {
		log.WithError(err).Warn("Recall lookup failed")
		return notFound, nil
	}
	if len(recalls) == 0 {
		return notFound, nil
	}
	rec := recalls[0]
	return domain.ProductLookup{
		Barcode:     barcode,
		ProductName: firstNonEmpty(rec.Libelle, rec.ModelesOuReferences, UnknownProduct),
		Brand:       firstNonEmpty(rec.MarqueProduit, UnknownBrand),
		Found:       true,
	}, nil
}

// RecentRecalls groups the latest feed records matching term by recency around now
func (s *RecallService) RecentRecalls(ctx context.Context, term string, now time.Time) (domain.PeriodBuckets, error) {
	records := s.latestRecalls(ctx)
	return BucketRecalls(records, term, now), nil
}

// latestRecalls returns the cached feed snapshot, fetching it on a miss
func (s *RecallService) latestRecalls(ctx context.Context) []domain.RecallRecord {
	key := latestRecallsKey(s.latestLimit)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		if records, ok := cached.([]domain.RecallRecord); ok {
			return records
		}
	}

	records, err := s.feed.Latest(ctx, s.latestLimit)
	if err != nil {
		s.log.WithError(err).Warn("Fetching latest recalls failed")
		return nil
	}

	if err := s.cache.Set(ctx, key, records, s.cacheTTL); err != nil {
		s.log.WithError(err).Debug("Failed to cache latest recalls")
	}
	return records
}
