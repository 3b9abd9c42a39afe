package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rappelscan/backend/internal/domain"
	"github.com/rappelscan/backend/internal/logging"
)

var testLogger = logging.Discard()

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu       sync.Mutex
	data     map[string]interface{}
	setError error
	setCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string]interface{})}
}

func (m *MockCacheRepository) Get(_ context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockRecallFeed answers from fixed maps and counts calls
type MockRecallFeed struct {
	mu          sync.Mutex
	byGTIN      map[string][]domain.RecallRecord
	byPhrase    map[string][]domain.RecallRecord
	latest      []domain.RecallRecord
	gtinErrors  map[string]error
	textErrors  map[string]error
	latestError error

	gtinCalls   []string
	searchCalls []string
	latestCalls int
}

func NewMockRecallFeed() *MockRecallFeed {
	return &MockRecallFeed{
		byGTIN:     make(map[string][]domain.RecallRecord),
		byPhrase:   make(map[string][]domain.RecallRecord),
		gtinErrors: make(map[string]error),
		textErrors: make(map[string]error),
	}
}

func (m *MockRecallFeed) ByGTIN(_ context.Context, gtin string, _ int) ([]domain.RecallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gtinCalls = append(m.gtinCalls, gtin)
	if err := m.gtinErrors[gtin]; err != nil {
		return nil, err
	}
	return m.byGTIN[gtin], nil
}

func (m *MockRecallFeed) Search(_ context.Context, phrase string, _ int) ([]domain.RecallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls = append(m.searchCalls, phrase)
	if err := m.textErrors[phrase]; err != nil {
		return nil, err
	}
	return m.byPhrase[phrase], nil
}

func (m *MockRecallFeed) Latest(_ context.Context, limit int) ([]domain.RecallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latestCalls++
	if m.latestError != nil {
		return nil, m.latestError
	}
	if limit < len(m.latest) {
		return m.latest[:limit], nil
	}
	return m.latest, nil
}

func (m *MockRecallFeed) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.gtinCalls) + len(m.searchCalls) + m.latestCalls
}

// MockProductCatalog is a mock implementation of domain.ProductCatalog
type MockProductCatalog struct {
	products     map[string]*domain.CatalogProduct
	productError error
	results      []domain.CatalogProduct
	searchError  error
	searchCalls  int
}

func NewMockProductCatalog() *MockProductCatalog {
	return &MockProductCatalog{products: make(map[string]*domain.CatalogProduct)}
}

func (m *MockProductCatalog) Product(_ context.Context, code string) (*domain.CatalogProduct, error) {
	if m.productError != nil {
		return nil, m.productError
	}
	if p, ok := m.products[code]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockProductCatalog) Search(_ context.Context, _ string) ([]domain.CatalogProduct, error) {
	m.searchCalls++
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.results, nil
}

// MockFavoriteStore keeps favorites in insertion order
type MockFavoriteStore struct {
	mu        sync.Mutex
	favorites []domain.Favorite
	listError error
	seq       int
}

func (m *MockFavoriteStore) List(_ context.Context) ([]domain.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listError != nil {
		return nil, m.listError
	}
	return append([]domain.Favorite{}, m.favorites...), nil
}

func (m *MockFavoriteStore) Create(_ context.Context, in domain.FavoriteInput) (domain.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	fav := domain.Favorite{ID: fmt.Sprintf("fav-%d", m.seq)}
	in.Apply(&fav)
	m.favorites = append(m.favorites, fav)
	return fav, nil
}

func (m *MockFavoriteStore) Update(_ context.Context, id string, in domain.FavoriteInput) (domain.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.favorites {
		if m.favorites[i].ID == id {
			in.Apply(&m.favorites[i])
			return m.favorites[i], nil
		}
	}
	return domain.Favorite{}, domain.ErrNotFound
}

func (m *MockFavoriteStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.favorites {
		if m.favorites[i].ID == id {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockFavoriteStore) Close() error { return nil }

func strPtr(s string) *string { return &s }
