package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rappelscan/backend/internal/domain"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T) (*MemoryCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)}
	c := newMemoryCache(clock.Now, time.Hour)
	t.Cleanup(c.Close)
	return c, clock
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{name: "string", key: "k1", value: "value"},
		{
			name: "recall records keep their type",
			key:  "recalls:latest:100",
			value: []domain.RecallRecord{
				{Libelle: "Fromage fondu", MarqueProduit: "Kiri"},
			},
		},
		{
			name:  "candidates keep their type",
			key:   "products:nutella",
			value: []domain.CandidateProduct{{Brand: "Nutella", ProductName: "Pâte à tartiner"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCache(t)

			require.NoError(t, c.Set(ctx, tt.key, tt.value, time.Minute))

			got, err := c.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "non-existent-key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	clock.Advance(59 * time.Second)
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_SetRejectsNonPositiveTTL(t *testing.T) {
	c, _ := newTestCache(t)

	err := c.Set(context.Background(), "k", "v", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, 0, c.Size())
}

func TestMemoryCache_DeleteAndExists(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "k"))
	exists, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing key is not an error
	assert.NoError(t, c.Delete(ctx, "missing"))
}

func TestMemoryCache_RemoveExpired(t *testing.T) {
	c, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", time.Second))
	require.NoError(t, c.Set(ctx, "long", "v", time.Hour))
	assert.Equal(t, 2, c.Size())

	clock.Advance(time.Minute)
	c.removeExpired()

	assert.Equal(t, 1, c.Size())
	_, err := c.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestMemoryCache_Clear(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, k, time.Minute))
	}
	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			_ = c.Set(ctx, key, i, time.Minute)
			_, _ = c.Get(ctx, key)
			_, _ = c.Exists(ctx, key)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, c.Size())
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache()
	c.Close()
	assert.NotPanics(t, c.Close)
}
