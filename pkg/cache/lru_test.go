package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/cache"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache(t *testing.T, capacity int) *cache.LRUCache[uuid.UUID, string] {
	t.Helper()

	c, err := cache.NewLRUCache[uuid.UUID, string](
		"license_package",
		capacity,
		logger.NewNop(),
		metric.NewFactory().Cache(),
	)
	require.NoError(t, err)
	return c
}

func TestNewLRUCache_Validation(t *testing.T) {
	t.Parallel()

	_, err := cache.NewLRUCache[int, int]("", 1, logger.NewNop(), metric.NewFactory().Cache())
	require.Error(t, err)

	_, err = cache.NewLRUCache[int, int]("x", 0, logger.NewNop(), metric.NewFactory().Cache())
	require.Error(t, err)
}

func TestLRUCache_GetPut(t *testing.T) {
	t.Parallel()

	k1, k2, k3 := uuid.New(), uuid.New(), uuid.New()

	testCases := []struct {
		desc    string
		ops     func(c *cache.LRUCache[uuid.UUID, string])
		present map[uuid.UUID]string
		absent  []uuid.UUID
		len     int
	}{
		{
			desc: "basic get and put",
			ops: func(c *cache.LRUCache[uuid.UUID, string]) {
				c.Put(k1, "monthly", 0)
				c.Put(k2, "yearly", 0)
			},
			present: map[uuid.UUID]string{k1: "monthly", k2: "yearly"},
			len:     2,
		},
		{
			desc: "least recently used entry is evicted",
			ops: func(c *cache.LRUCache[uuid.UUID, string]) {
				c.Put(k1, "monthly", 0)
				c.Put(k2, "yearly", 0)
				c.Get(k1)
				c.Put(k3, "quarterly", 0)
			},
			present: map[uuid.UUID]string{k1: "monthly", k3: "quarterly"},
			absent:  []uuid.UUID{k2},
			len:     2,
		},
		{
			desc: "put overwrites existing key",
			ops: func(c *cache.LRUCache[uuid.UUID, string]) {
				c.Put(k1, "monthly", 0)
				c.Put(k1, "monthly v2", 0)
			},
			present: map[uuid.UUID]string{k1: "monthly v2"},
			len:     1,
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			c := newCache(t, 2)
			tC.ops(c)

			for key, want := range tC.present {
				got, ok := c.Get(key)
				require.True(t, ok)
				require.Equal(t, want, got)
			}
			for _, key := range tC.absent {
				_, ok := c.Get(key)
				require.False(t, ok)
			}
			require.Equal(t, tC.len, c.Len())
		})
	}
}

func TestLRUCache_TTL(t *testing.T) {
	t.Parallel()

	clk := &clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := newCache(t, 4).WithClock(clk.Now)

	short, long, forever := uuid.New(), uuid.New(), uuid.New()
	c.Put(short, "short", time.Minute)
	c.Put(long, "long", time.Hour)
	c.Put(forever, "forever", 0)

	clk.Advance(2 * time.Minute)

	_, ok := c.Get(short)
	require.False(t, ok)
	require.False(t, c.Has(short))
	require.True(t, c.Has(long))
	require.True(t, c.Has(forever))
	require.Equal(t, 2, c.Len())
}

func TestLRUCache_OnEvictedAndPurge(t *testing.T) {
	t.Parallel()

	c := newCache(t, 1)

	var evicted []string
	c.SetOnEvicted(func(_ uuid.UUID, value string) {
		evicted = append(evicted, value)
	})

	c.Put(uuid.New(), "first", 0)
	c.Put(uuid.New(), "second", 0)
	require.Equal(t, []string{"first"}, evicted)

	c.Purge()
	require.Equal(t, []string{"first", "second"}, evicted)
	require.Zero(t, c.Len())
	require.Equal(t, 1, c.Capacity())
}

func TestLRUCache_Cleanup(t *testing.T) {
	t.Parallel()

	c := newCache(t, 4)
	key := uuid.New()
	c.Put(key, "soon gone", 5*time.Millisecond)

	c.StartCleanup(time.Millisecond)
	defer c.StopCleanup()

	require.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 2*time.Millisecond)
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := newCache(t, 16)
	keys := make([]uuid.UUID, 32)
	for i := range keys {
		keys[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, key := range keys {
				if (i+w)%2 == 0 {
					c.Put(key, key.String(), time.Minute)
					continue
				}
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, c.Len(), 16)
}
