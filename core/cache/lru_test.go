package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLRU(t *testing.T, capacity int) *LRU {
	t.Helper()
	l, err := NewLRU(LRUOpts{Capacity: capacity})
	require.NoError(t, err)
	return l
}

func TestLRU_Basic(t *testing.T) {
	l := newLRU(t, 2)

	require.NoError(t, l.Put("a", "1"))
	require.NoError(t, l.Put("b", "2"))

	val, ok := l.Get("a")
	require.True(t, ok)
	require.Equal(t, "1", val)

	require.NoError(t, l.Put("c", "3")) // should evict "b"

	_, ok = l.Get("b")
	require.False(t, ok, "expected b to be evicted")

	val, ok = l.Get("c")
	require.True(t, ok)
	require.Equal(t, "3", val)
}

func TestLRU_Update(t *testing.T) {
	l := newLRU(t, 2)

	require.NoError(t, l.Put("a", "1"))
	require.NoError(t, l.Put("a", "2"))

	val, ok := l.Get("a")
	require.True(t, ok)
	require.Equal(t, "2", val)
	require.Equal(t, 1, l.Len())
}

func TestLRU_NegativeCapacity(t *testing.T) {
	_, err := NewLRU(LRUOpts{Capacity: -1})
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestLRU_CapacityInvariant(t *testing.T) {
	for _, capacity := range []int{0, 1, 3, 50} {
		t.Run(fmt.Sprintf("capacity=%d", capacity), func(t *testing.T) {
			l := newLRU(t, capacity)
			for i := range 200 {
				require.NoError(t, l.Put(fmt.Sprintf("k%d", i), "v"))
				require.LessOrEqual(t, l.Len(), capacity)
			}
		})
	}
}

func TestLRU_EvictsOldestOnOverflow(t *testing.T) {
	const capacity = 5
	l := newLRU(t, capacity)

	for i := range capacity + 1 {
		require.NoError(t, l.Put(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i)))
	}

	_, ok := l.Get("k0")
	require.False(t, ok, "first inserted key must be evicted")
	for i := 1; i <= capacity; i++ {
		val, ok := l.Get(fmt.Sprintf("k%d", i))
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("v%d", i), val)
	}
}

func TestLRU_CapacityZero(t *testing.T) {
	var evicted []string
	l, err := NewLRU(LRUOpts{OnEvict: func(key, _ string) { evicted = append(evicted, key) }})
	require.NoError(t, err)

	require.NoError(t, l.Put("a", "1"))
	_, ok := l.Get("a")
	require.False(t, ok)
	require.Equal(t, 0, l.Len())
	require.Equal(t, []string{"a"}, evicted)
}

func TestLRU_CapacityOne(t *testing.T) {
	l := newLRU(t, 1)

	require.NoError(t, l.Put("a", "1"))
	require.NoError(t, l.Put("b", "2"))

	_, ok := l.Get("a")
	require.False(t, ok)
	val, ok := l.Get("b")
	require.True(t, ok)
	require.Equal(t, "2", val)
}

func TestLRU_PromotionViaGet(t *testing.T) {
	l := newLRU(t, 3)
	require.NoError(t, l.Put("A", "a"))
	require.NoError(t, l.Put("B", "b"))
	require.NoError(t, l.Put("C", "c"))

	_, ok := l.Get("A")
	require.True(t, ok)

	require.NoError(t, l.Put("D", "d"))

	_, ok = l.Get("B")
	require.False(t, ok, "B was least recently used")
	require.ElementsMatch(t, []string{"A", "C", "D"}, l.Keys())
}

func TestLRU_PromotionViaPut(t *testing.T) {
	l := newLRU(t, 3)
	require.NoError(t, l.Put("A", "a"))
	require.NoError(t, l.Put("B", "b"))
	require.NoError(t, l.Put("C", "c"))

	require.NoError(t, l.Put("A", "new"))
	require.NoError(t, l.Put("D", "d"))

	_, ok := l.Get("B")
	require.False(t, ok, "B was least recently used")

	val, ok := l.Get("A")
	require.True(t, ok)
	require.Equal(t, "new", val)
	require.ElementsMatch(t, []string{"A", "C", "D"}, l.Keys())
}

func TestLRU_SameValueTouchDoesNotEvict(t *testing.T) {
	var evictions int
	l, err := NewLRU(LRUOpts{Capacity: 2, OnEvict: func(string, string) { evictions++ }})
	require.NoError(t, err)

	require.NoError(t, l.Put("a", "1"))
	require.NoError(t, l.Put("b", "2"))
	require.NoError(t, l.Put("a", "1"))

	require.Equal(t, 0, evictions)
	require.Equal(t, []string{"a", "b"}, l.Keys())

	// "b" is now the oldest
	require.NoError(t, l.Put("c", "3"))
	require.Equal(t, 1, evictions)
	require.Equal(t, []string{"c", "a"}, l.Keys())
}

func TestLRU_MissDoesNotMutate(t *testing.T) {
	l := newLRU(t, 2)
	require.NoError(t, l.Put("a", "1"))
	require.NoError(t, l.Put("b", "2"))

	val, ok := l.Get("nope")
	require.False(t, ok)
	require.Empty(t, val)
	require.Equal(t, []string{"b", "a"}, l.Keys())
}

func TestLRU_EmptyStringsAreLegal(t *testing.T) {
	l := newLRU(t, 2)
	require.NoError(t, l.Put("", ""))

	val, ok := l.Get("")
	require.True(t, ok)
	require.Equal(t, "", val)
}

func TestLRU_ValidationBoundary(t *testing.T) {
	l := newLRU(t, 10)

	atLimit := strings.Repeat("k", MaxLen)
	overLimit := strings.Repeat("k", MaxLen+1)

	require.NoError(t, l.Put(atLimit, "v"))
	require.NoError(t, l.Put("k", atLimit))

	err := l.Put(overLimit, "v")
	require.ErrorIs(t, err, ErrValidation)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "key", vErr.Field)
	require.Equal(t, MaxLen+1, vErr.Length)

	err = l.Put("other", overLimit)
	require.ErrorIs(t, err, ErrValidation)
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "value", vErr.Field)

	// failed puts leave the store as it was
	require.Equal(t, 2, l.Len())
	require.Equal(t, []string{"k", atLimit}, l.Keys())
	_, ok := l.Get("other")
	require.False(t, ok)
}

func TestLRU_LengthCountsCodePoints(t *testing.T) {
	l := newLRU(t, 2)

	// 256 two-byte runes: 512 bytes, 256 characters
	require.NoError(t, l.Put(strings.Repeat("é", MaxLen), "v"))
	require.ErrorIs(t, l.Put(strings.Repeat("é", MaxLen+1), "v"), ErrValidation)
}

func TestLRU_Concurrent(t *testing.T) {
	const (
		capacity = 64
		workers  = 16
		ops      = 2_000
		keySpace = 128
	)
	l := newLRU(t, capacity)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ops {
				key := fmt.Sprintf("k%d", (w*7+j)%keySpace)
				if j%3 == 0 {
					_, _ = l.Get(key)
					continue
				}
				assert.NoError(t, l.Put(key, key))
			}
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, l.Len(), capacity)
	keys := l.Keys()
	require.Len(t, keys, l.Len())
	for _, k := range keys {
		val, ok := l.Get(k)
		require.True(t, ok)
		require.Equal(t, k, val)
	}
}

func TestLRU_ConcurrentLastWriteWins(t *testing.T) {
	const writers = 8
	l := newLRU(t, writers)

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("w%d", w)
			for j := range 500 {
				assert.NoError(t, l.Put(key, fmt.Sprintf("%d", j)))
				_, _ = l.Get(fmt.Sprintf("w%d", (w+1)%writers))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, writers, l.Len())
	for w := range writers {
		val, ok := l.Get(fmt.Sprintf("w%d", w))
		require.True(t, ok)
		require.Equal(t, "499", val)
	}
}
