package cache

import (
	"strconv"
	"testing"
)

func BenchmarkLRU_Put(b *testing.B) {
	l, _ := NewLRU(LRUOpts{Capacity: 1_000})
	keys := make([]string, 4_096)
	for i := range keys {
		keys[i] = "key-" + strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.Put(keys[i%len(keys)], "value")
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	l, _ := NewLRU(LRUOpts{Capacity: 1_000})
	for i := range 1_000 {
		_ = l.Put("key-"+strconv.Itoa(i), "value")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Get("key-" + strconv.Itoa(i%2_000))
	}
}

func BenchmarkLRU_Parallel(b *testing.B) {
	l, _ := NewLRU(LRUOpts{Capacity: 1_000})

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := "key-" + strconv.Itoa(i%2_000)
			if i%4 == 0 {
				_ = l.Put(key, "value")
			} else {
				l.Get(key)
			}
			i++
		}
	})
}
