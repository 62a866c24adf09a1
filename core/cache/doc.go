// Package cache provides the bounded key-value store behind lrukv.
//
// [LRU] holds at most a fixed number of string entries and evicts the least
// recently used one when an insert overflows its capacity. Both [LRU.Get] and
// [LRU.Put] count as a use. Keys and values are limited to [MaxLen] Unicode
// code points; longer input is rejected with a [*ValidationError].
//
//	store, err := cache.NewLRU(cache.LRUOpts{Capacity: 10_000})
//	if err != nil {
//	    return err
//	}
//
//	if err := store.Put("key", "value"); errors.Is(err, cache.ErrValidation) {
//	    // reject the request
//	}
//	if val, ok := store.Get("key"); ok {
//	    // use val
//	}
//
// # Concurrency
//
// All operations are serialized by one mutex. Every operation is O(1) and
// performs no I/O, so callers only ever wait for other callers, never for
// the store itself. Concurrent callers observe some total order of
// operations; which order is unspecified.
//
// # Capacity
//
// A capacity of zero is legal and yields a store that never retains
// anything. Overwriting an existing key never evicts, even when the value is
// unchanged.
package cache
