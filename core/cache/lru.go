package cache

import (
	"container/list"
	"sync"
)

type LRUOpts struct {
	// Capacity is the maximum number of entries. Zero is legal: every Put is
	// evicted immediately.
	Capacity int

	// OnEvict is called for every capacity eviction, after the lock has been
	// released. Optional.
	OnEvict func(key, value string)
}

type entry struct {
	key string
	val string
}

// LRU is a fixed capacity store with least-recently-used eviction. A single
// mutex guards the map and the recency list; Get takes it exclusively
// because a hit reorders the list.
type LRU struct {
	mu       sync.Mutex
	ll       *list.List // front = most recently used
	items    map[string]*list.Element
	capacity int
	onEvict  func(key, value string)
}

func NewLRU(opts LRUOpts) (*LRU, error) {
	if opts.Capacity < 0 {
		return nil, ErrInvalidCapacity
	}

	return &LRU{
		ll:       list.New(),
		items:    make(map[string]*list.Element, min(opts.Capacity, DefaultCapacity)),
		capacity: opts.Capacity,
		onEvict:  opts.OnEvict,
	}, nil
}

// Put inserts or overwrites key. Both insert and overwrite make key the most
// recently used entry. An insert that pushes the store over capacity evicts
// exactly one entry, the least recently used.
func (l *LRU) Put(key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}

	evicted, ok := l.put(key, value)
	if ok && l.onEvict != nil {
		l.onEvict(evicted.key, evicted.val)
	}
	return nil
}

func (l *LRU) put(key, value string) (evicted entry, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ele, found := l.items[key]; found {
		l.ll.MoveToFront(ele)
		ele.Value.(*entry).val = value
		return entry{}, false
	}

	l.items[key] = l.ll.PushFront(&entry{key: key, val: value})
	if l.ll.Len() <= l.capacity {
		return entry{}, false
	}

	last := l.ll.Back()
	e := last.Value.(*entry)
	l.ll.Remove(last)
	delete(l.items, e.key)
	return *e, true
}

// Get returns the value for key and promotes it to most recently used.
// A miss leaves the store untouched.
func (l *LRU) Get(key string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ele, ok := l.items[key]
	if !ok {
		return "", false
	}
	l.ll.MoveToFront(ele)
	return ele.Value.(*entry).val, true
}

func (l *LRU) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ll.Len()
}

func (l *LRU) Capacity() int { return l.capacity }

// Keys returns a snapshot of all keys, most recently used first.
func (l *LRU) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]string, 0, l.ll.Len())
	for ele := l.ll.Front(); ele != nil; ele = ele.Next() {
		keys = append(keys, ele.Value.(*entry).key)
	}
	return keys
}

var _ Store = (*LRU)(nil)
