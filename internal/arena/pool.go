// Package arena provides a process-wide pool of fixed-capacity buffers used
// as a manual arena by hot-path traversals, plus a typed free list for small
// records.
//
// Buffers are grouped into buckets keyed by capacity. Each bucket has its own
// lock, so callers requesting different capacities never contend. Buckets only
// grow: a released buffer stays in its bucket for the life of the pool.
package arena

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/orizon-lang/hintkit/internal/errors"
)

// List is a fixed-capacity mutable buffer checked out of a Pool. Slot
// contents are unspecified on acquisition.
type List struct {
	items    []any
	pool     *Pool
	id       uint64
	released bool
}

// Cap returns the number of slots in the buffer
func (l *List) Cap() int {
	l.check("Cap")
	return len(l.items)
}

// Get returns slot i
func (l *List) Get(i int) any {
	l.check("Get")
	return l.items[i]
}

// Set stores v in slot i
func (l *List) Set(i int, v any) {
	l.check("Set")
	l.items[i] = v
}

// Clear zeroes every slot so released buffers do not pin values
func (l *List) Clear() {
	l.check("Clear")
	clear(l.items)
}

func (l *List) check(op string) {
	if l.released {
		panic(errors.UseAfterRelease("List." + op))
	}
}

// bucket holds the free buffers of one capacity. The pad keeps adjacent
// buckets' locks on separate cache lines.
type bucket struct {
	mu       sync.Mutex
	capacity int
	free     []*List
	created  uint64
	acquired uint64
	freed    uint64
	_        cpu.CacheLinePad
}

// Pool is a thread-safe cache of fixed-capacity buffers keyed by capacity
type Pool struct {
	mu      sync.RWMutex
	buckets map[int]*bucket
	nextID  atomic.Uint64
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{buckets: make(map[int]*bucket)}
}

var defaultPool = NewPool()

// Default returns the process-wide pool
func Default() *Pool { return defaultPool }

func (p *Pool) bucketFor(capacity int) *bucket {
	p.mu.RLock()
	b, ok := p.buckets[capacity]
	p.mu.RUnlock()
	if ok {
		return b
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if b, ok = p.buckets[capacity]; ok {
		return b
	}
	b = &bucket{capacity: capacity}
	p.buckets[capacity] = b
	return b
}

// Acquire checks out a buffer of exactly capacity slots. Slot contents are
// whatever the previous holder left; callers must overwrite before reading.
func (p *Pool) Acquire(capacity int) (*List, error) {
	if capacity <= 0 {
		return nil, errors.InvalidCapacity(capacity)
	}

	b := p.bucketFor(capacity)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.acquired++
	if n := len(b.free); n > 0 {
		l := b.free[n-1]
		b.free[n-1] = nil
		b.free = b.free[:n-1]
		l.released = false
		return l, nil
	}

	b.created++
	return &List{
		items: make([]any, capacity),
		pool:  p,
		id:    p.nextID.Add(1),
	}, nil
}

// Release returns l to the pool. Releasing a buffer this pool did not
// create, or releasing the same buffer twice, panics: both are bugs in the
// caller's arena discipline.
func (p *Pool) Release(l *List) {
	if l == nil || l.pool != p || l.id == 0 {
		panic(errors.ForeignBuffer(describe(l)))
	}

	p.mu.RLock()
	b, ok := p.buckets[len(l.items)]
	p.mu.RUnlock()
	if !ok {
		panic(errors.ForeignBuffer(describe(l)))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if l.released {
		panic(errors.DoubleRelease(describe(l)))
	}
	l.released = true
	b.freed++
	b.free = append(b.free, l)
}

// Scoped acquires a buffer, runs fn and releases the buffer on every exit
// path, including a panic inside fn.
func (p *Pool) Scoped(capacity int, fn func(*List) error) error {
	l, err := p.Acquire(capacity)
	if err != nil {
		return err
	}
	defer p.Release(l)
	return fn(l)
}

func describe(l *List) string {
	if l == nil {
		return "nil buffer"
	}
	return fmt.Sprintf("buffer #%d (capacity %d)", l.id, len(l.items))
}

// BucketInfo provides information about one capacity bucket
type BucketInfo struct {
	Capacity    int
	Created     uint64
	FreeBuffers int
	Acquired    uint64
	Released    uint64
	Outstanding uint64
}

// Stats returns per-bucket counters ordered by capacity
func (p *Pool) Stats() []BucketInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	info := make([]BucketInfo, 0, len(p.buckets))
	for capacity, b := range p.buckets {
		b.mu.Lock()
		info = append(info, BucketInfo{
			Capacity:    capacity,
			Created:     b.created,
			FreeBuffers: len(b.free),
			Acquired:    b.acquired,
			Released:    b.freed,
			Outstanding: b.acquired - b.freed,
		})
		b.mu.Unlock()
	}

	sort.Slice(info, func(i, j int) bool { return info[i].Capacity < info[j].Capacity })
	return info
}
