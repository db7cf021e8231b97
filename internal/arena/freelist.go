package arena

import (
	"fmt"
	"sync"

	"github.com/orizon-lang/hintkit/internal/errors"
)

// FreeList recycles small records of one type. It tracks every record it
// has handed out, so putting back a foreign or already returned record
// panics instead of corrupting the list.
type FreeList[T any] struct {
	mu   sync.Mutex
	free []*T
	out  map[*T]struct{}
	made int
}

// NewFreeList creates an empty free list
func NewFreeList[T any]() *FreeList[T] {
	return &FreeList[T]{out: make(map[*T]struct{})}
}

// Get returns a record with unspecified contents
func (f *FreeList[T]) Get() *T {
	f.mu.Lock()
	defer f.mu.Unlock()

	var x *T
	if n := len(f.free); n > 0 {
		x = f.free[n-1]
		f.free[n-1] = nil
		f.free = f.free[:n-1]
	} else {
		x = new(T)
		f.made++
	}
	f.out[x] = struct{}{}
	return x
}

// Put returns x to the list
func (f *FreeList[T]) Put(x *T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.out[x]; !ok {
		if x == nil {
			panic(errors.ForeignBuffer("nil record"))
		}
		for _, y := range f.free {
			if y == x {
				panic(errors.DoubleRelease(fmt.Sprintf("record %T", x)))
			}
		}
		panic(errors.ForeignBuffer(fmt.Sprintf("record %T not from this list", x)))
	}
	delete(f.out, x)
	f.free = append(f.free, x)
}

// Outstanding returns the number of records currently checked out
func (f *FreeList[T]) Outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.out)
}

// Made returns the number of records ever allocated
func (f *FreeList[T]) Made() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.made
}
