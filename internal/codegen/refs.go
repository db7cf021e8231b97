package codegen

import (
	"fmt"
	"sync"

	"github.com/orizon-lang/hintkit/internal/hint"
)

// RefPrefix starts every class reference emitted into check code
const RefPrefix = "__hint_type_"

// TypeRefs maps runtime classes to stable names usable inside generated
// code. Each class is registered at most once.
type TypeRefs struct {
	mu      sync.Mutex
	byClass map[*hint.Class]string
	byName  map[string]*hint.Class
	order   []string
}

// NewTypeRefs creates an empty registry
func NewTypeRefs() *TypeRefs {
	return &TypeRefs{
		byClass: make(map[*hint.Class]string),
		byName:  make(map[string]*hint.Class),
	}
}

// Ref returns the name for c, registering it on first use
func (r *TypeRefs) Ref(c *hint.Class) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name, ok := r.byClass[c]; ok {
		return name
	}
	name := fmt.Sprintf("%s%d", RefPrefix, len(r.order))
	r.byClass[c] = name
	r.byName[name] = c
	r.order = append(r.order, name)
	return name
}

// Resolve returns the class registered under name
func (r *TypeRefs) Resolve(name string) (*hint.Class, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byName[name]
	return c, ok
}

// Len returns the number of registered classes
func (r *TypeRefs) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Names returns the registered names in registration order
func (r *TypeRefs) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}
