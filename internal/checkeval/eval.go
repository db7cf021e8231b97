package checkeval

import (
	"fmt"

	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/value"
)

// Resolver maps class references back to classes
type Resolver interface {
	Resolve(name string) (*hint.Class, bool)
}

// Bindings maps pith root names to the values under test
type Bindings map[string]any

// Eval evaluates the program. The result is the truthiness of the root
// expression. Unknown names, unresolved references and invalid indexing are
// errors, never silent passes.
func (p *Program) Eval(bindings Bindings, resolver Resolver) (bool, error) {
	e := &evaluator{bindings: bindings, resolver: resolver}
	v, err := e.eval(p.root)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

type evaluator struct {
	bindings Bindings
	resolver Resolver
}

func (e *evaluator) eval(x Expr) (any, error) {
	switch x := x.(type) {
	case *OrExpr:
		for _, it := range x.Items {
			v, err := e.eval(it)
			if err != nil {
				return nil, err
			}
			if truthy(v) {
				return true, nil
			}
		}
		return false, nil

	case *AndExpr:
		for _, it := range x.Items {
			v, err := e.eval(it)
			if err != nil {
				return nil, err
			}
			if !truthy(v) {
				return false, nil
			}
		}
		return true, nil

	case *NotExpr:
		v, err := e.eval(x.X)
		if err != nil {
			return nil, err
		}
		return !truthy(v), nil

	case *EqExpr:
		l, err := e.eval(x.Left)
		if err != nil {
			return nil, err
		}
		r, err := e.eval(x.Right)
		if err != nil {
			return nil, err
		}
		return value.Equal(l, r), nil

	case *ConstExpr:
		return x.Value, nil

	case *IsInstanceExpr:
		v, err := e.pith(x.Pith)
		if err != nil {
			return nil, err
		}
		for _, ref := range x.Refs {
			c, err := e.resolve(ref)
			if err != nil {
				return nil, err
			}
			if value.IsInstance(v, c) {
				return true, nil
			}
		}
		return false, nil

	case *LenExpr:
		v, err := e.pith(x.Pith)
		if err != nil {
			return nil, err
		}
		n, err := value.Len(v)
		if err != nil {
			return nil, errors.CheckEval(err.Error())
		}
		return n, nil

	case *PithExpr:
		return e.pith(x)
	}
	return nil, errors.CheckEval(fmt.Sprintf("unknown expression %T", x))
}

func (e *evaluator) resolve(ref string) (*hint.Class, error) {
	if e.resolver == nil {
		return nil, errors.CheckEval("no resolver for class reference " + ref)
	}
	c, ok := e.resolver.Resolve(ref)
	if !ok {
		return nil, errors.CheckEval("unresolved class reference " + ref)
	}
	return c, nil
}

func (e *evaluator) pith(x *PithExpr) (any, error) {
	v, ok := e.bindings[x.Name]
	if !ok {
		return nil, errors.CheckEval("name " + x.Name + " is not bound")
	}
	for _, i := range x.Indexes {
		next, err := value.Index(v, i)
		if err != nil {
			return nil, errors.CheckEval(err.Error())
		}
		v = next
	}
	return v, nil
}

// truthy follows the usual truth rules: false, None, zero numbers and empty
// sized values are false
func truthy(v any) bool {
	switch x := value.Normalize(v).(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case float64:
		return x != 0
	case complex128:
		return x != 0
	}
	if n, err := value.Len(v); err == nil {
		return n > 0
	}
	return true
}

// MapResolver resolves references from a fixed map
type MapResolver map[string]*hint.Class

// Resolve implements Resolver
func (m MapResolver) Resolve(name string) (*hint.Class, bool) {
	c, ok := m[name]
	return c, ok
}
