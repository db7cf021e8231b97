package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/orizon-lang/hintkit/internal/errors"
	"github.com/orizon-lang/hintkit/internal/hint"
	"github.com/orizon-lang/hintkit/internal/registry"
	"github.com/orizon-lang/hintkit/internal/value"
)

const codeTrue = "True"

// visit returns the fragment for one dequeued hint under the current marker
func (w *walk) visit(n node) (string, error) {
	cls, err := w.classify(n.hint)
	if err != nil {
		return "", err
	}
	indent, pith := w.cur.indent, w.cur.pith

	switch {
	case cls.Ignorable():
		return codeTrue, nil

	case cls.Kind == registry.KindUnsupported:
		// bounded type variable: check the bound in place
		c, ph := w.child(cls.Bound)
		return ph, w.pushGeneration(indent, pith, c)

	case cls.Kind == registry.KindClass:
		return w.isinstance(pith, w.expand(cls.Origin)...), nil

	case cls.Bare():
		return w.isinstance(pith, cls.Origin), nil
	}

	switch cls.Kind {
	case registry.KindUnion:
		return w.visitUnion(n, cls, indent, pith)
	case registry.KindLiteral:
		return w.visitLiteral(n, cls, pith)
	case registry.KindAnnotated:
		c, ph := w.child(cls.Args[0])
		return ph, w.pushGeneration(indent+w.g.opts.Indent, pith, c)
	case registry.KindTuple:
		return w.visitTuple(n, cls, indent, pith)
	case registry.KindCallable:
		if !validParams(cls.Args[0]) {
			return "", errors.Unsupported(hint.Repr(n.hint), "callable parameters must be a bracketed list or ...")
		}
		return w.isinstance(pith, cls.Origin), nil
	case registry.KindGeneric1:
		if indexable(cls.Entry.Sign) {
			return w.visitSequence(cls, indent, pith)
		}
	}

	// remaining containers are checked by origin only
	return w.isinstance(pith, cls.Origin), nil
}

// visitUnion checks members as one disjunction. Members share the parent's
// indent and pith since a union narrows nothing. Plain classes are grouped
// into a single isinstance test.
func (w *walk) visitUnion(n node, cls registry.Classification, indent, pith string) (string, error) {
	args := cls.Args
	if cls.Entry.Sign == hint.SignOptional {
		args = []hint.Hint{args[0], nil}
	}

	var classes []*hint.Class
	var nodes []node
	var parts []string
	for _, a := range args {
		ac, err := w.classify(a)
		if err != nil {
			return "", err
		}
		switch {
		case ac.Ignorable():
			return codeTrue, nil
		case ac.Kind == registry.KindClass || ac.Bare():
			classes = appendClasses(classes, w.expand(ac.Origin)...)
		default:
			c, ph := w.child(a)
			nodes = append(nodes, c)
			parts = append(parts, ph)
		}
	}

	if len(classes) > 0 {
		parts = append([]string{w.isinstance(pith, classes...)}, parts...)
	}
	if len(nodes) > 0 {
		if err := w.pushGeneration(indent, pith, nodes...); err != nil {
			return "", err
		}
	}
	return w.join(parts, "or", indent), nil
}

// visitLiteral emits one type-guarded equality per value
func (w *walk) visitLiteral(n node, cls registry.Classification, pith string) (string, error) {
	values := flattenLiteral(cls.Args, nil)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		lit, ok := literalCode(v)
		if !ok {
			return "", errors.Unsupported(hint.Repr(n.hint), fmt.Sprintf("literal value of type %T cannot be checked", v))
		}
		parts = append(parts, fmt.Sprintf("%s and %s == %s", w.isinstance(pith, value.ClassOf(v)), pith, lit))
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " or ") + ")", nil
}

func flattenLiteral(args []hint.Hint, into []any) []any {
	for _, a := range args {
		if s, ok := a.(*hint.Subscript); ok && s.Sign == hint.SignLiteral {
			into = flattenLiteral(s.Args, into)
			continue
		}
		into = append(into, value.Normalize(a))
	}
	return into
}

// visitTuple checks the origin and length, then each item at pith[i]
func (w *walk) visitTuple(n node, cls registry.Classification, indent, pith string) (string, error) {
	args := cls.Args
	origin := w.isinstance(pith, cls.Origin)
	childIndent := indent + w.g.opts.Indent

	if len(args) == 0 {
		return fmt.Sprintf("(%s and len(%s) == 0)", origin, pith), nil
	}

	if len(args) == 2 && args[1] == hint.Ellipsis {
		if w.ignorable(args[0]) {
			return origin, nil
		}
		c, ph := w.child(args[0])
		if err := w.pushGeneration(childIndent, pith+"[0]", c); err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s and (len(%s) == 0 or %s))", origin, pith, ph), nil
	}

	parts := []string{origin, fmt.Sprintf("len(%s) == %d", pith, len(args))}
	for i, a := range args {
		if a == hint.Ellipsis {
			return "", errors.Unsupported(hint.Repr(n.hint), "... is only valid as the second of two tuple arguments")
		}
		if w.ignorable(a) {
			continue
		}
		c, ph := w.child(a)
		if err := w.pushGeneration(childIndent, fmt.Sprintf("%s[%d]", pith, i), c); err != nil {
			return "", err
		}
		parts = append(parts, ph)
	}
	return w.join(parts, "and", indent), nil
}

// visitSequence checks the origin and the first item, if any
func (w *walk) visitSequence(cls registry.Classification, indent, pith string) (string, error) {
	origin := w.isinstance(pith, cls.Origin)
	if w.ignorable(cls.Args[0]) {
		return origin, nil
	}
	c, ph := w.child(cls.Args[0])
	if err := w.pushGeneration(indent+w.g.opts.Indent, pith+"[0]", c); err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s and (len(%s) == 0 or %s))", origin, pith, ph), nil
}

func (w *walk) ignorable(h hint.Hint) bool {
	return w.g.reg.Classify(h).Ignorable()
}

// expand applies the numeric tower option to a checked class
func (w *walk) expand(c *hint.Class) []*hint.Class {
	if !w.g.opts.NumericTower {
		return []*hint.Class{c}
	}
	switch c {
	case hint.Float:
		return []*hint.Class{hint.Float, hint.Int}
	case hint.Complex:
		return []*hint.Class{hint.Complex, hint.Float, hint.Int}
	}
	return []*hint.Class{c}
}

func (w *walk) isinstance(pith string, classes ...*hint.Class) string {
	if len(classes) == 1 {
		return fmt.Sprintf("isinstance(%s, %s)", pith, w.refs.Ref(classes[0]))
	}
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = w.refs.Ref(c)
	}
	return fmt.Sprintf("isinstance(%s, (%s))", pith, strings.Join(names, ", "))
}

// join combines parts with op, one part per line one level deeper
func (w *walk) join(parts []string, op, indent string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	inner := indent + w.g.opts.Indent
	return "(\n" + inner + strings.Join(parts, " "+op+"\n"+inner) + "\n" + indent + ")"
}

func appendClasses(into []*hint.Class, cs ...*hint.Class) []*hint.Class {
next:
	for _, c := range cs {
		for _, x := range into {
			if x == c {
				continue next
			}
		}
		into = append(into, c)
	}
	return into
}

func indexable(s hint.Sign) bool {
	return s == hint.SignList || s == hint.SignSequence || s == hint.SignMutableSequence
}

func validParams(h hint.Hint) bool {
	switch h.(type) {
	case hint.EllipsisType, hint.Params:
		return true
	}
	return false
}

// literalCode renders a literal value in check syntax
func literalCode(v any) (string, bool) {
	switch x := v.(type) {
	case nil, bool, string, []byte,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return hint.ValueRepr(v), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return hint.ValueRepr(v), true
	}
	return "", false
}
