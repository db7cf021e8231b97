package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/hintkit/internal/codegen"
	"github.com/orizon-lang/hintkit/internal/hint"
)

// ClassSpec declares a user class available to the hints of a set
type ClassSpec struct {
	Name   string   `yaml:"name"`
	Bases  []string `yaml:"bases"`
	Opaque bool     `yaml:"opaque"`
}

// HintSet is a YAML file of named hints:
//
//	classes:
//	  - name: app.User
//	  - name: app.Admin
//	    bases: [app.User]
//	hints:
//	  user: app.User
//	  ids: List[int]
type HintSet struct {
	Classes []ClassSpec       `yaml:"classes"`
	Hints   map[string]string `yaml:"hints"`

	ns *hint.Namespace
}

// loadHintSet reads and resolves a hint set file
func loadHintSet(path string) (*HintSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hint set: %w", err)
	}
	return parseHintSet(data)
}

func parseHintSet(data []byte) (*HintSet, error) {
	var set HintSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse hint set: %w", err)
	}
	if len(set.Hints) == 0 {
		return nil, fmt.Errorf("hint set defines no hints")
	}

	set.ns = hint.NewNamespace()
	for _, spec := range set.Classes {
		c, err := set.defineClass(spec)
		if err != nil {
			return nil, err
		}
		set.ns.DefineClass(c)
	}
	return &set, nil
}

func (s *HintSet) defineClass(spec ClassSpec) (*hint.Class, error) {
	dot := strings.LastIndex(spec.Name, ".")
	if dot <= 0 || dot == len(spec.Name)-1 {
		return nil, fmt.Errorf("class %q must be module-qualified", spec.Name)
	}
	module, name := spec.Name[:dot], spec.Name[dot+1:]

	if spec.Opaque {
		if len(spec.Bases) > 0 {
			return nil, fmt.Errorf("opaque class %s cannot declare bases", spec.Name)
		}
		return hint.NewOpaqueClass(module, name), nil
	}

	bases := make([]*hint.Class, 0, len(spec.Bases))
	for _, b := range spec.Bases {
		h, ok := s.ns.Lookup(b)
		c, isClass := h.(*hint.Class)
		if !ok || !isClass {
			return nil, fmt.Errorf("class %s: base %s is not a known class", spec.Name, b)
		}
		bases = append(bases, c)
	}
	return hint.NewClass(module, name, bases...), nil
}

// Names returns the hint names in sorted order
func (s *HintSet) Names() []string {
	names := make([]string, 0, len(s.Hints))
	for n := range s.Hints {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// genResult is the fragment generated for one named hint
type genResult struct {
	Name     string
	Fragment *codegen.Fragment
}

// generateSet generates every hint of set concurrently. Results keep the
// sorted name order; the first failure cancels the rest.
func generateSet(e *env, set *HintSet) ([]genResult, error) {
	names := set.Names()
	results := make([]genResult, len(names))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, err := set.ns.Parse(set.Hints[name])
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			frag, err := e.checker.GenerateCheck(h)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			e.log.Debug("generated %s", name)
			results[i] = genResult{Name: name, Fragment: frag}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
