// Package criteria evaluates threshold expressions, such as
// "radius > 0.5 AND cardinality >= 10.0", over named numeric properties of a
// cluster or graph.
//
// Every property is widened to float64 with number.AsFloat64, so properties of
// different scalar types compare against each other and against literals.
package criteria

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/araddon/qlbridge/expr"
	qlvm "github.com/araddon/qlbridge/vm"
	"github.com/ehsanranjbar/clamutils/number"
)

var (
	// ErrUnknownProperty is returned when an expression refers to a property that is not set.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrNotBoolean is returned when an expression does not evaluate to a boolean.
	ErrNotBoolean = errors.New("expression is not boolean")
)

// Properties holds named numeric properties.
type Properties map[string]float64

// Set stores v under name, widened to float64.
func Set[T number.Scalar](p Properties, name string, v T) {
	p[name] = number.AsFloat64(v)
}

// Matcher decides whether a set of properties satisfies a condition.
type Matcher interface {
	Match(p Properties) (bool, error)
}

// Criterion is a parsed threshold expression.
type Criterion struct {
	text string
	node expr.Node
}

// Parse parses a criterion expression.
func Parse(text string) (*Criterion, error) {
	node, err := expr.ParseExpression(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse criterion %q: %w", text, err)
	}
	return &Criterion{text: text, node: node}, nil
}

// MustParse is like Parse but panics if an error occurs.
func MustParse(text string) *Criterion {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the source text of the criterion.
func (c *Criterion) String() string {
	return c.text
}

// Match evaluates the criterion against p.
func (c *Criterion) Match(p Properties) (bool, error) {
	ctx := newPropertyContext(p)
	v, ok := qlvm.Eval(ctx, c.node)
	if len(ctx.missing) > 0 {
		names := make([]string, 0, len(ctx.missing))
		for name := range ctx.missing {
			names = append(names, name)
		}
		slices.Sort(names)
		return false, fmt.Errorf("%w: %s in %q", ErrUnknownProperty, strings.Join(names, ", "), c.text)
	}
	if !ok || v == nil {
		return false, fmt.Errorf("%w: %q", ErrNotBoolean, c.text)
	}

	b, isBool := v.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("%w: %q evaluates to %s", ErrNotBoolean, c.text, v.ToString())
	}
	return b, nil
}

type all []Matcher

// All returns a Matcher that holds when every m holds. It stops at the first
// one that does not hold or fails.
func All(ms ...Matcher) Matcher {
	return all(ms)
}

func (ms all) Match(p Properties) (bool, error) {
	for _, m := range ms {
		ok, err := m.Match(p)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

type anyOf []Matcher

// Any returns a Matcher that holds when at least one m holds. It stops at
// the first one that holds or fails.
func Any(ms ...Matcher) Matcher {
	return anyOf(ms)
}

func (ms anyOf) Match(p Properties) (bool, error) {
	for _, m := range ms {
		ok, err := m.Match(p)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
