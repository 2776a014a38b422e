// Package htmlschema validates html documents against declarative tag rules.
//
// Rules are configured per tag name. A rule can require a tag, bound the
// number of its elements, constrain attributes of the elements and scope
// further rules to the elements it matched:
//
//	head:
//	  required: true
//	  children:
//	    - meta:
//	        attrs:
//	          name:
//	            value: description
//
// Build turns a Config into an immutable Forest, Validate runs a Forest
// against a parsed document and returns the findings in declaration order.
package htmlschema

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by all rule configuration errors
var ErrInvalidConfig = errors.New("invalid rule configuration")

func configErrorf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, a...))
}

// Attr constrains one attribute of the matched elements
type Attr struct {
	Name     string
	Required bool
	// Value the attribute has to be equal to, empty means any value
	Value string
	// Min number of elements that must carry Value
	Min int
}

// Attrs in declaration order
type Attrs []Attr

// Spec is the configuration of a single rule
type Spec struct {
	Required bool
	// Max nil means unbounded, unlike Min an explicit 0 is a real limit
	Max      *int
	Min      *int
	Attrs    Attrs
	Children []ChildSpec
}

// ChildSpec is a rule scoped to the elements matched by its parent rule
type ChildSpec struct {
	Tag  string
	Spec Spec
}

// TagConfig holds all specs declared for one tag name
type TagConfig struct {
	Tag   string
	Specs []Spec
}

// Config is a rule configuration in declaration order. A nil Config means
// that no rules were given at all.
type Config []TagConfig

// Limit returns a pointer to n, handy for Spec.Max and Spec.Min
func Limit(n int) *int {
	return &n
}

// Rule is one constraint on one tag
type Rule struct {
	TagName string
	// ParentTag is empty for top level rules
	ParentTag string
	Required  bool
	Max       *int
	Min       *int
	Attrs     Attrs
	// Children are materialized into rules whenever the rule is evaluated
	Children []ChildSpec
}

// NewRule creates a rule for tagName. Whether Max >= Min is not checked.
func NewRule(tagName string, spec Spec, parentTag string) (*Rule, error) {
	if tagName == "" {
		return nil, configErrorf("tag name is required")
	}
	return newRule(tagName, spec, parentTag), nil
}

func newRule(tagName string, spec Spec, parentTag string) *Rule {
	r := &Rule{
		TagName:   tagName,
		ParentTag: parentTag,
		Required:  spec.Required,
		Attrs:     spec.Attrs,
		Children:  spec.Children,
	}
	// negative limits are the old "unbounded" sentinel
	if spec.Max != nil && *spec.Max >= 0 {
		r.Max = Limit(*spec.Max)
	}
	if spec.Min != nil && *spec.Min > 0 {
		r.Min = Limit(*spec.Min)
	}
	return r
}

func (c ChildSpec) rule(parentTag string) *Rule {
	return newRule(c.Tag, c.Spec, parentTag)
}

func (r *Rule) scopeName() string {
	if r.ParentTag != "" {
		return "<" + r.ParentTag + "> tag"
	}
	return "HTML document"
}
