package htmlschema

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/seolint/vo"
	"golang.org/x/net/html"
)

type constraintKind int

const (
	constraintExistence constraintKind = iota
	constraintMax
	constraintMin
	constraintAttributes
	constraintChildren
)

func (k constraintKind) String() string {
	switch k {
	case constraintExistence:
		return "existence"
	case constraintMax:
		return "max"
	case constraintMin:
		return "min"
	case constraintAttributes:
		return "attributes"
	case constraintChildren:
		return "children"
	}
	return "unknown"
}

// match is what a rule found in its scope
type match struct {
	rule     *Rule
	elements *goquery.Selection
	count    int
}

type validation struct {
	findings vo.Findings
}

// Validate runs all rules of f against scope, usually a whole document.
// The result is empty, never nil, if the document is valid.
func Validate(scope *goquery.Selection, f *Forest) vo.Findings {
	v := &validation{findings: vo.Findings{}}
	if scope == nil || f == nil {
		return v.findings
	}
	for _, tag := range f.tags {
		for _, rule := range f.rules[tag] {
			v.evaluate(rule, scope)
		}
	}
	return v.findings
}

// ValidateHTML parses a html document and validates it
func ValidateHTML(htmlBytes []byte, f *Forest) (findings vo.Findings, err error) {
	doc, errParse := html.Parse(bytes.NewReader(htmlBytes))
	if errParse != nil {
		return nil, errParse
	}
	return Validate(goquery.NewDocumentFromNode(doc).Selection, f), nil
}

// constraints lists the checks of a rule in evaluation order
func (r *Rule) constraints() []constraintKind {
	kinds := make([]constraintKind, 0, 5)
	if r.Required {
		kinds = append(kinds, constraintExistence)
	}
	if r.Max != nil {
		kinds = append(kinds, constraintMax)
	}
	if r.Min != nil {
		kinds = append(kinds, constraintMin)
	}
	if len(r.Attrs) > 0 {
		kinds = append(kinds, constraintAttributes)
	}
	if len(r.Children) > 0 {
		kinds = append(kinds, constraintChildren)
	}
	return kinds
}

// check returns false, when the remaining constraints of the rule must
// not be evaluated
func (k constraintKind) check(v *validation, m match) bool {
	switch k {
	case constraintExistence:
		return v.checkExistence(m)
	case constraintMax:
		v.checkMax(m)
	case constraintMin:
		v.checkMin(m)
	case constraintAttributes:
		v.validateAttributes(m)
	case constraintChildren:
		v.checkChildren(m)
	}
	return true
}

func (v *validation) evaluate(rule *Rule, scope *goquery.Selection) {
	elements := scope.Find(rule.TagName)
	m := match{
		rule:     rule,
		elements: elements,
		count:    elements.Length(),
	}
	// the parser always creates a head, an empty one counts as missing
	if rule.TagName == "head" && isBlank(elements) {
		m.count = 0
	}
	for _, kind := range rule.constraints() {
		if !kind.check(v, m) {
			return
		}
	}
}

func isBlank(s *goquery.Selection) bool {
	if s.Length() == 0 {
		return true
	}
	inner, errHTML := s.Html()
	if errHTML != nil {
		return false
	}
	return strings.TrimSpace(inner) == ""
}

func (v *validation) add(r *Rule, code vo.Code, msg ...interface{}) {
	v.findings.Add(code, r.TagName, fmt.Sprint(msg...))
}

func (v *validation) checkExistence(m match) bool {
	if m.count > 0 {
		return true
	}
	v.add(m.rule, vo.CodeTagNotFound,
		m.rule.scopeName(), " required <", m.rule.TagName, "> tag but it doesn't exist",
	)
	return false
}

func (v *validation) checkMax(m match) {
	if m.count <= *m.rule.Max {
		return
	}
	v.add(m.rule, vo.CodeTagMaxExceed,
		"The maximum element of <", m.rule.TagName, "> tag is ", *m.rule.Max,
		" but this HTML document has ", m.count, " <", m.rule.TagName, "> tags.",
	)
}

func (v *validation) checkMin(m match) {
	if m.count >= *m.rule.Min {
		return
	}
	v.add(m.rule, vo.CodeTagMinUnder,
		"The minimum element of <", m.rule.TagName, "> tag is ", *m.rule.Min,
		" but this HTML document has ", m.count, " <", m.rule.TagName, "> tags.",
	)
}

// checkChildren evaluates the child rules within the elements of m
func (v *validation) checkChildren(m match) {
	for _, child := range m.rule.Children {
		v.evaluate(child.rule(m.rule.TagName), m.elements)
	}
}
