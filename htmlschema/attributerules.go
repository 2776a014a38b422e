package htmlschema

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/seolint/vo"
)

type attributeTally struct {
	// present is the number of elements carrying the attribute
	present int
	// matched is the number of elements where the value is equal to the expected one
	matched int
}

func attrValue(s *goquery.Selection, name string) string {
	val, _ := s.Attr(name)
	return val
}

func (v *validation) validateAttributes(m match) {
	r := m.rule
	total := m.elements.Length()
	if total == 0 {
		for _, attr := range r.Attrs {
			v.add(r, vo.CodeTagNotFound,
				"<", r.TagName, " ", attr.Name, "='", attr.Value, "'> was not found in ", r.scopeName(),
			)
		}
		return
	}

	tallies := make([]attributeTally, len(r.Attrs))
	m.elements.Each(func(_ int, el *goquery.Selection) {
		for i, attr := range r.Attrs {
			// an empty value does not count as present
			val := attrValue(el, attr.Name)
			if val == "" {
				continue
			}
			tallies[i].present++
			if attr.Value != "" && val == attr.Value {
				tallies[i].matched++
			}
		}
	})

	for i, attr := range r.Attrs {
		tally := tallies[i]
		if attr.Required && tally.present < total {
			v.add(r, vo.CodeAttrNotFound,
				"There are ", total-tally.present, " <", r.TagName, "> tags without [", attr.Name, "] attribute",
			)
		}
		if attr.Value == "" {
			continue
		}
		notMatched := total - tally.matched
		if notMatched > 0 && notMatched < total && tally.matched < attr.Min {
			v.add(r, vo.CodeAttrNotEqual,
				"At least ", attr.Min, " <", r.TagName, "> tags must have attribute [", attr.Name, "='", attr.Value, "']. ",
				"Need more ", attr.Min-tally.matched, " <", r.TagName, " ", attr.Name, "='", attr.Value, "'> tags.",
			)
		}
		if notMatched == total {
			scope := "HTML"
			if r.ParentTag != "" {
				scope = "<" + r.ParentTag + "> tag"
			}
			v.add(r, vo.CodeAttrNotEqual,
				scope, " required <", r.TagName, "> tag present with attribute [", attr.Name, "='", attr.Value, "'] but no one is valid",
			)
		}
	}
}
