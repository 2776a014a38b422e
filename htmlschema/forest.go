package htmlschema

// Forest holds the top level rules per tag name in declaration order. A
// Forest is never modified after it was built, With returns a new one.
type Forest struct {
	tags  []string
	rules map[string][]*Rule
}

// Build creates the rule forest for cfg
func Build(cfg Config) (f *Forest, err error) {
	if cfg == nil {
		return nil, configErrorf("rules are required")
	}
	return (&Forest{}).With(cfg)
}

// With returns a forest with the rules of cfg appended to the rules of f.
// Rules for a tag name that already exists never replace earlier ones.
func (f *Forest) With(cfg Config) (next *Forest, err error) {
	next = &Forest{
		tags:  append([]string{}, f.tags...),
		rules: make(map[string][]*Rule, len(f.rules)+len(cfg)),
	}
	for tag, rules := range f.rules {
		next.rules[tag] = append([]*Rule{}, rules...)
	}
	for _, tc := range cfg {
		for _, spec := range tc.Specs {
			rule, errRule := NewRule(tc.Tag, spec, "")
			if errRule != nil {
				return nil, errRule
			}
			errChildren := checkChildren(rule.TagName, rule.Children)
			if errChildren != nil {
				return nil, errChildren
			}
			if _, ok := next.rules[tc.Tag]; !ok {
				next.tags = append(next.tags, tc.Tag)
			}
			next.rules[tc.Tag] = append(next.rules[tc.Tag], rule)
		}
	}
	return next, nil
}

func checkChildren(parentTag string, children []ChildSpec) error {
	for i, child := range children {
		if child.Tag == "" {
			return configErrorf("child rule %d of <%s> requires a tag name", i, parentTag)
		}
		errChildren := checkChildren(child.Tag, child.Spec.Children)
		if errChildren != nil {
			return errChildren
		}
	}
	return nil
}

// Tags returns the top level tag names in declaration order
func (f *Forest) Tags() []string {
	return append([]string{}, f.tags...)
}

// Rules returns the rules declared for tag
func (f *Forest) Rules(tag string) []*Rule {
	return append([]*Rule{}, f.rules[tag]...)
}

// Len is the number of top level rules
func (f *Forest) Len() int {
	l := 0
	for _, rules := range f.rules {
		l += len(rules)
	}
	return l
}
