package htmlschema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rulesSEO = `
strong:
  max: 15
meta:
  - attrs:
      name:
        value: description
  - attrs:
      name:
        value: keywords
img:
  attrs:
    src:
      required: true
    alt:
      required: true
head:
  required: true
  children:
    - title:
        required: true
    - tag: meta
      attrs:
        charset:
          required: true
`

func TestParseConfig(t *testing.T) {
	cfg, errCfg := ParseConfig([]byte(rulesSEO))
	require.NoError(t, errCfg)
	tags := []string{}
	for _, tc := range cfg {
		tags = append(tags, tc.Tag)
	}
	assert.Equal(t, []string{"strong", "meta", "img", "head"}, tags)

	assert.Equal(t, Limit(15), cfg[0].Specs[0].Max)
	assert.Nil(t, cfg[0].Specs[0].Min)

	assert.Len(t, cfg[1].Specs, 2)
	assert.Equal(t, Attrs{{Name: "name", Value: "keywords"}}, cfg[1].Specs[1].Attrs)

	assert.Equal(t, Attrs{{Name: "src", Required: true}, {Name: "alt", Required: true}}, cfg[2].Specs[0].Attrs)

	head := cfg[3].Specs[0]
	assert.True(t, head.Required)
	assert.Equal(t, []ChildSpec{
		{Tag: "title", Spec: Spec{Required: true}},
		{Tag: "meta", Spec: Spec{Attrs: Attrs{{Name: "charset", Required: true}}}},
	}, head.Children)
}

func TestParseConfigErrors(t *testing.T) {
	for name, rulesYAML := range map[string]string{
		"empty":             ``,
		"list":              `- strong`,
		"scalar rule":       `strong: 5`,
		"unknown key":       `strong: {requried: true}`,
		"empty child":       `head: {children: [{}]}`,
		"child without tag": `head: {children: [{required: true}]}`,
		"scalar attrs":      `img: {attrs: alt}`,
		"scalar child":      `head: {children: [title]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, errCfg := ParseConfig([]byte(rulesYAML))
			assert.True(t, errors.Is(errCfg, ErrInvalidConfig), "unexpected error %v", errCfg)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(file, []byte(rulesSEO), 0o644))
	cfg, errLoad := LoadConfig(file)
	require.NoError(t, errLoad)
	assert.Len(t, cfg, 4)

	_, errLoad = LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, errLoad)
}

func TestBuild(t *testing.T) {
	f := getForest(t, rulesSEO)
	t.Log(spew.Sdump(f.Tags()))
	assert.Equal(t, []string{"strong", "meta", "img", "head"}, f.Tags())
	assert.Equal(t, 5, f.Len())
	metas := f.Rules("meta")
	assert.Len(t, metas, 2)
	assert.Equal(t, "", metas[0].ParentTag)
	assert.Equal(t, "description", metas[0].Attrs[0].Value)
	assert.Equal(t, "keywords", metas[1].Attrs[0].Value)
	assert.Empty(t, f.Rules("h1"))

	_, errBuild := Build(nil)
	assert.True(t, errors.Is(errBuild, ErrInvalidConfig))

	empty, errBuild := Build(Config{})
	assert.NoError(t, errBuild)
	assert.Equal(t, 0, empty.Len())
}

func TestBuildConcatenatesRules(t *testing.T) {
	f, errBuild := Build(Config{
		{Tag: "meta", Specs: []Spec{{Required: true}}},
		{Tag: "h1", Specs: []Spec{{Max: Limit(1)}}},
		{Tag: "meta", Specs: []Spec{{Min: Limit(2)}}},
	})
	require.NoError(t, errBuild)
	assert.Equal(t, []string{"meta", "h1"}, f.Tags())
	metas := f.Rules("meta")
	require.Len(t, metas, 2)
	assert.True(t, metas[0].Required)
	assert.Equal(t, Limit(2), metas[1].Min)

	next, errWith := f.With(Config{{Tag: "meta", Specs: []Spec{{Max: Limit(10)}}}, {Tag: "title", Specs: []Spec{{}}}})
	require.NoError(t, errWith)
	assert.Len(t, next.Rules("meta"), 3)
	assert.Equal(t, Limit(10), next.Rules("meta")[2].Max)
	assert.Equal(t, []string{"meta", "h1", "title"}, next.Tags())
	// the original forest is untouched
	assert.Len(t, f.Rules("meta"), 2)
	assert.Equal(t, 3, f.Len())
}

func TestBuildInvalidRules(t *testing.T) {
	_, errBuild := Build(Config{{Tag: "", Specs: []Spec{{}}}})
	assert.True(t, errors.Is(errBuild, ErrInvalidConfig))

	_, errBuild = Build(Config{{Tag: "head", Specs: []Spec{{
		Children: []ChildSpec{{Tag: "meta", Spec: Spec{Children: []ChildSpec{{Spec: Spec{Required: true}}}}}},
	}}}})
	assert.True(t, errors.Is(errBuild, ErrInvalidConfig))
}

func TestNewRule(t *testing.T) {
	_, errRule := NewRule("", Spec{}, "")
	assert.True(t, errors.Is(errRule, ErrInvalidConfig))

	r, errRule := NewRule("meta", Spec{Max: Limit(0), Min: Limit(-3)}, "head")
	require.NoError(t, errRule)
	assert.Equal(t, "head", r.ParentTag)
	assert.False(t, r.Required)
	assert.Equal(t, Limit(0), r.Max)
	assert.Nil(t, r.Min)
	assert.Equal(t, "<head> tag", r.scopeName())

	r, _ = NewRule("title", Spec{Max: Limit(-1)}, "")
	assert.Nil(t, r.Max)
	assert.Equal(t, "HTML document", r.scopeName())
}
