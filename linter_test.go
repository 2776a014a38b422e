package seolint

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/foomo/seolint/config"
	"github.com/foomo/seolint/example"
	"github.com/foomo/seolint/htmlschema"
	"github.com/foomo/seolint/logging"
	"github.com/foomo/seolint/reports"
	"github.com/foomo/seolint/vo"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expectedBrokenTranscript = `[1][ATTR001] There are 1 <html> tags without [lang] attribute
[2][TAG001] <head> tag required <title> tag but it doesn't exist
[3][ATTR002] <head> tag required <meta> tag present with attribute [name='description'] but no one is valid
[4][ATTR002] <head> tag required <meta> tag present with attribute [name='keywords'] but no one is valid
[5][ATTR001] There are 1 <img> tags without [alt] attribute
[6][TAG002] The maximum element of <h1> tag is 1 but this HTML document has 2 <h1> tags.
`

func getRules(t *testing.T) htmlschema.Config {
	rules, errRules := config.LoadRules("config.yml", "")
	require.NoError(t, errRules)
	return rules
}

func getLinter(t *testing.T, opts ...Option) (*Linter, *bytes.Buffer) {
	console := &bytes.Buffer{}
	opts = append([]Option{
		WithConsole(console),
		WithLogger(logging.NewWithWriter(&bytes.Buffer{}, "debug")),
	}, opts...)
	l, errLinter := NewLinter(getRules(t), opts...)
	require.NoError(t, errLinter)
	return l, console
}

func getExampleServer(t *testing.T) *httptest.Server {
	testServer := httptest.NewServer(example.NewServer(example.Root()))
	t.Cleanup(testServer.Close)
	return testServer
}

func TestNewLinter(t *testing.T) {
	_, errLinter := NewLinter(nil)
	assert.True(t, errors.Is(errLinter, ErrNoRules))

	_, errLinter = NewLinter(htmlschema.Config{{Tag: ""}})
	assert.NoError(t, errLinter, "tags without specs are skipped")

	_, errLinter = NewLinter(htmlschema.Config{{Tag: "", Specs: []htmlschema.Spec{{}}}})
	assert.True(t, errors.Is(errLinter, htmlschema.ErrInvalidConfig))

	l, _ := getLinter(t)
	assert.Equal(t, []string{"html", "head", "img", "h1", "strong"}, l.Forest().Tags())
}

func TestLintEmptyDocument(t *testing.T) {
	l, console := getLinter(t)
	findings, errLint := l.Lint(context.Background(), LintOptions{
		Source: Source{HTML: "<html></html>"},
		Output: reports.Output{Type: reports.OutputConsole},
	})
	require.NoError(t, errLint)
	assert.Equal(t, `[1][ATTR001] There are 1 <html> tags without [lang] attribute
[2][TAG001] HTML document required <head> tag but it doesn't exist
[3][TAG001] <img alt=''> was not found in HTML document
[4][TAG001] HTML document required <h1> tag but it doesn't exist
`, console.String())
	assert.Len(t, findings, 4)
}

func TestLintSources(t *testing.T) {
	l, _ := getLinter(t)
	ctx := context.Background()
	brokenFile := filepath.Join(example.Root(), "broken.html")
	brokenBytes, errRead := os.ReadFile(brokenFile)
	require.NoError(t, errRead)

	for name, src := range map[string]Source{
		"file":   {File: brokenFile},
		"html":   {HTML: string(brokenBytes)},
		"reader": {Reader: bytes.NewReader(brokenBytes)},
		"url":    {URL: getExampleServer(t).URL + "/broken.html"},
	} {
		t.Run(name, func(t *testing.T) {
			findings, errLint := l.Lint(ctx, LintOptions{Source: src})
			require.NoError(t, errLint)
			assert.Equal(t, expectedBrokenTranscript, reports.Transcript(findings))
		})
	}

	findings, errLint := l.Lint(ctx, LintOptions{Source: Source{File: filepath.Join(example.Root(), "index.html")}})
	require.NoError(t, errLint)
	assert.Equal(t, vo.Findings{}, findings)
}

func TestLintSourcePriority(t *testing.T) {
	l, _ := getLinter(t)
	findings, errLint := l.Lint(context.Background(), LintOptions{
		Source: Source{
			HTML: "<html></html>",
			File: filepath.Join(example.Root(), "index.html"),
		},
	})
	require.NoError(t, errLint)
	assert.Len(t, findings, 4)
}

func TestLintUsageErrors(t *testing.T) {
	l, console := getLinter(t)
	ctx := context.Background()

	_, errLint := l.Lint(ctx, LintOptions{})
	assert.True(t, errors.Is(errLint, ErrNoSource))

	_, errLint = l.Lint(ctx, LintOptions{Source: Source{HTML: "<html></html>"}, Output: reports.Output{Type: "printer"}})
	assert.True(t, errors.Is(errLint, reports.ErrInvalidOutput))
	_, errLint = l.Lint(ctx, LintOptions{Output: reports.Output{Type: reports.OutputFile}})
	assert.True(t, errors.Is(errLint, reports.ErrInvalidOutput), "output is validated before the source")

	_, errLint = l.Lint(ctx, LintOptions{Source: Source{HTML: "   "}})
	assert.Error(t, errLint)
	_, errLint = l.Lint(ctx, LintOptions{Source: Source{File: filepath.Join(t.TempDir(), "missing.html")}})
	assert.Error(t, errLint)
	_, errLint = l.Lint(ctx, LintOptions{Source: Source{URL: "ftp://example.com/index.html"}})
	assert.Error(t, errLint)
	_, errLint = l.Lint(ctx, LintOptions{Source: Source{URL: getExampleServer(t).URL + "/missing.html"}})
	assert.EqualError(t, errLint, "HTTP 404: Not Found")

	assert.Empty(t, console.String())
}

func TestLintReplacesRules(t *testing.T) {
	l, _ := getLinter(t)
	ctx := context.Background()
	rules, errRules := htmlschema.ParseConfig([]byte("p: {min: 2}"))
	require.NoError(t, errRules)
	findings, errLint := l.Lint(ctx, LintOptions{Source: Source{HTML: "<p>one</p>"}, Rules: rules})
	require.NoError(t, errLint)
	require.Len(t, findings, 1)
	assert.Equal(t, vo.CodeTagMinUnder, findings[0].Code)
	assert.Equal(t, []string{"p"}, l.Forest().Tags())

	// the replacement sticks
	findings, errLint = l.Lint(ctx, LintOptions{Source: Source{HTML: "<html></html>"}})
	require.NoError(t, errLint)
	assert.Len(t, findings, 1)

	_, errLint = l.Lint(ctx, LintOptions{Source: Source{HTML: "<p>one</p>"}, Rules: htmlschema.Config{}})
	assert.NoError(t, errLint)
	assert.Equal(t, 0, l.Forest().Len())
}

func TestLintDefaultsToConsole(t *testing.T) {
	l, console := getLinter(t)
	findings, errLint := l.Lint(context.Background(), LintOptions{Source: Source{HTML: "<html></html>"}})
	require.NoError(t, errLint)
	assert.Equal(t, reports.Transcript(findings), console.String())

	console.Reset()
	_, errLint = l.Lint(context.Background(), LintOptions{
		Source: Source{HTML: "<html></html>"},
		Output: reports.Output{Type: reports.OutputConsole, Silence: true},
	})
	require.NoError(t, errLint)
	assert.Empty(t, console.String())
}

func TestLintConcurrentRules(t *testing.T) {
	l, _ := getLinter(t)
	minRules, errRules := htmlschema.ParseConfig([]byte("p: {min: 2}"))
	require.NoError(t, errRules)
	maxRules, errRules := htmlschema.ParseConfig([]byte("p: {max: 0}"))
	require.NoError(t, errRules)

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		rules, expected := minRules, vo.CodeTagMinUnder
		if i%2 == 1 {
			rules, expected = maxRules, vo.CodeTagMaxExceed
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			findings, errLint := l.Lint(context.Background(), LintOptions{
				Source: Source{HTML: "<p>one</p>"},
				Rules:  rules,
				Output: reports.Output{Type: reports.OutputConsole, Silence: true},
			})
			if assert.NoError(t, errLint) && assert.Len(t, findings, 1) {
				assert.Equal(t, expected, findings[0].Code)
			}
		}()
	}
	wg.Wait()
}

func TestLintReportFile(t *testing.T) {
	l, console := getLinter(t)
	ctx := context.Background()
	report := filepath.Join(t.TempDir(), "report.txt")
	_, errLint := l.Lint(ctx, LintOptions{
		Source: Source{File: filepath.Join(example.Root(), "broken.html")},
		Output: reports.Output{Type: reports.OutputFile, Path: report},
	})
	require.NoError(t, errLint)
	reportBytes, errRead := os.ReadFile(report)
	require.NoError(t, errRead)
	assert.Equal(t, expectedBrokenTranscript, string(reportBytes))
	assert.Empty(t, console.String())

	// valid documents do not produce a report
	valid := filepath.Join(t.TempDir(), "valid.txt")
	_, errLint = l.Lint(ctx, LintOptions{
		Source: Source{File: filepath.Join(example.Root(), "index.html")},
		Output: reports.Output{Type: reports.OutputFile, Path: valid},
	})
	require.NoError(t, errLint)
	assert.NoFileExists(t, valid)

	stream := &strings.Builder{}
	_, errLint = l.Lint(ctx, LintOptions{
		Source: Source{HTML: "<html></html>"},
		Output: reports.Output{Type: reports.OutputFile, Writer: stream},
	})
	require.NoError(t, errLint)
	assert.Contains(t, stream.String(), "[4][TAG001] HTML document required <h1> tag but it doesn't exist\n")
}

func TestLintMetrics(t *testing.T) {
	m := NewMetrics()
	l, _ := getLinter(t, WithMetrics(m))
	ctx := context.Background()
	_, errLint := l.Lint(ctx, LintOptions{Source: Source{HTML: "<html></html>"}})
	require.NoError(t, errLint)
	_, errLint = l.Lint(ctx, LintOptions{Source: Source{File: filepath.Join(example.Root(), "index.html")}})
	require.NoError(t, errLint)
	_, errLint = l.Lint(ctx, LintOptions{Source: Source{File: "missing.html"}})
	require.Error(t, errLint)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(sourceHTML, statusInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(sourceFile, statusValid)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.findings.WithLabelValues(string(vo.CodeTagNotFound))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.findings.WithLabelValues(string(vo.CodeAttrNotFound))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loadFailures.WithLabelValues(sourceFile)))
	assert.Same(t, m, l.Metrics())

	var nilMetrics *Metrics
	nilMetrics.trackLint(sourceHTML, vo.Findings{}, 0)
	nilMetrics.trackTarget("http://example.com", nil)
}

func TestValidate(t *testing.T) {
	l, _ := getLinter(t)
	doc, errDoc := LoadHTML("<html lang=\"en\"><head><title>t</title>" +
		"<meta name=\"description\" content=\"d\"><meta name=\"keywords\" content=\"k\"></head>" +
		"<body><h1>x</h1><img src=\"a.png\" alt=\"a\"></body></html>")
	require.NoError(t, errDoc)
	assert.Equal(t, vo.Findings{}, l.Validate(doc))
	assert.Equal(t, vo.Findings{}, l.Validate(nil))

	// optional metas with a name value are still looked up
	doc, errDoc = LoadHTML("<html lang=\"en\"><head><title>t</title></head><body><h1>x</h1></body></html>")
	require.NoError(t, errDoc)
	findings := l.Validate(doc)
	require.Len(t, findings, 3)
	assert.Equal(t, "<meta name='description'> was not found in <head> tag", findings[0].Message)
	assert.Equal(t, "<meta name='keywords'> was not found in <head> tag", findings[1].Message)
	assert.Equal(t, "<img alt=''> was not found in HTML document", findings[2].Message)
	for _, f := range findings {
		assert.Equal(t, vo.CodeTagNotFound, f.Code)
	}
}
