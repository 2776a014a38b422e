package reports

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/foomo/seolint/vo"
)

type resultFilter func(res vo.LintResult) bool
type reporter func(status vo.Status, w io.Writer, filter resultFilter)

func GetReportHandlerMenuHTML(basePath string) string {
	return `
	<p>seolint report handler menu</p>
	<ul>
		<li><a href="` + basePath + `/summary">summary of finding codes and lint runs</a></li>
		<li><a href="` + basePath + `/findings">findings per target</a></li>
		<li><a href="` + basePath + `/results">all plain results as yaml</a></li>
		<li><a href="` + basePath + `/list">list of all targets</a></li>
		<li><a href="` + basePath + `/seo">seo - duplicate and missing titles, descriptions and h1</a></li>
		<li><a href="` + basePath + `/highscore">highscore - all results sorted by lint duration</a></li>
		<li><a href="` + basePath + `/errors">errors - targets that could not be linted</a></li>
	</ul>
	<p>query parameters</p>
	<table>
		<tr>
			<td>url paramter</td>
			<td>function</td>
			<td>examples</td>
		</tr>
		<tr>
			<td>url</td>
			<td>filter only for that one url</td>
			<td>?url=http...</td>
		</tr>
		<tr>
			<td>prefix</td>
			<td>filter all urls with given prefix</td>
			<td>?prefix=http...</td>
		</tr>
	</table>
	`
}

// GetReportHandler returns a handler rendering reports of a service status,
// the report is selected by the path below basePath
func GetReportHandler(basePath string) func(w http.ResponseWriter, r *http.Request, status vo.Status) {
	return func(w http.ResponseWriter, r *http.Request, status vo.Status) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, basePath), "/")
		var rep reporter
		var f resultFilter
		switch true {
		case path == "":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, GetReportHandlerMenuHTML(basePath))
			return
		case strings.HasPrefix(path, "summary"):
			rep = reportSummary
		case strings.HasPrefix(path, "findings"):
			rep = reportFindings
		case strings.HasPrefix(path, "results"):
			rep = reportResults
		case strings.HasPrefix(path, "list"):
			rep = reportList
		case strings.HasPrefix(path, "seo"):
			rep = reportSEO
		case strings.HasPrefix(path, "highscore"):
			rep = reportHighscore
		case strings.HasPrefix(path, "errors"):
			rep = reportErrors
		default:
			http.NotFound(w, r)
			return
		}
		url := r.URL.Query().Get("url")
		if url != "" {
			f = func(res vo.LintResult) bool {
				return res.TargetURL == url
			}
		}
		prefix := r.URL.Query().Get("prefix")
		if prefix != "" {
			f = func(res vo.LintResult) bool {
				return strings.HasPrefix(res.TargetURL, prefix)
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rep(status, w, f)
	}
}

func printers(w io.Writer) (printh func(header ...interface{}), println func(a ...interface{}), printsep func()) {
	printsep = func() {
		fmt.Fprintln(w, "-----------------------------------------------------------------------------")
	}
	println = func(a ...interface{}) { fmt.Fprintln(w, a...) }
	printh = func(header ...interface{}) {
		println()
		println(header...)
		printsep()
	}
	return
}

// sortedResults returns the results accepted by filter ordered by target
func sortedResults(status vo.Status, filter resultFilter) []vo.LintResult {
	targets := make([]string, 0, len(status.Results))
	for target, res := range status.Results {
		if filter != nil && !filter(res) {
			continue
		}
		targets = append(targets, target)
	}
	sort.Strings(targets)
	results := make([]vo.LintResult, len(targets))
	for i, target := range targets {
		results[i] = status.Results[target]
	}
	return results
}

func reportList(status vo.Status, w io.Writer, filter resultFilter) {
	printh, println, _ := printers(w)
	results := sortedResults(status, filter)
	printh("results", len(results))
	for i, res := range results {
		state := "ok"
		switch {
		case res.Error != "":
			state = "error"
		case !res.Findings.Valid():
			state = "invalid"
		}
		println(i, state, res.TargetURL)
	}
	printh("active jobs")
	jobs := []string{}
	for url, active := range status.Jobs {
		if active {
			jobs = append(jobs, url)
		}
	}
	sort.Strings(jobs)
	for i, url := range jobs {
		println(i, url)
	}
}

func reportSummary(status vo.Status, w io.Writer, filter resultFilter) {
	printh, _, _ := printers(w)
	printh("summary")
	reportSummaryBody(status, w, filter)
}

// reportSummaryBody prints the finding counts per code and the run stats
func reportSummaryBody(status vo.Status, w io.Writer, filter resultFilter) {
	printh, println, _ := printers(w)
	printh("runs")
	println("runs:", status.Runs)
	if status.Schedule != "" {
		println("schedule:", status.Schedule)
	}
	printh("finding codes")
	codeMap := map[vo.Code]int{}
	valid, invalid, failed := 0, 0, 0
	for _, res := range sortedResults(status, filter) {
		switch {
		case res.Error != "":
			failed++
		case res.Findings.Valid():
			valid++
		default:
			invalid++
		}
		for code, count := range res.Findings.ByCode() {
			codeMap[code] += count
		}
	}
	codes := make([]string, 0, len(codeMap))
	for code := range codeMap {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	for _, code := range codes {
		println(code, codeMap[vo.Code(code)])
	}
	printh("targets")
	println("valid:", valid)
	println("invalid:", invalid)
	println("failed:", failed)
}
