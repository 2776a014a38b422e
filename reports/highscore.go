package reports

import (
	"io"
	"sort"
	"time"

	"github.com/foomo/seolint/vo"
)

type score struct {
	TargetURL string
	Findings  int
	Duration  time.Duration
}

type scores []score

func (s scores) Len() int           { return len(s) }
func (s scores) Less(i, j int) bool { return s[i].Duration < s[j].Duration }
func (s scores) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func reportHighscore(status vo.Status, w io.Writer, filter resultFilter) {
	printh, println, _ := printers(w)
	printh("high score")
	results := sortedResults(status, filter)
	scores := make(scores, len(results))
	for i, r := range results {
		scores[i] = score{
			Duration:  r.Duration,
			Findings:  len(r.Findings),
			TargetURL: r.TargetURL,
		}
	}
	sort.Stable(scores)
	for i, s := range scores {
		println(i, s.Findings, s.TargetURL, s.Duration)
	}
}
