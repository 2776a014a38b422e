package reports

import (
	"io"
	"strings"

	"github.com/foomo/seolint/vo"
)

func reportFindings(status vo.Status, w io.Writer, filter resultFilter) {
	printh, println, _ := printers(w)
	printh("findings")
	for _, res := range sortedResults(status, filter) {
		if len(res.Findings) > 0 {
			println(res.TargetURL, "(", len(res.Findings), "):")
			for _, line := range strings.Split(strings.TrimSuffix(Transcript(res.Findings), "\n"), "\n") {
				println("	", line)
			}
		}
	}
}
