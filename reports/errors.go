package reports

import (
	"io"

	"github.com/foomo/seolint/vo"
)

func reportErrors(status vo.Status, w io.Writer, filter resultFilter) {
	printh, println, _ := printers(w)
	printh("errors")
	for _, res := range sortedResults(status, filter) {
		if res.Error != "" {
			println(res.TargetURL, ":")
			println("	", res.Error)
		}
	}
}
