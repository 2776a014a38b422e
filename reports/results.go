package reports

import (
	"io"

	"github.com/foomo/seolint/vo"
	"gopkg.in/yaml.v3"
)

func reportResults(status vo.Status, w io.Writer, filter resultFilter) {
	printh, println, _ := printers(w)
	results := sortedResults(status, filter)
	printh("results", len(results))
	for _, res := range results {
		yamlBytes, errYaml := yaml.Marshal(res)
		if errYaml != nil {
			println("could not print", res.TargetURL, errYaml)
		} else {
			println(string(yamlBytes))
		}
	}
}
