package reports

import (
	"io"
	"sort"

	"github.com/foomo/seolint/vo"
)

type duplications map[string][]string

func (d duplications) add(value, url string) {
	existingURLs, ok := d[value]
	if ok {
		for _, existingURL := range existingURLs {
			if existingURL == url {
				return
			}
		}
	}
	d[value] = append(d[value], url)
}

func (d duplications) printlnDuplications(w io.Writer) {
	_, println, _ := printers(w)
	values := make([]string, 0, len(d))
	for value := range d {
		values = append(values, value)
	}
	sort.Strings(values)
	for _, value := range values {
		urls := d[value]
		sort.Strings(urls)
		if len(urls) > 1 {
			println(value)
			for _, url := range urls {
				println("	", url)
			}
		}
	}
}

type uniqueList []string

func (ul *uniqueList) add(v string) {
	for _, ev := range *ul {
		if ev == v {
			return
		}
	}
	*ul = append(*ul, v)
}

// reportSEO compares the pages of all targets
func reportSEO(status vo.Status, w io.Writer, filter resultFilter) {
	printh, println, _ := printers(w)
	h1s := duplications{}
	titles := duplications{}
	descriptions := duplications{}
	missingTitles := uniqueList{}
	missingH1 := uniqueList{}
	missingDescriptions := uniqueList{}
	printh("SEO duplications")
	for _, r := range sortedResults(status, filter) {
		if r.Page == nil {
			continue
		}
		pageURL := r.TargetURL
		if r.Page.Canonical != "" {
			pageURL = r.Page.Canonical
		}
		if r.Page.Title != "" {
			titles.add(r.Page.Title, pageURL)
		} else {
			missingTitles.add(pageURL)
		}
		if r.Page.Description != "" {
			descriptions.add(r.Page.Description, pageURL)
		} else {
			missingDescriptions.add(pageURL)
		}
		if h1 := r.Page.H1(); h1 != "" {
			h1s.add(h1, pageURL)
		} else {
			missingH1.add(pageURL)
		}
	}
	printDuplicates := func(title string, d duplications) {
		if len(d) > 0 {
			printh(title)
			d.printlnDuplications(w)
		}
	}
	printDuplicates("duplicate h1", h1s)
	printDuplicates("duplicate titles", titles)
	printDuplicates("duplicate descriptions", descriptions)

	printList := func(name string, list []string) {
		if len(list) > 0 {
			printh(name)
			sort.Strings(list)
			for _, l := range list {
				println("	", l)
			}
		}
	}
	printList("missing titles", missingTitles)
	printList("missing descriptions", missingDescriptions)
	printList("missing h1", missingH1)
}
