package seolint

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/seolint/vo"
)

// ExtractPage reads title, description, robots, canonical and headings
func ExtractPage(doc *goquery.Document) (p vo.Page) {
	if doc == nil {
		return
	}
	description, _ := doc.Find("meta[name=description]").First().Attr("content")
	robots, _ := doc.Find("meta[name=robots]").First().Attr("content")
	canonical, _ := doc.Find("link[rel=canonical]").First().Attr("href")
	p = vo.Page{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: description,
		Robots:      robots,
		Canonical:   canonical,
	}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(i int, sel *goquery.Selection) {
		level := 0
		switch sel.Get(0).Data {
		case "h1":
			level = 1
		case "h2":
			level = 2
		case "h3":
			level = 3
		case "h4":
			level = 4
		case "h5":
			level = 5
		case "h6":
			level = 6
		}
		p.Headings = append(p.Headings, vo.Heading{
			Level: level,
			Text:  strings.TrimSpace(sel.Text()),
		})
	})
	return
}
