package vo

type Heading struct {
	Level int    `yaml:"level" json:"level"`
	Text  string `yaml:"text" json:"text"`
}

// Page is the seo relevant structure of a linted document
type Page struct {
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Robots      string    `yaml:"robots,omitempty" json:"robots,omitempty"`
	Canonical   string    `yaml:"canonical,omitempty" json:"canonical,omitempty"`
	Headings    []Heading `yaml:"headings" json:"headings"`
}

// H1 returns the text of the first non empty h1
func (p Page) H1() string {
	for _, h := range p.Headings {
		if h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}
	return ""
}
