package vo

// Code identifies the kind of a finding
type Code string

const (
	// CodeTagNotFound a required tag does not exist
	CodeTagNotFound Code = "TAG001"
	// CodeTagMaxExceed more elements than the configured maximum
	CodeTagMaxExceed Code = "TAG002"
	// CodeTagMinUnder fewer elements than the configured minimum
	CodeTagMinUnder Code = "TAG003"
	// CodeAttrNotFound elements lack a required attribute
	CodeAttrNotFound Code = "ATTR001"
	// CodeAttrNotEqual attribute values do not match the configured value
	CodeAttrNotEqual Code = "ATTR002"
)

// Finding a violated rule
type Finding struct {
	Code    Code   `yaml:"code" json:"code"`
	Message string `yaml:"message" json:"message"`
	TagName string `yaml:"tag" json:"tag"`
}

// Findings in the order they were emitted
type Findings []Finding

func (f *Findings) Add(code Code, tagName, msg string) {
	if msg == "" {
		msg = "Error from <" + tagName + ">"
	}
	*f = append(*f, Finding{Code: code, Message: msg, TagName: tagName})
}

// ByCode counts findings per code
func (f Findings) ByCode() map[Code]int {
	counts := map[Code]int{}
	for _, finding := range f {
		counts[finding.Code]++
	}
	return counts
}

func (f Findings) Valid() bool {
	return len(f) == 0
}
