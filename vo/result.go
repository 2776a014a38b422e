package vo

import "time"

// LintResult is the outcome of linting one target
type LintResult struct {
	TargetURL string        `yaml:"target" json:"target"`
	Error     string        `yaml:"error,omitempty" json:"error,omitempty"`
	Findings  Findings      `yaml:"findings" json:"findings"`
	Page      *Page         `yaml:"page,omitempty" json:"page,omitempty"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
	Time      time.Time     `yaml:"time" json:"time"`
	// RunID of the lint run that produced this result
	RunID string `yaml:"run" json:"run"`
}
