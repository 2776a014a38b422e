package vo

type Status struct {
	Results map[string]LintResult
	// Jobs maps targets to whether a run is currently active
	Jobs     map[string]bool
	Runs     int64
	Schedule string
}

// Copy returns a status that does not share maps with s
func (s Status) Copy() Status {
	c := Status{
		Results:  make(map[string]LintResult, len(s.Results)),
		Jobs:     make(map[string]bool, len(s.Jobs)),
		Runs:     s.Runs,
		Schedule: s.Schedule,
	}
	for target, result := range s.Results {
		result.Findings = append(Findings(nil), result.Findings...)
		c.Results[target] = result
	}
	for target, active := range s.Jobs {
		c.Jobs[target] = active
	}
	return c
}
