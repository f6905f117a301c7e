package domain

import "time"

// CitationOutcome is the persisted per-citation result of one run.
type CitationOutcome struct {
	CitationID string
	Text       string
	Found      bool
	Strategy   MatchStrategy
	Groups     int
	Suggestion string
}

// RunReport summarises one highlight run over one document. Reports are
// the only entities that outlive a preview session; all match state is
// rebuilt from scratch on the next run.
type RunReport struct {
	ID        string
	FileID    string
	FileName  string
	Mode      NavMode
	StartedAt time.Time
	Duration  time.Duration

	// Degraded is true when matching ran before the layer readiness
	// gate confirmed full rendering.
	Degraded bool

	Outcomes []CitationOutcome
}

// FoundCount returns the number of located citations.
func (r RunReport) FoundCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Found {
			n++
		}
	}
	return n
}

// NotFoundCount returns the number of citations that could not be located.
func (r RunReport) NotFoundCount() int {
	return len(r.Outcomes) - r.FoundCount()
}
