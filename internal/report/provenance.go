package report

import (
	"time"

	"github.com/google/uuid"

	"drift/internal/pipeline"
)

// Provenance records how a report came to be: which tool's output was
// compiled, when, how long each stage took, and how much the reducer
// collapsed. Partial marks a run whose structuring degraded; the note
// says why.
type Provenance struct {
	Tool      string
	RunID     uuid.UUID
	StartedAt time.Time
	Duration  time.Duration
	Stages    pipeline.Timings

	Seen     int
	Retained int

	Partial         bool
	PartialNote     string
	TruncatedTraces bool
}

// NewProvenance seeds provenance for a run starting now.
func NewProvenance(tool string) Provenance {
	return Provenance{
		Tool:      tool,
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}
}
