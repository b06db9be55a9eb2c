package job

import (
	"greenbier/grader/internal/models"
	"greenbier/grader/internal/orchestrator"
)

// Persistence statuses
const (
	PersistOK      = "ok"
	PersistError   = "error"
	PersistSkipped = "skipped"
)

// Report is the result of one grading run
type Report struct {
	RunID       string                                      `json:"run_id"`
	Date        string                                      `json:"date"`
	Summary     models.DailySummary                         `json:"summary"`
	Message     string                                      `json:"message"`
	Coverage    map[string]int                              `json:"coverage"`
	Diagnostics map[string]orchestrator.ProviderDiagnostics `json:"diagnostics"`
	Persistence Persistence                                 `json:"persistence"`
	Picks       []models.GradedPick                         `json:"picks,omitempty"`
}

// Persistence reports each store independently
type Persistence struct {
	Outcomes           string `json:"outcomes"`
	OutcomesWritten    int    `json:"outcomes_written"`
	GradedPicks        string `json:"graded_picks"`
	GradedPicksWritten int    `json:"graded_picks_written"`
	Summary            string `json:"summary"`
}

// OK reports whether no write failed
func (p Persistence) OK() bool {
	return p.Outcomes != PersistError && p.GradedPicks != PersistError && p.Summary != PersistError
}
