package models

import (
	"time"
)

type RunStatus string

const (
	StatusPassed RunStatus = "PASSED"
	StatusFailed RunStatus = "FAILED"
)

// Screenshot is one PNG written during a run.
type Screenshot struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

type Run struct {
	ID               string       `json:"id"`
	TargetURL        string       `json:"target_url"`
	Status           RunStatus    `json:"status"`
	Screenshots      []Screenshot `json:"screenshots"`
	PrivacyToggled   bool         `json:"privacy_toggled"`
	OriginChartFound bool         `json:"origin_chart_found"`
	Navigations      int          `json:"navigations"`
	Error            string       `json:"error,omitempty"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`
}

// Duration is zero until the run has finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Run) AddScreenshot(s Screenshot) {
	r.Screenshots = append(r.Screenshots, s)
}
