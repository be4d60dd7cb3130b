// Package models defines the stored report structures.
package models

import (
	"time"

	"github.com/hireloop/formreport/internal/submission"
)

// Report is one generated candidate report with its source data and the
// rendered document.
type Report struct {
	ID            string            `json:"id"`
	CandidateName string            `json:"candidate_name"`
	PositionType  string            `json:"position_type"`
	Email         string            `json:"email"`
	SourceFile    string            `json:"source_file,omitempty"`
	Metadata      map[string]string `json:"metadata"`
	QA            []submission.QA   `json:"qa"`
	HTML          string            `json:"-"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ReportSummary is the list view of a report, without the heavy fields.
type ReportSummary struct {
	ID            string    `json:"id"`
	CandidateName string    `json:"candidate_name"`
	PositionType  string    `json:"position_type"`
	Email         string    `json:"email"`
	SourceFile    string    `json:"source_file,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
