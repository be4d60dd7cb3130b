// Package storage persists generated candidate reports.
package storage

import (
	"context"
	"errors"

	"github.com/hireloop/formreport/internal/models"
)

// ErrNotFound is returned when a report id does not exist.
var ErrNotFound = errors.New("report not found")

// Storage is the report archive.
type Storage interface {
	SaveReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context) ([]models.ReportSummary, error)
	DeleteReport(ctx context.Context, id string) error
	CountReports(ctx context.Context) (int64, error)
	Close() error
}
