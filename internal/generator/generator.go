// Package generator coordinates the report pipeline: read an export,
// normalize it, render the document, and archive the result.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/formreport/internal/ingest"
	"github.com/hireloop/formreport/internal/models"
	"github.com/hireloop/formreport/internal/report"
	"github.com/hireloop/formreport/internal/storage"
	"github.com/hireloop/formreport/internal/submission"
)

// Generator turns submission exports into stored reports.
type Generator struct {
	schema   *submission.Schema
	renderer *report.Renderer
	store    storage.Storage // nil disables archiving (render-only mode)
	logger   *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets a logger for per-report debug output.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// New creates a generator. store may be nil for render-only use.
func New(schema *submission.Schema, renderer *report.Renderer, store storage.Storage, opts ...Option) *Generator {
	g := &Generator{schema: schema, renderer: renderer, store: store}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromBytes builds a report from export content. ext selects the reader
// (".json", ".xlsx"; empty means JSON); source is recorded on the report for
// provenance. The report is archived when a store is configured.
func (g *Generator) FromBytes(ctx context.Context, content []byte, ext, source string) (*models.Report, error) {
	res, err := ingest.ReadBytes(content, ext, g.schema)
	if err != nil {
		return nil, err
	}
	if res.RecordCount > 1 && g.logger != nil {
		g.logger.Warn("export carries multiple records, using the first",
			zap.String("source", source),
			zap.Int("records", res.RecordCount))
	}

	html, err := g.renderer.Render(res)
	if err != nil {
		return nil, err
	}

	rep := &models.Report{
		ID:            uuid.NewString(),
		CandidateName: report.CandidateName(res.Metadata),
		PositionType:  res.Metadata["Position Type"],
		Email:         res.Metadata["Email"],
		SourceFile:    source,
		Metadata:      res.Metadata,
		QA:            res.QA,
		HTML:          string(html),
	}

	if g.store != nil {
		if err := g.store.SaveReport(ctx, rep); err != nil {
			return nil, fmt.Errorf("archiving report: %w", err)
		}
	}
	if g.logger != nil {
		g.logger.Debug("report generated",
			zap.String("id", rep.ID),
			zap.String("candidate", rep.CandidateName),
			zap.String("source", source))
	}
	return rep, nil
}

// FromFile builds a report from an export file on disk.
func (g *Generator) FromFile(ctx context.Context, path string) (*models.Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return g.FromBytes(ctx, content, strings.ToLower(filepath.Ext(path)), filepath.Base(path))
}
