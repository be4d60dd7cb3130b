// Package integration provides end-to-end tests (requires real storage).
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hireloop/formreport/internal/config"
	"github.com/hireloop/formreport/internal/generator"
	"github.com/hireloop/formreport/internal/report"
	"github.com/hireloop/formreport/internal/storage"
)

const sampleExport = `[
  {
    "@odata.etag": "W/\"1\"",
    "ID": 7,
    "First & Last Name": "Dana Cruz",
    "Email": "dana@example.com",
    "Position Type": "Backend Engineer",
    "Completion time": 45292.5,
    "LinkedIn_x0020_Profile_x0020_URL2": "https://linkedin.com/in/danacruz",
    "What interests you about this role_x003f_": "The data pipeline work.",
    "Years of Go experience": 4,
    "Open to relocation_x003f_": false
  }
]`

func TestIntegration_ReportPipeline(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "export.json")
	if err := os.WriteFile(exportPath, []byte(sampleExport), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "reports.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	renderer, err := report.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.ReportConfig{}
	gen := generator.New(cfg.Schema(), renderer, store)
	ctx := context.Background()

	rep, err := gen.FromFile(ctx, exportPath)
	if err != nil {
		t.Fatal(err)
	}
	if rep.CandidateName != "Dana Cruz" {
		t.Errorf("candidate name = %q", rep.CandidateName)
	}
	if rep.PositionType != "Backend Engineer" {
		t.Errorf("position type = %q", rep.PositionType)
	}
	if !strings.Contains(rep.HTML, "January 1, 2024") {
		t.Error("rendered document missing formatted completion date")
	}
	if strings.Contains(rep.HTML, "Open to relocation") {
		t.Error("falsy answer should be dropped from the rendered document")
	}

	// Round-trip through the archive.
	stored, err := store.GetReport(ctx, rep.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.HTML != rep.HTML {
		t.Error("stored document differs from rendered document")
	}
	if stored.Metadata["LinkedIn Profile URL"] != "https://linkedin.com/in/danacruz" {
		t.Errorf("versioned URL key not collapsed: %v", stored.Metadata)
	}

	list, err := store.ListReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != rep.ID {
		t.Errorf("unexpected listing: %+v", list)
	}
}
