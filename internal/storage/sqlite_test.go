package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hireloop/formreport/internal/models"
	"github.com/hireloop/formreport/internal/submission"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStorage_CRUD(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	r := &models.Report{
		ID:            "r1",
		CandidateName: "Ada Lovelace",
		PositionType:  "Backend Engineer",
		Email:         "ada@example.com",
		SourceFile:    "export.json",
		Metadata:      map[string]string{"Email": "ada@example.com"},
		QA:            []submission.QA{{Question: "Why Go?", Answer: "Channels."}},
		HTML:          "<html>report</html>",
	}
	if err := store.SaveReport(ctx, r); err != nil {
		t.Fatal(err)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetReport(ctx, "r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CandidateName != "Ada Lovelace" || got.HTML != "<html>report</html>" {
		t.Errorf("got %+v", got)
	}
	if got.Metadata["Email"] != "ada@example.com" {
		t.Errorf("metadata = %v", got.Metadata)
	}
	if len(got.QA) != 1 || got.QA[0].Answer != "Channels." {
		t.Errorf("qa = %v", got.QA)
	}

	count, err := store.CountReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	if err := store.DeleteReport(ctx, "r1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetReport(ctx, "r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStorage_NotFound(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if _, err := store.GetReport(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetReport: want ErrNotFound, got %v", err)
	}
	if err := store.DeleteReport(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteReport: want ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_List(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		r := &models.Report{
			ID:            id,
			CandidateName: "Candidate " + id,
			Metadata:      map[string]string{},
			HTML:          "<html></html>",
		}
		if err := store.SaveReport(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	list, err := store.ListReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("list length = %d, want 3", len(list))
	}
	for _, sum := range list {
		if sum.CandidateName == "" || sum.CreatedAt.IsZero() {
			t.Errorf("incomplete summary: %+v", sum)
		}
	}
}

func TestSQLiteStorage_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStorage(filepath.Join(dir, "nested", "deep", "reports.db"))
	if err != nil {
		t.Fatal(err)
	}
	store.Close()
}
