package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hireloop/formreport/internal/submission"
)

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report") // extension appended

	res := &submission.Result{
		Metadata: map[string]string{
			"First & Last Name": "Ada Lovelace",
			"Email":             "ada@example.com",
			"Custom Field":      "custom",
		},
		QA: []submission.QA{
			{Question: "Why Go?", Answer: "Channels."},
			{Question: "Years of experience", Answer: "7"},
		},
	}
	if err := WriteWorkbook(res, path); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path + ".xlsx")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Candidate" || sheets[1] != "Questions" {
		t.Errorf("sheets = %v", sheets)
	}

	// First ordered bio row lands at A3/B3 under the title.
	if v, _ := f.GetCellValue("Candidate", "B3"); v != "Ada Lovelace" {
		t.Errorf("B3 = %q, want candidate name", v)
	}

	if q, _ := f.GetCellValue("Questions", "A2"); q != "Why Go?" {
		t.Errorf("Questions A2 = %q", q)
	}
	if a, _ := f.GetCellValue("Questions", "B3"); a != "7" {
		t.Errorf("Questions B3 = %q", a)
	}

	// The custom metadata key still appears somewhere on the sheet.
	rows, err := f.GetRows("Candidate")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, row := range rows {
		if len(row) >= 2 && row[0] == "Custom Field" && row[1] == "custom" {
			found = true
		}
	}
	if !found {
		t.Error("custom metadata row missing from candidate sheet")
	}
}
