package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hireloop/formreport/internal/submission"
)

// bioRowOrder controls the candidate sheet layout; metadata keys not listed
// here are appended after, in no particular order.
var bioRowOrder = []string{
	"First & Last Name", "Name", "Email", "Position Type",
	"Completion time", "Start time", "Submission Time",
	"Degree", "Graduation Year", "Preferred Start Date",
	"LinkedIn Profile URL", "Portfolio URL",
}

// WriteWorkbook writes the report as an Excel workbook with a candidate
// sheet and a questions sheet. The .xlsx extension is appended if missing.
func WriteWorkbook(res *submission.Result, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer f.Close()

	candidateSheet := "Candidate"
	questionsSheet := "Questions"
	f.SetSheetName("Sheet1", candidateSheet)
	if _, err := f.NewSheet(questionsSheet); err != nil {
		return fmt.Errorf("creating questions sheet: %w", err)
	}

	if err := writeCandidateSheet(f, candidateSheet, res.Metadata); err != nil {
		return fmt.Errorf("writing candidate sheet: %w", err)
	}
	if err := writeQuestionsSheet(f, questionsSheet, res.QA); err != nil {
		return fmt.Errorf("writing questions sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
}

func labelStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
}

func writeCandidateSheet(f *excelize.File, sheet string, meta map[string]string) error {
	_ = f.SetColWidth(sheet, "A", "A", 26)
	_ = f.SetColWidth(sheet, "B", "B", 60)

	hs, err := headerStyle(f)
	if err != nil {
		return err
	}
	ls, err := labelStyle(f)
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, "A1", "Candidate Report"); err != nil {
		return err
	}
	_ = f.MergeCell(sheet, "A1", "B1")
	_ = f.SetCellStyle(sheet, "A1", "B1", hs)

	row := 3
	seen := make(map[string]bool)
	writeRow := func(key, value string) error {
		labelCell := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, labelCell, key); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, labelCell, labelCell, ls)
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value); err != nil {
			return err
		}
		row++
		return nil
	}
	for _, key := range bioRowOrder {
		if v, ok := meta[key]; ok {
			if err := writeRow(key, v); err != nil {
				return err
			}
			seen[key] = true
		}
	}
	for key, v := range meta {
		if seen[key] {
			continue
		}
		if err := writeRow(key, v); err != nil {
			return err
		}
	}
	return nil
}

func writeQuestionsSheet(f *excelize.File, sheet string, qa []submission.QA) error {
	_ = f.SetColWidth(sheet, "A", "A", 50)
	_ = f.SetColWidth(sheet, "B", "B", 80)

	hs, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", "Question"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "B1", "Answer"); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheet, "A1", "B1", hs)

	for i, pair := range qa {
		row := i + 2
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pair.Question); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pair.Answer); err != nil {
			return err
		}
	}
	return nil
}
