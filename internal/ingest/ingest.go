// Package ingest reads submission exports from disk formats and feeds them
// through the normalizer.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hireloop/formreport/internal/submission"
)

// ErrInvalidExport marks failures caused by the export content itself
// (malformed JSON, unreadable workbook, unknown format) as opposed to
// faults in the pipeline downstream of reading it.
var ErrInvalidExport = errors.New("invalid export")

// ReadFile reads the export at path and transforms its first record.
// Supported formats are .json (raw automation output) and .xlsx (form table,
// header row plus one data row per submission).
func ReadFile(path string, schema *submission.Schema) (*submission.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return ReadBytes(content, strings.ToLower(filepath.Ext(path)), schema)
}

// ReadBytes transforms export content based on the given extension
// (including the leading dot). An empty extension is treated as JSON.
func ReadBytes(content []byte, ext string, schema *submission.Schema) (*submission.Result, error) {
	switch ext {
	case ".json", "":
		res, err := submission.Transform(content, schema)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
		}
		return res, nil
	case ".xlsx":
		fields, count, err := excelFields(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
		}
		res := submission.TransformFields(fields, schema)
		res.RecordCount = count
		return res, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidExport, ext)
	}
}

// excelFields reads the first sheet of a form table workbook: row one is the
// column headers, row two the first submission. Extra rows are counted but
// not consumed, matching the JSON path's first-record rule.
func excelFields(content []byte) ([]submission.Field, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, submission.ErrNoRecord
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, 0, submission.ErrNoRecord
	}

	header := rows[0]
	record := rows[1]
	fields := make([]submission.Field, 0, len(header))
	for i, key := range header {
		if strings.TrimSpace(key) == "" {
			continue
		}
		var value interface{}
		if i < len(record) {
			value = record[i]
		}
		fields = append(fields, submission.Field{Key: key, Value: value})
	}
	return fields, len(rows) - 1, nil
}
