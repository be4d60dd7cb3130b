// Package submission turns a raw recruitment-form export into report-ready
// data: biographical metadata on one side, question/answer pairs on the other.
package submission

import "strings"

// Schema is the closed set of recognized biographical field names, plus the
// subset of those that carry spreadsheet date serials. It is immutable after
// construction and safe for concurrent use; classification is a pure function
// of (key, schema).
type Schema struct {
	canonical map[string]string // lowercased name -> canonical spelling
	dates     map[string]bool   // canonical spelling -> date-valued
}

// defaultBioFields are the columns that should not be treated as candidate
// questions. Deployments add new personal-info columns via config to keep
// them out of the Q&A section.
var defaultBioFields = []string{
	"ID", "Start time", "Completion time", "Email", "Name",
	"First & Last Name", "LinkedIn Profile URL", "Portfolio URL",
	"Position Type", "Degree", "Graduation Year",
	"Preferred Start Date", "Submission Time",
	"Email1", "Preferred Start Date1", "ItemInternalId",
}

// defaultDateFields are the bio fields whose raw value is an Excel day serial.
var defaultDateFields = []string{
	"Start time", "Completion time", "Submission Time",
	"Preferred Start Date", "Preferred Start Date1",
}

// NewSchema builds a schema from explicit field lists. Matching is
// case-insensitive; matched keys are reported under the spelling given here.
// dateFields must name fields also present in bioFields.
func NewSchema(bioFields, dateFields []string) *Schema {
	s := &Schema{
		canonical: make(map[string]string, len(bioFields)),
		dates:     make(map[string]bool, len(dateFields)),
	}
	for _, f := range bioFields {
		s.canonical[strings.ToLower(f)] = f
	}
	for _, f := range dateFields {
		if c, ok := s.canonical[strings.ToLower(f)]; ok {
			s.dates[c] = true
		}
	}
	return s
}

// DefaultSchema returns the schema for the stock recruitment form.
func DefaultSchema() *Schema {
	return NewSchema(defaultBioFields, defaultDateFields)
}

// Canonical reports whether key names a biographical field, and if so returns
// the canonical spelling.
func (s *Schema) Canonical(key string) (string, bool) {
	c, ok := s.canonical[strings.ToLower(key)]
	return c, ok
}

// IsDate reports whether the canonical bio field carries a date serial.
func (s *Schema) IsDate(canonical string) bool {
	return s.dates[canonical]
}

// Len returns the number of biographical fields in the schema.
func (s *Schema) Len() int {
	return len(s.canonical)
}
