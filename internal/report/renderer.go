// Package report renders transformed submissions into candidate report
// documents (HTML and Excel).
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/hireloop/formreport/internal/submission"
)

//go:embed template.html
var defaultTemplate string

// Renderer fills the report template with submission data.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer returns a renderer using the built-in report template.
func NewRenderer() (*Renderer, error) {
	return newRenderer(defaultTemplate)
}

// NewRendererFromFile returns a renderer using a custom template file.
func NewRendererFromFile(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return newRenderer(string(data))
}

func newRenderer(text string) (*Renderer, error) {
	tmpl, err := template.New("report").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// templateData is the fixed set of named template slots. Each slot has a
// fallback applied when the metadata key is missing or empty.
type templateData struct {
	CandidateName  string
	PositionType   string
	Email          string
	SubmissionTime string
	LinkedInURL    string
	PortfolioURL   string
	Degree         string
	GradYear       string
	QA             []submission.QA
}

// Render produces the HTML report for a transformed submission.
func (r *Renderer) Render(res *submission.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, newTemplateData(res)); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

func newTemplateData(res *submission.Result) templateData {
	meta := res.Metadata
	return templateData{
		CandidateName:  CandidateName(meta),
		PositionType:   lookup(meta, "N/A", "Position Type"),
		Email:          lookup(meta, "N/A", "Email"),
		SubmissionTime: lookup(meta, "N/A", "Completion time"),
		LinkedInURL:    lookup(meta, "#", "LinkedIn Profile URL"),
		PortfolioURL:   lookup(meta, "#", "Portfolio URL"),
		Degree:         lookup(meta, "N/A", "Degree"),
		GradYear:       lookup(meta, "N/A", "Graduation Year"),
		QA:             res.QA,
	}
}

// CandidateName resolves the display name: full-name field first, then the
// short name field, then a literal placeholder.
func CandidateName(meta map[string]string) string {
	return lookup(meta, "Unknown Candidate", "First & Last Name", "Name")
}

// lookup returns the first non-empty value among keys, else the fallback.
func lookup(meta map[string]string, fallback string, keys ...string) string {
	for _, k := range keys {
		if v, ok := meta[k]; ok && v != "" {
			return v
		}
	}
	return fallback
}
