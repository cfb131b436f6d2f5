// Package docxrender fills the report .docx template with the collected
// field values. Fonts and layout are the template's own concern.
package docxrender

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	docx "github.com/lukasjarosch/go-docx"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type Renderer struct {
	templatePath string
	outputDir    string
}

func NewRenderer(templatePath, outputDir string) *Renderer {
	if outputDir == "" {
		outputDir = "."
	}
	return &Renderer{
		templatePath: templatePath,
		outputDir:    outputDir,
	}
}

// Render replaces the template placeholders with the field values and writes
// the report next to the other outputs. The filename carries the investigator
// name, spaces replaced so it travels well as a mail attachment.
func (r *Renderer) Render(ctx context.Context, values map[domain.FieldID]string) (string, error) {
	doc, err := docx.Open(r.templatePath)
	if err != nil {
		return "", fmt.Errorf("opening template %s: %w", r.templatePath, err)
	}

	replace := make(docx.PlaceholderMap, len(values))
	for id, text := range values {
		replace[string(id)] = text
	}

	if err := doc.ReplaceAll(replace); err != nil {
		return "", fmt.Errorf("filling template: %w", err)
	}

	investigator := values[domain.InvestigatorField]
	filename := fmt.Sprintf("تقرير الفحص %s.docx", strings.ReplaceAll(investigator, " ", "_"))
	outPath := filepath.Join(r.outputDir, filename)

	if err := doc.WriteToFile(outPath); err != nil {
		return "", fmt.Errorf("writing report %s: %w", outPath, err)
	}

	return outPath, nil
}
