package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/infinitehoax/WikiContributionReport/pkg/attribution"
)

// Document is the machine-readable form of a report.
type Document struct {
	Subject string              `json:"subject" yaml:"subject"`
	Site    string              `json:"site"    yaml:"site"`
	Summary attribution.Summary `json:"summary" yaml:"summary"`
}

// Document returns the serializable form of the page.
func (p *Page) Document() Document {
	return Document{
		Subject: p.Subject,
		Site:    p.Site,
		Summary: p.Summary,
	}
}

// WriteJSON writes the report as indented JSON.
func (p *Page) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(p.Document())
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

// WriteYAML writes the report as YAML.
func (p *Page) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)

	err := enc.Encode(p.Document())
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	return enc.Close()
}
