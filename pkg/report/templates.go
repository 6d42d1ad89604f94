package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

// getTemplates returns the parsed templates, loading them once.
func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

// renderTemplate renders a named template with the given data.
func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil
}

// pageData holds data for the page template. All free-form strings (Title,
// Subject, row authors) are escaped by html/template on insertion; the only
// pre-rendered HTML is the chart fragment, which contains no author-supplied
// markup outside JSON-escaped series labels.
type pageData struct {
	Title   string
	Subject string
	Site    string
	Notice  string
	Chart   template.HTML
	Summary summaryData
	Rows    []rowData
}

// summaryData holds the formatted aggregate totals shown above the table.
type summaryData struct {
	TotalEdits   string
	TotalAdded   string
	TotalRemoved string
	AuthorCount  string
}

// rowData holds one formatted table row. Numeric columns are preformatted so
// the template stays free of logic.
type rowData struct {
	Author   string
	UserURL  string
	BarWidth string
	Percent  string
	Edits    string
	Added    string
	Removed  string
}
