// Package report renders aggregated contribution statistics as HTML,
// terminal text, JSON, and YAML documents.
//
// The HTML renderer is deterministic: identical input produces byte-identical
// output. Every author-supplied string is inserted through html/template's
// contextual escaping, so untrusted usernames can never become live markup.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/infinitehoax/WikiContributionReport/pkg/attribution"
	"github.com/infinitehoax/WikiContributionReport/pkg/identity"
)

const (
	defaultChartLimit = 15

	noticeNoContent = "No text was added to this page, so percentage shares are undefined."
)

// Page is a renderable contribution report for one subject.
type Page struct {
	Subject string
	Site    string
	Summary attribution.Summary

	// ChartLimit caps how many top contributors appear in the share chart.
	// Zero disables the chart entirely.
	ChartLimit int
}

// NewPage creates a report page with the default chart size.
func NewPage(subject, site string, summary attribution.Summary) *Page {
	return &Page{
		Subject:    subject,
		Site:       site,
		Summary:    summary,
		ChartLimit: defaultChartLimit,
	}
}

// Render writes the page as a complete, self-contained HTML document.
func (p *Page) Render(w io.Writer) error {
	data, err := p.buildPageData()
	if err != nil {
		return err
	}

	html, err := renderTemplate("page.html", data)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func (p *Page) buildPageData() (pageData, error) {
	data := pageData{
		Title:   "Contribution Report: " + p.Subject,
		Subject: p.Subject,
		Site:    p.Site,
		Summary: summaryData{
			TotalEdits:   humanize.Comma(int64(p.Summary.TotalEdits)),
			TotalAdded:   humanize.Comma(int64(p.Summary.TotalAdded)),
			TotalRemoved: humanize.Comma(int64(p.Summary.TotalRemoved)),
			AuthorCount:  humanize.Comma(int64(len(p.Summary.Authors))),
		},
	}

	if p.Summary.NoContentAdded() {
		// Informational, not an error: the report is still produced, with
		// zero data rows.
		data.Notice = noticeNoContent

		return data, nil
	}

	if p.ChartLimit > 0 {
		chart, err := renderShareChart(p.Summary, p.ChartLimit)
		if err != nil {
			return pageData{}, err
		}

		data.Chart = chart
	}

	data.Rows = buildRows(p.Site, p.Summary.Authors)

	return data, nil
}

// buildRows preformats one table row per ranked author. Percentages are
// fixed to two decimals; counts get grouping separators; added and removed
// totals carry explicit signs.
func buildRows(site string, authors []attribution.AuthorStats) []rowData {
	rows := make([]rowData, 0, len(authors))

	for _, as := range authors {
		pct := fmt.Sprintf("%.2f", as.Percentage)

		rows = append(rows, rowData{
			Author:   as.Author,
			UserURL:  identity.UserPageURL(site, as.Author),
			BarWidth: pct,
			Percent:  pct,
			Edits:    humanize.Comma(int64(as.Edits)),
			Added:    "+" + humanize.Comma(int64(as.TextAdded)),
			Removed:  "-" + humanize.Comma(int64(as.TextRemoved)),
		})
	}

	return rows
}
