package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	textBarLength = 20
	textBarFull   = "█"
	textBarEmpty  = "░"
)

// WriteText writes a human-readable summary to the writer, for the terminal.
func (p *Page) WriteText(w io.Writer) error {
	title := color.New(color.Bold).Sprintf("Contribution Report: %s", p.Subject)
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "%s · %s edits · %s bytes added · %s bytes removed\n\n",
		p.Site,
		humanize.Comma(int64(p.Summary.TotalEdits)),
		humanize.Comma(int64(p.Summary.TotalAdded)),
		humanize.Comma(int64(p.Summary.TotalRemoved)),
	)

	if p.Summary.NoContentAdded() {
		fmt.Fprintln(w, color.YellowString(noticeNoContent))

		return nil
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"User", "Share", "%", "Edits", "Added", "Removed"})

	for _, as := range p.Summary.Authors {
		tbl.AppendRow(table.Row{
			as.Author,
			shareBar(as.Percentage),
			fmt.Sprintf("%.2f", as.Percentage),
			humanize.Comma(int64(as.Edits)),
			added.Sprintf("+%s", humanize.Comma(int64(as.TextAdded))),
			removed.Sprintf("-%s", humanize.Comma(int64(as.TextRemoved))),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%d contributors", len(p.Summary.Authors))})
	tbl.Render()

	return nil
}

// shareBar draws a fixed-width block bar proportional to the percentage.
func shareBar(percentage float64) string {
	filled := int(percentage / 100 * textBarLength)
	if filled > textBarLength {
		filled = textBarLength
	}

	return strings.Repeat(textBarFull, filled) + strings.Repeat(textBarEmpty, textBarLength-filled)
}
