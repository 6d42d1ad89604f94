package report

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/infinitehoax/WikiContributionReport/pkg/attribution"
)

const (
	chartID     = "contribution-share"
	chartWidth  = "100%"
	chartHeight = "400px"
	chartSeries = "% of text added"
	barColor    = "#28a745"

	labelRotate     = 30
	percentRounding = 100

	styleTagLen = 8 // len("</style>")
)

// renderShareChart builds the percentage-share bar chart fragment for the
// top contributors. The chart ID is pinned so repeated renders of the same
// input stay byte-identical.
//
// The fragment is embedded as pre-rendered HTML and go-echarts inlines the
// axis labels into a script element without escaping them, so author names
// must be HTML-escaped here. A name like "</script><script>..." would
// otherwise close the script element and become live markup.
func renderShareChart(summary attribution.Summary, limit int) (template.HTML, error) {
	shown := min(len(summary.Authors), limit)
	labels := make([]string, 0, shown)
	values := make([]opts.BarData, 0, shown)

	for _, as := range summary.Authors[:shown] {
		labels = append(labels, html.EscapeString(as.Author))
		values = append(values, opts.BarData{
			Value: math.Round(as.Percentage*percentRounding) / percentRounding,
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID,
			Width:   chartWidth,
			Height:  chartHeight,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: labelRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: chartSeries}),
	)

	bar.SetXAxis(labels)
	bar.AddSeries(chartSeries, values, charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}))

	var buf bytes.Buffer

	err := bar.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}

	return template.HTML(extractChartContent(buf.String())), nil
}

// extractChartContent strips the full HTML page echarts emits down to the
// chart element and its init script, so it can be embedded in the report.
func extractChartContent(doc string) string {
	start := strings.Index(doc, `<div class="container">`)
	if start == -1 {
		return doc
	}

	end := strings.Index(doc, `</body>`)
	if end == -1 {
		return doc
	}

	content := doc[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
