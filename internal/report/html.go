package report

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/palace-finmktstech-latam/cr2.0/internal/jsondiff"
)

// missingSpanish is how an absent side reads in the customer-facing report.
const missingSpanish = "No registrado"

// kindColor is the row background per difference kind.
func kindColor(k jsondiff.Kind) string {
	switch k {
	case jsondiff.Added:
		return "#d4edda"
	case jsondiff.Removed:
		return "#f8d7da"
	case jsondiff.Modified:
		return "#fff3cd"
	case jsondiff.TypeChanged:
		return "#d1ecf1"
	default:
		return "#ffffff"
	}
}

type htmlRow struct {
	Path        string
	Description string
	KindTitle   string
	Left        string
	Right       string
	Types       string
	Color       string
}

type htmlReport struct {
	LeftName  string
	RightName string
	Generated string
	Stats     jsondiff.Stats
	Rows      []htmlRow
}

func buildRows(entries []jsondiff.Entry, missing string) []htmlRow {
	rows := make([]htmlRow, 0, len(entries))

	for _, e := range entries {
		types := e.LeftType
		if e.LeftType != "" && e.RightType != "" {
			types = e.LeftType + " → " + e.RightType
		} else if e.RightType != "" {
			types = e.RightType
		}

		rows = append(rows, htmlRow{
			Path:        e.Path,
			Description: e.FriendlyDescription,
			KindTitle:   e.Kind.Title(),
			Left:        e.LeftString(missing),
			Right:       e.RightString(missing),
			Types:       types,
			Color:       kindColor(e.Kind),
		})
	}

	return rows
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>JSON Comparison Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 20px; background-color: #f8f9fa; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
.summary { display: flex; gap: 20px; margin-bottom: 20px; }
.stat-card { background: white; padding: 15px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); text-align: center; min-width: 120px; }
.stat-number { font-size: 24px; font-weight: bold; color: #333; }
.stat-label { color: #666; font-size: 12px; text-transform: uppercase; }
table { width: 100%; border-collapse: collapse; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
th { background: #495057; color: white; padding: 12px; text-align: left; font-weight: 600; }
td { padding: 8px 12px; border-bottom: 1px solid #dee2e6; font-family: 'Courier New', monospace; font-size: 12px; }
.path { font-weight: bold; color: #495057; max-width: 300px; word-break: break-all; }
.value { max-width: 200px; word-wrap: break-word; }
.description { max-width: 250px; word-wrap: break-word; color: #495057; }
</style>
</head>
<body>
<div class="header">
<h1>JSON Comparison Report</h1>
<p><strong>File 1:</strong> {{.LeftName}}</p>
<p><strong>File 2:</strong> {{.RightName}}</p>
<p><strong>Generated:</strong> {{.Generated}}</p>
</div>
<div class="summary">
<div class="stat-card"><div class="stat-number">{{.Stats.Added}}</div><div class="stat-label">Added</div></div>
<div class="stat-card"><div class="stat-number">{{.Stats.Removed}}</div><div class="stat-label">Removed</div></div>
<div class="stat-card"><div class="stat-number">{{.Stats.Modified}}</div><div class="stat-label">Modified</div></div>
<div class="stat-card"><div class="stat-number">{{.Stats.TypeChanged}}</div><div class="stat-label">Type Changed</div></div>
<div class="stat-card"><div class="stat-number">{{.Stats.Total}}</div><div class="stat-label">Total Differences</div></div>
</div>
<table>
<thead>
<tr><th>Path</th><th>Description</th><th>Change Type</th><th>{{.LeftName}}</th><th>{{.RightName}}</th><th>Types</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr style="background-color: {{.Color}};">
<td class="path">{{.Path}}</td>
<td class="description">{{if .Description}}{{.Description}}{{else}}<em style="color: #888;">Not defined</em>{{end}}</td>
<td><strong>{{.KindTitle}}</strong></td>
<td class="value">{{.Left}}</td>
<td class="value">{{.Right}}</td>
<td>{{.Types}}</td>
</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// RenderHTML writes the single-comparison HTML report: summary stat cards
// plus one color-coded row per difference.
func RenderHTML(w io.Writer, leftName, rightName string, entries []jsondiff.Entry) error {
	data := htmlReport{
		LeftName:  leftName,
		RightName: rightName,
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Stats:     jsondiff.Summarize(entries),
		Rows:      buildRows(entries, ""),
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}

	return nil
}

// PairResult is the comparison outcome for one matched banco/contrato pair.
type PairResult struct {
	Pair    Pair
	Entries []jsondiff.Entry
	Stats   jsondiff.Stats
}

type groupedSection struct {
	Title   string
	TradeID string
	Date    string
	Stats   jsondiff.Stats
	Details []string
	Rows    []htmlRow
}

type groupedReport struct {
	Generated string
	Sections  []groupedSection
}

var groupedTemplate = template.Must(template.New("grouped").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Trade Comparison Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 20px; background-color: #f8f9fa; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
.pair { background: white; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); padding: 16px; margin-bottom: 20px; }
.pair h2 { margin-top: 0; color: #495057; }
.counts { color: #666; font-size: 13px; margin-bottom: 10px; }
.detail { font-size: 13px; margin: 4px 0; color: #333; }
</style>
</head>
<body>
<div class="header">
<h1>Trade Comparison Report</h1>
<p><strong>Generated:</strong> {{.Generated}}</p>
</div>
{{range .Sections}}<div class="pair">
<h2>{{.Title}}</h2>
<p class="counts">Trade {{.TradeID}} · {{.Date}} · Added: {{.Stats.Added}} · Removed: {{.Stats.Removed}} · Modified: {{.Stats.Modified}} · Type Changed: {{.Stats.TypeChanged}}</p>
{{if .Details}}{{range .Details}}<p class="detail">{{.}}</p>
{{end}}{{else}}<p class="detail">Sin diferencias.</p>
{{end}}</div>
{{end}}</body>
</html>
`))

// RenderGroupedHTML writes the per-pair grouped report used when comparing
// whole directories: one section per matched file pair with difference
// counts and a friendly line per difference.
func RenderGroupedHTML(w io.Writer, results []PairResult) error {
	data := groupedReport{Generated: time.Now().Format("2006-01-02 15:04:05")}

	for _, r := range results {
		section := groupedSection{
			Title:   fmt.Sprintf("%s vs %s", r.Pair.Banco.Bank, r.Pair.Banco.Counterparty),
			TradeID: r.Pair.Banco.CounterpartyTradeID,
			Date:    r.Pair.Banco.FormattedDate(),
			Stats:   r.Stats,
		}

		for _, e := range r.Entries {
			section.Details = append(section.Details, fmt.Sprintf(
				"• %s: El Banco registra '%s', Contraparte registra '%s'",
				e.FriendlyDescription,
				e.LeftString(missingSpanish),
				e.RightString(missingSpanish),
			))
		}

		data.Sections = append(data.Sections, section)
	}

	if err := groupedTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render grouped HTML report: %w", err)
	}

	return nil
}
