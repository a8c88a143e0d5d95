package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/leadline-hq/leadline/internal/stats"
)

// The dashboard is a pure presentation of the stats report: the same
// payload /stats serves as JSON, rendered for a browser with a 30s
// auto-refresh.

type dashboardVariant struct {
	Name           string
	Impressions    int64
	Conversions    int64
	ConversionRate string
	UniqueVisitors int64
	Winner         bool
}

type dashboardLead struct {
	Phone      string
	Variant    string
	Timestamp  string
	CallStatus string
}

type dashboardData struct {
	Period      string
	LastUpdated string
	Significant bool
	Message     string
	PValue      string
	Winner      string
	A           dashboardVariant
	B           dashboardVariant
	Leads       []dashboardLead
}

func (s *Server) renderDashboard(w http.ResponseWriter, report stats.Report) {
	data := dashboardData{
		Period:      report.Period,
		LastUpdated: report.LastUpdated,
		Significant: report.Significance.Significant,
		Message:     report.Significance.Message,
	}
	if report.Significance.PValue != nil {
		data.PValue = *report.Significance.PValue
	}
	if report.Winner != nil {
		data.Winner = *report.Winner
	}
	if t, err := time.Parse(time.RFC3339, report.LastUpdated); err == nil {
		data.LastUpdated = t.Format("Jan 2, 2006 15:04:05 MST")
	}

	data.A = toDashboardVariant(report.Variants["a"], data.Winner == "A")
	data.B = toDashboardVariant(report.Variants["b"], data.Winner == "B")

	for _, lead := range report.RecentLeads {
		status := lead.CallStatus
		if status == "" {
			status = "Pending"
		}
		data.Leads = append(data.Leads, dashboardLead{
			Phone:      lead.Phone,
			Variant:    lead.Variant,
			Timestamp:  lead.Timestamp,
			CallStatus: status,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("dashboard render failed")
	}
}

func toDashboardVariant(v stats.VariantReport, winner bool) dashboardVariant {
	return dashboardVariant{
		Name:           v.Name,
		Impressions:    v.Impressions,
		Conversions:    v.Conversions,
		ConversionRate: v.ConversionRate,
		UniqueVisitors: v.UniqueVisitors,
		Winner:         winner,
	}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>A/B Test Dashboard</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f7fafc; padding: 40px 20px; color: #2d3748; }
.container { max-width: 1200px; margin: 0 auto; }
h1 { font-size: 2.5rem; margin-bottom: 10px; color: #1a202c; }
.subtitle { color: #718096; margin-bottom: 40px; }
.grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 20px; margin-bottom: 40px; }
.card { background: white; border-radius: 12px; padding: 30px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1); }
.card.winner { border: 3px solid #48bb78; }
.winner-badge { display: inline-block; background: #48bb78; color: white; padding: 4px 12px; border-radius: 20px; font-size: 0.875rem; font-weight: 600; margin-left: 10px; }
h2 { font-size: 1.5rem; margin-bottom: 20px; color: #2d3748; }
.metric { margin-bottom: 15px; }
.metric-label { font-size: 0.875rem; color: #718096; margin-bottom: 5px; }
.metric-value { font-size: 2rem; font-weight: 700; color: #1a202c; }
.conversion-rate { color: #667eea; }
.significance { background: #edf2f7; padding: 20px; border-radius: 8px; margin-bottom: 40px; }
.significance.significant { background: #c6f6d5; border: 2px solid #48bb78; }
.leads-table { width: 100%; border-collapse: collapse; background: white; border-radius: 12px; overflow: hidden; }
.leads-table th { background: #667eea; color: white; padding: 15px; text-align: left; }
.leads-table td { padding: 12px 15px; border-bottom: 1px solid #e2e8f0; }
.leads-table tr:last-child td { border-bottom: none; }
.variant-badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 0.75rem; font-weight: 600; }
.variant-a { background: #fed7d7; color: #c53030; }
.variant-b { background: #c6f6d5; color: #2f855a; }
.refresh-btn { background: #667eea; color: white; border: none; padding: 10px 20px; border-radius: 6px; font-size: 1rem; cursor: pointer; margin-bottom: 20px; }
.refresh-btn:hover { background: #5a67d8; }
</style>
</head>
<body>
<div class="container">
  <h1>A/B Test Dashboard</h1>
  <p class="subtitle">Period: {{.Period}} &middot; Last updated: {{.LastUpdated}}</p>

  <button class="refresh-btn" onclick="location.reload()">Refresh Data</button>

  <div class="significance{{if .Significant}} significant{{end}}">
    <h3>Statistical Significance</h3>
    <p><strong>Status:</strong> {{.Message}}</p>
    {{if .PValue}}<p><strong>P-Value:</strong> {{.PValue}}</p>{{end}}
    {{if .Winner}}<p style="margin-top: 10px; font-size: 1.1rem;"><strong>Winner: Variant {{.Winner}}</strong></p>{{end}}
  </div>

  <div class="grid">
    {{template "variantCard" .A}}
    {{template "variantCard" .B}}
  </div>

  <div class="card">
    <h2>Recent Leads (Last 10)</h2>
    <table class="leads-table">
      <thead>
        <tr><th>Phone</th><th>Variant</th><th>Timestamp</th><th>Status</th></tr>
      </thead>
      <tbody>
        {{range .Leads}}
        <tr>
          <td>{{.Phone}}</td>
          <td><span class="variant-badge variant-{{.Variant}}">{{.Variant}}</span></td>
          <td>{{.Timestamp}}</td>
          <td>{{.CallStatus}}</td>
        </tr>
        {{else}}
        <tr><td colspan="4" style="text-align: center; color: #718096;">No leads yet</td></tr>
        {{end}}
      </tbody>
    </table>
  </div>
</div>

<script>
setTimeout(function() { location.reload(); }, 30000);
</script>
</body>
</html>
{{define "variantCard"}}
    <div class="card{{if .Winner}} winner{{end}}">
      <h2>{{.Name}}{{if .Winner}}<span class="winner-badge">Winner</span>{{end}}</h2>
      <div class="metric">
        <div class="metric-label">Impressions</div>
        <div class="metric-value">{{.Impressions}}</div>
      </div>
      <div class="metric">
        <div class="metric-label">Conversions</div>
        <div class="metric-value">{{.Conversions}}</div>
      </div>
      <div class="metric">
        <div class="metric-label">Conversion Rate</div>
        <div class="metric-value conversion-rate">{{.ConversionRate}}%</div>
      </div>
      <div class="metric">
        <div class="metric-label">Unique Visitors</div>
        <div class="metric-value" style="font-size: 1.5rem;">{{.UniqueVisitors}}</div>
      </div>
    </div>
{{end}}`
