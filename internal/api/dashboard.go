package api

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

// dashboardTemplate renders the snapshot as a self-refreshing page.
// Every field is auto-escaped except ExampleHTML, which is built by the
// snippet pipeline and is the only trusted-HTML value in the system.
var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"snippet": func(s string) template.HTML { return template.HTML(s) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="30">
<title>Sora Invite Hunter</title>
<style>
body { font-family: ui-monospace, monospace; background: #0d1117; color: #c9d1d9; margin: 2rem; }
h1 { color: #e6edf3; }
.stats { display: flex; gap: 2rem; margin-bottom: 1.5rem; }
.stat b { display: block; font-size: 1.5rem; color: #58a6ff; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { text-align: left; padding: 0.3rem 0.8rem; border-bottom: 1px solid #21262d; }
mark { background: #d29922; color: #0d1117; padding: 0 0.2em; border-radius: 2px; }
.code { font-size: 1.1rem; color: #7ee787; font-weight: bold; }
.log-error { color: #f85149; }
.log-success { color: #7ee787; }
.log-debug { color: #8b949e; }
.muted { color: #8b949e; }
</style>
</head>
<body>
<h1>Sora Invite Hunter</h1>
<p class="muted">query: {{.Query}} &middot; every {{.PollIntervalSeconds}}s &middot; up to {{.MaxPosts}} posts/source{{if .LastPoll}} &middot; last poll {{.LastPoll.Format "15:04:05 MST"}}{{end}}</p>

<div class="stats">
<div class="stat"><b>{{.TotalCandidates}}</b>candidates</div>
<div class="stat"><b>{{.UniqueCodes}}</b>unique codes</div>
<div class="stat"><b>{{.SuccessCount}}</b>fetch successes</div>
<div class="stat"><b>{{.ErrorCount}}</b>fetch errors</div>
</div>

<h2>Candidates</h2>
{{if .Candidates}}
<table>
<tr><th>Code</th><th>Conf</th><th>Context</th><th>Source</th><th>Found</th></tr>
{{range .Candidates}}
<tr>
<td class="code">{{.Code}}</td>
<td>{{printf "%.2f" .Confidence}}</td>
<td>{{snippet .ExampleHTML}}</td>
<td>{{if .URL}}<a href="{{.URL}}">{{.SourceType}}</a>{{else}}{{.SourceType}}{{end}}</td>
<td>{{.DiscoveredAt.Format "Jan 2 15:04"}}</td>
</tr>
{{end}}
</table>
{{else}}
<p class="muted">Nothing yet. The hunt continues.</p>
{{end}}

<h2>Sources</h2>
<table>
<tr><th>Source</th><th>Enabled</th><th>Last success</th><th>Last error</th></tr>
{{range .Sources}}
<tr>
<td>{{.Name}}</td>
<td>{{if .Enabled}}yes{{else}}no{{end}}</td>
<td>{{if .LastSuccess}}{{.LastSuccess.Format "15:04:05"}}{{else}}&mdash;{{end}}</td>
<td>{{if .LastError}}{{.LastError.Format "15:04:05"}}{{else}}&mdash;{{end}}</td>
</tr>
{{end}}
</table>

<h2>Activity</h2>
<table>
{{range .ActivityLog}}
<tr>
<td class="muted">{{.Timestamp.Format "15:04:05"}}</td>
<td class="log-{{.Level}}">{{.Level}}</td>
<td>{{.Message}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

func (s *Server) dashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, s.snapshot()); err != nil {
		s.logger.Error("render dashboard failed", zap.Error(err))
	}
}
