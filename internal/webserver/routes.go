package webserver

import (
	"html/template"
	"net/http"

	"github.com/petprogress/perfbench/internal/webapi"
)

var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>perfbench runs</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { padding: 0.3rem 0.8rem; border-bottom: 1px solid #ddd; text-align: left; }
.failed { color: #b00020; }
</style>
</head>
<body>
<h1>perfbench runs</h1>
<p>{{len .}} saved run(s). JSON at <a href="/api/runs">/api/runs</a>, metrics for the newest run at <a href="/metrics">/metrics</a>.</p>
{{if .}}<table>
<tr><th>When</th><th>Suite</th><th>Device</th><th>Probes</th><th>Success</th><th>Avg ms</th><th></th></tr>
{{range .}}<tr{{if eq .Outcome "failed"}} class="failed"{{end}}>
<td>{{.Timestamp.Format "2006-01-02 15:04:05"}}</td>
<td><a href="/runs/{{.ID}}/report">{{.Name}}</a></td>
<td>{{.Device}} ({{.OSVersion}})</td>
<td>{{.ProbeCount}}</td>
<td>{{printf "%.1f" .SuccessRate}}%</td>
<td>{{printf "%.2f" .AvgDurationMs}}</td>
<td><a href="/api/runs/{{.ID}}/compare">compare with previous</a></td>
</tr>
{{end}}</table>{{end}}
</body>
</html>
`))

// registerRoutes sets up the API routes and the index page on the given mux.
func registerRoutes(mux *http.ServeMux, runs webapi.RunStore, cfg Config) {
	webapi.RegisterRoutes(mux, runs, cfg.Classifier)
	mux.HandleFunc("GET /{$}", handleIndex(runs, cfg))
}

// handleIndex lists the saved runs, newest first.
func handleIndex(runs webapi.RunStore, cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		list, err := runs.ListRuns("timestamp", "desc")
		if err != nil {
			cfg.Logger.Error("listing runs", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexPage.Execute(w, list); err != nil {
			cfg.Logger.Error("rendering index", "error", err)
		}
	}
}
