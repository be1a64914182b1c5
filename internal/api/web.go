package api

import (
	"fmt"
	"html/template"
	"net/http"

	"clans-optimizer/internal/logger"
)

// The ranking page is a single server-rendered template; all interactive
// consumers are expected to use the JSON API instead.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Clans Optimizer</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 70rem; color: #222; }
h1 { margin-bottom: 0; }
.meta { color: #666; margin-bottom: 2rem; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
th, td { text-align: left; padding: 0.35rem 0.6rem; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
.loss { color: #b00; }
.base { color: #975a16; }
h2 { margin-top: 2.5rem; }
</style>
</head>
<body>
<h1>Task Profitability</h1>
<p class="meta">{{.TotalTasks}} tasks ranked in {{.TotalCategories}} categories,
{{.ProfitableTasks}} profitable &middot; updated {{.Timestamp.Format "2006-01-02 15:04:05 MST"}}</p>

<h2>Top {{len .TopTasks}}</h2>
<table>
<tr><th>#</th><th>Task</th><th>Category</th><th>Gold/s</th><th>XP/s</th><th>Net profit</th></tr>
{{range $i, $t := .TopTasks}}
<tr>
<td>{{add $i 1}}</td>
<td>{{$t.Name}}{{if $t.SoldAsBasePrice}} <span class="base" title="sold at shop price">&#9679;</span>{{end}}</td>
<td>{{$t.CategoryName}}</td>
<td class="num">{{gold $t.GoldPerSecond}}</td>
<td class="num">{{gold $t.XPPerSecond}}</td>
<td class="num {{if lt $t.NetProfit 0.0}}loss{{end}}">{{gold $t.NetProfit}}</td>
</tr>
{{end}}
</table>

{{range .Categories}}
{{if .Tasks}}
<h2>{{.Name}}</h2>
<table>
<tr><th>Task</th><th>Gold/s</th><th>XP/s</th><th>Revenue</th><th>Costs</th><th>Net profit</th></tr>
{{range .Tasks}}
<tr>
<td>{{.Name}}{{if .SoldAsBasePrice}} <span class="base" title="sold at shop price">&#9679;</span>{{end}}</td>
<td class="num">{{gold .GoldPerSecond}}</td>
<td class="num">{{gold .XPPerSecond}}</td>
<td class="num">{{gold .Revenue}}</td>
<td class="num">{{gold .TotalCost}}</td>
<td class="num {{if lt .NetProfit 0.0}}loss{{end}}">{{gold .NetProfit}}</td>
</tr>
{{end}}
</table>
{{end}}
{{end}}
</body>
</html>`

const loadingHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta http-equiv="refresh" content="5"><title>Clans Optimizer</title></head>
<body style="font-family: system-ui, sans-serif; margin: 4rem auto; max-width: 40rem; text-align: center;">
<h1>Computing rankings&hellip;</h1>
<p>The first market pass has not finished yet. This page refreshes automatically.</p>
</body>
</html>`

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"add":  func(a, b int) int { return a + b },
	"gold": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(indexHTML))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	latest, ok := s.store.Latest()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, loadingHTML)
		return
	}
	if err := indexTemplate.Execute(w, latest); err != nil {
		logger.Error("API", fmt.Sprintf("Render index: %v", err))
	}
}
