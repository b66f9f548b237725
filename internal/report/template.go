package report

import "html/template"

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>CVMFS Stratum-1 status: {{.Snapshot.Repository}}</title>
<style>
  body { font-family: sans-serif; margin: 2em; color: #222; }
  h1 { font-size: 1.4em; }
  h2 { font-size: 1.1em; margin-top: 2em; }
  table { border-collapse: collapse; margin-top: 0.5em; }
  th, td { border: 1px solid #ccc; padding: 0.3em 0.8em; text-align: left; }
  th { background: #f0f0f0; }
  pre { background: #f8f8f8; padding: 1em; overflow-x: auto; }
  .ok { color: #1a7f37; font-weight: bold; }
  .warn { color: #9a6700; font-weight: bold; }
  .bad { color: #cf222e; font-weight: bold; }
  .muted { color: #777; }
</style>
</head>
<body>
<h1>CVMFS Stratum-1 status: {{.Snapshot.Repository}}</h1>
<p class="muted">Generated {{.Snapshot.Timestamp.Format "2006-01-02 15:04:05 UTC"}}</p>

<h2>Repository</h2>
<table>
  <tr><th>Revision</th><td>{{count .Snapshot.Catalog.Revision}}</td></tr>
  <tr><th>Root hash</th><td>{{hash .Snapshot.Catalog.RootHash}}</td></tr>
  <tr><th>Published</th><td>{{epoch .Snapshot.Catalog.PublishedAt}}</td></tr>
  <tr><th>Size</th><td>{{bytes .Snapshot.Size.SizeBytes}} ({{count .Snapshot.Size.FileCount}} files)</td></tr>
  <tr><th>Disk used</th><td>{{percent .Snapshot.Disk.UsedPercent}}</td></tr>
  <tr><th>Web traffic</th><td>{{.Snapshot.Web.TotalRequests}} requests from {{.Snapshot.Web.UniqueClients}} clients
      (2xx {{.Snapshot.Web.Status2xx}}, 304 {{.Snapshot.Web.Status304}}, 404 {{.Snapshot.Web.Status404}})</td></tr>
{{if gt .Snapshot.Proxy.TotalRequests 0}}  <tr><th>Proxy</th><td>{{.Snapshot.Proxy.TotalRequests}} requests, hit ratio {{percent .Snapshot.Proxy.HitRatio}}</td></tr>
{{end}}</table>

<h2>Upstream synchronization</h2>
<p>{{.Summary.Synchronized}} synchronized, {{.Summary.OutOfSync}} out of sync, {{.Summary.Unreachable}} unreachable{{if .Summary.LatestServer}} — freshest upstream: {{.Summary.LatestServer}} (revision {{count .Summary.LatestRevision}}){{end}}</p>
<table>
  <tr><th>Server</th><th>Local rev</th><th>Upstream rev</th><th>Status</th><th>Lag</th></tr>
{{range .Snapshot.Records}}  <tr>
    <td>{{.Server}}</td>
    <td>{{count .Local.Revision}}</td>
    <td>{{count .Upstream.Revision}}</td>
    <td class="{{statusClass .Status}}">{{.Status}}</td>
    <td>{{lag .LagHours}}</td>
  </tr>
{{end}}</table>

{{range .Charts}}<h2>{{.Title}}</h2>
<pre>{{.Plot}}</pre>
{{end}}
{{if .Snapshot.Warnings}}<h2>Health</h2>
<table>
  <tr><th>Time</th><th>Component</th><th>Warning</th></tr>
{{range .Snapshot.Warnings}}  <tr>
    <td>{{.Timestamp.Format "15:04:05"}}</td>
    <td>{{.Component}}</td>
    <td>{{.Message}}</td>
  </tr>
{{end}}</table>
{{end}}
</body>
</html>
`))
