package export

import (
	"bytes"
	"html/template"
	"time"

	"matterdesk/api/internal/matter"
)

var registerTemplate = template.Must(template.New("register").Funcs(template.FuncMap{
	"formatDate": func(t time.Time, layout string) string {
		return t.Format(layout)
	},
}).Parse(registerHTML))

// TemplateData holds data for register template rendering.
type TemplateData struct {
	Title       string
	GeneratedAt time.Time
	Total       int
	OpenCount   int
	Matters     []matter.Matter
}

// RenderRegisterHTML renders the matters register template.
func RenderRegisterHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := registerTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const registerHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    @page { size: A4 landscape; margin: 1.5cm; }
    body { font-family: Arial, sans-serif; font-size: 10px; color: #222; }
    h1 { font-size: 18px; border-bottom: 2px solid #333; padding-bottom: 0.4rem; }
    .meta { color: #666; margin-bottom: 1rem; }
    table { width: 100%; border-collapse: collapse; }
    th, td { border: 1px solid #bbb; padding: 4px 6px; text-align: left; }
    th { background: #f0f0f0; }
    tr:nth-child(even) td { background: #fafafa; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">Generated {{formatDate .GeneratedAt "Jan 2, 2006 15:04"}} | {{.Total}} matters, {{.OpenCount}} open</div>
  <table>
    <thead>
      <tr>
        <th>Ref</th>
        <th>Date Received</th>
        <th>Group Entity</th>
        <th>Counterparty</th>
        <th>Contract Name</th>
        <th>Stage</th>
        <th>Overall Status</th>
        <th>Owner</th>
      </tr>
    </thead>
    <tbody>
      {{range .Matters}}
      <tr>
        <td>{{.Ref}}</td>
        <td>{{.DateReceived}}</td>
        <td>{{.GroupEntity}}</td>
        <td>{{.Counterparty}}</td>
        <td>{{.ContractName}}</td>
        <td>{{.Stage}}</td>
        <td>{{.OverallStatus}}</td>
        <td>{{.Owner}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
</body>
</html>`
