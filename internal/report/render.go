package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Run report: {{.Scenario}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; }
table { border-collapse: collapse; margin: 0.5rem 0 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.6rem; font-size: 0.85rem; text-align: left; }
th { background: #f0f0f0; }
.meta { color: #666; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Run report: {{.Scenario}}</h1>
<p class="meta">{{.RunDir}}</p>
{{range .Branches}}
<h2>Condition: {{.Label}}</h2>
<p class="meta">{{.TranscriptRows}} transcript rows, {{.SpokenRows}} with utterances</p>
{{range .Tables}}
<h3>{{.Source}}</h3>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
{{end}}
{{end}}
</body>
</html>
`))

// Render produces the report HTML for a run summary.
func Render(summary RunSummary) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, summary); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write loads a run directory, renders the report, and writes it into the
// run directory. It returns the report path.
func Write(runDir string) (string, error) {
	summary, err := LoadRun(runDir)
	if err != nil {
		return "", err
	}
	html, err := Render(summary)
	if err != nil {
		return "", err
	}
	path := filepath.Join(summary.RunDir, FileName)
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
