package reporting

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/tier"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlShell = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Performance Benchmark Report - {{.Name}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, sans-serif; margin: 40px; }
        h1 { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
             color: white; padding: 30px; border-radius: 12px; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
        th { background: #f5f5f5; font-weight: 600; }
        ul { background: #f8f9fa; padding: 20px 40px; border-radius: 8px; }
    </style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTML renders the Markdown report as a standalone HTML page. Raw HTML
// in probe names or messages is dropped by the renderer.
func RenderHTML(suite *models.Suite, classifier *tier.Classifier) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(suite, classifier)), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	var out bytes.Buffer
	err := htmlShell.Execute(&out, struct {
		Name string
		Body template.HTML
	}{
		Name: suite.Name,
		Body: template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	return out.Bytes(), nil
}
