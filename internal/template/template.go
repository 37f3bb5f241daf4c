// Package template renders the {{.Field}} expressions allowed in hook
// commands and exports the same values as PERFBENCH_* environment variables.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Context holds all variables available for template resolution. Run
// fields are empty until the suite has finished.
type Context struct {
	SuiteName  string
	Device     string
	OSVersion  string
	ResultsDir string

	RunID     string
	SuiteFile string
	Timestamp string
}

// Render resolves template expressions in the given string.
// Uses Go's text/template syntax: {{.RunID}}, {{.ResultsDir}}.
// Returns the input unchanged if it contains no template delimiters.
func Render(tmpl string, ctx *Context) (string, error) {
	// Fast path: no template delimiters means no work to do.
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("template: parse: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}

	return buf.String(), nil
}

// Environ returns the non-empty fields as KEY=value pairs in a fixed order.
func (c *Context) Environ() []string {
	if c == nil {
		return nil
	}
	pairs := []struct{ key, value string }{
		{"PERFBENCH_SUITE_NAME", c.SuiteName},
		{"PERFBENCH_DEVICE", c.Device},
		{"PERFBENCH_OS_VERSION", c.OSVersion},
		{"PERFBENCH_RESULTS_DIR", c.ResultsDir},
		{"PERFBENCH_RUN_ID", c.RunID},
		{"PERFBENCH_SUITE_FILE", c.SuiteFile},
		{"PERFBENCH_TIMESTAMP", c.Timestamp},
	}
	env := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value != "" {
			env = append(env, p.key+"="+p.value)
		}
	}
	return env
}
