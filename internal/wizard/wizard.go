package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"github.com/petprogress/perfbench/internal/probe"
	"github.com/petprogress/perfbench/internal/projectconfig"
	"github.com/petprogress/perfbench/internal/reporting"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Answers holds all fields collected during the interactive wizard.
type Answers struct {
	SuiteName    string
	Device       string
	OSVersion    string
	ResultsDir   string
	MemorySource string
	Formats      string
}

// AnswersFrom pre-populates the wizard from an existing configuration.
func AnswersFrom(cfg *projectconfig.ProjectConfig) Answers {
	return Answers{
		SuiteName:    cfg.Suite.Name,
		Device:       cfg.Suite.Device,
		OSVersion:    cfg.Suite.OSVersion,
		ResultsDir:   cfg.Paths.Results,
		MemorySource: cfg.Memory.Source,
		Formats:      strings.Join(cfg.Reports.Formats, ", "),
	}
}

const configHeaderTemplate = `# perfbench project configuration for {{ .Suite.Name }}
# Device: {{ .Suite.Device }} (OS {{ .Suite.OSVersion }})
# Validate with: perfbench validate {{ .File }}
`

// RunInitWizard runs an interactive huh form that collects the suite
// settings, starting from defaults.
func RunInitWizard(in io.Reader, out io.Writer, defaults *projectconfig.ProjectConfig) (*projectconfig.ProjectConfig, error) {
	a := AnswersFrom(defaults)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Suite name").
				Value(&a.SuiteName).
				Validate(required("suite name")),
			huh.NewInput().
				Title("Device").
				Description("Device label stamped on every report").
				Value(&a.Device).
				Validate(required("device")),
			huh.NewInput().
				Title("OS version").
				Value(&a.OSVersion).
				Validate(required("OS version")),
			huh.NewInput().
				Title("Results directory").
				Value(&a.ResultsDir).
				Validate(required("results directory")),
			huh.NewSelect[string]().
				Title("Memory source").
				Options(
					huh.NewOption("rss (process resident set)", "rss"),
					huh.NewOption("runtime (Go heap)", "runtime"),
					huh.NewOption("synthetic (placeholder)", "synthetic"),
				).
				Value(&a.MemorySource),
			huh.NewInput().
				Title("Report formats").
				Description("Comma-separated: json, csv, markdown, html, junit, prometheus").
				Value(&a.Formats).
				Validate(func(s string) error {
					_, err := reporting.ParseFormats(splitAndTrim(s))
					return err
				}),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return Apply(defaults, a)
}

// Apply overlays wizard answers onto a copy of base.
func Apply(base *projectconfig.ProjectConfig, a Answers) (*projectconfig.ProjectConfig, error) {
	cfg := *base
	cfg.Path = ""

	if v := strings.TrimSpace(a.SuiteName); v != "" {
		cfg.Suite.Name = v
	}
	if v := strings.TrimSpace(a.Device); v != "" {
		cfg.Suite.Device = v
	}
	if v := strings.TrimSpace(a.OSVersion); v != "" {
		cfg.Suite.OSVersion = v
	}
	if v := strings.TrimSpace(a.ResultsDir); v != "" {
		cfg.Paths.Results = v
	}
	if v := strings.TrimSpace(a.MemorySource); v != "" {
		if _, err := probe.NewSampler(v); err != nil {
			return nil, err
		}
		cfg.Memory.Source = v
	}
	if formats := splitAndTrim(a.Formats); len(formats) > 0 {
		parsed, err := reporting.ParseFormats(formats)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(parsed))
		for i, f := range parsed {
			names[i] = string(f)
		}
		cfg.Reports.Formats = names
	}
	return &cfg, nil
}

// GenerateConfigYAML renders cfg as a commented .perfbench.yaml document.
func GenerateConfigYAML(cfg *projectconfig.ProjectConfig) (string, error) {
	tmpl, err := template.New("header").Parse(configHeaderTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	data := struct {
		*projectconfig.ProjectConfig
		File string
	}{cfg, projectconfig.FileName}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	buf.Write(body)
	return buf.String(), nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
