package wizard

import (
	"testing"

	"github.com/petprogress/perfbench/internal/projectconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAnswersFrom_Defaults(t *testing.T) {
	a := AnswersFrom(projectconfig.New())

	assert.Equal(t, projectconfig.DefaultSuiteName, a.SuiteName)
	assert.Equal(t, projectconfig.DefaultDevice, a.Device)
	assert.Equal(t, projectconfig.DefaultOSVersion, a.OSVersion)
	assert.Equal(t, projectconfig.DefaultResultsDir, a.ResultsDir)
	assert.Equal(t, "rss", a.MemorySource)
	assert.Equal(t, "json, csv, html, markdown", a.Formats)
}

func TestApply_OverlaysAnswers(t *testing.T) {
	base := projectconfig.New()

	cfg, err := Apply(base, Answers{
		SuiteName:    "  Nightly  ",
		Device:       "Pixel 8",
		OSVersion:    "14",
		ResultsDir:   "out",
		MemorySource: "runtime",
		Formats:      "json, md, json, junit",
	})
	require.NoError(t, err)

	assert.Equal(t, "Nightly", cfg.Suite.Name)
	assert.Equal(t, "Pixel 8", cfg.Suite.Device)
	assert.Equal(t, "14", cfg.Suite.OSVersion)
	assert.Equal(t, "out", cfg.Paths.Results)
	assert.Equal(t, "runtime", cfg.Memory.Source)
	assert.Equal(t, []string{"json", "markdown", "junit"}, cfg.Reports.Formats)

	// base is untouched
	assert.Equal(t, projectconfig.DefaultSuiteName, base.Suite.Name)
	assert.Equal(t, []string{"json", "csv", "html", "markdown"}, base.Reports.Formats)
}

func TestApply_BlankAnswersKeepBase(t *testing.T) {
	base := projectconfig.New()

	cfg, err := Apply(base, Answers{})
	require.NoError(t, err)
	assert.Equal(t, base.Suite, cfg.Suite)
	assert.Equal(t, base.Reports.Formats, cfg.Reports.Formats)
}

func TestApply_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		answers Answers
		wantErr string
	}{
		{"memory source", Answers{MemorySource: "heap"}, "unknown memory source"},
		{"format", Answers{Formats: "json, pdf"}, "unknown report format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(projectconfig.New(), tt.answers)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateConfigYAML(t *testing.T) {
	cfg := projectconfig.New()
	cfg.Suite.Device = "Pixel 8"

	result, err := GenerateConfigYAML(cfg)
	require.NoError(t, err)

	assert.Contains(t, result, "# perfbench project configuration for MyTaskList Performance Suite")
	assert.Contains(t, result, "# Device: Pixel 8 (OS 17.0)")
	assert.Contains(t, result, "perfbench validate .perfbench.yaml")

	var decoded projectconfig.ProjectConfig
	require.NoError(t, yaml.Unmarshal([]byte(result), &decoded))
	assert.Equal(t, "Pixel 8", decoded.Suite.Device)
	assert.Equal(t, cfg.Thresholds, decoded.Thresholds)
	assert.Equal(t, cfg.Reports.Formats, decoded.Reports.Formats)
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single", "json", []string{"json"}},
		{"multiple", "json, csv, html", []string{"json", "csv", "html"}},
		{"with blanks", "a,, b, ,c", []string{"a", "b", "c"}},
		{"whitespace only", "  ,  ,  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRequired(t *testing.T) {
	check := required("device")
	assert.NoError(t, check("Pixel"))
	assert.EqualError(t, check("   "), "device is required")
}
