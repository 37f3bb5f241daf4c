package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/petprogress/perfbench/internal/catalog"
	"github.com/petprogress/perfbench/internal/orchestration"
	"github.com/spf13/cobra"
)

var (
	probesProjectPath string
	probesConfigPath  string
	probesFilters     []string
	probesJSON        bool
)

func newProbesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probes",
		Short: "List the probes a run would execute",
		Long: `List the effective probe catalog in run order: the built-in probes with
the overrides from .perfbench.yaml applied.`,
		Args: cobra.NoArgs,
		RunE: probesCommandE,
	}

	cmd.Flags().StringVar(&probesProjectPath, "project-path", ".", "Path to the project")
	cmd.Flags().StringVar(&probesConfigPath, "config", "", "Config file (default: nearest .perfbench.yaml)")
	cmd.Flags().StringArrayVar(&probesFilters, "filter", nil, "Only list probes whose name or category matches this glob (can be repeated)")
	cmd.Flags().BoolVar(&probesJSON, "json", false, "Print the catalog as JSON")

	return cmd
}

type probeRow struct {
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Kind     string         `json:"kind"`
	Params   map[string]any `json:"params,omitempty"`
}

func probesCommandE(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProjectConfig(probesProjectPath, probesConfigPath)
	if err != nil {
		return err
	}
	probes, err := effectiveProbes(cfg)
	if err != nil {
		return err
	}
	probes, err = orchestration.FilterProbes(catalog.Ordered(probes), probesFilters)
	if err != nil {
		return err
	}

	rows := make([]probeRow, len(probes))
	for i, p := range probes {
		rows[i] = probeRow{Name: p.Name, Category: string(p.Category), Kind: string(p.Kind), Params: p.Params}
	}

	out := cmd.OutOrStdout()
	if probesJSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal probe catalog: %w", err)
		}
		fmt.Fprintln(out, string(data)) //nolint:errcheck
		return nil
	}
	printProbeTable(out, rows)
	return nil
}

// printProbeTable writes the catalog as an aligned table.
//
//nolint:errcheck
func printProbeTable(w io.Writer, rows []probeRow) {
	nameWidth := len("Probe")
	for _, r := range rows {
		nameWidth = max(nameWidth, len(r.Name))
	}

	fmt.Fprintf(w, "%s  %s  %s  %s\n", padRight("Probe", nameWidth), padRight("Category", 8), padRight("Kind", 5), "Params")
	fmt.Fprintln(w, strings.Repeat("─", nameWidth+8+5+6+8))
	for _, r := range rows {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			padRight(r.Name, nameWidth), padRight(r.Category, 8), padRight(r.Kind, 5), formatParams(r.Params))
	}
	fmt.Fprintf(w, "\n%d probe(s)\n", len(rows))
}

// formatParams renders params as sorted key=value pairs.
func formatParams(params map[string]any) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}
