package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/petprogress/perfbench/internal/projectconfig"
	"github.com/petprogress/perfbench/internal/wizard"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	initForce       bool
	initInteractive bool
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a .perfbench.yaml project configuration",
		Long: `Write a .perfbench.yaml with the default suite settings, thresholds and
report formats.

On a terminal an interactive form asks for the suite name, device, OS
version, results directory, memory source and report formats.`,
		Args: cobra.MaximumNArgs(1),
		RunE: initCommandE,
	}

	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration")
	cmd.Flags().BoolVar(&initInteractive, "interactive", false, "Ask for settings even when stdin is not a terminal")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, projectconfig.FileName)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	cfg := projectconfig.New()

	// Check TTY from the command's input stream, not os.Stdin directly.
	isTTY := false
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	if isTTY || initInteractive {
		answered, err := wizard.RunInitWizard(cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
		if err != nil {
			return err
		}
		cfg = answered
	}

	content, err := wizard.GenerateConfigYAML(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Created %s\n", path) //nolint:errcheck
	return nil
}
