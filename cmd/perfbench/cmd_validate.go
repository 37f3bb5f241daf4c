package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/petprogress/perfbench/internal/projectconfig"
	"github.com/petprogress/perfbench/internal/validation"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config]",
		Short: "Validate a .perfbench.yaml file",
		Long: `Validate a project configuration against the perfbench JSON schema, then
check that thresholds ascend, report formats are known and every probe can
be built.

Without an argument the nearest .perfbench.yaml above the current directory
is validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: validateCommandE,
	}
	return cmd
}

func validateCommandE(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		found, err := projectconfig.Find(".")
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no %s found; run \"perfbench init\" to create one", projectconfig.FileName)
		}
		if err != nil {
			return err
		}
		path = found
	}

	errs, err := validation.ValidateConfigFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(errs) == 0 {
		fmt.Fprintf(out, "✅ %s is valid\n", path) //nolint:errcheck
		return nil
	}
	fmt.Fprintf(out, "❌ %s has %d problem(s):\n", path, len(errs)) //nolint:errcheck
	for _, e := range errs {
		fmt.Fprintf(out, "  - %s\n", e) //nolint:errcheck
	}
	return fmt.Errorf("%s failed validation", path)
}
