package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/petprogress/perfbench/internal/webapi"
	"github.com/petprogress/perfbench/internal/webserver"
	"github.com/spf13/cobra"
)

var (
	serveProjectPath string
	serveConfigPath  string
	serveResultsDir  string
	servePort        int
	serveNoBrowser   bool
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Browse saved runs in a local dashboard",
		Long: `Start a local HTTP server over the results directory.

The index page lists every saved run with links to its HTML report. The same
data is available as JSON:

  GET /api/summary                 totals across all runs
  GET /api/runs                    runs (?sort=timestamp|duration|success_rate|name&order=asc|desc)
  GET /api/runs/{id}               one run with per-probe tiers ({id} may be "latest")
  GET /api/runs/{id}/compare       comparison with ?baseline={id} or the previous run
  GET /metrics                     the newest run in Prometheus format

The server binds to 127.0.0.1 only.`,
		Args: cobra.NoArgs,
		RunE: serveCommandE,
	}

	cmd.Flags().StringVar(&serveProjectPath, "project-path", ".", "Path to the project")
	cmd.Flags().StringVar(&serveConfigPath, "config", "", "Config file (default: nearest .perfbench.yaml)")
	cmd.Flags().StringVar(&serveResultsDir, "results-dir", "", "Results directory (default: from config)")
	cmd.Flags().IntVar(&servePort, "port", 3000, "Port to listen on")
	cmd.Flags().BoolVar(&serveNoBrowser, "no-browser", false, "Do not open a browser")

	return cmd
}

func serveCommandE(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProjectConfig(serveProjectPath, serveConfigPath)
	if err != nil {
		return err
	}
	builder, err := newSummaryBuilder(cfg)
	if err != nil {
		return err
	}

	resultsDir := cfg.Paths.Results
	if serveResultsDir != "" {
		resultsDir = serveResultsDir
	}

	webapi.Version = version
	srv, err := webserver.New(webserver.Config{
		Port:       servePort,
		ResultsDir: resolveResultsDir(serveProjectPath, resultsDir),
		NoBrowser:  serveNoBrowser,
		Classifier: builder.Classifier(),
		Out:        cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
