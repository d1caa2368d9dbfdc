package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pmsched/app"
	"github.com/kilianp07/pmsched/auth"
	"github.com/kilianp07/pmsched/config"
	coremon "github.com/kilianp07/pmsched/core/monitoring"
	"github.com/kilianp07/pmsched/infra/logger"
	"github.com/kilianp07/pmsched/infra/monitoring"
	"github.com/kilianp07/pmsched/infra/source"
	"github.com/kilianp07/pmsched/pkg/export"
)

// Output formats.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

var (
	cfgPath      string
	outputFormat string
	projectFile  string
	activities   string
	dependencies string
	projectURL   string
)

var rootCmd = &cobra.Command{
	Use:   "pmsched",
	Short: "Critical path, PERT, resource and earned value analysis for project networks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != formatJSON && outputFormat != formatCSV {
			return fmt.Errorf("unknown output format %q", outputFormat)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	pf.StringVarP(&outputFormat, "output", "o", formatJSON, "output format: json or csv")
	pf.StringVarP(&projectFile, "file", "f", "", "YAML project file")
	pf.StringVar(&activities, "activities", "", "activities CSV table")
	pf.StringVar(&dependencies, "dependencies", "", "dependencies CSV table")
	pf.StringVar(&projectURL, "url", "", "YAML project served over HTTP")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration file, or the environment when no file
// is given, applies the command line input overrides and configures logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	switch {
	case projectFile != "":
		cfg.Project.File, cfg.Project.Activities, cfg.Project.Dependencies, cfg.Project.URL = projectFile, "", "", ""
	case activities != "" || dependencies != "":
		cfg.Project.File, cfg.Project.Activities, cfg.Project.Dependencies, cfg.Project.URL = "", activities, dependencies, ""
	case projectURL != "":
		cfg.Project.File, cfg.Project.Activities, cfg.Project.Dependencies, cfg.Project.URL = "", "", "", projectURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetOutput(cmd.ErrOrStderr())
	if err := logger.Configure(cfg.Logging.Options()); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, nil
}

// analyze loads the project named by cfg and runs the full pipeline.
func analyze(ctx context.Context, cfg *config.Config, opts ...app.Option) (*app.Report, error) {
	var (
		p   *source.Project
		err error
	)
	if cfg.Project.URL != "" {
		client := auth.NewClientCred(cfg.Project.Auth).HTTPClient()
		p, err = source.Fetch(ctx, client, cfg.Project.URL, cfg.Project.NoPredecessorToken)
	} else {
		p, err = source.Load(cfg.Project.Files())
	}
	if err != nil {
		return nil, err
	}
	if cfg.Project.Name != "" {
		p.Name = cfg.Project.Name
	}
	return app.NewAnalyzer(cfg.Analysis, opts...).Analyze(ctx, p)
}

// runSection is the shared body of the single-section commands: view
// extracts the JSON value and the CSV tables from the report.
func runSection(cmd *cobra.Command, view func(*app.Report) (any, []export.Table, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyAnalysisFlags(cmd, cfg); err != nil {
		return err
	}
	mon, flush, err := newMonitor(cfg)
	if err != nil {
		return err
	}
	defer flush()
	rep, err := analyze(ctx, cfg, app.WithMonitor(mon))
	if err != nil {
		return err
	}
	v, tables, err := view(rep)
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), v, tables)
}

// newMonitor creates the error tracker and its flush func.
func newMonitor(cfg *config.Config) (coremon.Monitor, func(), error) {
	mon, err := monitoring.NewSentryMonitor(cfg.Monitoring.Sentry)
	if err != nil {
		return nil, nil, fmt.Errorf("sentry: %w", err)
	}
	return mon, func() { mon.Flush(2 * time.Second) }, nil
}

func write(w io.Writer, v any, tables []export.Table) error {
	if outputFormat == formatCSV {
		return export.WriteTables(w, tables...)
	}
	return export.WriteJSON(w, v)
}
