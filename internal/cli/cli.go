package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/buildinfo"
	"github.com/matzehuels/pedigree/pkg/config"
	"github.com/matzehuels/pedigree/pkg/engine"
	"github.com/matzehuels/pedigree/pkg/graph"
	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/observability/prom"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "pedigree"

// Log levels for [New].
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	metricsFile string
	verbose     bool
	registry    *prometheus.Registry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pedigree lays out family trees",
		Long: `Pedigree computes drawing layouts for family pedigrees: generations,
left-to-right order within each generation, and coordinates.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.startMetrics()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "layout config file (.toml, .yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log every relayout stage")
	root.PersistentFlags().StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.newCommand())

	return root
}

// Execute runs root under ctx. Metrics are written on every exit path,
// including a watch stopped by cancellation or a command that failed.
func (c *CLI) Execute(ctx context.Context, root *cobra.Command) (err error) {
	defer func() {
		if ferr := c.flushMetrics(); ferr != nil {
			if err == nil {
				err = ferr
			} else {
				c.Logger.Error("metrics not written", "err", ferr)
			}
		}
	}()
	return root.ExecuteContext(ctx)
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads --config, or returns the defaults when it is unset.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// layoutFile reads a snapshot and lays it out in a fresh session.
func (c *CLI) layoutFile(ctx context.Context, input string) (*engine.Engine, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	g, err := graph.ReadSnapshotFile(input)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", input, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return engine.New(cfg, engine.WithGraph(g), engine.WithLogger(snapshotLogger(ctx, input)))
}

// startMetrics registers the Prometheus hooks when --metrics-file is set.
// The registry lives on c, so each CLI writes its own metrics.
func (c *CLI) startMetrics() {
	if c.metricsFile == "" {
		return
	}
	c.registry = prometheus.NewRegistry()
	m := prom.New(c.registry)
	observability.SetEngineHooks(m)
	observability.SetDocumentHooks(m)
}

func (c *CLI) flushMetrics() error {
	if c.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.metricsFile, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", c.metricsFile, err)
	}
	c.Logger.Debug("metrics written", "path", c.metricsFile)
	return nil
}

// outputPath derives an output file next to input when none was given.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
