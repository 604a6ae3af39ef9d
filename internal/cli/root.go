// Package cli provides the command-line interface for the semantic
// layer: recipe validation, installation, and SQL reference rendering.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/semlayer/internal/discovery"
	"github.com/leapstack-labs/semlayer/internal/install"
	"github.com/leapstack-labs/semlayer/internal/recipe"
	"github.com/leapstack-labs/semlayer/internal/resolve"
	"github.com/leapstack-labs/semlayer/internal/template"
	"github.com/leapstack-labs/semlayer/pkg/core"
	"github.com/leapstack-labs/semlayer/pkg/dialect"
	_ "github.com/leapstack-labs/semlayer/pkg/dialects/bigquery"
	_ "github.com/leapstack-labs/semlayer/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/semlayer/pkg/dialects/postgres"
)

// Version information (set at build time).
var (
	Version = "0.1.0"
)

var (
	recipePath  string
	dialectFlag string
	verbose     bool
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "semlayer",
		Short: "semlayer - semantic layer query engine",
		Long: `semlayer resolves logical model, dimension, and measure references
from a recipe into SQL fragments for a target warehouse.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	bindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newModelsCommand())
	rootCmd.AddCommand(newRenderCommand())

	return rootCmd
}

func bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&recipePath, "recipe", "r", "recipe.yaml", "path to the recipe document")
	fs.StringVar(&dialectFlag, "dialect", "", "target dialect (overrides the recipe)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// project bundles everything a command needs after installation.
type project struct {
	Recipe  *recipe.Recipe
	Dialect dialect.Dialect
	Context *resolve.Context
	Models  []*core.Model
	Logger  *slog.Logger
}

// loadProject loads the recipe, installs its models into a fresh
// resolution context, and returns the assembled project.
func loadProject(cmd *cobra.Command) (*project, error) {
	logger := newLogger()

	r, err := recipe.Load(recipePath)
	if err != nil {
		return nil, err
	}

	dialectName := r.Dialect
	if dialectFlag != "" {
		dialectName = dialectFlag
	}
	if dialectName == "" {
		return nil, fmt.Errorf("no dialect configured: set dialect in the recipe or pass --dialect")
	}
	d, err := dialect.Get(dialectName)
	if err != nil {
		return nil, err
	}

	models := r.ToCore()
	rctx := resolve.NewContext(resolve.Config{
		Auth:     &core.Auth{ProjectID: "cli", UserID: "cli"},
		Dialect:  d,
		Models:   recipe.NewStaticService(models),
		Renderer: template.New(logger),
		Logger:   logger,
	})

	var discoverer core.Discoverer
	if r.DSN != "" && d.DriverName() != "" {
		db, err := discovery.Open(d, r.DSN)
		if err != nil {
			return nil, err
		}
		discoverer = discovery.NewProber(db, d, logger)
	}

	installed, err := install.New(d, discoverer, logger).Install(cmd.Context(), rctx, models)
	if err != nil {
		return nil, err
	}

	return &project{
		Recipe:  r,
		Dialect: d,
		Context: rctx,
		Models:  installed,
		Logger:  logger,
	}, nil
}
