package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/longkey1/notionquery/internal/notion"
	"github.com/longkey1/notionquery/internal/notionquery"
	"github.com/longkey1/notionquery/internal/notionquery/config"
)

type rootOptions struct {
	logLevel string
}

var rootOpts = &rootOptions{}

var (
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "notionquery",
	Short: "Query Notion databases against a typed schema",
	Long: `notionquery discovers pages and inline databases in a Notion workspace and
queries databases against a declared schema, flattening each row into typed fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpts.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
}

// setup loads the configuration and builds the logger shared by all commands
func setup(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		c.LogLevel = rootOpts.logLevel
	}

	l, err := newLogger(c.LogLevel)
	if err != nil {
		return err
	}

	cfg, logger = c, l
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	// stdout carries command output
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)

	l, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// newEngine creates a query engine from the loaded configuration
func newEngine() (*notionquery.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := notion.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return notionquery.New(client,
		notionquery.WithLogger(logger),
		notionquery.WithRelationConcurrency(cfg.RelationConcurrency),
	), nil
}
