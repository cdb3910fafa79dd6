package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/longkey1/notionquery/internal/notion"
	"github.com/longkey1/notionquery/internal/notionquery"
	"github.com/spf13/cobra"
)

type databasesOptions struct {
	format string
}

var databasesOpts = &databasesOptions{}

var databasesCmd = &cobra.Command{
	Use:   "databases [page_id]",
	Short: "List inline databases",
	Long: `List the databases embedded in a page, given by ID or URL. Without a page,
the inline databases of every top-level page are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var page string
		if len(args) > 0 {
			page = args[0]
		}
		return runDatabases(cmd.Context(), page, databasesOpts)
	},
}

func init() {
	databasesCmd.Flags().StringVarP(&databasesOpts.format, "format", "f", "table", "Output format: json, text, table")

	rootCmd.AddCommand(databasesCmd)
}

func runDatabases(ctx context.Context, pageIDOrURL string, opts *databasesOptions) error {
	format, err := notionquery.ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	var pageIDs []string
	if pageIDOrURL != "" {
		pageID, err := notion.NormalizeID(pageIDOrURL)
		if err != nil {
			return err
		}
		pageIDs = append(pageIDs, pageID)
	} else {
		pages, err := engine.ListTopLevelPages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list pages: %w", err)
		}
		for _, page := range pages {
			pageIDs = append(pageIDs, page.PageID)
		}
	}

	var databases []notionquery.InlineDatabase
	for _, pageID := range pageIDs {
		dbs, err := engine.ListInlineDatabases(ctx, pageID)
		if err != nil {
			return err
		}
		databases = append(databases, dbs...)
	}

	return notionquery.NewFormatter(format, os.Stdout).FormatInlineDatabases(databases)
}
