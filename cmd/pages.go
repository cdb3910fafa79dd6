package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/longkey1/notionquery/internal/notionquery"
	"github.com/spf13/cobra"
)

type pagesOptions struct {
	format string
	all    bool
}

var pagesOpts = &pagesOptions{}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List top-level Notion pages",
	Long: `List the pages shared with the integration whose parent is the workspace
or a page the integration cannot access. Use --all to list every shared page.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPages(cmd.Context(), pagesOpts)
	},
}

func init() {
	pagesCmd.Flags().StringVarP(&pagesOpts.format, "format", "f", "table", "Output format: json, text, table")
	pagesCmd.Flags().BoolVar(&pagesOpts.all, "all", false, "List every shared page, not only top-level pages")

	rootCmd.AddCommand(pagesCmd)
}

func runPages(ctx context.Context, opts *pagesOptions) error {
	format, err := notionquery.ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	var pages []notionquery.TopLevelPage
	if opts.all {
		all, err := engine.ListAllPages(ctx)
		if err != nil {
			return err
		}
		for i := range all {
			pages = append(pages, notionquery.SummarizePage(&all[i]))
		}
	} else {
		pages, err = engine.ListTopLevelPages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list pages: %w", err)
		}
	}

	return notionquery.NewFormatter(format, os.Stdout).FormatTopLevelPages(pages)
}
