package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/longkey1/notionquery/internal/notion"
	"github.com/longkey1/notionquery/internal/notionquery"
	"github.com/longkey1/notionquery/internal/notionquery/schemafile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type queryOptions struct {
	schemaPath   string
	database     string
	databaseName string
	body         string
	all          bool
	format       string
}

var queryOpts = &queryOptions{}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a database against a schema file",
	Long: `Query a Notion database and print one flattened record per row.

The schema file is YAML:

  database: <database id>        # or database_name: GuidePost
  properties:
    Name:      {type: title, key: true}
    Country:   {type: relation, fetch_related: true}
    Tags:      {type: multi_select}
    CreatedBy: {type: created_by, include: [name, email]}

--query takes a JSON object merged into the request body, e.g.
'{"filter": {"property": "Tags", "multi_select": {"contains": "x"}}}'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.Context(), queryOpts)
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryOpts.schemaPath, "schema", "s", "", "Schema file (YAML)")
	queryCmd.Flags().StringVarP(&queryOpts.database, "database", "d", "", "Database ID or URL (overrides the schema file)")
	queryCmd.Flags().StringVar(&queryOpts.databaseName, "database-name", "", "Find the database by name among inline databases of top-level pages")
	queryCmd.Flags().StringVarP(&queryOpts.body, "query", "q", "", "JSON object merged into the query request body")
	queryCmd.Flags().BoolVar(&queryOpts.all, "all", false, "Follow cursors and return every row")
	queryCmd.Flags().StringVarP(&queryOpts.format, "format", "f", "json", "Output format: json, text, table")
	_ = queryCmd.MarkFlagRequired("schema")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(ctx context.Context, opts *queryOptions) error {
	format, err := notionquery.ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	file, err := schemafile.Load(opts.schemaPath)
	if err != nil {
		return err
	}

	var extra map[string]any
	if opts.body != "" {
		if err := json.Unmarshal([]byte(opts.body), &extra); err != nil {
			return fmt.Errorf("failed to parse --query: %w", err)
		}
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	databaseID, err := resolveDatabaseID(ctx, engine, file, opts)
	if err != nil {
		return err
	}

	db, err := file.Schema(databaseID)
	if err != nil {
		return err
	}

	var rows []notionquery.Row
	if opts.all {
		rows, err = engine.QueryDatabaseAll(ctx, db, extra)
	} else {
		rows, err = engine.QueryDatabase(ctx, db, extra)
	}
	if err != nil {
		return err
	}

	return notionquery.NewFormatter(format, os.Stdout).FormatRows(rows, db)
}

// resolveDatabaseID picks the database from flags first, then the schema file.
// An explicit ID always wins over a name.
func resolveDatabaseID(ctx context.Context, engine *notionquery.Engine, file *schemafile.File, opts *queryOptions) (string, error) {
	id := opts.database
	if id == "" && opts.databaseName == "" {
		id = file.Database
	}
	if id != "" {
		return notion.NormalizeID(id)
	}

	name := opts.databaseName
	if name == "" {
		name = file.DatabaseName
	}
	if name == "" {
		return "", fmt.Errorf("no database given: set database or database_name in the schema file, or use --database/--database-name")
	}

	found, err := engine.FindInlineDatabase(ctx, name)
	if err != nil {
		return "", err
	}
	logger.Info("resolved database by name", zap.String("name", name), zap.String("database_id", found.DatabaseID))
	return found.DatabaseID, nil
}
