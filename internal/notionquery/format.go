package notionquery

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/longkey1/notionquery/internal/notionquery/schema"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
)

// ParseOutputFormat validates an output format name
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatJSON, FormatText, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Formatter handles output formatting
type Formatter struct {
	format OutputFormat
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(format OutputFormat, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// FormatRows formats decoded rows. Key properties come first, then the
// remaining fields in name order.
func (f *Formatter) FormatRows(rows []Row, db *schema.Database) error {
	if f.format == FormatJSON {
		if rows == nil {
			rows = []Row{}
		}
		return f.formatJSON(rows)
	}

	columns := columnOrder(db)

	if f.format == FormatText {
		for i, row := range rows {
			if i > 0 {
				fmt.Fprintln(f.writer, "---")
			}
			fmt.Fprintf(f.writer, "pageId: %s\n", row.PageID)
			for _, name := range columns {
				fmt.Fprintf(f.writer, "  %s: %s\n", name, FormatValue(row.Fields[name]))
			}
		}
		return nil
	}

	table := f.newTable(append([]string{"pageId"}, columns...))
	for _, row := range rows {
		cells := []string{row.PageID}
		for _, name := range columns {
			cells = append(cells, FormatValue(row.Fields[name]))
		}
		table.Append(cells)
	}
	table.Render()
	return nil
}

// FormatTopLevelPages formats the result of ListTopLevelPages
func (f *Formatter) FormatTopLevelPages(pages []TopLevelPage) error {
	switch f.format {
	case FormatJSON:
		if pages == nil {
			pages = []TopLevelPage{}
		}
		return f.formatJSON(pages)
	case FormatText:
		for _, page := range pages {
			fmt.Fprintf(f.writer, "%s\n  ID: %s\n  Parent: %s\n", untitled(page.PageName), page.PageID, page.PageParent.Type)
		}
		return nil
	default:
		table := f.newTable([]string{"Title", "ID", "Parent"})
		for _, page := range pages {
			table.Append([]string{truncate(untitled(page.PageName), 50), page.PageID, page.PageParent.Type})
		}
		table.Render()
		return nil
	}
}

// FormatInlineDatabases formats the result of ListInlineDatabases
func (f *Formatter) FormatInlineDatabases(databases []InlineDatabase) error {
	switch f.format {
	case FormatJSON:
		if databases == nil {
			databases = []InlineDatabase{}
		}
		return f.formatJSON(databases)
	case FormatText:
		for _, db := range databases {
			fmt.Fprintf(f.writer, "%s\n  ID: %s\n", untitled(db.DatabaseName), db.DatabaseID)
		}
		return nil
	default:
		table := f.newTable([]string{"Name", "ID"})
		for _, db := range databases {
			table.Append([]string{truncate(untitled(db.DatabaseName), 50), db.DatabaseID})
		}
		table.Render()
		return nil
	}
}

// FormatValue renders a decoded field value as a single line
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "✓"
		}
		return "✗"
	case []string:
		return strings.Join(val, ", ")
	case []RelatedPage:
		parts := make([]string, 0, len(val))
		for _, rel := range val {
			if rel.Title != nil {
				parts = append(parts, *rel.Title)
			} else {
				parts = append(parts, rel.ID)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+FormatValue(val[k]))
		}
		return strings.Join(parts, " ")
	case json.RawMessage:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// formatJSON outputs as JSON
func (f *Formatter) formatJSON(v interface{}) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *Formatter) newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(f.writer)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func columnOrder(db *schema.Database) []string {
	keys := db.Keys()
	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	columns := append([]string(nil), keys...)
	for _, name := range db.Names() {
		if !isKey[name] {
			columns = append(columns, name)
		}
	}
	return columns
}

func untitled(s string) string {
	if s == "" {
		return "(Untitled)"
	}
	return s
}

// truncate shortens long titles for table cells
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
