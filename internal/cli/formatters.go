package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/metoxid/metoxid-cli/pkg/utils"
)

// OutputFormat names how a command prints its result
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// Encode writes data as indented JSON or YAML. Text output is rendered by
// the command itself.
func Encode(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()

	default:
		return fmt.Errorf("cannot encode %q output", format)
	}
}

// Table collects rows and prints them aligned under a ruled header
type Table struct {
	columns []string
	rows    [][]string

	// MaxCell truncates cells of the last column to this many cells; 0 keeps
	// them whole
	MaxCell int
}

// NewTable creates a table with the given column titles
func NewTable(columns ...string) *Table {
	return &Table{columns: columns}
}

// Add appends a row
func (t *Table) Add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows added so far
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, one rule per column and every row to w
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	line := func(cells []string) {
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	rules := make([]string, len(t.columns))
	for i, c := range t.columns {
		rules[i] = strings.Repeat("-", len(c))
	}
	line(t.columns)
	line(rules)

	last := len(t.columns) - 1
	for _, row := range t.rows {
		if t.MaxCell > 0 && last >= 0 && last < len(row) {
			row = append(row[:last:last], TruncateString(row[last], t.MaxCell))
		}
		line(row)
	}
	return tw.Flush()
}

// TruncateString shortens s to maxLen cells, marking the cut with "..."
func TruncateString(s string, maxLen int) string {
	return utils.Truncate(s, maxLen, "...")
}
