package ux

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table is column-aligned text output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Footer lines are printed after the rows.
	Footer []string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// Add appends a row. Values are formatted with %v.
func (t *Table) Add(values ...interface{}) *Table {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	t.Rows = append(t.Rows, row)
	return t
}

// Write renders the table.
func (t *Table) Write(w io.Writer) error {
	if t == nil {
		return nil
	}
	if t.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", t.Title); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, line := range t.Footer {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// KeyValues builds a two-column table without headers.
func KeyValues(title string, pairs ...string) *Table {
	t := &Table{Title: title}
	for i := 0; i+1 < len(pairs); i += 2 {
		t.Rows = append(t.Rows, []string{pairs[i] + ":", pairs[i+1]})
	}
	return t
}
