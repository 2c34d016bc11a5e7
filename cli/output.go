// cli/output.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-xpload/payloaddb"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func validateOutput(format string) error {
	switch format {
	case outputJSON, outputTable:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: use %s or %s", format, outputJSON, outputTable)
	}
}

// printEntries writes "Found N entries" followed by the entries. Nothing is written for an empty list.
func printEntries(w io.Writer, entries []payloaddb.Entry, format string) error {
	if len(entries) == 0 {
		return nil
	}

	fmt.Fprintf(w, "Found %d entries\n", len(entries))

	if format == outputTable {
		renderTable(w, entries)
		return nil
	}

	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func renderTable(w io.Writer, entries []payloaddb.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "Name", "Global Tag", "Payload Type", "Payload URL", "Payload List", "Major IOV", "Minor IOV"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID,
			e.Name,
			cell(e.GlobalTag),
			cell(e.PayloadType),
			e.PayloadURL,
			cell(e.PayloadList),
			cell(e.MajorIOV),
			cell(e.MinorIOV),
		})
	}
	t.Render()
}

// cell renders a column the server may have omitted.
func cell(v any) any {
	if v == nil {
		return ""
	}
	return v
}
