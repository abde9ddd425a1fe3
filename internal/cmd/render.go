package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/renato0307/shellbox/internal/theme"
)

// renderTable aligns rows with tabwriter and styles the header line.
// Cells must be plain text; escape codes would break the alignment.
func renderTable(headers []string, rows [][]string) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	lines[0] = theme.HeaderStyle.Render(lines[0])
	return strings.Join(lines, "\n")
}
