// Package table renders tabular CLI output.
package table

import "github.com/pterm/pterm"

// PrintTableNoPad renders rows as a plain table without boxing.
func PrintTableNoPad(data pterm.TableData, hasHeader bool) {
	t := pterm.DefaultTable.WithData(data)
	if hasHeader {
		t = t.WithHasHeader()
	}
	_ = t.Render()
}
