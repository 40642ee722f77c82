package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/pterm/pterm"
)

var outBuf bytes.Buffer

// setupStdoutCapture routes pterm output into outBuf so tests can assert
// on what the user would see. The package-level prefix printers snapshot
// the default writer at init, so they are redirected individually.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.SetDefaultOutput(&outBuf)
	printers := []*pterm.PrefixPrinter{
		&pterm.Info, &pterm.Success, &pterm.Warning, &pterm.Error,
		&pterm.Fatal, &pterm.Debug, &pterm.Description,
	}
	oldWriters := make([]io.Writer, len(printers))
	for i, p := range printers {
		oldWriters[i] = p.Writer
		p.Writer = &outBuf
	}
	pterm.DisableColor()
	t.Cleanup(func() {
		for i, p := range printers {
			p.Writer = oldWriters[i]
		}
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableColor()
	})
}
