package util

import (
	"encoding/json"
	"os"
)

// PrintPrettyJSON writes v to stdout as indented JSON, for the
// machine-readable output mode of commands.
func PrintPrettyJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
