package cli

import (
	"encoding/json"
	"os"

	"github.com/katalvlaran/mwpflow/mwpresult"
)

// writeResultsJSON persists results as an indented JSON array at dest. The
// Result object's own field shape (mwpresult.Result) already carries the
// json struct tags the CLI's -o/--no_save surface relies on; no separate
// wire-format type is needed (spec §6, ambient-stack serialization note).
func writeResultsJSON(dest string, results []mwpresult.Result) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}
