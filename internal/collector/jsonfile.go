package collector

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// readJSONFile decodes a JSON document from path into v. The files are
// written by other tools and sometimes edited by hand, so comments and
// trailing commas are stripped before decoding.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
