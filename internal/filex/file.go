// Package filex provides small file helpers shared by the client and
// server configuration loaders.
package filex

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadJSON reads the file at path and unmarshals it into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
