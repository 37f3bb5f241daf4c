package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/petprogress/perfbench/internal/models"
)

// WriteJSON writes the full suite as indented JSON.
func WriteJSON(w io.Writer, suite *models.Suite) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(suite); err != nil {
		return fmt.Errorf("encoding suite: %w", err)
	}
	return nil
}

// LoadSuite reads a suite previously written by WriteJSON.
func LoadSuite(path string) (*models.Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}

	var suite models.Suite
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	return &suite, nil
}
