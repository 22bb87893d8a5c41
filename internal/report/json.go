package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JosiahBull/dexy/pkg/models"
	"gopkg.in/yaml.v3"
)

// Marshal encodes the index as a mapping from hash to its records. Keys are
// emitted in sorted order, so a fixed index always produces the same bytes.
// JSON output is compact.
func Marshal(index *models.HashIndex, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return marshalJSON(index, false)
	case "yaml":
		return marshalYAML(index)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// marshalJSON relies on encoding/json sorting map keys
func marshalJSON(index *models.HashIndex, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(index.Groups(), "", "  ")
	}
	return json.Marshal(index.Groups())
}

// Load reads an index written by Generate back into memory. The format is
// taken from the file extension; anything other than .yaml or .yml is read
// as JSON.
func Load(path string) (*models.HashIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	groups := make(map[string][]*models.HashRecord)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &groups)
	default:
		err = json.Unmarshal(data, &groups)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse index %s: %w", path, err)
	}

	index := models.NewHashIndex()
	for _, hash := range sortedKeys(groups) {
		for _, record := range groups[hash] {
			if record == nil {
				return nil, fmt.Errorf("index %s: null record under %s", path, hash)
			}
			if record.Hash != hash {
				return nil, fmt.Errorf("index %s: record %s has hash %s but is stored under %s",
					path, record.Path, record.Hash, hash)
			}
			index.Add(record)
		}
	}

	return index, nil
}
