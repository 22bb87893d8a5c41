package report

import (
	"sort"

	"github.com/JosiahBull/dexy/pkg/models"
	"gopkg.in/yaml.v3"
)

// marshalYAML relies on yaml.v3 sorting map keys
func marshalYAML(index *models.HashIndex) ([]byte, error) {
	return yaml.Marshal(index.Groups())
}

func sortedKeys(groups map[string][]*models.HashRecord) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
