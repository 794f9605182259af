package params

import (
	"fmt"
	"strings"
)

// ParseKeyValuePairs converts a slice of "key=value" strings into a map.
//
// Example:
//
//	params, err := ParseKeyValuePairs([]string{"environment=prod", "schema=vault"})
//	// Returns: map[string]string{"environment": "prod", "schema": "vault"}
func ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid parameter %q, empty key", pair)
		}

		result[key] = strings.TrimSpace(value)
	}

	return result, nil
}
