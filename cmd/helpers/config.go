package helpers

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ResolveFileRefs returns a copy of params where every value of the form
// "@path" is replaced by the contents of that file, minus one trailing
// newline, so that secrets never have to appear on the command line.
// A leading "@@" stands for a literal "@".
func ResolveFileRefs(params map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(params))
	for key, value := range params {
		switch {
		case strings.HasPrefix(value, "@@"):
			resolved[key] = value[1:]
		case strings.HasPrefix(value, "@"):
			path, err := homedir.Expand(value[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to expand path for param %q: %w", key, err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read file for param %q: %w", key, err)
			}
			resolved[key] = strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
		default:
			resolved[key] = value
		}
	}
	return resolved, nil
}
