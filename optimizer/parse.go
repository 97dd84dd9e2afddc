package optimizer

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonArrayBlock = regexp.MustCompile(`\[[\s\S]*\]`)
	enumPrefix     = regexp.MustCompile(`^\d+\.\s*`)
	dashPrefix     = regexp.MustCompile(`^-\s*`)
)

// parseList extracts a string list from a free-text model answer. The tasks
// that request array-shaped output usually return a JSON array, possibly
// wrapped in prose or markdown fences; when no parsable array is found, fall
// back to splitting lines and stripping enumeration prefixes. This is a
// local recovery, not a capability failure.
func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)

	if block := jsonArrayBlock.FindString(raw); block != "" {
		var items []string
		if err := json.Unmarshal([]byte(block), &items); err == nil {
			return items
		}
	}

	var items []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = enumPrefix.ReplaceAllString(line, "")
		line = dashPrefix.ReplaceAllString(line, "")
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items
}
