package documents

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Fill substitutes {{key}} markers with values from data. Markers without a
// matching key are left in place so a missing field is visible in the output
// rather than silently blanked.
func Fill(content string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		key := strings.TrimSpace(strings.Trim(match, "{}"))
		if value, ok := data[key]; ok {
			return value
		}
		return match
	})
}

// Placeholders lists the distinct marker keys in a template, in order of
// first appearance.
func Placeholders(content string) []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, match := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		key := match[1]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
