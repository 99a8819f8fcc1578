package validators

import "strings"

// SanitizeString trims surrounding whitespace.
func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}
