package actors

import (
	"regexp"
	"strings"
)

// mentionPattern matches @handle tokens. Handles are letters, digits and
// underscores; anything else terminates the token.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ExtractMentions returns the distinct handles mentioned in content, in
// first-appearance order. Dedup is case-insensitive and keeps the casing of
// the first occurrence.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	handles := make([]string, 0, len(matches))
	for _, match := range matches {
		key := strings.ToLower(match[1])
		if seen[key] {
			continue
		}
		seen[key] = true
		handles = append(handles, match[1])
	}
	return handles
}
