package handlers

import "regexp"

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// parseMentions extracts the distinct usernames mentioned as @username in
// text, in order of first appearance.
func parseMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	usernames := make([]string, 0, len(matches))
	for _, m := range matches {
		username := m[1]
		if seen[username] {
			continue
		}
		seen[username] = true
		usernames = append(usernames, username)
	}
	return usernames
}
