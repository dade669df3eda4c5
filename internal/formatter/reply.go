// Package formatter turns collaborator output into the text the bot sends.
package formatter

import "strings"

// Sentinels used when the generator answers with nothing.
const (
	SilentRoleplay = "Uzi is silent..."
	SilentAuto     = "Uzi remains silent..."
)

// Reply returns raw unchanged unless it is empty or whitespace only, in
// which case sentinel is returned instead.
func Reply(raw, sentinel string) string {
	if strings.TrimSpace(raw) == "" {
		return sentinel
	}
	return raw
}

// Truncate cuts s to at most limit runes, ending with an ellipsis when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
