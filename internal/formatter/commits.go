package formatter

import (
	"fmt"
	"strings"

	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

const (
	// CommitsHeader is the first line of every commit feed
	CommitsHeader = "**Latest Commits:**"

	// MaxCommits is how many entries a feed shows
	MaxCommits = 5

	unknownAuthor = "unknown"
	emptySubject  = "(no message)"
)

// Commits renders the first MaxCommits records as a numbered list under
// CommitsHeader, in input order. An empty input yields the header alone.
func Commits(records []models.CommitRecord) string {
	var b strings.Builder
	b.WriteString(CommitsHeader)

	for i, rec := range records {
		if i == MaxCommits {
			break
		}
		author := strings.TrimSpace(rec.AuthorName)
		if author == "" {
			author = unknownAuthor
		}
		title := subject(rec.Message)
		if title == "" {
			title = emptySubject
		}
		fmt.Fprintf(&b, "\n%d. %s — %s", i+1, title, author)
	}

	return b.String()
}

// subject returns the first line of a commit message
func subject(message string) string {
	message = strings.TrimSpace(message)
	if idx := strings.IndexAny(message, "\r\n"); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimSpace(message)
}
