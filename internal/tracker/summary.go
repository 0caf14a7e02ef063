package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/bashhack/dirtrack/internal/snapshot"
)

// DefaultMaxPreview is the number of paths listed per category before the
// remainder is collapsed into an overflow count.
const DefaultMaxPreview = 20

// commitTimeLayout is used in both log entries and commit messages.
const commitTimeLayout = "2006-01-02 15:04:05"

// FormatSummary renders a change set as
// "Added: N (a, b); Modified: N (none); Deleted: N (c, ...(+K more))".
func FormatSummary(cs snapshot.ChangeSet, maxItems int) string {
	return fmt.Sprintf("Added: %d (%s); Modified: %d (%s); Deleted: %d (%s)",
		len(cs.Added), preview(cs.Added, maxItems),
		len(cs.Modified), preview(cs.Modified, maxItems),
		len(cs.Deleted), preview(cs.Deleted, maxItems),
	)
}

func preview(paths []string, maxItems int) string {
	switch {
	case len(paths) == 0:
		return "none"
	case maxItems <= 0:
		return fmt.Sprintf("...(+%d more)", len(paths))
	case len(paths) <= maxItems:
		return strings.Join(paths, ", ")
	default:
		return strings.Join(paths[:maxItems], ", ") + fmt.Sprintf(", ...(+%d more)", len(paths)-maxItems)
	}
}

// CommitMessage builds "<prefix>: <YYYY-MM-DD HH:MM:SS> - Added: N; Deleted: N",
// listing only the categories with changes.
func CommitMessage(prefix string, at time.Time, cs snapshot.ChangeSet) string {
	var details []string
	if n := len(cs.Added); n > 0 {
		details = append(details, fmt.Sprintf("Added: %d", n))
	}
	if n := len(cs.Modified); n > 0 {
		details = append(details, fmt.Sprintf("Modified: %d", n))
	}
	if n := len(cs.Deleted); n > 0 {
		details = append(details, fmt.Sprintf("Deleted: %d", n))
	}

	return fmt.Sprintf("%s: %s - %s", prefix, at.Format(commitTimeLayout), strings.Join(details, "; "))
}
