package workflow

import (
	"regexp"
	"strconv"
	"strings"
)

const maxTaskIDLen = 63

var (
	taskIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{2,62}$`)
	nonSlugRun    = regexp.MustCompile(`[^a-z0-9]+`)
)

// IsValidTaskID reports whether id is 3-63 characters of lowercase letters,
// digits and hyphens, starting with a letter or digit.
func IsValidTaskID(id string) bool {
	return taskIDPattern.MatchString(id)
}

// GenerateTaskID derives a task ID from a display name. Collisions with
// existing are resolved by appending -1, -2, ... The result is unique only
// relative to existing.
func GenerateTaskID(name string, existing map[string]bool) string {
	id := nonSlugRun.ReplaceAllString(strings.ToLower(name), "-")
	id = strings.Trim(id, "-")

	if id == "" {
		id = "task-"
	}
	if len(id) > maxTaskIDLen {
		id = strings.TrimRight(id[:maxTaskIDLen], "-")
	}
	if len(id) < 3 {
		id += "-task"
	}

	candidate := id
	for n := 1; existing[candidate]; n++ {
		suffix := "-" + strconv.Itoa(n)
		base := id
		if len(base)+len(suffix) > maxTaskIDLen {
			base = strings.TrimRight(base[:maxTaskIDLen-len(suffix)], "-")
		}
		candidate = base + suffix
	}
	return candidate
}
