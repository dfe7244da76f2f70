package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

var trickPartRegex = regexp.MustCompile(`^(?:(\d+)\s*x\s*)?s(\d+)$`)

// maxTrickCount bounds the repeat count of a single part
const maxTrickCount = 20

// ParseTrickSlots expands a great-tricks choice such as "2xS1+S2" into
// the level of every granted trick, [1 1 2]. Unreadable parts are skipped.
func ParseTrickSlots(choice string) []int {
	var slots []int
	for _, part := range strings.Split(choice, "+") {
		m := trickPartRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(part)))
		if m == nil {
			continue
		}

		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil || n > maxTrickCount {
				continue
			}
			count = n
		}
		level, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}

		for range count {
			slots = append(slots, level)
		}
	}
	return slots
}
