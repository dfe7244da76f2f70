package matching

// Levenshtein returns the edit distance between a and b counting unit-cost
// insertions, deletions and substitutions over runes. Callers normalize
// case and whitespace first.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// keep the row as short as the shorter string
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = cur
		}
	}

	return row[len(rb)]
}
