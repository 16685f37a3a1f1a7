package textcmp

import (
	"math"
)

// EditDistance returns the Levenshtein distance between a and b: the
// minimum number of single-rune insertions, deletions and substitutions
// needed to transform one string into the other.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Similarity scores how close two strings are on a 0-100 scale, based on
// edit distance relative to the longer string. Both strings empty scores
// 100; exactly one empty scores 0. Symmetric in its arguments. No case
// or whitespace normalization happens here; callers decide whether to
// lower-case before calling.
func Similarity(a, b string) int {
	la := len([]rune(a))
	lb := len([]rune(b))

	if la == 0 && lb == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}

	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}

	distance := EditDistance(a, b)
	return int(math.Round(float64(maxLen-distance) / float64(maxLen) * 100))
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
