package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseSelection parses a wizard selection string into 0-based indices.
// Accepts single values ("5"), comma-separated lists ("1,3,5"), and ranges
// ("1-10"), in any combination. Out-of-range and malformed parts are
// dropped; duplicates collapse. The result is sorted.
func ParseSelection(choice string, max int) []int {
	choice = strings.TrimSpace(choice)
	if choice == "" {
		return nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(choice, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err1 := strconv.Atoi(strings.TrimSpace(lo))
			end, err2 := strconv.Atoi(strings.TrimSpace(hi))
			if err1 != nil || err2 != nil {
				continue
			}
			for i := start - 1; i <= end-1; i++ {
				if i >= 0 && i < max {
					seen[i] = true
				}
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if i := n - 1; i >= 0 && i < max {
			seen[i] = true
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// FormatValue renders a sensor value with at most one decimal place,
// dropping the fraction entirely for whole numbers.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%.1f", v)
}
