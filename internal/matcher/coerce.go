package matcher

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// coerceRowNumbers converts the permissive matched_rows values (integers,
// integral floats, digit strings) to a deduplicated sorted int slice. Values
// that cannot be coerced are logged and dropped.
func (m *Matcher) coerceRowNumbers(vals []any) []int {
	seen := make(map[int]bool, len(vals))
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		n, ok := coerceRowNumber(v)
		if !ok {
			m.logger.Warn("match.row.uncoercible", "value", v)
			continue
		}
		if n <= 0 {
			m.logger.Warn("match.row.out_of_range", "value", n)
			continue
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

func coerceRowNumber(v any) (int, bool) {
	switch t := v.(type) {
	case float64: // encoding/json decodes every JSON number here
		if t == math.Trunc(t) {
			return int(t), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}
