package render

// naturalLess reports whether a sorts before b under "natural" (human)
// order: runs of digits compare numerically rather than
// character-by-character, so "entity2" sorts before "entity10". No
// library in the example pack provides this, so it is hand-rolled
// (justified stdlib, see DESIGN.md).
func naturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

func naturalCompare(a, b string) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]

		if isDigit(ca) && isDigit(cb) {
			ia, na := scanNumber(a, i)
			jb, nb := scanNumber(b, j)

			if na != nb {
				if na < nb {
					return -1
				}

				return 1
			}

			i, j = ia, jb

			continue
		}

		if ca != cb {
			if ca < cb {
				return -1
			}

			return 1
		}

		i++
		j++
	}

	switch {
	case len(a)-i < len(b)-j:
		return -1
	case len(a)-i > len(b)-j:
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scanNumber reads the maximal run of digits starting at start, returning
// the index just past it and its numeric value (leading zeros do not
// change the comparison, matching natural-sort convention).
func scanNumber(s string, start int) (next int, value int64) {
	i := start
	for i < len(s) && isDigit(s[i]) {
		value = value*10 + int64(s[i]-'0')
		i++
	}

	return i, value
}
