package core

import "math"

// NaturalCompare orders two keys alphanumerically: runs of ASCII digits are
// compared as numbers, everything else by code point, and when one key is a
// prefix of the other the shorter one sorts first. "item2" < "item10".
//
// Digit runs beyond the 63-bit range are compared by magnitude instead of
// failing; use NaturalCompareStrict to reject them.
func NaturalCompare(a, b string) int {
	c, _ := naturalCompare(a, b, false)
	return c
}

// NaturalCompareStrict is NaturalCompare but returns ErrNumericOverflow when a
// digit run it has to compare does not fit in a signed 64-bit integer.
func NaturalCompareStrict(a, b string) (int, error) {
	return naturalCompare(a, b, true)
}

func naturalCompare(a, b string, strict bool) (int, error) {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0

	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]

		if isDigit(ca) && isDigit(cb) {
			si, sj := i, j
			for i < len(ra) && isDigit(ra[i]) {
				i++
			}
			for j < len(rb) && isDigit(rb[j]) {
				j++
			}

			na, okA := parseRun(ra[si:i])
			nb, okB := parseRun(rb[sj:j])
			if !okA || !okB {
				if strict {
					return 0, ErrNumericOverflow
				}
				if c := compareMagnitude(ra[si:i], rb[sj:j]); c != 0 {
					return c, nil
				}
				continue
			}
			if c := cmpInt64(na, nb); c != 0 {
				return c, nil
			}
			continue
		}

		if ca != cb {
			if ca < cb {
				return -1, nil
			}
			return 1, nil
		}
		i++
		j++
	}

	return cmpInt64(int64(len(ra)), int64(len(rb))), nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// parseRun accumulates a digit run; ok is false once it leaves the 63-bit range.
func parseRun(run []rune) (int64, bool) {
	var n int64
	for _, r := range run {
		d := int64(r - '0')
		if n > (math.MaxInt64-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// compareMagnitude compares two digit runs of arbitrary length numerically.
func compareMagnitude(a, b []rune) int {
	a, b = trimZeros(a), trimZeros(b)
	if len(a) != len(b) {
		return cmpInt64(int64(len(a)), int64(len(b)))
	}
	for k := range a {
		if a[k] != b[k] {
			if a[k] < b[k] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func trimZeros(run []rune) []rune {
	for len(run) > 0 && run[0] == '0' {
		run = run[1:]
	}
	return run
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
