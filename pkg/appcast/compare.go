package appcast

// charType classifies version string characters. Valid components of version
// numbers are numbers, periods, or string fragments ("beta" etc.).
type charType int

const (
	typeNumber charType = iota
	typePeriod
	typeString
)

func classifyChar(c byte) charType {
	switch {
	case c == '.':
		return typePeriod
	case c >= '0' && c <= '9':
		return typeNumber
	default:
		return typeString
	}
}

// splitVersion splits a version string into components, where a component is
// a continuous run of characters with the same classification. A period
// always delimits components, so ".." yields an empty middle component
// conceptually and no component ever holds more than one period. For
// example, "1.20rc3" becomes ["1", ".", "20", "rc", "3"].
func splitVersion(version string) []string {
	if version == "" {
		return nil
	}

	var parts []string
	start := 0
	prev := classifyChar(version[0])

	for i := 1; i < len(version); i++ {
		cur := classifyChar(version[i])
		if cur != prev || prev == typePeriod {
			parts = append(parts, version[start:i])
			start = i
		}
		prev = cur
	}

	return append(parts, version[start:])
}

// lenientInt parses the leading digits of s, ignoring anything after them.
// Malformed numeric components degrade to whatever prefix parses rather than
// failing the comparison.
func lenientInt(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// CompareVersions imposes a total order on two free-form version strings.
// It returns a negative value if a < b, zero if they are equivalent, and a
// positive value if a > b. It never fails: odd input degrades gracefully
// instead of producing an error.
//
// Safe for unlimited concurrent callers.
func CompareVersions(a, b string) int {
	partsA := splitVersion(a)
	partsB := splitVersion(b)

	n := len(partsA)
	if len(partsB) < n {
		n = len(partsB)
	}

	for i := 0; i < n; i++ {
		pa, pb := partsA[i], partsB[i]
		ta := classifyChar(pa[0])
		tb := classifyChar(pb[0])

		if ta == tb {
			switch ta {
			case typeString:
				if pa != pb {
					if pa < pb {
						return -1
					}
					return 1
				}
			case typeNumber:
				na, nb := lenientInt(pa), lenientInt(pb)
				if na != nb {
					if na < nb {
						return -1
					}
					return 1
				}
			}
			// Equal periods carry no information; keep walking.
			continue
		}

		// Components of different classes: number or period outranks a
		// string fragment ("1.2.0" > "1.2rc1").
		if ta != typeString && tb == typeString {
			return 1
		}
		if ta == typeString && tb != typeString {
			return -1
		}
		// One number, one period. The period is invalid and ranks lower.
		if ta == typeNumber {
			return 1
		}
		return -1
	}

	if len(partsA) == len(partsB) {
		return 0
	}

	// Equal up to the shorter length. The class of the first extra component
	// decides: a string fragment is a pre-release tag, so the shorter version
	// wins ("1.5" > "1.5b3"); a number or period extends the version, so the
	// longer version wins ("1.5.1" > "1.5").
	if len(partsA) > len(partsB) {
		if classifyChar(partsA[n][0]) == typeString {
			return -1
		}
		return 1
	}
	if classifyChar(partsB[n][0]) == typeString {
		return 1
	}
	return -1
}
