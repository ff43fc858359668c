package sanitizer

import "strings"

// NormalizeRut trims surrounding whitespace, removes thousands separators and
// upper-cases a trailing verification K, so that "12.345.678-k" and
// "12345678-K" compare equal.
func NormalizeRut(rut string) string {
	rut = strings.TrimSpace(rut)
	rut = strings.ReplaceAll(rut, ".", "")
	return strings.ToUpper(rut)
}

// SplitRutList parses a comma-delimited rut list. Tokens are trimmed and
// blank tokens are discarded; order and duplicates are preserved.
func SplitRutList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	var ruts []string
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		ruts = append(ruts, token)
	}
	return ruts
}

// JoinRutList is the inverse of SplitRutList for persisting a cleaned list.
func JoinRutList(ruts []string) string {
	return strings.Join(ruts, ",")
}

// ValidRut reports whether a normalized rut has the form NNNNNNN-V with a
// correct modulo-11 verification digit. Call NormalizeRut first.
func ValidRut(rut string) bool {
	body, verifier, ok := strings.Cut(rut, "-")
	if !ok || len(body) < 1 || len(body) > 8 || len(verifier) != 1 {
		return false
	}

	sum := 0
	factor := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return false
		}
		sum += int(c-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var expected byte
	switch rem := 11 - sum%11; rem {
	case 11:
		expected = '0'
	case 10:
		expected = 'K'
	default:
		expected = byte('0' + rem)
	}

	return verifier[0] == expected
}
