package dialect

import "strings"

// looksLikeISBN reports whether s has the shape of an ISBN-10 or ISBN-13:
// digits and hyphens, optionally ending in X for ISBN-10.
func looksLikeISBN(s string) bool {
	digits := isbnDigits(s)
	if digits == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	switch len(digits) {
	case 10:
		return true
	case 13:
		return !strings.ContainsAny(digits, "Xx") &&
			(strings.HasPrefix(digits, "978") || strings.HasPrefix(digits, "979"))
	}
	return false
}

// isbnDigits strips hyphens from s. It returns "" when s holds anything
// else than digits, hyphens and a final X.
func isbnDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '-':
		case ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case (ch == 'X' || ch == 'x') && i == len(s)-1:
			b.WriteByte('X')
		default:
			return ""
		}
	}
	return b.String()
}

// ValidISBN reports whether s is an ISBN-10 or ISBN-13 with a correct
// check digit.
func ValidISBN(s string) bool {
	if !looksLikeISBN(s) {
		return false
	}
	digits := isbnDigits(s)
	if len(digits) == 10 {
		sum := 0
		for i := 0; i < 10; i++ {
			v := int(digits[i] - '0')
			if digits[i] == 'X' {
				if i != 9 {
					return false
				}
				v = 10
			}
			sum += (10 - i) * v
		}
		return sum%11 == 0
	}
	sum := 0
	for i := 0; i < 13; i++ {
		v := int(digits[i] - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	return sum%10 == 0
}
