package recognizer

import (
	"math/big"
	"strings"
)

// ibanLengths maps IBAN country codes to their fixed total length
// (ISO 13616).
var ibanLengths = map[string]int{
	"AT": 20, "BE": 16, "CH": 21, "CZ": 24, "DE": 22, "DK": 18,
	"ES": 24, "FI": 18, "FR": 27, "GB": 22, "IE": 22, "IT": 27,
	"LI": 21, "LU": 20, "NL": 18, "NO": 15, "PL": 28, "PT": 25,
	"SE": 24,
}

// luhnValid checks a digit string against the Luhn algorithm (ISO/IEC 7812).
func luhnValid(number string) bool {
	if len(number) < 2 {
		return false
	}
	sum := 0
	alt := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if alt {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alt = !alt
	}
	return sum%10 == 0
}

// ibanValid verifies country length and the MOD-97 check digits per
// ISO 13616. The input must already be uppercased with separators removed.
func ibanValid(iban string) bool {
	if len(iban) < 5 {
		return false
	}
	if expected, ok := ibanLengths[iban[:2]]; !ok || len(iban) != expected {
		return false
	}

	// Move country+check digits to the end, then map letters to digits
	// (A=10 .. Z=35) and check the remainder mod 97.
	rearranged := iban[4:] + iban[:4]
	var numStr strings.Builder
	for _, ch := range rearranged {
		switch {
		case ch >= '0' && ch <= '9':
			numStr.WriteRune(ch)
		case ch >= 'A' && ch <= 'Z':
			numStr.WriteString(big.NewInt(int64(ch - 'A' + 10)).String())
		default:
			return false
		}
	}

	n, ok := new(big.Int).SetString(numStr.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

// stripNonDigits removes everything but ASCII digits from s.
func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// normalizeIBAN uppercases and removes the separators IBANs are commonly
// written with.
func normalizeIBAN(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}
