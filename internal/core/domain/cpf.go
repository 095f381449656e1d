package domain

import "strings"

const cpfLength = 11

// NormalizeCPF strips every non-digit character from raw.
func NormalizeCPF(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF reports whether digits is an 11-digit CPF whose two trailing
// check digits match the weighted mod-11 checksums. Input must already be
// normalized.
func IsValidCPF(digits string) bool {
	if len(digits) != cpfLength {
		return false
	}
	allSame := true
	for i := 0; i < cpfLength; i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
		if digits[i] != digits[0] {
			allSame = false
		}
	}
	if allSame {
		return false
	}

	first := cpfCheckDigit(digits[:9])
	if int(digits[9]-'0') != first {
		return false
	}
	return int(digits[10]-'0') == cpfCheckDigit(digits[:10])
}

// ParseCPF normalizes raw and validates it, returning ErrInvalidCPF on failure.
func ParseCPF(raw string) (string, error) {
	digits := NormalizeCPF(raw)
	if !IsValidCPF(digits) {
		return "", ErrInvalidCPF
	}
	return digits, nil
}

// cpfCheckDigit weighs the digits from len+1 down to 2.
func cpfCheckDigit(digits string) int {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}
