// Package password implements the client-side password policy: a hard
// validity gate used before any registration request leaves the client,
// and an advisory strength score for the presenter's strength meter.
package password

// MinLength is the minimum accepted password length.
const MinLength = 8

func classes(p string) (hasLower, hasUpper, hasDigit bool) {
	for i := 0; i < len(p); i++ {
		switch c := p[i]; {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	return hasLower, hasUpper, hasDigit
}

// IsValid reports whether p satisfies the policy: at least MinLength
// characters and at least one lowercase ASCII letter, one uppercase ASCII
// letter, and one digit. Only IsValid gates submission.
func IsValid(p string) bool {
	hasLower, hasUpper, hasDigit := classes(p)
	return len(p) >= MinLength && hasLower && hasUpper && hasDigit
}

// StrengthScore rates p from 0 to 100 in steps of 25, one step per satisfied
// predicate among {length, lowercase, uppercase, digit}. The score is purely
// advisory and never blocks submission on its own.
func StrengthScore(p string) int {
	score := 0
	hasLower, hasUpper, hasDigit := classes(p)
	if len(p) >= MinLength {
		score += 25
	}
	if hasLower {
		score += 25
	}
	if hasUpper {
		score += 25
	}
	if hasDigit {
		score += 25
	}
	return score
}
