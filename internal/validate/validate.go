// Package validate holds the pure field predicates used at registration and
// profile update. All functions are total: bad input yields false (or a zero
// value), never an error or a panic.
package validate

import (
	"regexp"
	"strings"
	"time"
)

var (
	nationalIDRe = regexp.MustCompile(`^\d{7,8}[0-9K]$`)
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^(\+?56)?\d{9}$`)
)

// allowedEmailDomains is a closed allowlist. Syntactically valid addresses
// on any other domain are rejected.
var allowedEmailDomains = []string{"duoc.cl", "profesor.duoc.cl", "gmail.com"}

// NationalID reports whether raw is a valid Chilean RUN. Separators are
// stripped and the check character compared case-insensitively against the
// mod-11 check digit (weights cycling 2..7 from the least-significant body
// digit; 11 maps to '0', 10 to 'K').
func NationalID(raw string) bool {
	clean := strings.ToUpper(strings.NewReplacer(".", "", "-", "", " ", "").Replace(raw))
	if !nationalIDRe.MatchString(clean) {
		return false
	}

	body := clean[:len(clean)-1]
	provided := clean[len(clean)-1]

	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * multiplier
		if multiplier == 7 {
			multiplier = 2
		} else {
			multiplier++
		}
	}

	var expected byte
	switch check := 11 - sum%11; check {
	case 11:
		expected = '0'
	case 10:
		expected = 'K'
	default:
		expected = byte('0' + check)
	}
	return expected == provided
}

// Email reports whether raw has a local@domain.tld shape and its domain is
// on the allowlist.
func Email(raw string) bool {
	if !emailRe.MatchString(raw) {
		return false
	}
	domain := raw[strings.LastIndexByte(raw, '@')+1:]
	for _, allowed := range allowedEmailDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}

// Phone reports whether raw is a Chilean phone number: an optional +56
// prefix followed by exactly 9 digits, ignoring spaces, parentheses and
// hyphens.
func Phone(raw string) bool {
	clean := strings.NewReplacer(" ", "", "(", "", ")", "", "-", "").Replace(raw)
	return phoneRe.MatchString(clean)
}

// Password enforces the storefront's documented 4-10 character policy.
func Password(raw string) bool {
	return len(raw) >= 4 && len(raw) <= 10
}

// Text reports whether raw is non-empty and at most maxLen characters.
func Text(raw string, maxLen int) bool {
	return len(raw) > 0 && len(raw) <= maxLen
}

// Date reports whether raw parses as a calendar date. The empty string is
// valid: date fields are optional.
func Date(raw string) bool {
	if raw == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", raw)
	return err == nil
}

// ParseDate returns the parsed date and whether parsing succeeded.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", raw)
	return t, err == nil
}

// Age computes age in whole years at the given date. A zero birthdate
// yields 0.
func Age(birthdate, today time.Time) int {
	if birthdate.IsZero() {
		return 0
	}
	age := today.Year() - birthdate.Year()
	if today.Month() < birthdate.Month() ||
		(today.Month() == birthdate.Month() && today.Day() < birthdate.Day()) {
		age--
	}
	return age
}
