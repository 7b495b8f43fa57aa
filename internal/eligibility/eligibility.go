// Package eligibility derives the discount-eligibility snapshot from a user
// record. Evaluation is pure and side-effect free; a nil user yields the
// zero profile rather than an error.
package eligibility

import (
	"strings"
	"time"

	"milsabores/internal/domain"
	"milsabores/internal/validate"
)

// PermanentDiscountCode is the registration code granting the permanent 10%
// discount. The match is exact and case-sensitive.
const PermanentDiscountCode = "FELICES50"

var institutionalDomains = []string{"@duoc.cl", "@profesor.duoc.cl"}

// Evaluate computes the eligibility profile for u at the given date.
// Age is recomputed from the birthdate when one is present so a stale
// cached age never decides the over-50 discount.
func Evaluate(u *domain.User, now time.Time) domain.Eligibility {
	if u == nil {
		return domain.Eligibility{}
	}
	return domain.Eligibility{
		IsOver50:               ageOf(u, now) >= 50,
		HasPermanentDiscount:   u.HasPermanentDiscount || u.DiscountCode == PermanentDiscountCode,
		IsInstitutionalStudent: u.IsInstitutionalStudent || IsInstitutionalEmail(u.Email),
		IsBirthdayToday:        isBirthday(u.Birthdate, now),
	}
}

// IsInstitutionalEmail reports whether the email belongs to the partner
// institution's domains.
func IsInstitutionalEmail(email string) bool {
	for _, suffix := range institutionalDomains {
		if strings.HasSuffix(email, suffix) {
			return true
		}
	}
	return false
}

func ageOf(u *domain.User, now time.Time) int {
	if birth, ok := validate.ParseDate(u.Birthdate); ok {
		return validate.Age(birth, now)
	}
	return u.Age
}

func isBirthday(birthdate string, now time.Time) bool {
	birth, ok := validate.ParseDate(birthdate)
	if !ok {
		return false
	}
	return birth.Day() == now.Day() && birth.Month() == now.Month()
}
