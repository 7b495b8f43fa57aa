package discount

import (
	"time"

	"milsabores/internal/domain"
)

// Apply runs the ordered rule registry over the cart lines and returns the
// re-priced result. The input slice is never mutated; callers always get a
// fresh copy, so the same (lines, profile, code, date) input yields the
// same output.
func Apply(lines []domain.LineItem, elig domain.Eligibility, code string, now time.Time) []domain.LineItem {
	out := make([]domain.LineItem, len(lines))
	copy(out, lines)
	for _, rule := range Registry() {
		if rule.Validate(elig, code, now) {
			out = rule.Apply(out, elig, code, now)
		}
	}
	return out
}

// Active lists the discounts currently active for a profile, for
// informational display. It walks the same registry Apply does, so the
// listing can never drift from the applied effect.
func Active(elig domain.Eligibility, now time.Time) []domain.ActiveDiscount {
	var active []domain.ActiveDiscount
	for _, rule := range Registry() {
		if rule.Validate(elig, "", now) {
			active = append(active, domain.ActiveDiscount{
				Type:        rule.Kind,
				Description: rule.Description,
			})
		}
	}
	return active
}
