// Package discount implements the cart pricing rules. Rules are small
// declarative predicate+transform pairs held in a fixed-order registry, so
// new discounts slot in without touching existing rule logic.
package discount

import (
	"strings"
	"time"

	"milsabores/internal/domain"
	"milsabores/internal/eligibility"
)

// Rule is a named discount: Validate decides whether it fires for a
// profile, Apply transforms the cart lines. Rules are stateless; Apply
// receives lines it may mutate in place (the engine hands it copies).
type Rule struct {
	ID          string
	Kind        string
	Description string
	Validate    func(elig domain.Eligibility, code string, now time.Time) bool
	Apply       func(lines []domain.LineItem, elig domain.Eligibility, code string, now time.Time) []domain.LineItem
}

// Registry returns the rules in application order. Order is deliberate:
// later rules see prices already reduced by earlier ones, so percentages
// compound instead of each applying to the original price.
func Registry() []Rule {
	return []Rule{ageRule, permanentCodeRule, studentBirthdayRule}
}

// ageRule halves every price for customers aged 50 or more.
var ageRule = Rule{
	ID:          "age50",
	Kind:        "age",
	Description: "50% de descuento para mayores de 50 años",
	Validate: func(elig domain.Eligibility, _ string, _ time.Time) bool {
		return elig.IsOver50
	},
	Apply: func(lines []domain.LineItem, _ domain.Eligibility, _ string, _ time.Time) []domain.LineItem {
		for i := range lines {
			snapshotOriginal(&lines[i])
			lines[i].Price = discounted(lines[i].Price, 5000)
			lines[i].DiscountApplied = appendTag(lines[i].DiscountApplied, "age50")
		}
		return lines
	},
}

// permanentCodeRule takes 10% off for holders of the permanent discount or
// anyone supplying the FELICES50 code at checkout.
var permanentCodeRule = Rule{
	ID:          "felices50",
	Kind:        "code",
	Description: "10% de descuento permanente con código FELICES50",
	Validate: func(elig domain.Eligibility, code string, _ time.Time) bool {
		return elig.HasPermanentDiscount || code == eligibility.PermanentDiscountCode
	},
	Apply: func(lines []domain.LineItem, _ domain.Eligibility, _ string, _ time.Time) []domain.LineItem {
		for i := range lines {
			snapshotOriginal(&lines[i])
			lines[i].Price = discounted(lines[i].Price, 1000)
			lines[i].DiscountApplied = appendTag(lines[i].DiscountApplied, "felices50")
		}
		return lines
	},
}

// studentBirthdayRule gives institutional students free cakes on their
// birthday. Only lines whose category reads as a cake are touched.
var studentBirthdayRule = Rule{
	ID:          "duocBirthday",
	Kind:        "birthday",
	Description: "Torta gratis en tu cumpleaños (estudiantes Duoc)",
	Validate: func(elig domain.Eligibility, _ string, _ time.Time) bool {
		return elig.IsInstitutionalStudent && elig.IsBirthdayToday
	},
	Apply: func(lines []domain.LineItem, _ domain.Eligibility, _ string, _ time.Time) []domain.LineItem {
		for i := range lines {
			if !isCakeCategory(lines[i].Category) {
				continue
			}
			snapshotOriginal(&lines[i])
			lines[i].Price = 0
			lines[i].DiscountApplied = appendTag(lines[i].DiscountApplied, "duocBirthday")
		}
		return lines
	},
}

// discounted subtracts a permyriad share of the price, rounding half-up to
// the nearest integer unit. 5000 means 50% off, 1000 means 10% off.
func discounted(price, permyriad int64) int64 {
	return (price*(10000-permyriad) + 5000) / 10000
}

// snapshotOriginal records the pre-discount price exactly once. A line
// already carrying a snapshot keeps it through any further rule
// applications.
func snapshotOriginal(li *domain.LineItem) {
	if li.OriginalPrice == 0 {
		li.OriginalPrice = li.Price
	}
}

func appendTag(existing, tag string) string {
	if existing == "" {
		return tag
	}
	return existing + "+" + tag
}

func isCakeCategory(category string) bool {
	return strings.Contains(strings.ToLower(category), "torta")
}
