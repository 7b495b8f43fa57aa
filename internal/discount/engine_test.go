package discount

import (
	"reflect"
	"testing"
	"time"

	"milsabores/internal/domain"
)

var now = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestAgeDiscountHalvesPrices(t *testing.T) {
	lines := []domain.LineItem{
		{ProductID: "PI001", Price: 5000, Quantity: 1},
		{ProductID: "PI002", Price: 5500, Quantity: 2},
	}
	got := Apply(lines, domain.Eligibility{IsOver50: true}, "", now)
	if got[0].Price != 2500 || got[1].Price != 2750 {
		t.Fatalf("unexpected prices: %d, %d", got[0].Price, got[1].Price)
	}
	for _, li := range got {
		if li.DiscountApplied != "age50" {
			t.Errorf("tag = %q, want age50", li.DiscountApplied)
		}
	}
	if got[0].OriginalPrice != 5000 || got[1].OriginalPrice != 5500 {
		t.Fatalf("original prices not snapshotted: %+v", got)
	}
}

func TestRoundingHalfUp(t *testing.T) {
	// 4555 * 0.5 = 2277.5, rounds up to 2278.
	got := Apply([]domain.LineItem{{ProductID: "p", Price: 4555, Quantity: 1}},
		domain.Eligibility{IsOver50: true}, "", now)
	if got[0].Price != 2278 {
		t.Fatalf("price = %d, want 2278", got[0].Price)
	}
}

func TestCompoundingOrder(t *testing.T) {
	// 10000 * 0.5 = 5000, then * 0.9 = 4500; the 10% applies to the
	// already-halved price, not the original.
	lines := []domain.LineItem{{ProductID: "p", Price: 10000, Quantity: 1}}
	elig := domain.Eligibility{IsOver50: true, HasPermanentDiscount: true}
	got := Apply(lines, elig, "", now)
	if got[0].Price != 4500 {
		t.Fatalf("price = %d, want 4500", got[0].Price)
	}
	if got[0].DiscountApplied != "age50+felices50" {
		t.Fatalf("tag = %q, want age50+felices50", got[0].DiscountApplied)
	}
	if got[0].OriginalPrice != 10000 {
		t.Fatalf("original = %d, want 10000", got[0].OriginalPrice)
	}
}

func TestManualCodeCaseSensitive(t *testing.T) {
	lines := []domain.LineItem{{ProductID: "p", Price: 1000, Quantity: 1}}
	got := Apply(lines, domain.Eligibility{}, "FELICES50", now)
	if got[0].Price != 900 {
		t.Fatalf("exact code: price = %d, want 900", got[0].Price)
	}
	got = Apply(lines, domain.Eligibility{}, "felices50", now)
	if got[0].Price != 1000 {
		t.Fatalf("lowercase code must not match: price = %d", got[0].Price)
	}
}

func TestStudentBirthdayFreesCakesOnly(t *testing.T) {
	lines := []domain.LineItem{
		{ProductID: "PT001", Price: 45000, Quantity: 1, Category: "Tortas especiales"},
		{ProductID: "PG001", Price: 4000, Quantity: 2, Category: "sin_gluten"},
	}
	elig := domain.Eligibility{IsInstitutionalStudent: true, IsBirthdayToday: true}
	got := Apply(lines, elig, "", now)
	if got[0].Price != 0 || got[0].DiscountApplied != "duocBirthday" {
		t.Fatalf("cake line not freed: %+v", got[0])
	}
	if got[0].OriginalPrice != 45000 {
		t.Fatalf("cake original = %d, want 45000", got[0].OriginalPrice)
	}
	if got[1].Price != 4000 || got[1].DiscountApplied != "" {
		t.Fatalf("non-cake line must be untouched: %+v", got[1])
	}
}

func TestStudentAloneOrBirthdayAloneDoesNothing(t *testing.T) {
	lines := []domain.LineItem{{ProductID: "p", Price: 100, Quantity: 1, Category: "torta"}}
	if got := Apply(lines, domain.Eligibility{IsInstitutionalStudent: true}, "", now); got[0].Price != 100 {
		t.Error("student without birthday should not fire")
	}
	if got := Apply(lines, domain.Eligibility{IsBirthdayToday: true}, "", now); got[0].Price != 100 {
		t.Error("birthday without student status should not fire")
	}
}

func TestOriginalPriceNeverOverwritten(t *testing.T) {
	// Lines that already went through pricing keep their first snapshot
	// when re-priced; only the current price moves.
	lines := []domain.LineItem{{
		ProductID: "p", Price: 5000, Quantity: 1,
		OriginalPrice: 10000, DiscountApplied: "age50",
	}}
	got := Apply(lines, domain.Eligibility{HasPermanentDiscount: true}, "", now)
	if got[0].OriginalPrice != 10000 {
		t.Fatalf("original overwritten: %d", got[0].OriginalPrice)
	}
	if got[0].Price != 4500 {
		t.Fatalf("price = %d, want 4500", got[0].Price)
	}
	if got[0].DiscountApplied != "age50+felices50" {
		t.Fatalf("tag = %q", got[0].DiscountApplied)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	lines := []domain.LineItem{{ProductID: "p", Price: 10000, Quantity: 1, Category: "Tortas"}}
	before := make([]domain.LineItem, len(lines))
	copy(before, lines)
	Apply(lines, domain.Eligibility{
		IsOver50: true, HasPermanentDiscount: true,
		IsInstitutionalStudent: true, IsBirthdayToday: true,
	}, "FELICES50", now)
	if !reflect.DeepEqual(lines, before) {
		t.Fatalf("input mutated: %+v", lines)
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	lines := []domain.LineItem{
		{ProductID: "a", Price: 4555, Quantity: 1, Category: "Tortas Circulares"},
		{ProductID: "b", Price: 1299, Quantity: 3},
	}
	elig := domain.Eligibility{IsOver50: true, IsInstitutionalStudent: true, IsBirthdayToday: true}
	first := Apply(lines, elig, "FELICES50", now)
	second := Apply(lines, elig, "FELICES50", now)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input must produce same output")
	}
}

func TestNoEligibilityNoChanges(t *testing.T) {
	lines := []domain.LineItem{{ProductID: "p", Price: 100, Quantity: 1}}
	got := Apply(lines, domain.Eligibility{}, "", now)
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("guest pricing changed lines: %+v", got)
	}
}

func TestActiveMirrorsApplyPredicates(t *testing.T) {
	cases := []struct {
		elig  domain.Eligibility
		types []string
	}{
		{domain.Eligibility{}, nil},
		{domain.Eligibility{IsOver50: true}, []string{"age"}},
		{domain.Eligibility{HasPermanentDiscount: true}, []string{"code"}},
		{domain.Eligibility{IsInstitutionalStudent: true}, nil},
		{domain.Eligibility{IsInstitutionalStudent: true, IsBirthdayToday: true}, []string{"birthday"}},
		{domain.Eligibility{IsOver50: true, HasPermanentDiscount: true, IsInstitutionalStudent: true, IsBirthdayToday: true},
			[]string{"age", "code", "birthday"}},
	}
	for _, tc := range cases {
		active := Active(tc.elig, now)
		var types []string
		for _, a := range active {
			types = append(types, a.Type)
		}
		if !reflect.DeepEqual(types, tc.types) {
			t.Errorf("Active(%+v) types = %v, want %v", tc.elig, types, tc.types)
		}
	}
}
