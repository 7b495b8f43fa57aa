package domain

// Eligibility is the derived, per-evaluation snapshot of which discount
// categories a user qualifies for. It is recomputed from the user record
// and the current date on every evaluation and never persisted.
type Eligibility struct {
	IsOver50               bool `json:"isOver50"`
	HasPermanentDiscount   bool `json:"hasPermanentDiscount"`
	IsInstitutionalStudent bool `json:"isInstitutionalStudent"`
	IsBirthdayToday        bool `json:"isBirthdayToday"`
}

// ActiveDiscount describes a discount currently active for a profile,
// for informational display only.
type ActiveDiscount struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}
