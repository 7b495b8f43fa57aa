package domain

import "time"

// Order is a snapshot of a priced cart taken at checkout. Lines carry the
// discounted prices plus provenance tags as produced by the pricing engine.
type Order struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Lines     []LineItem `json:"lines"`
	Subtotal  int64      `json:"subtotal"`
	Total     int64      `json:"total"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}
