package domain

// LineItem is one product entry in a cart. Price is in integer CLP units.
// OriginalPrice is snapshotted by the first discount rule that fires on the
// item and is never overwritten afterwards; zero means no discount has
// touched the item yet. DiscountApplied accumulates rule tags joined by '+'.
type LineItem struct {
	ProductID       string `json:"productId"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	Quantity        int    `json:"quantity"`
	Category        string `json:"category,omitempty"`
	Image           string `json:"image,omitempty"`
	OriginalPrice   int64  `json:"originalPrice,omitempty"`
	DiscountApplied string `json:"discountApplied,omitempty"`
}

// Total returns price times quantity for the line.
func (li LineItem) Total() int64 {
	return li.Price * int64(li.Quantity)
}

// Subtotal sums price times quantity over the given lines.
func Subtotal(lines []LineItem) int64 {
	var sum int64
	for _, li := range lines {
		sum += li.Total()
	}
	return sum
}
