package model

// CatalogService is one bookable braiding service. Prices are whole currency
// units and include hair.
type CatalogService struct {
	ID       string  `db:"id" json:"id"`
	Name     string  `db:"name" json:"name"`
	Duration string  `db:"duration" json:"duration"`
	Price    float64 `db:"price" json:"price"`
}

// SlotLabels is the fixed set of bookable appointment times.
var SlotLabels = []string{"9:00 AM", "11:00 AM", "1:00 PM", "3:00 PM", "5:00 PM"}

// IsValidSlot reports whether label is one of the bookable slot labels.
func IsValidSlot(label string) bool {
	for _, s := range SlotLabels {
		if s == label {
			return true
		}
	}
	return false
}
