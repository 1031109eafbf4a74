package monitor

import "github.com/fiffu/stockwatch/lib/models"

// Transition returns the product status that follows prev given a fresh
// availability verdict, and whether the change warrants a notification.
//
// Only becoming available notifies. Becoming unavailable is recorded silently,
// and an unavailable product that was never in stock keeps its status.
func Transition(prev models.ProductStatus, available bool) (next models.ProductStatus, notify bool) {
	switch {
	case available && prev != models.StatusInStock:
		return models.StatusInStock, true
	case !available && prev == models.StatusInStock:
		return models.StatusOutOfStock, false
	default:
		return prev, false
	}
}
