package analysis

import (
	"math"

	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/models"
)

// DeliveryDays returns the whole days between purchase and delivery to the
// customer, rounded down. ok is false when either timestamp is missing.
func DeliveryDays(o models.Order) (days int, ok bool) {
	if o.PurchasedAt == nil || o.DeliveredCustomerAt == nil {
		return 0, false
	}
	d := o.DeliveredCustomerAt.Sub(*o.PurchasedAt)
	return int(math.Floor(d.Hours() / 24)), true
}

// AverageDeliveryDays is the mean of DeliveryDays over delivered orders
func AverageDeliveryDays(ds *dataset.Dataset) (float64, error) {
	var sum, n int
	for _, o := range ds.Orders {
		if days, ok := DeliveryDays(o); ok {
			sum += days
			n++
		}
	}
	if n == 0 {
		return 0, ErrEmpty
	}
	return float64(sum) / float64(n), nil
}

// AverageItemsPerOrder is the mean number of item rows per order that has items
func AverageItemsPerOrder(ds *dataset.Dataset) (float64, error) {
	orders := make(map[string]struct{})
	var rows int
	for _, item := range ds.OrderItems {
		if item.OrderID == "" {
			continue
		}
		orders[item.OrderID] = struct{}{}
		rows++
	}
	if len(orders) == 0 {
		return 0, ErrEmpty
	}
	return float64(rows) / float64(len(orders)), nil
}

// MostCommonPaymentType returns the modal payment type.
// Equally common types resolve to the alphabetically first.
func MostCommonPaymentType(ds *dataset.Dataset) (string, error) {
	counts := make(map[string]int)
	for _, p := range ds.Payments {
		if p.Type != "" {
			counts[p.Type]++
		}
	}
	if len(counts) == 0 {
		return "", ErrEmpty
	}

	var mode string
	best := 0
	for t, c := range counts {
		if c > best || (c == best && t < mode) {
			mode, best = t, c
		}
	}
	return mode, nil
}
