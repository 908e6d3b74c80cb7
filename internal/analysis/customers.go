package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/models"
)

// CustomerValue is the mean order value paid by one customer
type CustomerValue struct {
	CustomerID        string          `json:"customer_id"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// CustomersByState counts customers per state
func CustomersByState(ds *dataset.Dataset) []Count {
	return valueCounts(ds.Customers, func(c models.Customer) string { return c.State })
}

// CustomersByCity counts customers per city
func CustomersByCity(ds *dataset.Dataset) []Count {
	return valueCounts(ds.Customers, func(c models.Customer) string { return c.City })
}

// CustomersByZipCode counts customers per zip code prefix
func CustomersByZipCode(ds *dataset.Dataset) []Count {
	return valueCounts(ds.Customers, func(c models.Customer) string { return c.ZipCodePrefix })
}

// TopStates returns the n states with the most customers
func TopStates(ds *dataset.Dataset, n int) []Count {
	return head(CustomersByState(ds), n)
}

// TopCities returns the n cities with the most customers
func TopCities(ds *dataset.Dataset, n int) []Count {
	return head(CustomersByCity(ds), n)
}

// AverageOrderValuePerCustomer joins orders with payments and averages the
// payment values of each customer. Every payment row counts once, so an order
// paid in several parts contributes several values. Customers without any
// payment are absent. The result is ordered by customer ID.
func AverageOrderValuePerCustomer(ds *dataset.Dataset) []CustomerValue {
	paymentsByOrder := make(map[string][]decimal.Decimal)
	for _, p := range ds.Payments {
		paymentsByOrder[p.OrderID] = append(paymentsByOrder[p.OrderID], p.Value)
	}

	type total struct {
		sum decimal.Decimal
		n   int64
	}
	totals := make(map[string]*total)
	for _, o := range ds.Orders {
		if o.CustomerID == "" {
			continue
		}
		for _, v := range paymentsByOrder[o.ID] {
			t, ok := totals[o.CustomerID]
			if !ok {
				t = &total{}
				totals[o.CustomerID] = t
			}
			t.sum = t.sum.Add(v)
			t.n++
		}
	}

	out := make([]CustomerValue, 0, len(totals))
	for id, t := range totals {
		out = append(out, CustomerValue{
			CustomerID:        id,
			AverageOrderValue: t.sum.Div(decimal.NewFromInt(t.n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// OrderValueHistogram bins the per-customer average order values
func OrderValueHistogram(values []CustomerValue, bins int) []Bin {
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = v.AverageOrderValue.InexactFloat64()
	}
	return Histogram(floats, bins)
}
