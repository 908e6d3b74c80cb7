package analysis

import (
	"sort"
	"time"

	"github.com/xtrntr/marketdash/internal/dataset"
)

// OnTimeDeliveryRate is the share of delivered orders that reached the
// customer on or before the estimated delivery day.
func OnTimeDeliveryRate(ds *dataset.Dataset) (float64, error) {
	var onTime, n int
	for _, o := range ds.Orders {
		if o.DeliveredCustomerAt == nil || o.EstimatedDeliveryAt == nil {
			continue
		}
		n++
		if !day(*o.DeliveredCustomerAt).After(day(*o.EstimatedDeliveryAt)) {
			onTime++
		}
	}
	if n == 0 {
		return 0, ErrEmpty
	}
	return float64(onTime) / float64(n), nil
}

// DeliveryDaysByState averages DeliveryDays per customer state, ordered by state
func DeliveryDaysByState(ds *dataset.Dataset) []Stat {
	state := make(map[string]string, len(ds.Customers))
	for _, c := range ds.Customers {
		state[c.ID] = c.State
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, o := range ds.Orders {
		s, ok := state[o.CustomerID]
		if !ok || s == "" {
			continue
		}
		days, ok := DeliveryDays(o)
		if !ok {
			continue
		}
		sums[s] += days
		counts[s]++
	}

	out := make([]Stat, 0, len(sums))
	for s, sum := range sums {
		out = append(out, Stat{Label: s, Value: float64(sum) / float64(counts[s])})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
