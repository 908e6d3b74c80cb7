package analysis

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/models"
)

// PaymentTypeCounts counts payment rows per payment type
func PaymentTypeCounts(ds *dataset.Dataset) []Count {
	return valueCounts(ds.Payments, func(p models.Payment) string { return p.Type })
}

// AveragePaymentByType returns the mean payment value per type rounded to
// cents, ordered by type.
func AveragePaymentByType(ds *dataset.Dataset) []Stat {
	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for _, p := range ds.Payments {
		if p.Type == "" {
			continue
		}
		sums[p.Type] = sums[p.Type].Add(p.Value)
		counts[p.Type]++
	}

	out := make([]Stat, 0, len(sums))
	for t, sum := range sums {
		mean := sum.Div(decimal.NewFromInt(counts[t])).Round(2)
		out = append(out, Stat{Label: t, Value: mean.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

// InstallmentCounts counts payments per number of installments, ascending
func InstallmentCounts(ds *dataset.Dataset) []Count {
	counts := make(map[int]int)
	for _, p := range ds.Payments {
		counts[p.Installments]++
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]Count, len(keys))
	for i, k := range keys {
		out[i] = Count{Label: strconv.Itoa(k), Count: counts[k]}
	}
	return out
}
