package analysis

import (
	"sort"

	"github.com/xtrntr/marketdash/internal/dataset"
)

// TopSellingCategories joins order items with products and sums the item
// sequence numbers per category, returning the n largest totals. Every
// category is ranked before the top n are taken. Ties are broken by
// category name. Products without a category are skipped.
func TopSellingCategories(ds *dataset.Dataset, n int) []Count {
	category := make(map[string]string, len(ds.Products))
	for _, p := range ds.Products {
		category[p.ID] = p.Category
	}

	totals := make(map[string]int)
	for _, item := range ds.OrderItems {
		c, ok := category[item.ProductID]
		if !ok || c == "" {
			continue
		}
		totals[c] += item.ItemID
	}

	out := make([]Count, 0, len(totals))
	for c, total := range totals {
		out = append(out, Count{Label: c, Count: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Label < out[j].Label
		}
		return out[i].Count > out[j].Count
	})
	return head(out, n)
}
