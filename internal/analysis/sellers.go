package analysis

import (
	"sort"

	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/models"
)

// SellerScore summarizes sales and review satisfaction for one seller
type SellerScore struct {
	SellerID           string  `json:"seller_id"`
	TotalSales         int     `json:"total_sales"`
	AverageReviewScore float64 `json:"average_review_score"`
}

// SellerPerformance joins order items with reviews on order ID. For every
// joined row the item sequence number adds to the seller's total sales and the
// review score adds to the seller's mean. An order with several reviews joins
// once per review. Sellers without reviewed orders are absent.
func SellerPerformance(ds *dataset.Dataset) []SellerScore {
	reviewsByOrder := make(map[string][]models.Review)
	for _, r := range ds.Reviews {
		reviewsByOrder[r.OrderID] = append(reviewsByOrder[r.OrderID], r)
	}

	type total struct {
		sales, scoreSum, scored int
	}
	totals := make(map[string]*total)
	for _, item := range ds.OrderItems {
		if item.SellerID == "" {
			continue
		}
		for _, r := range reviewsByOrder[item.OrderID] {
			t, ok := totals[item.SellerID]
			if !ok {
				t = &total{}
				totals[item.SellerID] = t
			}
			t.sales += item.ItemID
			// missing scores are parsed as zero and stay out of the mean
			if r.Score > 0 {
				t.scoreSum += r.Score
				t.scored++
			}
		}
	}

	out := make([]SellerScore, 0, len(totals))
	for id, t := range totals {
		s := SellerScore{SellerID: id, TotalSales: t.sales}
		if t.scored > 0 {
			s.AverageReviewScore = float64(t.scoreSum) / float64(t.scored)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SellerID < out[j].SellerID
	})
	return out
}

// TopSellersBySales returns the n sellers with the highest total sales.
// Ties are broken by seller ID.
func TopSellersBySales(scores []SellerScore, n int) []SellerScore {
	out := append([]SellerScore(nil), scores...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSales == out[j].TotalSales {
			return out[i].SellerID < out[j].SellerID
		}
		return out[i].TotalSales > out[j].TotalSales
	})
	return head(out, n)
}

// TopSellersBySatisfaction returns the n sellers with the highest mean review
// score. Ties are broken by seller ID.
func TopSellersBySatisfaction(scores []SellerScore, n int) []SellerScore {
	out := append([]SellerScore(nil), scores...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageReviewScore == out[j].AverageReviewScore {
			return out[i].SellerID < out[j].SellerID
		}
		return out[i].AverageReviewScore > out[j].AverageReviewScore
	})
	return head(out, n)
}

// SellersByState counts sellers per state
func SellersByState(ds *dataset.Dataset) []Count {
	return valueCounts(ds.Sellers, func(s models.Seller) string { return s.State })
}
