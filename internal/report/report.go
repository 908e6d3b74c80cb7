// Package report arranges the analysis results into the tabbed dashboard.
package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtrntr/marketdash/internal/analysis"
	"github.com/xtrntr/marketdash/internal/dataset"
)

// ErrUnknownTab is returned when a tab ID is not part of the report
var ErrUnknownTab = errors.New("unknown tab")

// Title is shown at the top of the dashboard
const Title = "E-commerce Data Analysis"

// Kind selects how a section is drawn
type Kind string

const (
	KindBar       Kind = "bar"
	KindHistogram Kind = "histogram"
	KindMetric    Kind = "metric"
	KindList      Kind = "list"
)

// NotAvailable is the metric text used when there is nothing to aggregate
const NotAvailable = "n/a"

// Section is one chart or text metric
type Section struct {
	Heading string    `json:"heading"`
	Caption string    `json:"caption,omitempty"`
	Kind    Kind      `json:"kind"`
	XTitle  string    `json:"x_title,omitempty"`
	YTitle  string    `json:"y_title,omitempty"`
	Labels  []string  `json:"labels,omitempty"`
	Values  []float64 `json:"values,omitempty"`
	Text    string    `json:"text,omitempty"`
}

// Tab groups the sections answering one area of analysis
type Tab struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Report is the whole dashboard
type Report struct {
	Title string `json:"title"`
	Tabs  []Tab  `json:"tabs"`
}

// Tab looks up a tab by ID
func (r *Report) Tab(id string) (*Tab, error) {
	for i := range r.Tabs {
		if r.Tabs[i].ID == id {
			return &r.Tabs[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrUnknownTab)
}

// Build computes every tab from the dataset. A metric with no rows to
// aggregate renders as NotAvailable instead of failing the report.
func Build(ds *dataset.Dataset) (*Report, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}

	b := &builder{}
	tabs := []Tab{
		{ID: "customers", Title: "Customer Analysis", Sections: b.customers(ds)},
		{ID: "products", Title: "Product Analysis", Sections: b.products(ds)},
		{ID: "orders", Title: "Order Analysis", Sections: b.orders(ds)},
		{ID: "sellers", Title: "Seller Analysis", Sections: b.sellers(ds)},
		{ID: "payments", Title: "Payment Analysis", Sections: b.payments(ds)},
		{ID: "reviews", Title: "Review Analysis", Sections: b.reviews(ds)},
		{ID: "delivery", Title: "Delivery Performance", Sections: b.delivery(ds)},
		{ID: "translation", Title: "Translation Analysis", Sections: b.translation(ds)},
	}
	if b.err != nil {
		return nil, b.err
	}
	return &Report{Title: Title, Tabs: tabs}, nil
}

// builder keeps the first unexpected metric error
type builder struct {
	err error
}

func (b *builder) customers(ds *dataset.Dataset) []Section {
	const geo = "Geographical Distribution of Customers"
	const common = "Most Common Customer States and Cities"

	values := analysis.AverageOrderValuePerCustomer(ds)
	return []Section{
		counts(geo, "Geographical Distribution by State", "State", analysis.CustomersByState(ds)),
		counts(geo, "Geographical Distribution by City", "City", analysis.CustomersByCity(ds)),
		counts(geo, "Geographical Distribution by Zip Code", "Zip Code Prefix", analysis.CustomersByZipCode(ds)),
		counts(common, "Most Common Customer States", "State", analysis.TopStates(ds, 3)),
		counts(common, "Most Common Customer Cities", "City", analysis.TopCities(ds, 3)),
		histogram("Average Order Value per Customer", "Average Order Value", analysis.OrderValueHistogram(values, 20)),
	}
}

func (b *builder) products(ds *dataset.Dataset) []Section {
	s := counts("Top-Selling Product Categories", "", "Product Category", analysis.TopSellingCategories(ds, 10))
	s.YTitle = "Total Quantity Sold"
	return []Section{s}
}

func (b *builder) orders(ds *dataset.Dataset) []Section {
	days, err := analysis.AverageDeliveryDays(ds)
	delivery := b.metric("Average Delivery Time", "Average Delivery Time: %.2f days", days, err)

	items, err := analysis.AverageItemsPerOrder(ds)
	perOrder := b.metric("Average Number of Items per Order", "Average Number of Items per Order: %.2f", items, err)

	mode, err := analysis.MostCommonPaymentType(ds)
	payment := b.metric("Typical Payment Method", "Most Common Payment Method: %s", mode, err)

	return []Section{delivery, perOrder, payment}
}

func (b *builder) sellers(ds *dataset.Dataset) []Section {
	perf := analysis.SellerPerformance(ds)

	bySatisfaction := Section{
		Heading: "Top-Performing Sellers",
		Caption: "Highest Average Review Score",
		Kind:    KindBar,
		XTitle:  "Seller ID",
		YTitle:  "Average Review Score",
	}
	for _, s := range analysis.TopSellersBySatisfaction(perf, 10) {
		bySatisfaction.Labels = append(bySatisfaction.Labels, s.SellerID)
		bySatisfaction.Values = append(bySatisfaction.Values, s.AverageReviewScore)
	}

	bySales := Section{
		Heading: "Top-Performing Sellers",
		Caption: "Highest Total Sales",
		Kind:    KindBar,
		XTitle:  "Seller ID",
		YTitle:  "Total Sales",
	}
	for _, s := range analysis.TopSellersBySales(perf, 10) {
		bySales.Labels = append(bySales.Labels, s.SellerID)
		bySales.Values = append(bySales.Values, float64(s.TotalSales))
	}

	distribution := counts("Geographical Distribution of Sellers", "", "State", analysis.SellersByState(ds))
	distribution.YTitle = "Number of Sellers"

	return []Section{bySatisfaction, bySales, distribution}
}

func (b *builder) payments(ds *dataset.Dataset) []Section {
	const heading = "Payment Methods"

	avg := stats(heading, "Average Payment Value by Type", "Payment Type", analysis.AveragePaymentByType(ds))
	avg.YTitle = "Average Payment Value"

	return []Section{
		counts(heading, "Payments by Type", "Payment Type", analysis.PaymentTypeCounts(ds)),
		avg,
		counts("Installments", "Payments by Number of Installments", "Installments", analysis.InstallmentCounts(ds)),
	}
}

func (b *builder) reviews(ds *dataset.Dataset) []Section {
	avg, err := analysis.AverageReviewScore(ds)
	return []Section{
		counts("Review Score Distribution", "", "Review Score", analysis.ReviewScoreDistribution(ds)),
		b.metric("Average Review Score", "Average Review Score: %.2f", avg, err),
	}
}

func (b *builder) delivery(ds *dataset.Dataset) []Section {
	rate, err := analysis.OnTimeDeliveryRate(ds)
	onTime := b.metric("On-Time Delivery Rate", "Delivered on or before the estimated date: %.1f%%", rate*100, err)

	byState := stats("Average Delivery Time by Customer State", "", "State", analysis.DeliveryDaysByState(ds))
	byState.YTitle = "Average Delivery Time (days)"

	return []Section{onTime, byState}
}

func (b *builder) translation(ds *dataset.Dataset) []Section {
	cov := analysis.CategoryTranslationCoverage(ds)
	return []Section{
		{
			Heading: "Category Translation Coverage",
			Kind:    KindMetric,
			Text:    fmt.Sprintf("%d of %d product categories have an English name", cov.Translated, cov.Categories),
		},
		{
			Heading: "Untranslated Categories",
			Kind:    KindList,
			Labels:  cov.Untranslated,
		},
	}
}

// metric formats a single value, or NotAvailable when err is analysis.ErrEmpty.
// Any other error is kept on the builder.
func (b *builder) metric(heading, format string, v any, err error) Section {
	s := Section{Heading: heading, Kind: KindMetric}
	switch {
	case err == nil:
		s.Text = fmt.Sprintf(format, v)
	case errors.Is(err, analysis.ErrEmpty):
		label, _, _ := strings.Cut(format, ":")
		s.Text = label + ": " + NotAvailable
	default:
		if b.err == nil {
			b.err = fmt.Errorf("%s: %w", heading, err)
		}
	}
	return s
}

func counts(heading, caption, xTitle string, c []analysis.Count) Section {
	s := Section{Heading: heading, Caption: caption, Kind: KindBar, XTitle: xTitle, YTitle: "Count"}
	s.Labels = make([]string, len(c))
	s.Values = make([]float64, len(c))
	for i, v := range c {
		s.Labels[i] = v.Label
		s.Values[i] = float64(v.Count)
	}
	return s
}

func stats(heading, caption, xTitle string, st []analysis.Stat) Section {
	s := Section{Heading: heading, Caption: caption, Kind: KindBar, XTitle: xTitle}
	s.Labels = make([]string, len(st))
	s.Values = make([]float64, len(st))
	for i, v := range st {
		s.Labels[i] = v.Label
		s.Values[i] = v.Value
	}
	return s
}

func histogram(heading, xTitle string, bins []analysis.Bin) Section {
	s := Section{Heading: heading, Kind: KindHistogram, XTitle: xTitle, YTitle: "Customers"}
	s.Labels = make([]string, len(bins))
	s.Values = make([]float64, len(bins))
	for i, bin := range bins {
		s.Labels[i] = fmt.Sprintf("%.2f-%.2f", bin.Low, bin.High)
		s.Values[i] = float64(bin.Count)
	}
	return s
}
