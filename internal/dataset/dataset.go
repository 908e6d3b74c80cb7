// Package dataset loads the marketplace tables into memory.
//
// Every table is read once into a slice of models and is treated as an
// immutable snapshot afterwards. Tables are located through a Source, which
// resolves a table name to a CSV stream.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xtrntr/marketdash/internal/models"
)

// Table names. Each one is also the stem of its CSV file.
const (
	TableCustomers    = "customers"
	TableOrders       = "orders"
	TableProducts     = "products"
	TableOrderItems   = "order_items"
	TablePayments     = "order_payments"
	TableReviews      = "order_reviews"
	TableSellers      = "sellers"
	TableTranslations = "product_category_name_translation"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a table header.
	ErrMissingColumn = errors.New("missing column")
	// ErrTableNotFound is returned by a Source when the table does not exist.
	ErrTableNotFound = errors.New("table not found")
)

// Dataset holds the marketplace snapshot
type Dataset struct {
	Customers    []models.Customer
	Orders       []models.Order
	Products     []models.Product
	OrderItems   []models.OrderItem
	Payments     []models.Payment
	Reviews      []models.Review
	Sellers      []models.Seller
	Translations []models.CategoryTranslation
}

// Counts returns the number of rows per table
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		TableCustomers:    len(d.Customers),
		TableOrders:       len(d.Orders),
		TableProducts:     len(d.Products),
		TableOrderItems:   len(d.OrderItems),
		TablePayments:     len(d.Payments),
		TableReviews:      len(d.Reviews),
		TableSellers:      len(d.Sellers),
		TableTranslations: len(d.Translations),
	}
}

// Load reads every table from src. The seven marketplace tables are required;
// the category translation table is optional and left empty when missing.
func Load(ctx context.Context, src Source, log logrus.FieldLogger) (*Dataset, error) {
	ds := &Dataset{}
	g, ctx := errgroup.WithContext(ctx)

	load := func(table string, required bool, fn func(io.Reader) (int, error)) {
		g.Go(func() error {
			rc, err := src.Open(ctx, table)
			if err != nil {
				if !required && errors.Is(err, ErrTableNotFound) {
					log.WithField("table", table).Warn("Optional table not found, skipping")
					return nil
				}
				return fmt.Errorf("failed to open %s: %w", table, err)
			}
			defer rc.Close()

			n, err := fn(rc)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", table, err)
			}
			log.WithFields(logrus.Fields{"table": table, "rows": n}).Info("Loaded table")
			return nil
		})
	}

	load(TableCustomers, true, func(r io.Reader) (n int, err error) {
		ds.Customers, err = ParseCustomers(r)
		return len(ds.Customers), err
	})
	load(TableOrders, true, func(r io.Reader) (n int, err error) {
		ds.Orders, err = ParseOrders(r)
		return len(ds.Orders), err
	})
	load(TableProducts, true, func(r io.Reader) (n int, err error) {
		ds.Products, err = ParseProducts(r)
		return len(ds.Products), err
	})
	load(TableOrderItems, true, func(r io.Reader) (n int, err error) {
		ds.OrderItems, err = ParseOrderItems(r)
		return len(ds.OrderItems), err
	})
	load(TablePayments, true, func(r io.Reader) (n int, err error) {
		ds.Payments, err = ParsePayments(r)
		return len(ds.Payments), err
	})
	load(TableReviews, true, func(r io.Reader) (n int, err error) {
		ds.Reviews, err = ParseReviews(r)
		return len(ds.Reviews), err
	})
	load(TableSellers, true, func(r io.Reader) (n int, err error) {
		ds.Sellers, err = ParseSellers(r)
		return len(ds.Sellers), err
	})
	load(TableTranslations, false, func(r io.Reader) (n int, err error) {
		ds.Translations, err = ParseTranslations(r)
		return len(ds.Translations), err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}
