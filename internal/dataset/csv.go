package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtrntr/marketdash/internal/models"
)

// timeLayouts are tried in order when parsing timestamp cells
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// row is one CSV record addressed by column name
type row struct {
	table  string
	line   int
	cols   map[string]int
	fields []string
}

func (r row) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r row) int(col string) (int, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	// pandas writes integer columns holding NaN as floats ("3.0")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.invalid(col, s, err)
	}
	return int(f), nil
}

func (r row) float(col string) (float64, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.invalid(col, s, err)
	}
	return f, nil
}

func (r row) decimal(col string) (decimal.Decimal, error) {
	s := r.str(col)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, r.invalid(col, s, err)
	}
	return d, nil
}

func (r row) time(col string) (*time.Time, error) {
	s := r.str(col)
	if s == "" {
		return nil, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, r.invalid(col, s, errors.New("unrecognized timestamp layout"))
}

func (r row) invalid(col, value string, err error) error {
	return fmt.Errorf("%s line %d column %s: invalid value %q: %w", r.table, r.line, col, value, err)
}

// parse reads a headed CSV stream and converts each record with fn.
// Columns are matched by header name, so order and extra columns don't matter.
func parse[T any](table string, rd io.Reader, required []string, fn func(row) (T, error)) ([]T, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", table)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", table, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			return nil, fmt.Errorf("%s.%s: %w", table, col, ErrMissingColumn)
		}
	}

	var out []T
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read record: %w", table, err)
		}
		line, _ := cr.FieldPos(0)
		v, err := fn(row{table: table, line: line, cols: cols, fields: fields})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseCustomers parses the customers table
func ParseCustomers(r io.Reader) ([]models.Customer, error) {
	required := []string{"customer_id", "customer_zip_code_prefix", "customer_city", "customer_state"}
	return parse(TableCustomers, r, required, func(rec row) (models.Customer, error) {
		return models.Customer{
			ID:            rec.str("customer_id"),
			UniqueID:      rec.str("customer_unique_id"),
			ZipCodePrefix: rec.str("customer_zip_code_prefix"),
			City:          rec.str("customer_city"),
			State:         rec.str("customer_state"),
		}, nil
	})
}

// ParseOrders parses the orders table
func ParseOrders(r io.Reader) ([]models.Order, error) {
	required := []string{"order_id", "customer_id", "order_purchase_timestamp", "order_delivered_customer_date"}
	return parse(TableOrders, r, required, func(rec row) (models.Order, error) {
		o := models.Order{
			ID:         rec.str("order_id"),
			CustomerID: rec.str("customer_id"),
			Status:     rec.str("order_status"),
		}
		var err error
		stamps := []struct {
			col string
			dst **time.Time
		}{
			{"order_purchase_timestamp", &o.PurchasedAt},
			{"order_approved_at", &o.ApprovedAt},
			{"order_delivered_carrier_date", &o.DeliveredCarrierAt},
			{"order_delivered_customer_date", &o.DeliveredCustomerAt},
			{"order_estimated_delivery_date", &o.EstimatedDeliveryAt},
		}
		for _, s := range stamps {
			if *s.dst, err = rec.time(s.col); err != nil {
				return o, err
			}
		}
		return o, nil
	})
}

// ParseProducts parses the products table
func ParseProducts(r io.Reader) ([]models.Product, error) {
	required := []string{"product_id", "product_category_name"}
	return parse(TableProducts, r, required, func(rec row) (models.Product, error) {
		weight, err := rec.float("product_weight_g")
		if err != nil {
			return models.Product{}, err
		}
		return models.Product{
			ID:       rec.str("product_id"),
			Category: rec.str("product_category_name"),
			WeightG:  weight,
		}, nil
	})
}

// ParseOrderItems parses the order items table
func ParseOrderItems(r io.Reader) ([]models.OrderItem, error) {
	required := []string{"order_id", "order_item_id", "product_id", "seller_id"}
	return parse(TableOrderItems, r, required, func(rec row) (models.OrderItem, error) {
		item := models.OrderItem{
			OrderID:   rec.str("order_id"),
			ProductID: rec.str("product_id"),
			SellerID:  rec.str("seller_id"),
		}
		var err error
		if item.ItemID, err = rec.int("order_item_id"); err != nil {
			return item, err
		}
		if item.ShippingLimit, err = rec.time("shipping_limit_date"); err != nil {
			return item, err
		}
		if item.Price, err = rec.decimal("price"); err != nil {
			return item, err
		}
		if item.FreightValue, err = rec.decimal("freight_value"); err != nil {
			return item, err
		}
		return item, nil
	})
}

// ParsePayments parses the order payments table
func ParsePayments(r io.Reader) ([]models.Payment, error) {
	required := []string{"order_id", "payment_type", "payment_value"}
	return parse(TablePayments, r, required, func(rec row) (models.Payment, error) {
		p := models.Payment{
			OrderID: rec.str("order_id"),
			Type:    rec.str("payment_type"),
		}
		var err error
		if p.Sequential, err = rec.int("payment_sequential"); err != nil {
			return p, err
		}
		if p.Installments, err = rec.int("payment_installments"); err != nil {
			return p, err
		}
		if p.Value, err = rec.decimal("payment_value"); err != nil {
			return p, err
		}
		return p, nil
	})
}

// ParseReviews parses the order reviews table
func ParseReviews(r io.Reader) ([]models.Review, error) {
	required := []string{"order_id", "review_score"}
	return parse(TableReviews, r, required, func(rec row) (models.Review, error) {
		rv := models.Review{
			ID:      rec.str("review_id"),
			OrderID: rec.str("order_id"),
		}
		var err error
		if rv.Score, err = rec.int("review_score"); err != nil {
			return rv, err
		}
		if rv.CreatedAt, err = rec.time("review_creation_date"); err != nil {
			return rv, err
		}
		if rv.AnsweredAt, err = rec.time("review_answer_timestamp"); err != nil {
			return rv, err
		}
		return rv, nil
	})
}

// ParseSellers parses the sellers table
func ParseSellers(r io.Reader) ([]models.Seller, error) {
	required := []string{"seller_id", "seller_state"}
	return parse(TableSellers, r, required, func(rec row) (models.Seller, error) {
		return models.Seller{
			ID:            rec.str("seller_id"),
			ZipCodePrefix: rec.str("seller_zip_code_prefix"),
			City:          rec.str("seller_city"),
			State:         rec.str("seller_state"),
		}, nil
	})
}

// ParseTranslations parses the category name translation table
func ParseTranslations(r io.Reader) ([]models.CategoryTranslation, error) {
	required := []string{"product_category_name", "product_category_name_english"}
	return parse(TableTranslations, r, required, func(rec row) (models.CategoryTranslation, error) {
		return models.CategoryTranslation{
			Category: rec.str("product_category_name"),
			English:  rec.str("product_category_name_english"),
		}, nil
	})
}
