package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"

	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/models"
	"github.com/xtrntr/marketdash/migrations"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB initializes a new database connection pool
func NewDB(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the database connection pool
func (db *DB) Close(ctx context.Context) error {
	db.Pool.Close()
	return nil
}

// Migrate applies the embedded goose migrations
func Migrate(ctx context.Context, connString string) error {
	sqlDB, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// CountOrders returns the number of stored orders
func (db *DB) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// LoadDataset reads every marketplace table into memory
func (db *DB) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	ds := &dataset.Dataset{}
	var err error

	if ds.Customers, err = db.getCustomers(ctx); err != nil {
		return nil, err
	}
	if ds.Orders, err = db.getOrders(ctx); err != nil {
		return nil, err
	}
	if ds.Products, err = db.getProducts(ctx); err != nil {
		return nil, err
	}
	if ds.OrderItems, err = db.getOrderItems(ctx); err != nil {
		return nil, err
	}
	if ds.Payments, err = db.getPayments(ctx); err != nil {
		return nil, err
	}
	if ds.Reviews, err = db.getReviews(ctx); err != nil {
		return nil, err
	}
	if ds.Sellers, err = db.getSellers(ctx); err != nil {
		return nil, err
	}
	if ds.Translations, err = db.getTranslations(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

func (db *DB) getCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT customer_id, customer_unique_id, customer_zip_code_prefix, customer_city, customer_state FROM customers")
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.UniqueID, &c.ZipCodePrefix, &c.City, &c.State); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (db *DB) getOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT order_id, customer_id, order_status, order_purchase_timestamp, order_approved_at,
		       order_delivered_carrier_date, order_delivered_customer_date, order_estimated_delivery_date
		FROM orders
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.Status,
			&o.PurchasedAt,
			&o.ApprovedAt,
			&o.DeliveredCarrierAt,
			&o.DeliveredCustomerAt,
			&o.EstimatedDeliveryAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (db *DB) getProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, "SELECT product_id, product_category_name, product_weight_g FROM products")
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Category, &p.WeightG); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (db *DB) getOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT order_id, order_item_id, product_id, seller_id, shipping_limit_date, price, freight_value
		FROM order_items
		ORDER BY order_id, order_item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		var price, freight pgtype.Numeric
		err := rows.Scan(&item.OrderID, &item.ItemID, &item.ProductID, &item.SellerID, &item.ShippingLimit, &price, &freight)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.Price = fromNumeric(price)
		item.FreightValue = fromNumeric(freight)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (db *DB) getPayments(ctx context.Context) ([]models.Payment, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT order_id, payment_sequential, payment_type, payment_installments, payment_value FROM order_payments")
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var value pgtype.Numeric
		if err := rows.Scan(&p.OrderID, &p.Sequential, &p.Type, &p.Installments, &value); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Value = fromNumeric(value)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (db *DB) getReviews(ctx context.Context) ([]models.Review, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT review_id, order_id, review_score, review_creation_date, review_answer_timestamp FROM order_reviews")
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.OrderID, &r.Score, &r.CreatedAt, &r.AnsweredAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (db *DB) getSellers(ctx context.Context) ([]models.Seller, error) {
	rows, err := db.Pool.Query(ctx, "SELECT seller_id, seller_zip_code_prefix, seller_city, seller_state FROM sellers")
	if err != nil {
		return nil, fmt.Errorf("failed to get sellers: %w", err)
	}
	defer rows.Close()

	var sellers []models.Seller
	for rows.Next() {
		var s models.Seller
		if err := rows.Scan(&s.ID, &s.ZipCodePrefix, &s.City, &s.State); err != nil {
			return nil, fmt.Errorf("failed to scan seller: %w", err)
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

func (db *DB) getTranslations(ctx context.Context) ([]models.CategoryTranslation, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT product_category_name, product_category_name_english FROM product_category_name_translation")
	if err != nil {
		return nil, fmt.Errorf("failed to get translations: %w", err)
	}
	defer rows.Close()

	var translations []models.CategoryTranslation
	for rows.Next() {
		var t models.CategoryTranslation
		if err := rows.Scan(&t.Category, &t.English); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		translations = append(translations, t)
	}
	return translations, rows.Err()
}

// CopyDataset bulk-inserts every table of ds in one transaction
func (db *DB) CopyDataset(ctx context.Context, ds *dataset.Dataset) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{
			table:   dataset.TableCustomers,
			columns: []string{"customer_id", "customer_unique_id", "customer_zip_code_prefix", "customer_city", "customer_state"},
			rows: rowsOf(ds.Customers, func(c models.Customer) []any {
				return []any{c.ID, c.UniqueID, c.ZipCodePrefix, c.City, c.State}
			}),
		},
		{
			table: dataset.TableOrders,
			columns: []string{"order_id", "customer_id", "order_status", "order_purchase_timestamp", "order_approved_at",
				"order_delivered_carrier_date", "order_delivered_customer_date", "order_estimated_delivery_date"},
			rows: rowsOf(ds.Orders, func(o models.Order) []any {
				return []any{o.ID, o.CustomerID, o.Status, timestamp(o.PurchasedAt), timestamp(o.ApprovedAt),
					timestamp(o.DeliveredCarrierAt), timestamp(o.DeliveredCustomerAt), timestamp(o.EstimatedDeliveryAt)}
			}),
		},
		{
			table:   dataset.TableProducts,
			columns: []string{"product_id", "product_category_name", "product_weight_g"},
			rows: rowsOf(ds.Products, func(p models.Product) []any {
				return []any{p.ID, p.Category, p.WeightG}
			}),
		},
		{
			table:   dataset.TableOrderItems,
			columns: []string{"order_id", "order_item_id", "product_id", "seller_id", "shipping_limit_date", "price", "freight_value"},
			rows: rowsOf(ds.OrderItems, func(i models.OrderItem) []any {
				return []any{i.OrderID, int32(i.ItemID), i.ProductID, i.SellerID, timestamp(i.ShippingLimit),
					toNumeric(i.Price), toNumeric(i.FreightValue)}
			}),
		},
		{
			table:   dataset.TablePayments,
			columns: []string{"order_id", "payment_sequential", "payment_type", "payment_installments", "payment_value"},
			rows: rowsOf(ds.Payments, func(p models.Payment) []any {
				return []any{p.OrderID, int32(p.Sequential), p.Type, int32(p.Installments), toNumeric(p.Value)}
			}),
		},
		{
			table:   dataset.TableReviews,
			columns: []string{"review_id", "order_id", "review_score", "review_creation_date", "review_answer_timestamp"},
			rows: rowsOf(ds.Reviews, func(r models.Review) []any {
				return []any{r.ID, r.OrderID, int32(r.Score), timestamp(r.CreatedAt), timestamp(r.AnsweredAt)}
			}),
		},
		{
			table:   dataset.TableSellers,
			columns: []string{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"},
			rows: rowsOf(ds.Sellers, func(s models.Seller) []any {
				return []any{s.ID, s.ZipCodePrefix, s.City, s.State}
			}),
		},
		{
			table:   dataset.TableTranslations,
			columns: []string{"product_category_name", "product_category_name_english"},
			rows: rowsOf(ds.Translations, func(t models.CategoryTranslation) []any {
				return []any{t.Category, t.English}
			}),
		},
	}

	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows))
		if err != nil {
			return fmt.Errorf("failed to copy %s: %w", c.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func rowsOf[T any](items []T, fn func(T) []any) [][]any {
	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = fn(item)
	}
	return rows
}

// timestamp turns a missing time into NULL
func timestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
