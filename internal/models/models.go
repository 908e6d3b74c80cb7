package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a marketplace buyer
type Customer struct {
	ID            string `json:"customer_id"`
	UniqueID      string `json:"customer_unique_id"`
	ZipCodePrefix string `json:"customer_zip_code_prefix"`
	City          string `json:"customer_city"`
	State         string `json:"customer_state"`
}

// Order represents a purchase placed by a customer.
// Timestamps are nil when the source cell is empty.
type Order struct {
	ID                  string     `json:"order_id"`
	CustomerID          string     `json:"customer_id"`
	Status              string     `json:"order_status"` // "delivered", "shipped", "canceled", ...
	PurchasedAt         *time.Time `json:"order_purchase_timestamp"`
	ApprovedAt          *time.Time `json:"order_approved_at"`
	DeliveredCarrierAt  *time.Time `json:"order_delivered_carrier_date"`
	DeliveredCustomerAt *time.Time `json:"order_delivered_customer_date"`
	EstimatedDeliveryAt *time.Time `json:"order_estimated_delivery_date"`
}

// Product represents a catalog entry
type Product struct {
	ID       string  `json:"product_id"`
	Category string  `json:"product_category_name"`
	WeightG  float64 `json:"product_weight_g"`
}

// OrderItem represents one line of an order.
// ItemID is the sequence number of the line within its order, starting at 1.
type OrderItem struct {
	OrderID       string          `json:"order_id"`
	ItemID        int             `json:"order_item_id"`
	ProductID     string          `json:"product_id"`
	SellerID      string          `json:"seller_id"`
	ShippingLimit *time.Time      `json:"shipping_limit_date"`
	Price         decimal.Decimal `json:"price"`
	FreightValue  decimal.Decimal `json:"freight_value"`
}

// Payment represents one payment towards an order
type Payment struct {
	OrderID      string          `json:"order_id"`
	Sequential   int             `json:"payment_sequential"`
	Type         string          `json:"payment_type"` // "credit_card", "boleto", "voucher", "debit_card"
	Installments int             `json:"payment_installments"`
	Value        decimal.Decimal `json:"payment_value"`
}

// Review represents a customer review of an order
type Review struct {
	ID         string     `json:"review_id"`
	OrderID    string     `json:"order_id"`
	Score      int        `json:"review_score"` // 1..5
	CreatedAt  *time.Time `json:"review_creation_date"`
	AnsweredAt *time.Time `json:"review_answer_timestamp"`
}

// Seller represents a merchant selling through the marketplace
type Seller struct {
	ID            string `json:"seller_id"`
	ZipCodePrefix string `json:"seller_zip_code_prefix"`
	City          string `json:"seller_city"`
	State         string `json:"seller_state"`
}

// CategoryTranslation maps a product category name to English
type CategoryTranslation struct {
	Category string `json:"product_category_name"`
	English  string `json:"product_category_name_english"`
}
