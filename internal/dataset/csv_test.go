package dataset

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrders(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectRows  int
		expectError error
	}{
		{
			name: "Success",
			input: "order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date\n" +
				"o1,c1,delivered,2017-10-02 10:56:33,2017-10-10 21:25:13\n" +
				"o2,c2,shipped,2017-11-18,\n",
			expectRows: 2,
		},
		{
			name: "Reordered And Extra Columns",
			input: ",order_delivered_customer_date,extra,customer_id,order_purchase_timestamp,order_id\n" +
				"0,2017-10-10T21:25:13Z,x,c1,2017-10-02T10:56:33Z,o1\n",
			expectRows: 1,
		},
		{
			name:        "Missing Column",
			input:       "order_id,customer_id,order_purchase_timestamp\no1,c1,2017-10-02 10:56:33\n",
			expectError: ErrMissingColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := ParseOrders(strings.NewReader(tt.input))
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, orders, tt.expectRows)
			assert.Equal(t, "o1", orders[0].ID)
			assert.Equal(t, "c1", orders[0].CustomerID)
			require.NotNil(t, orders[0].PurchasedAt)
			assert.Equal(t, time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), *orders[0].PurchasedAt)
		})
	}
}

func TestParseOrders_EmptyTimestampIsNil(t *testing.T) {
	input := "order_id,customer_id,order_purchase_timestamp,order_delivered_customer_date\n" +
		"o4,c4,2017-11-18 19:28:06,\n"

	orders, err := ParseOrders(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.NotNil(t, orders[0].PurchasedAt)
	assert.Nil(t, orders[0].DeliveredCustomerAt)
	assert.Nil(t, orders[0].EstimatedDeliveryAt)
}

func TestParseOrders_InvalidTimestamp(t *testing.T) {
	input := "order_id,customer_id,order_purchase_timestamp,order_delivered_customer_date\n" +
		"o1,c1,yesterday,\n"

	_, err := ParseOrders(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_purchase_timestamp")
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseOrderItems(t *testing.T) {
	input := "order_id,order_item_id,product_id,seller_id,price,freight_value\n" +
		"o1,1,p1,s1,29.99,8.72\n" +
		"o1,2.0,p1,s1,29.99,\n"

	items, err := ParseOrderItems(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, 1, items[0].ItemID)
	assert.True(t, decimal.RequireFromString("29.99").Equal(items[0].Price))
	assert.Equal(t, 2, items[1].ItemID)
	assert.True(t, items[1].FreightValue.IsZero())
}

func TestParsePayments_InvalidValue(t *testing.T) {
	input := "order_id,payment_type,payment_value\no1,credit_card,abc\n"

	_, err := ParsePayments(strings.NewReader(input))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "payment_value")
}

func TestParseReviews_QuotedMultiline(t *testing.T) {
	input := "review_id,order_id,review_score,review_comment_message\n" +
		"r1,o1,4,\"veio correto, obrigado\"\n" +
		"r2,o2,1,\"chegou\natrasado\"\n"

	reviews, err := ParseReviews(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 4, reviews[0].Score)
	assert.Equal(t, "o2", reviews[1].OrderID)
	assert.Equal(t, 1, reviews[1].Score)
}

func TestParse_HeaderWithBOM(t *testing.T) {
	input := "\ufeffseller_id,seller_state\ns1,SP\n"

	sellers, err := ParseSellers(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, sellers, 1)
	assert.Equal(t, "s1", sellers[0].ID)
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := ParseCustomers(strings.NewReader(""))
	assert.Error(t, err)
}
