package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/models"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testDataset mirrors the CSV files under internal/dataset/testdata
func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Customers: []models.Customer{
			{ID: "c1", ZipCodePrefix: "14409", City: "franca", State: "SP"},
			{ID: "c2", ZipCodePrefix: "9790", City: "sao bernardo do campo", State: "SP"},
			{ID: "c3", ZipCodePrefix: "1151", City: "sao paulo", State: "SP"},
			{ID: "c4", ZipCodePrefix: "8775", City: "mogi das cruzes", State: "SP"},
			{ID: "c5", ZipCodePrefix: "13056", City: "campinas", State: "SP"},
			{ID: "c6", ZipCodePrefix: "89254", City: "jaragua do sul", State: "SC"},
			{ID: "c7", ZipCodePrefix: "4534", City: "sao paulo", State: "SP"},
			{ID: "c8", ZipCodePrefix: "35182", City: "timoteo", State: "MG"},
		},
		Orders: []models.Order{
			{ID: "o1", CustomerID: "c1", Status: "delivered", PurchasedAt: ts("2017-10-02 10:56:33"),
				DeliveredCustomerAt: ts("2017-10-10 21:25:13"), EstimatedDeliveryAt: ts("2017-10-18 00:00:00")},
			{ID: "o2", CustomerID: "c2", Status: "delivered", PurchasedAt: ts("2018-07-24 20:41:37"),
				DeliveredCustomerAt: ts("2018-08-07 15:27:45"), EstimatedDeliveryAt: ts("2018-08-13 00:00:00")},
			{ID: "o3", CustomerID: "c3", Status: "delivered", PurchasedAt: ts("2018-08-08 08:38:49"),
				DeliveredCustomerAt: ts("2018-08-17 18:06:29"), EstimatedDeliveryAt: ts("2018-09-04 00:00:00")},
			{ID: "o4", CustomerID: "c4", Status: "shipped", PurchasedAt: ts("2017-11-18 19:28:06"),
				EstimatedDeliveryAt: ts("2017-12-15 00:00:00")},
			{ID: "o5", CustomerID: "c1", Status: "delivered", PurchasedAt: ts("2018-02-13 21:18:39"),
				DeliveredCustomerAt: ts("2018-03-01 16:17:00"), EstimatedDeliveryAt: ts("2018-02-26 00:00:00")},
		},
		Products: []models.Product{
			{ID: "p1", Category: "perfumaria"},
			{ID: "p2", Category: "artes"},
			{ID: "p3"},
		},
		OrderItems: []models.OrderItem{
			{OrderID: "o1", ItemID: 1, ProductID: "p1", SellerID: "s1", Price: money("29.99")},
			{OrderID: "o2", ItemID: 1, ProductID: "p2", SellerID: "s2", Price: money("118.70")},
			{OrderID: "o3", ItemID: 1, ProductID: "p1", SellerID: "s1", Price: money("159.90")},
			{OrderID: "o3", ItemID: 2, ProductID: "p1", SellerID: "s1", Price: money("159.90")},
			{OrderID: "o5", ItemID: 1, ProductID: "p3", SellerID: "s3", Price: money("45.00")},
		},
		Payments: []models.Payment{
			{OrderID: "o1", Sequential: 1, Type: "credit_card", Installments: 1, Value: money("18.12")},
			{OrderID: "o1", Sequential: 3, Type: "voucher", Installments: 1, Value: money("2.00")},
			{OrderID: "o1", Sequential: 2, Type: "voucher", Installments: 1, Value: money("18.59")},
			{OrderID: "o2", Sequential: 1, Type: "boleto", Installments: 1, Value: money("141.46")},
			{OrderID: "o3", Sequential: 1, Type: "credit_card", Installments: 3, Value: money("179.12")},
			{OrderID: "o5", Sequential: 1, Type: "credit_card", Installments: 1, Value: money("72.20")},
		},
		Reviews: []models.Review{
			{ID: "r1", OrderID: "o1", Score: 4},
			{ID: "r2", OrderID: "o2", Score: 5},
			{ID: "r3", OrderID: "o3", Score: 5},
			{ID: "r4", OrderID: "o5", Score: 1},
		},
		Sellers: []models.Seller{
			{ID: "s1", City: "campinas", State: "SP"},
			{ID: "s2", City: "mogi guacu", State: "SP"},
			{ID: "s3", City: "rio de janeiro", State: "RJ"},
		},
		Translations: []models.CategoryTranslation{
			{Category: "perfumaria", English: "perfumery"},
		},
	}
}
