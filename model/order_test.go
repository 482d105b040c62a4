package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testProduct(number string, price int) Product {
	return Product{
		ProductNumber: number,
		Type:          ProductTypeHandmade,
		SellingStatus: SellingStatusSelling,
		Name:          "menu item",
		Price:         price,
	}
}

func TestNewOrderCalculatesTotalPrice(t *testing.T) {
	products := []Product{
		testProduct("001", 1000),
		testProduct("002", 2000),
	}

	order := NewOrder(products, time.Now())

	assert.Equal(t, 3000, order.TotalPrice)
}

func TestNewOrderStartsInit(t *testing.T) {
	order := NewOrder([]Product{testProduct("001", 1000)}, time.Now())

	assert.Equal(t, OrderStatusInit, order.Status)
}

func TestNewOrderKeepsRegisteredTime(t *testing.T) {
	registeredAt := time.Date(2023, 3, 5, 10, 30, 0, 0, time.UTC)

	order := NewOrder([]Product{testProduct("001", 1000)}, registeredAt)

	assert.Equal(t, registeredAt, order.RegisteredAt)
}

func TestNewOrderKeepsDuplicateLineItems(t *testing.T) {
	products := []Product{
		testProduct("001", 1000),
		testProduct("001", 1000),
		testProduct("002", 3000),
	}

	order := NewOrder(products, time.Now())

	assert.Len(t, order.LineItems, 3)
	assert.Equal(t, "001", order.LineItems[0].ProductNumber)
	assert.Equal(t, "001", order.LineItems[1].ProductNumber)
	assert.Equal(t, "002", order.LineItems[2].ProductNumber)
	assert.Equal(t, 5000, order.TotalPrice)
}

func TestNewOrderEmptyProducts(t *testing.T) {
	order := NewOrder(nil, time.Now())

	assert.Equal(t, OrderStatusInit, order.Status)
	assert.Empty(t, order.LineItems)
	assert.Zero(t, order.TotalPrice)
}

func TestOrderStatusText(t *testing.T) {
	assert.Equal(t, "Order created", OrderStatusInit.Text())
	assert.Equal(t, "Payment completed", OrderStatusPaymentCompleted.Text())
}
