package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order представляет заказ, оформленный на витрине
type Order struct {
	ID             uuid.UUID       `json:"id"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Municipality   string          `json:"municipality"`
	City           string          `json:"city"`
	Address        string          `json:"address"`
	CourierService string          `json:"courierService"`
	Items          []OrderItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Shipping       decimal.Decimal `json:"shipping"`
	Total          decimal.Decimal `json:"total"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// OrderItem позиция заказа, хранится вместе с заказом и не меняется
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// LineTotal цена позиции с учетом количества
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShortNumber номер заказа для людей: первые 8 символов id в верхнем регистре
func (o *Order) ShortNumber() string {
	return strings.ToUpper(o.ID.String()[:8])
}

// CourierServices доступные курьерские службы
var CourierServices = []string{"Dexpress", "BexExpress", "AksExpress", "PostExpress"}
