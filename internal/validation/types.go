package validation

import "github.com/shopspring/decimal"

// ItemRequest позиция заказа в запросе с витрины
type ItemRequest struct {
	ProductID string          `json:"productId" validate:"required,max=100"`
	Name      string          `json:"name" validate:"required,max=200"`
	Color     string          `json:"color" validate:"required,max=50"`
	Quantity  int             `json:"quantity" validate:"min=1,max=100"`
	Price     decimal.Decimal `json:"price" validate:"dec_gt=0,dec_lte=1000000"`
}

// CheckoutRequest тело POST /api/orders.
// Website скрытое поле-ловушка, люди его не видят и оставляют пустым.
type CheckoutRequest struct {
	FirstName      string          `json:"firstName" validate:"min=2,max=100"`
	LastName       string          `json:"lastName" validate:"min=2,max=100"`
	Phone          string          `json:"phone" validate:"phone"`
	Email          string          `json:"email" validate:"max=255,basic_email"`
	Municipality   string          `json:"municipality" validate:"min=2,max=100"`
	City           string          `json:"city" validate:"min=2,max=100"`
	Address        string          `json:"address" validate:"min=5,max=300"`
	CourierService string          `json:"courierService" validate:"required,max=50,courier"`
	Items          []ItemRequest   `json:"items" validate:"min=1,max=50,dive"`
	Subtotal       decimal.Decimal `json:"subtotal" validate:"dec_gt=0"`
	Shipping       decimal.Decimal `json:"shipping" validate:"dec_gte=0"`
	Total          decimal.Decimal `json:"total" validate:"dec_gt=0"`
	Website        string          `json:"website,omitempty"`
}
