package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validRequest() CheckoutRequest {
	return CheckoutRequest{
		FirstName:      "Ana",
		LastName:       "Petrović",
		Phone:          "+381641234567",
		Email:          "ana@example.com",
		Municipality:   "Novi Sad",
		City:           "Novi Sad",
		Address:        "Bulevar 1",
		CourierService: "Dexpress",
		Items: []ItemRequest{
			{ProductID: "panda-buds-black", Name: "Panda Buds Classic", Color: "Crna", Quantity: 1, Price: decimal.NewFromInt(2400)},
		},
		Subtotal: decimal.NewFromInt(2400),
		Shipping: decimal.NewFromInt(350),
		Total:    decimal.NewFromInt(2750),
	}
}

func reasonFor(req CheckoutRequest) string {
	Normalize(&req)
	if err := New().Struct(req); err != nil {
		return Reason(err)
	}
	return ""
}

func TestCheckoutRequest_Valid(t *testing.T) {
	assert.Empty(t, reasonFor(validRequest()))
}

func TestCheckoutRequest_TotalTolerance(t *testing.T) {
	req := validRequest()
	req.Total = decimal.RequireFromString("2751")
	assert.Empty(t, reasonFor(req), "difference of exactly 1 is tolerated")

	req.Total = decimal.RequireFromString("2749.5")
	assert.Empty(t, reasonFor(req))

	req.Total = decimal.RequireFromString("2751.01")
	assert.Equal(t, "Total does not match subtotal + shipping", reasonFor(req))

	req.Total = decimal.NewFromInt(9999)
	assert.Equal(t, "Total does not match subtotal + shipping", reasonFor(req))
}

func TestCheckoutRequest_ItemCountBounds(t *testing.T) {
	req := validRequest()
	req.Items = nil
	assert.Equal(t, "Invalid order items", reasonFor(req))

	req = validRequest()
	item := req.Items[0]
	req.Items = make([]ItemRequest, 51)
	for i := range req.Items {
		req.Items[i] = item
	}
	assert.Equal(t, "Invalid order items", reasonFor(req))

	req.Items = req.Items[:50]
	req.Subtotal = decimal.NewFromInt(50 * 2400)
	req.Total = req.Subtotal.Add(req.Shipping)
	assert.Empty(t, reasonFor(req))
}

func TestCheckoutRequest_QuantityBounds(t *testing.T) {
	cases := map[int]string{
		0:   "Invalid order items",
		1:   "",
		100: "",
		101: "Invalid order items",
	}
	for qty, want := range cases {
		req := validRequest()
		req.Items[0].Quantity = qty
		// сумма не важна для проверки количества, подгоняем ее
		req.Subtotal = req.Items[0].Price.Mul(decimal.NewFromInt(int64(max(qty, 1))))
		req.Total = req.Subtotal.Add(req.Shipping)
		assert.Equal(t, want, reasonFor(req), "quantity %d", qty)
	}
}

func TestCheckoutRequest_PriceBounds(t *testing.T) {
	req := validRequest()
	req.Items[0].Price = decimal.Zero
	assert.Equal(t, "Invalid order items", reasonFor(req))

	req = validRequest()
	req.Items[0].Price = decimal.NewFromInt(1000000)
	assert.Empty(t, reasonFor(req))

	req.Items[0].Price = decimal.NewFromInt(1000001)
	assert.Equal(t, "Invalid order items", reasonFor(req))

	// на границе float64 уже не различает значения
	req = validRequest()
	req.Items[0].Price = decimal.RequireFromString("1000000.00000000001")
	req.Subtotal = req.Items[0].Price
	req.Total = req.Subtotal.Add(req.Shipping)
	assert.Equal(t, "Invalid order items", reasonFor(req))

	req = validRequest()
	req.Items[0].Price = decimal.RequireFromString("0.00000000001")
	req.Subtotal = decimal.NewFromInt(1)
	req.Total = req.Subtotal.Add(req.Shipping)
	assert.Empty(t, reasonFor(req), "any positive price is accepted")
}

func TestCheckoutRequest_MoneyFieldsCompareExactly(t *testing.T) {
	req := validRequest()
	req.Shipping = decimal.Zero
	req.Total = req.Subtotal
	assert.Empty(t, reasonFor(req), "free shipping is allowed")

	req = validRequest()
	req.Shipping = decimal.RequireFromString("-0.00000000001")
	assert.Equal(t, "Invalid shipping cost", reasonFor(req))

	req = validRequest()
	req.Subtotal = decimal.RequireFromString("-1")
	assert.Equal(t, "Invalid subtotal", reasonFor(req))
}

func TestCheckoutRequest_FieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *CheckoutRequest)
		want   string
	}{
		{"short first name after trim", func(r *CheckoutRequest) { r.FirstName = "  A  " }, "Invalid first name"},
		{"long last name", func(r *CheckoutRequest) { r.LastName = strings.Repeat("x", 101) }, "Invalid last name"},
		{"phone with letters", func(r *CheckoutRequest) { r.Phone = "call me" }, "Invalid phone number"},
		{"phone too short", func(r *CheckoutRequest) { r.Phone = "12345" }, "Invalid phone number"},
		{"email without domain", func(r *CheckoutRequest) { r.Email = "ana@example" }, "Invalid email address"},
		{"email too long", func(r *CheckoutRequest) { r.Email = strings.Repeat("a", 250) + "@ex.com" }, "Invalid email address"},
		{"municipality", func(r *CheckoutRequest) { r.Municipality = "N" }, "Invalid municipality"},
		{"city", func(r *CheckoutRequest) { r.City = "" }, "Invalid city"},
		{"address too short", func(r *CheckoutRequest) { r.Address = "Ul 1" }, "Invalid address"},
		{"unknown courier", func(r *CheckoutRequest) { r.CourierService = "DHL" }, "Invalid courier service"},
		{"missing courier", func(r *CheckoutRequest) { r.CourierService = " " }, "Invalid courier service"},
		{"empty color", func(r *CheckoutRequest) { r.Items[0].Color = "" }, "Invalid order items"},
		{"negative shipping", func(r *CheckoutRequest) { r.Shipping = decimal.NewFromInt(-1) }, "Invalid shipping cost"},
		{"zero subtotal", func(r *CheckoutRequest) { r.Subtotal = decimal.Zero }, "Invalid subtotal"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validRequest()
			c.mutate(&req)
			assert.Equal(t, c.want, reasonFor(req))
		})
	}
}

func TestCheckoutRequest_FirstFailureWins(t *testing.T) {
	req := validRequest()
	req.Phone = "x"
	req.Address = ""
	assert.Equal(t, "Invalid phone number", reasonFor(req))
}

func TestNormalize(t *testing.T) {
	req := validRequest()
	req.FirstName = "  Ana "
	req.Email = " Ana@Example.COM "
	req.Items[0].Name = " Panda Buds Classic\t"

	Normalize(&req)

	assert.Equal(t, "Ana", req.FirstName)
	assert.Equal(t, "ana@example.com", req.Email)
	assert.Equal(t, "Panda Buds Classic", req.Items[0].Name)
}

func TestIsBot(t *testing.T) {
	req := validRequest()
	assert.False(t, IsBot(&req))
	req.Website = "   "
	assert.False(t, IsBot(&req))
	req.Website = "http://spam"
	assert.True(t, IsBot(&req))
}
