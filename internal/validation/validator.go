package validation

import (
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/linemk/pandabuds-shop/internal/domain/models"
)

var (
	phoneRegex = regexp.MustCompile(`^[\d\s+\-()]{6,20}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// допустимое расхождение total и subtotal + shipping
var totalTolerance = decimal.NewFromInt(1)

const tagTotalMatches = "total_matches"

// New возвращает валидатор с зарегистрированными правилами витрины.
func New() *validator.Validate {
	v := validator.New()

	// decimal отдаем валидатору точной строкой, сравнивают ее теги dec_*
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("dec_gt", decimalCmp(func(d, bound decimal.Decimal) bool { return d.GreaterThan(bound) }))
	_ = v.RegisterValidation("dec_gte", decimalCmp(func(d, bound decimal.Decimal) bool { return d.GreaterThanOrEqual(bound) }))
	_ = v.RegisterValidation("dec_lte", decimalCmp(func(d, bound decimal.Decimal) bool { return d.LessThanOrEqual(bound) }))

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("courier", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.CourierServices, fl.Field().String())
	})

	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})

	return v
}

// decimalCmp сравнивает денежное поле с параметром тега без потери точности
func decimalCmp(cmp func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return cmp(d, bound)
	}
}

// checkoutStructValidation сверяет total с subtotal + shipping (допуск 1 динар).
// Запрос с расхождением отклоняется, сумма не исправляется.
func checkoutStructValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	diff := req.Total.Sub(req.Subtotal.Add(req.Shipping)).Abs()
	if diff.GreaterThan(totalTolerance) {
		sl.ReportError(req.Total, "total", "Total", tagTotalMatches, req.Subtotal.Add(req.Shipping).String())
	}
}

// Normalize обрезает пробелы во всех строковых полях и приводит email к нижнему регистру.
func Normalize(req *CheckoutRequest) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Municipality = strings.TrimSpace(req.Municipality)
	req.City = strings.TrimSpace(req.City)
	req.Address = strings.TrimSpace(req.Address)
	req.CourierService = strings.TrimSpace(req.CourierService)
	for i := range req.Items {
		req.Items[i].ProductID = strings.TrimSpace(req.Items[i].ProductID)
		req.Items[i].Name = strings.TrimSpace(req.Items[i].Name)
		req.Items[i].Color = strings.TrimSpace(req.Items[i].Color)
	}
}

// IsBot сообщает, что заполнено поле-ловушка.
func IsBot(req *CheckoutRequest) bool {
	return strings.TrimSpace(req.Website) != ""
}

// Reason возвращает понятное пользователю описание первой ошибки валидации.
func Reason(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request"
	}
	fe := ve[0]

	if strings.Contains(fe.StructNamespace(), ".Items") {
		return "Invalid order items"
	}

	switch fe.StructField() {
	case "FirstName":
		return "Invalid first name"
	case "LastName":
		return "Invalid last name"
	case "Phone":
		return "Invalid phone number"
	case "Email":
		return "Invalid email address"
	case "Municipality":
		return "Invalid municipality"
	case "City":
		return "Invalid city"
	case "Address":
		return "Invalid address"
	case "CourierService":
		return "Invalid courier service"
	case "Subtotal":
		return "Invalid subtotal"
	case "Shipping":
		return "Invalid shipping cost"
	case "Total":
		if fe.Tag() == tagTotalMatches {
			return "Total does not match subtotal + shipping"
		}
		return "Invalid total"
	}
	return "Invalid request"
}
