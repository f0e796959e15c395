package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linemk/pandabuds-shop/internal/domain/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	customerTmpl = mustParse("customer.html")
	ownerTmpl    = mustParse("owner.html")
)

func mustParse(name string) *template.Template {
	return template.Must(template.New(name).
		Funcs(template.FuncMap{"rsd": FormatRSD}).
		ParseFS(templateFS, "templates/"+name, "templates/items.html"))
}

type templateData struct {
	Order        *models.Order
	ShortNumber  string
	SupportEmail string
	Year         int
	Date         string
}

// CustomerConfirmation письмо покупателю: состав заказа и адрес доставки.
func CustomerConfirmation(from, supportEmail string, order *models.Order, now time.Time) (Message, error) {
	html, err := render(customerTmpl, templateData{
		Order:        order,
		ShortNumber:  order.ShortNumber(),
		SupportEmail: supportEmail,
		Year:         now.Year(),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      order.Email,
		Subject: "🐼 Hvala na porudžbini - Panda Buds",
		HTML:    html,
	}, nil
}

// OwnerNotification письмо владельцу магазина со всеми данными для отправки заказа.
func OwnerNotification(from, ownerEmail string, order *models.Order, now time.Time) (Message, error) {
	html, err := render(ownerTmpl, templateData{
		Order:       order,
		ShortNumber: order.ShortNumber(),
		Date:        now.Format("02.01.2006. 15:04"),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{
		From:    from,
		To:      ownerEmail,
		Subject: fmt.Sprintf("💰 NOVA PORUDŽBINA: %s RSD (#%s)", FormatRSD(order.Total), order.ShortNumber()),
		HTML:    html,
	}, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// FormatRSD форматирует сумму по-сербски: точка разделяет тысячи, запятая отделяет дробную часть.
// 2750 -> "2.750", 1234.5 -> "1.234,50".
func FormatRSD(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "00" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return sign + b.String()
}
