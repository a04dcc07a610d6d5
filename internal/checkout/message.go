package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/pkg/enums"
	"github.com/emilianovazquez/pedilo-backend/pkg/money"
	"github.com/emilianovazquez/pedilo-backend/pkg/types"
)

// MessageInput carries everything the handoff summary needs.
type MessageInput struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryMethod  enums.DeliveryMethod
	DeliveryAddress *string
	DeliveryZone    *string
	PaymentMethod   enums.PaymentMethod
	PaymentProofURL *string
	Lines           types.OrderLines
	Surcharge       decimal.Decimal
	Total           decimal.Decimal
}

// BuildHandoffMessage formats the order summary sent to the store owner over
// WhatsApp. Pure string formatting; delivery is the channel's problem.
func BuildHandoffMessage(input MessageInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Nuevo pedido de %s*\n", input.CustomerName)
	fmt.Fprintf(&b, "Tel: %s\n", input.CustomerPhone)

	switch input.DeliveryMethod {
	case enums.DeliveryMethodDelivery:
		b.WriteString("Entrega: Delivery")
		if input.DeliveryAddress != nil && *input.DeliveryAddress != "" {
			fmt.Fprintf(&b, " a %s", *input.DeliveryAddress)
		}
		if input.DeliveryZone != nil && *input.DeliveryZone != "" {
			fmt.Fprintf(&b, " (Zona: %s)", *input.DeliveryZone)
		}
		b.WriteString("\n")
	default:
		b.WriteString("Entrega: Retiro en el local\n")
	}

	switch input.PaymentMethod {
	case enums.PaymentMethodTransfer:
		b.WriteString("Pago: Transferencia")
		if input.PaymentProofURL != nil && *input.PaymentProofURL != "" {
			fmt.Fprintf(&b, " (comprobante: %s)", *input.PaymentProofURL)
		}
		b.WriteString("\n")
	default:
		b.WriteString("Pago: Efectivo\n")
	}

	b.WriteString("\n")
	for _, line := range input.Lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&b, "- %dx %s %s\n", line.Quantity, line.ProductName, money.FormatARS(lineTotal))
	}

	if input.Surcharge.IsPositive() {
		fmt.Fprintf(&b, "- Envio %s\n", money.FormatARS(input.Surcharge))
	}

	fmt.Fprintf(&b, "\nTotal: %s", money.FormatARS(input.Total))
	return b.String()
}

// WhatsAppLink builds the wa.me deep link that opens the chat with the
// message prefilled.
func WhatsAppLink(phone string, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
}
