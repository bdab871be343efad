// Package printdata defines the transaction value a template is rendered
// against and provides sample transactions for previews and tests.
package printdata

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Business struct {
	Name           string `json:"name"`
	LogoURL        string `json:"logoUrl,omitempty"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	TaxID          string `json:"taxId,omitempty"`
	Email          string `json:"email,omitempty"`
	CurrencySymbol string `json:"currencySymbol"`
}

type Customer struct {
	Name    string `json:"name"`
	TaxID   string `json:"taxId,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type Transaction struct {
	Number string `json:"number"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Type   string `json:"type"`
}

// Item is one line of the transaction. Tax and Discount are zero when the
// line carries none.
type Item struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Discount  decimal.Decimal `json:"discount"`
	Notes     string          `json:"notes,omitempty"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Tip      decimal.Decimal `json:"tip"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

type Payment struct {
	Method     string          `json:"method"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Change     decimal.Decimal `json:"change"`
	Reference  string          `json:"reference,omitempty"`
}

type CustomText struct {
	Header string `json:"header,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// PrintData is one transaction to render. Customer, Payment and CustomText
// are nil when absent.
type PrintData struct {
	Business    Business    `json:"business"`
	Customer    *Customer   `json:"customer,omitempty"`
	Transaction Transaction `json:"transaction"`
	Items       []Item      `json:"items"`
	Totals      Totals      `json:"totals"`
	Payment     *Payment    `json:"payment,omitempty"`
	CustomText  *CustomText `json:"customText,omitempty"`
}

// NewItem builds a line with its subtotal computed from quantity and price.
func NewItem(name string, quantity, unitPrice decimal.Decimal) Item {
	return Item{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Subtotal:  quantity.Mul(unitPrice).Round(2),
	}
}

// ComputeTotals derives the totals of items. Tax is charged on the
// discounted subtotal; tip and shipping are added untaxed.
func ComputeTotals(items []Item, taxRate, discount, tip, shipping decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal.Sub(it.Discount))
	}
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(taxRate).Round(2)
	return Totals{
		Subtotal: subtotal.Round(2),
		Tax:      tax,
		Discount: discount.Round(2),
		Tip:      tip.Round(2),
		Shipping: shipping.Round(2),
		Total:    taxable.Add(tax).Add(tip).Add(shipping).Round(2),
	}
}

// FormatMoney renders amount with two decimals, comma thousands grouping
// and the currency symbol in front.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + symbol + b.String() + "." + frac
}

// FormatQuantity drops trailing zeros so whole units print as integers.
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}
