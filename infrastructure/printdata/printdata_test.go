package printdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"odinpos/infrastructure/printtemplate"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals(t *testing.T) {
	items := []Item{
		NewItem("Café americano", decimal.NewFromInt(2), d("35.00")),
		NewItem("Croissant", decimal.NewFromInt(1), d("42.50")),
	}
	items[1].Discount = d("2.50")

	got := ComputeTotals(items, d("0.16"), d("10.00"), d("15.00"), d("5.00"))
	require.Equal(t, "110.00", got.Subtotal.StringFixed(2))
	require.Equal(t, "16.00", got.Tax.StringFixed(2))
	require.Equal(t, "10.00", got.Discount.StringFixed(2))
	require.Equal(t, "136.00", got.Total.StringFixed(2))
}

func TestComputeTotalsDiscountBeyondSubtotal(t *testing.T) {
	items := []Item{NewItem("Agua", decimal.NewFromInt(1), d("20"))}
	got := ComputeTotals(items, d("0.16"), d("50"), decimal.Zero, decimal.Zero)
	require.True(t, got.Tax.IsZero())
	require.True(t, got.Total.IsZero())
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "$0.00",
		"5.5":       "$5.50",
		"999.999":   "$1,000.00",
		"1234567.8": "$1,234,567.80",
		"-42":       "-$42.00",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatMoney("$", d(in)), in)
	}
}

func TestFormatQuantity(t *testing.T) {
	require.Equal(t, "2", FormatQuantity(decimal.NewFromInt(2)))
	require.Equal(t, "1.5", FormatQuantity(d("1.50")))
}

func TestSampleIsConsistent(t *testing.T) {
	s := Sample()
	require.NotEmpty(t, s.Business.Name)
	require.NotNil(t, s.Customer)
	require.NotNil(t, s.Payment)
	require.NotEmpty(t, s.Items)
	require.False(t, s.Totals.Discount.IsZero())
	require.True(t, s.Payment.AmountPaid.Sub(s.Payment.Change).Equal(s.Totals.Total))
}

func TestSampleFor(t *testing.T) {
	kitchen := SampleFor(printtemplate.KindKitchenOrder)
	require.Nil(t, kitchen.Payment)
	require.Nil(t, kitchen.Customer)

	bar := SampleFor(printtemplate.KindBarOrder)
	require.Len(t, bar.Items, 2)
	require.Nil(t, bar.Payment)

	invoice := SampleFor(printtemplate.KindInvoice)
	require.NotEmpty(t, invoice.Customer.TaxID)
	require.True(t, invoice.Totals.Tip.IsZero())

	delivery := SampleFor(printtemplate.KindDeliveryReceipt)
	require.False(t, delivery.Totals.Shipping.IsZero())
	require.NotEmpty(t, delivery.Customer.Address)

	// Sample is rebuilt on every call
	kitchen.Items[0].Name = "changed"
	require.NotEqual(t, "changed", Sample().Items[0].Name)
}
