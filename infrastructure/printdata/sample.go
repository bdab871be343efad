package printdata

import (
	"github.com/shopspring/decimal"

	"odinpos/infrastructure/printtemplate"
)

var sampleTaxRate = decimal.RequireFromString("0.16")

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Sample returns a complete dine-in restaurant transaction.
func Sample() PrintData {
	items := []Item{
		NewItem("Tacos al pastor (orden)", decimal.NewFromInt(2), money("95.00")),
		NewItem("Sopa de tortilla", decimal.NewFromInt(1), money("78.50")),
		NewItem("Agua de horchata 1L", decimal.NewFromInt(1), money("45.00")),
		NewItem("Flan napolitano", decimal.NewFromInt(2), money("52.00")),
	}
	items[0].Notes = "Sin cebolla"
	items[3].Discount = money("10.00")
	for i := range items {
		items[i].Tax = items[i].Subtotal.Sub(items[i].Discount).Mul(sampleTaxRate).Round(2)
	}

	totals := ComputeTotals(items, sampleTaxRate, money("20.00"), money("40.00"), decimal.Zero)
	paid := money("600.00")

	return PrintData{
		Business: Business{
			Name:           "La Cocina de Odín",
			LogoURL:        "https://static.odinpos.app/demo/logo.png",
			Address:        "Av. Reforma 123, Col. Centro, CDMX",
			Phone:          "+52 55 1234 5678",
			TaxID:          "COD123456AB1",
			Email:          "hola@cocinadeodin.mx",
			CurrencySymbol: "$",
		},
		Customer: &Customer{
			Name:  "María Fernanda López",
			Phone: "+52 55 8765 4321",
		},
		Transaction: Transaction{
			Number: "T-000482",
			Date:   "14/03/2026",
			Time:   "14:32",
			Type:   "Mesa 7",
		},
		Items:  items,
		Totals: totals,
		Payment: &Payment{
			Method:     "Efectivo",
			AmountPaid: paid,
			Change:     paid.Sub(totals.Total),
		},
	}
}

// SampleFor tunes Sample to what a template of kind usually prints.
func SampleFor(kind printtemplate.Kind) PrintData {
	d := Sample()
	switch kind {
	case printtemplate.KindInvoice:
		d.Transaction.Number = "F-A-001203"
		d.Transaction.Type = "Factura"
		d.Customer = &Customer{
			Name:    "Grupo Restaurantero del Valle S.A. de C.V.",
			TaxID:   "GRV010203XY4",
			Address: "Insurgentes Sur 456, Col. Del Valle, CDMX",
			Phone:   "+52 55 2222 3333",
		}
		d.Totals = ComputeTotals(d.Items, sampleTaxRate, money("20.00"), decimal.Zero, decimal.Zero)
		d.Payment = &Payment{
			Method:     "Transferencia",
			AmountPaid: d.Totals.Total,
			Change:     decimal.Zero,
			Reference:  "SPEI 7781200",
		}
	case printtemplate.KindKitchenOrder, printtemplate.KindBarOrder:
		d.Transaction.Number = "C-0193"
		d.Customer = nil
		d.Payment = nil
		if kind == printtemplate.KindBarOrder {
			d.Items = []Item{
				NewItem("Margarita de tamarindo", decimal.NewFromInt(2), money("110.00")),
				NewItem("Cerveza artesanal IPA", decimal.NewFromInt(3), money("85.00")),
			}
			d.Items[0].Notes = "Escarchada con chamoy"
		} else {
			d.Items = d.Items[:2]
		}
		d.Totals = ComputeTotals(d.Items, sampleTaxRate, decimal.Zero, decimal.Zero, decimal.Zero)
		d.CustomText = &CustomText{Footer: "Mesero: Luis"}
	case printtemplate.KindDeliveryReceipt:
		d.Transaction.Number = "D-00077"
		d.Transaction.Type = "Domicilio"
		d.Customer = &Customer{
			Name:    "Carlos Méndez",
			Address: "Calle Durango 88 int. 4, Col. Roma Norte, CDMX",
			Phone:   "+52 55 4444 9999",
		}
		d.Totals = ComputeTotals(d.Items, sampleTaxRate, decimal.Zero, money("30.00"), money("35.00"))
		d.Payment = &Payment{
			Method:     "Tarjeta",
			AmountPaid: d.Totals.Total,
			Change:     decimal.Zero,
			Reference:  "**** 4242",
		}
	}
	return d
}
