// Package printrender turns a template and a transaction into the editor
// preview, a standalone printable HTML document or a PDF. All outputs go
// through RenderBlockContent so they agree on what each block shows.
package printrender

import (
	"errors"
	"fmt"

	"odinpos/infrastructure/printdata"
	"odinpos/infrastructure/printtemplate"
)

var (
	ErrNoBlocks         = errors.New("printrender: template has no blocks")
	ErrUnknownBlockKind = errors.New("printrender: unknown block kind")
)

// DefaultFooter is printed by footer blocks when the transaction carries
// no custom footer text.
const DefaultFooter = "¡Gracias por su compra!"

// Line is one text row. Split lines print Label on the left and Value on
// the right; other lines print "Label: Value", or Value alone.
type Line struct {
	Label    string `json:"label,omitempty"`
	Value    string `json:"value"`
	Split    bool   `json:"split,omitempty"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

func (l Line) Text() string {
	if l.Label == "" {
		return l.Value
	}
	return l.Label + ": " + l.Value
}

type ItemRow struct {
	Quantity  string `json:"quantity"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice,omitempty"`
	Subtotal  string `json:"subtotal,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ItemTable always has quantity and name columns; the price columns are
// present only when their flag is set.
type ItemTable struct {
	ShowPrices   bool      `json:"showPrices"`
	ShowSubtotal bool      `json:"showSubtotal"`
	Rows         []ItemRow `json:"rows"`
}

type Image struct {
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	HeightMM int    `json:"heightMm"`
}

// Placeholder reserves layout space for a symbol or image the renderer
// does not draw. WidthMM zero means the full paper width.
type Placeholder struct {
	Kind     printtemplate.BlockKind `json:"kind"`
	Label    string                  `json:"label"`
	Data     string                  `json:"data,omitempty"`
	WidthMM  int                     `json:"widthMm"`
	HeightMM int                     `json:"heightMm"`
}

// Content is what a block shows for one transaction, independent of the
// output format.
type Content struct {
	Kind        printtemplate.BlockKind `json:"kind"`
	Logo        *Image                  `json:"logo,omitempty"`
	Lines       []Line                  `json:"lines,omitempty"`
	Items       *ItemTable              `json:"items,omitempty"`
	Rule        bool                    `json:"rule,omitempty"`
	Image       *Image                  `json:"image,omitempty"`
	Placeholder *Placeholder            `json:"placeholder,omitempty"`
}

// empty reports whether the block has nothing to print.
func (c Content) empty() bool {
	return c.Logo == nil && len(c.Lines) == 0 && c.Items == nil && !c.Rule &&
		c.Image == nil && c.Placeholder == nil
}

// RenderBlockContent maps a block to its content for data. Missing optional
// data never fails; only unknown kinds do.
func RenderBlockContent(block printtemplate.Block, data printdata.PrintData) (Content, error) {
	c := Content{Kind: block.Kind}
	cur := data.Business.CurrencySymbol
	opts := block.Content

	switch block.Kind {
	case printtemplate.BlockHeader:
		if opts.ShowLogo && data.Business.LogoURL != "" {
			c.Logo = &Image{URL: data.Business.LogoURL, Alt: data.Business.Name, HeightMM: 15}
		}
		if opts.ShowBusinessName && data.Business.Name != "" {
			c.Lines = append(c.Lines, Line{Value: data.Business.Name, Emphasis: true})
		}

	case printtemplate.BlockBusinessInfo:
		b := data.Business
		c.Lines = appendIf(c.Lines, "", b.Address)
		c.Lines = appendIf(c.Lines, "Tel", b.Phone)
		c.Lines = appendIf(c.Lines, "RFC", b.TaxID)
		c.Lines = appendIf(c.Lines, "", b.Email)

	case printtemplate.BlockCustomerInfo:
		if cust := data.Customer; cust != nil {
			c.Lines = append(c.Lines, Line{Label: "Cliente", Value: cust.Name})
			c.Lines = appendIf(c.Lines, "RFC", cust.TaxID)
			c.Lines = appendIf(c.Lines, "Dirección", cust.Address)
			c.Lines = appendIf(c.Lines, "Tel", cust.Phone)
		}

	case printtemplate.BlockItems:
		table := &ItemTable{ShowPrices: opts.ShowPrices, ShowSubtotal: opts.ShowSubtotal, Rows: []ItemRow{}}
		for _, it := range data.Items {
			row := ItemRow{
				Quantity: printdata.FormatQuantity(it.Quantity),
				Name:     it.Name,
				Notes:    it.Notes,
			}
			if opts.ShowPrices {
				row.UnitPrice = printdata.FormatMoney(cur, it.UnitPrice)
			}
			if opts.ShowSubtotal {
				row.Subtotal = printdata.FormatMoney(cur, it.Subtotal)
			}
			table.Rows = append(table.Rows, row)
		}
		c.Items = table

	case printtemplate.BlockSubtotals:
		c.Lines = summaryLines(opts, data.Totals, cur, false)

	case printtemplate.BlockTotals:
		c.Lines = summaryLines(opts, data.Totals, cur, true)

	case printtemplate.BlockPaymentInfo:
		if p := data.Payment; p != nil {
			c.Lines = append(c.Lines,
				Line{Label: "Método de pago", Value: p.Method, Split: true},
				Line{Label: "Pagado", Value: printdata.FormatMoney(cur, p.AmountPaid), Split: true},
				Line{Label: "Cambio", Value: printdata.FormatMoney(cur, p.Change), Split: true},
			)
			if p.Reference != "" {
				c.Lines = append(c.Lines, Line{Label: "Referencia", Value: p.Reference, Split: true})
			}
		}

	case printtemplate.BlockFooter:
		footer := DefaultFooter
		if data.CustomText != nil && data.CustomText.Footer != "" {
			footer = data.CustomText.Footer
		}
		tx := data.Transaction
		c.Lines = append(c.Lines,
			Line{Value: footer},
			Line{Value: joinNonEmpty(" ", tx.Date, tx.Time)},
			Line{Label: "No.", Value: tx.Number},
		)

	case printtemplate.BlockCustomText:
		c.Lines = append(c.Lines, Line{Value: opts.Text})

	case printtemplate.BlockSeparator:
		c.Rule = true

	case printtemplate.BlockQRCode:
		c.Placeholder = &Placeholder{Kind: block.Kind, Label: "QR", Data: opts.Data, WidthMM: opts.Size, HeightMM: opts.Size}

	case printtemplate.BlockBarcode:
		c.Placeholder = &Placeholder{Kind: block.Kind, Label: "Código de barras", Data: opts.Data, HeightMM: opts.Size}

	case printtemplate.BlockImage:
		if opts.ImageURL != "" {
			c.Image = &Image{URL: opts.ImageURL, Alt: "Imagen", HeightMM: opts.Height}
		} else {
			c.Placeholder = &Placeholder{Kind: block.Kind, Label: "Imagen", HeightMM: opts.Height}
		}

	default:
		return Content{}, fmt.Errorf("%w: %q (block %s)", ErrUnknownBlockKind, block.Kind, block.ID)
	}
	return c, nil
}

// summaryLines applies the flag-and-value rule shared by subtotals and
// totals. Subtotal and tax print whenever their flag is on; discount, tip
// and shipping also need a nonzero amount.
func summaryLines(opts printtemplate.BlockContent, t printdata.Totals, cur string, withTotal bool) []Line {
	var out []Line
	if opts.ShowSubtotal {
		out = append(out, Line{Label: "Subtotal", Value: printdata.FormatMoney(cur, t.Subtotal), Split: true})
	}
	if opts.ShowDiscount && !t.Discount.IsZero() {
		out = append(out, Line{Label: "Descuento", Value: printdata.FormatMoney(cur, t.Discount.Neg()), Split: true})
	}
	if opts.ShowTax {
		out = append(out, Line{Label: "IVA", Value: printdata.FormatMoney(cur, t.Tax), Split: true})
	}
	if withTotal && opts.ShowTip && !t.Tip.IsZero() {
		out = append(out, Line{Label: "Propina", Value: printdata.FormatMoney(cur, t.Tip), Split: true})
	}
	if opts.ShowShipping && !t.Shipping.IsZero() {
		out = append(out, Line{Label: "Envío", Value: printdata.FormatMoney(cur, t.Shipping), Split: true})
	}
	if withTotal && opts.ShowTotal {
		out = append(out, Line{Label: "TOTAL", Value: printdata.FormatMoney(cur, t.Total), Split: true, Emphasis: true})
	}
	return out
}

func appendIf(lines []Line, label, value string) []Line {
	if value == "" {
		return lines
	}
	return append(lines, Line{Label: label, Value: value})
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}
