package printtemplate

import "time"

// DefaultTemplateID is the stable id of the seeded default for kind.
func DefaultTemplateID(kind Kind) string {
	return "default-" + string(kind)
}

// defaultLayout lists the block kinds seeded for each template kind.
func defaultLayout(kind Kind) []BlockKind {
	switch kind {
	case KindTicket:
		return []BlockKind{BlockHeader, BlockBusinessInfo, BlockSeparator, BlockItems, BlockSeparator, BlockTotals, BlockPaymentInfo, BlockFooter}
	case KindInvoice:
		return []BlockKind{BlockHeader, BlockBusinessInfo, BlockCustomerInfo, BlockSeparator, BlockItems, BlockSubtotals, BlockTotals, BlockPaymentInfo, BlockQRCode, BlockFooter}
	case KindKitchenOrder, KindBarOrder:
		return []BlockKind{BlockHeader, BlockSeparator, BlockItems, BlockTotals, BlockFooter}
	case KindDeliveryReceipt:
		return []BlockKind{BlockHeader, BlockBusinessInfo, BlockCustomerInfo, BlockSeparator, BlockItems, BlockTotals, BlockPaymentInfo, BlockBarcode, BlockFooter}
	}
	return []BlockKind{BlockItems, BlockTotals}
}

// DefaultTemplate builds the seeded default template for kind.
func DefaultTemplate(kind Kind, now time.Time, newID func() string) Template {
	layout := defaultLayout(kind)
	blocks := make([]Block, 0, len(layout))
	for i, bk := range layout {
		b := NewBlock(bk)
		b.ID = newID()
		b.Order = i
		switch kind {
		case KindKitchenOrder, KindBarOrder:
			// Preparation tickets print large quantities and no prices.
			if bk == BlockItems {
				b.Style.FontSize = FontLG
				b.Content.ShowPrices = false
				b.Content.ShowSubtotal = false
			}
			if bk == BlockTotals {
				b.Content = BlockContent{}
			}
			if bk == BlockHeader {
				b.Content.ShowLogo = false
			}
		}
		blocks = append(blocks, b)
	}

	width := Paper80
	if kind == KindInvoice {
		width = Paper110
	}
	return Template{
		ID:         DefaultTemplateID(kind),
		Name:       kind.Label(),
		Kind:       kind,
		PaperWidth: width,
		IsDefault:  true,
		Blocks:     blocks,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// DefaultTemplates returns one default template per kind.
func DefaultTemplates(now time.Time, newID func() string) []Template {
	out := make([]Template, 0, len(AllKinds))
	for _, kind := range AllKinds {
		out = append(out, DefaultTemplate(kind, now, newID))
	}
	return out
}
