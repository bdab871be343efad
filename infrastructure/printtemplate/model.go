// Package printtemplate holds the print template document model, its
// ordering rules, the structural validator and the persisted store.
package printtemplate

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the document type a template prints.
type Kind string

const (
	KindTicket          Kind = "ticket"
	KindInvoice         Kind = "invoice"
	KindKitchenOrder    Kind = "kitchen_order"
	KindBarOrder        Kind = "bar_order"
	KindDeliveryReceipt Kind = "delivery_receipt"
)

// AllKinds lists template kinds in seeding order.
var AllKinds = []Kind{KindTicket, KindInvoice, KindKitchenOrder, KindBarOrder, KindDeliveryReceipt}

func (k Kind) Valid() bool {
	switch k {
	case KindTicket, KindInvoice, KindKitchenOrder, KindBarOrder, KindDeliveryReceipt:
		return true
	}
	return false
}

func (k Kind) Label() string {
	switch k {
	case KindTicket:
		return "Ticket"
	case KindInvoice:
		return "Factura"
	case KindKitchenOrder:
		return "Comanda de cocina"
	case KindBarOrder:
		return "Comanda de barra"
	case KindDeliveryReceipt:
		return "Recibo de entrega"
	}
	return string(k)
}

// PaperWidth is the roll or sheet width in millimetres.
type PaperWidth int

const (
	Paper58  PaperWidth = 58
	Paper80  PaperWidth = 80
	Paper110 PaperWidth = 110
)

var AllPaperWidths = []PaperWidth{Paper58, Paper80, Paper110}

func (w PaperWidth) Valid() bool {
	switch w {
	case Paper58, Paper80, Paper110:
		return true
	}
	return false
}

// BlockKind tags the region a block describes.
type BlockKind string

const (
	BlockHeader       BlockKind = "header"
	BlockBusinessInfo BlockKind = "business_info"
	BlockCustomerInfo BlockKind = "customer_info"
	BlockItems        BlockKind = "items"
	BlockSubtotals    BlockKind = "subtotals"
	BlockTotals       BlockKind = "totals"
	BlockPaymentInfo  BlockKind = "payment_info"
	BlockFooter       BlockKind = "footer"
	BlockCustomText   BlockKind = "custom_text"
	BlockSeparator    BlockKind = "separator"
	BlockQRCode       BlockKind = "qr_code"
	BlockBarcode      BlockKind = "barcode"
	BlockImage        BlockKind = "image"
)

// AllBlockKinds is the closed set of block kinds, in palette order.
var AllBlockKinds = []BlockKind{
	BlockHeader, BlockBusinessInfo, BlockCustomerInfo, BlockItems, BlockSubtotals,
	BlockTotals, BlockPaymentInfo, BlockFooter, BlockCustomText, BlockSeparator,
	BlockQRCode, BlockBarcode, BlockImage,
}

func (k BlockKind) Valid() bool {
	switch k {
	case BlockHeader, BlockBusinessInfo, BlockCustomerInfo, BlockItems, BlockSubtotals,
		BlockTotals, BlockPaymentInfo, BlockFooter, BlockCustomText, BlockSeparator,
		BlockQRCode, BlockBarcode, BlockImage:
		return true
	}
	return false
}

// Mandatory reports whether templates must contain a block of this kind.
func (k BlockKind) Mandatory() bool {
	return k == BlockItems || k == BlockTotals
}

// SingleUse reports whether more than one block of this kind is unusual.
func (k BlockKind) SingleUse() bool {
	switch k {
	case BlockHeader, BlockBusinessInfo, BlockCustomerInfo, BlockItems,
		BlockSubtotals, BlockTotals, BlockPaymentInfo, BlockFooter:
		return true
	}
	return false
}

func (k BlockKind) Label() string {
	switch k {
	case BlockHeader:
		return "Encabezado"
	case BlockBusinessInfo:
		return "Datos del negocio"
	case BlockCustomerInfo:
		return "Datos del cliente"
	case BlockItems:
		return "Productos"
	case BlockSubtotals:
		return "Subtotales"
	case BlockTotals:
		return "Totales"
	case BlockPaymentInfo:
		return "Pago"
	case BlockFooter:
		return "Pie de página"
	case BlockCustomText:
		return "Texto libre"
	case BlockSeparator:
		return "Separador"
	case BlockQRCode:
		return "Código QR"
	case BlockBarcode:
		return "Código de barras"
	case BlockImage:
		return "Imagen"
	}
	return string(k)
}

// Icon names the palette icon for the kind.
func (k BlockKind) Icon() string {
	switch k {
	case BlockHeader:
		return "heading"
	case BlockBusinessInfo:
		return "store"
	case BlockCustomerInfo:
		return "user"
	case BlockItems:
		return "list"
	case BlockSubtotals:
		return "calculator"
	case BlockTotals:
		return "receipt"
	case BlockPaymentInfo:
		return "credit-card"
	case BlockFooter:
		return "align-bottom"
	case BlockCustomText:
		return "type"
	case BlockSeparator:
		return "minus"
	case BlockQRCode:
		return "qr-code"
	case BlockBarcode:
		return "barcode"
	case BlockImage:
		return "image"
	}
	return "square"
}

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type FontSize string

const (
	FontXS FontSize = "xs"
	FontSM FontSize = "sm"
	FontMD FontSize = "md"
	FontLG FontSize = "lg"
	FontXL FontSize = "xl"
)

type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

// BlockStyle carries the presentation attributes shared by every kind.
type BlockStyle struct {
	Alignment     Alignment  `json:"alignment" validate:"required,oneof=left center right"`
	FontSize      FontSize   `json:"fontSize" validate:"required,oneof=xs sm md lg xl"`
	FontWeight    FontWeight `json:"fontWeight" validate:"required,oneof=normal bold"`
	PaddingTop    int        `json:"paddingTop" validate:"min=0,max=10"`
	PaddingBottom int        `json:"paddingBottom" validate:"min=0,max=10"`
}

// BlockContent is the kind-specific payload. Only the fields relevant to
// the block's kind are meaningful; see ConfigFields in the editor.
type BlockContent struct {
	// header
	ShowLogo         bool `json:"showLogo,omitempty"`
	ShowBusinessName bool `json:"showBusinessName,omitempty"`

	// items
	ShowImages   bool `json:"showImages,omitempty"`
	ShowPrices   bool `json:"showPrices,omitempty"`
	ShowQuantity bool `json:"showQuantity,omitempty"`

	// items, subtotals, totals
	ShowSubtotal bool `json:"showSubtotal,omitempty"`

	// subtotals, totals
	ShowTax      bool `json:"showTax,omitempty"`
	ShowDiscount bool `json:"showDiscount,omitempty"`
	ShowTip      bool `json:"showTip,omitempty"`
	ShowShipping bool `json:"showShipping,omitempty"`
	ShowTotal    bool `json:"showTotal,omitempty"`

	// custom_text
	Text string `json:"text,omitempty"`

	// qr_code, barcode
	Data string `json:"data,omitempty"`
	Size int    `json:"size,omitempty" validate:"min=0,max=100"`

	// image
	ImageURL string `json:"imageUrl,omitempty"`
	Height   int    `json:"height,omitempty" validate:"min=0,max=200"`
}

type Block struct {
	ID       string       `json:"id"`
	Kind     BlockKind    `json:"kind"`
	Order    int          `json:"order"`
	Visible  bool         `json:"visible"`
	Required bool         `json:"required"`
	Style    BlockStyle   `json:"style"`
	Content  BlockContent `json:"content"`
}

type Template struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Kind       Kind       `json:"kind"`
	PaperWidth PaperWidth `json:"paperWidth"`
	IsDefault  bool       `json:"isDefault"`
	Blocks     []Block    `json:"blocks"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy sharing no block storage with t.
func (t Template) Clone() Template {
	out := t
	out.Blocks = CloneBlocks(t.Blocks)
	return out
}

// Draft is the input for creating a template.
type Draft struct {
	Name       string
	Kind       Kind
	PaperWidth PaperWidth
	Blocks     []Block
}

// NewBlock returns a visible block of kind with its default style and
// content and a fresh id. Order is left at zero for the caller to set.
func NewBlock(kind BlockKind) Block {
	b := Block{
		ID:       uuid.NewString(),
		Kind:     kind,
		Visible:  true,
		Required: kind.Mandatory(),
		Style: BlockStyle{
			Alignment:     AlignCenter,
			FontSize:      FontSM,
			FontWeight:    WeightNormal,
			PaddingTop:    1,
			PaddingBottom: 1,
		},
	}
	switch kind {
	case BlockHeader:
		b.Style.FontSize = FontLG
		b.Style.FontWeight = WeightBold
		b.Content.ShowLogo = true
		b.Content.ShowBusinessName = true
	case BlockBusinessInfo:
	case BlockCustomerInfo:
		b.Style.Alignment = AlignLeft
	case BlockItems:
		b.Style.Alignment = AlignLeft
		b.Content.ShowPrices = true
		b.Content.ShowQuantity = true
		b.Content.ShowSubtotal = true
	case BlockSubtotals:
		b.Style.Alignment = AlignRight
		b.Content.ShowSubtotal = true
		b.Content.ShowTax = true
		b.Content.ShowDiscount = true
	case BlockTotals:
		b.Style.Alignment = AlignRight
		b.Style.FontSize = FontMD
		b.Content.ShowSubtotal = true
		b.Content.ShowTax = true
		b.Content.ShowDiscount = true
		b.Content.ShowTip = true
		b.Content.ShowShipping = true
		b.Content.ShowTotal = true
	case BlockPaymentInfo:
		b.Style.Alignment = AlignLeft
	case BlockFooter:
		b.Style.FontSize = FontXS
	case BlockCustomText:
	case BlockSeparator:
		b.Style.PaddingTop = 0
		b.Style.PaddingBottom = 0
	case BlockQRCode:
		b.Content.Size = 30
	case BlockBarcode:
		b.Content.Size = 15
	case BlockImage:
		b.Content.Height = 20
	}
	return b
}
