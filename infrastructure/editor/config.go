package editor

import (
	"strconv"

	"odinpos/infrastructure/apperr"
	"odinpos/infrastructure/printtemplate"
)

type FieldType string

const (
	FieldBool   FieldType = "bool"
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
)

// Field is one editable content attribute of a block kind.
type Field struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
	Min   int       `json:"min,omitempty"`
	Max   int       `json:"max,omitempty"`
}

// ConfigPanel lists the content fields a kind exposes. Style attributes are
// editable for every kind and are not listed.
type ConfigPanel struct {
	Kind   printtemplate.BlockKind `json:"kind"`
	Fields []Field                 `json:"fields"`
}

func boolField(name, label string) Field { return Field{Name: name, Label: label, Type: FieldBool} }

var (
	moneyFlags = []Field{
		boolField("showSubtotal", "Mostrar subtotal"),
		boolField("showTax", "Mostrar impuestos"),
		boolField("showDiscount", "Mostrar descuento"),
		boolField("showTip", "Mostrar propina"),
		boolField("showTotal", "Mostrar total"),
	}

	panels = map[printtemplate.BlockKind][]Field{
		printtemplate.BlockHeader: {
			boolField("showLogo", "Mostrar logo"),
			boolField("showBusinessName", "Mostrar nombre del negocio"),
		},
		printtemplate.BlockItems: {
			boolField("showImages", "Mostrar imágenes"),
			boolField("showPrices", "Mostrar precios"),
			boolField("showQuantity", "Mostrar cantidad"),
			boolField("showSubtotal", "Mostrar subtotal"),
		},
		printtemplate.BlockSubtotals: append(append([]Field{}, moneyFlags...), boolField("showShipping", "Mostrar envío")),
		printtemplate.BlockTotals:    append(append([]Field{}, moneyFlags...), boolField("showShipping", "Mostrar envío")),
		printtemplate.BlockCustomText: {
			{Name: "text", Label: "Texto", Type: FieldText},
		},
		printtemplate.BlockQRCode: {
			{Name: "data", Label: "Contenido", Type: FieldText},
			{Name: "size", Label: "Tamaño (mm)", Type: FieldNumber, Min: 0, Max: 100},
		},
		printtemplate.BlockBarcode: {
			{Name: "data", Label: "Contenido", Type: FieldText},
			{Name: "size", Label: "Alto (mm)", Type: FieldNumber, Min: 0, Max: 100},
		},
		printtemplate.BlockImage: {
			{Name: "imageUrl", Label: "URL de la imagen", Type: FieldText},
			{Name: "height", Label: "Alto (mm)", Type: FieldNumber, Min: 0, Max: 200},
		},
	}
)

// ConfigPanelFor returns the panel of kind. Kinds without content settings,
// including unknown ones, get an empty field list.
func ConfigPanelFor(kind printtemplate.BlockKind) ConfigPanel {
	fields := panels[kind]
	out := make([]Field, len(fields))
	copy(out, fields)
	return ConfigPanel{Kind: kind, Fields: out}
}

func (p ConfigPanel) field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// applyContent sets field on c from its string form.
func applyContent(c *printtemplate.BlockContent, f Field, value string) error {
	switch f.Type {
	case FieldBool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return apperr.Newf(apperr.CodeInvalidArgument, "field %s expects a boolean, got %q", f.Name, value)
		}
		setBool(c, f.Name, v)
	case FieldNumber:
		v, err := strconv.Atoi(value)
		if err != nil {
			return apperr.Newf(apperr.CodeInvalidArgument, "field %s expects an integer, got %q", f.Name, value)
		}
		if v < f.Min || v > f.Max {
			return apperr.Newf(apperr.CodeValidation, "%s debe estar entre %d y %d", f.Label, f.Min, f.Max)
		}
		switch f.Name {
		case "size":
			c.Size = v
		case "height":
			c.Height = v
		}
	case FieldText:
		switch f.Name {
		case "text":
			c.Text = value
		case "data":
			c.Data = value
		case "imageUrl":
			c.ImageURL = value
		}
	}
	return nil
}

func setBool(c *printtemplate.BlockContent, name string, v bool) {
	switch name {
	case "showLogo":
		c.ShowLogo = v
	case "showBusinessName":
		c.ShowBusinessName = v
	case "showImages":
		c.ShowImages = v
	case "showPrices":
		c.ShowPrices = v
	case "showQuantity":
		c.ShowQuantity = v
	case "showSubtotal":
		c.ShowSubtotal = v
	case "showTax":
		c.ShowTax = v
	case "showDiscount":
		c.ShowDiscount = v
	case "showTip":
		c.ShowTip = v
	case "showShipping":
		c.ShowShipping = v
	case "showTotal":
		c.ShowTotal = v
	}
}
