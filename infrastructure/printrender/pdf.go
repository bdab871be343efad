package printrender

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"

	"odinpos/infrastructure/printdata"
	"odinpos/infrastructure/printtemplate"
)

const (
	pdfMarginMM  = 2.0
	pdfFont      = "Courier"
	ptToMM       = 0.3528
	lineSpacing  = 1.25
	measurePageH = 5000.0
)

// RenderPDF lays the template out on a single page as wide as the paper
// roll and exactly as tall as the content. QR and barcode blocks with data
// are encoded; images and empty symbols draw a labelled frame.
func RenderPDF(t printtemplate.Template, data printdata.PrintData) ([]byte, error) {
	secs, err := sections(t, data)
	if err != nil {
		return nil, err
	}
	width := float64(t.PaperWidth)
	if width <= 0 {
		width = float64(printtemplate.Paper80)
	}

	// First pass measures the content height on a scratch page.
	scratch := newReceiptPDF(width, measurePageH)
	if err := drawSections(scratch, secs, width); err != nil {
		return nil, err
	}
	height := scratch.GetY() + pdfMarginMM

	pdf := newReceiptPDF(width, height)
	pdf.SetTitle(t.Name, true)
	if err := drawSections(pdf, secs, width); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func newReceiptPDF(width, height float64) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	left   float64
	usable float64
	images int
}

func drawSections(pdf *gofpdf.Fpdf, secs []section, width float64) error {
	w := &pdfWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		left:   pdfMarginMM,
		usable: width - 2*pdfMarginMM,
	}
	for _, s := range secs {
		// Blocks without data leave no gap on paper.
		if s.content.empty() {
			continue
		}
		pdf.SetY(pdf.GetY() + float64(s.style.PaddingTopMM))
		if err := w.drawContent(s.style, s.content); err != nil {
			return fmt.Errorf("block %s: %w", s.block.ID, err)
		}
		pdf.SetY(pdf.GetY() + float64(s.style.PaddingBottomMM))
	}
	return pdf.Error()
}

func alignCode(align string) string {
	switch align {
	case "center":
		return "C"
	case "right":
		return "R"
	}
	return "L"
}

func (w *pdfWriter) setFont(style Style, emphasis bool) float64 {
	size := style.FontSizePt
	fontStyle := ""
	if style.Bold || emphasis {
		fontStyle = "B"
	}
	if emphasis {
		size *= 1.2
	}
	w.pdf.SetFont(pdfFont, fontStyle, size)
	return size * ptToMM * lineSpacing
}

func (w *pdfWriter) drawContent(style Style, c Content) error {
	align := alignCode(style.Align)

	if c.Logo != nil {
		w.frame(c.Logo.HeightMM*2, c.Logo.HeightMM, "Logo", align)
	}
	for _, l := range c.Lines {
		lineH := w.setFont(style, l.Emphasis)
		w.pdf.SetX(w.left)
		if l.Split {
			w.pdf.CellFormat(w.usable, lineH, w.tr(l.Label), "", 0, "L", false, 0, "")
			w.pdf.SetX(w.left)
			w.pdf.CellFormat(w.usable, lineH, w.tr(l.Value), "", 1, "R", false, 0, "")
			continue
		}
		w.pdf.MultiCell(w.usable, lineH, w.tr(l.Text()), "", align, false)
	}
	if c.Items != nil {
		w.drawItems(style, c.Items)
	}
	if c.Rule {
		y := w.pdf.GetY() + 1
		w.pdf.SetDashPattern([]float64{1, 1}, 0)
		w.pdf.Line(w.left, y, w.left+w.usable, y)
		w.pdf.SetDashPattern([]float64{}, 0)
		w.pdf.SetY(y + 1)
	}
	if c.Image != nil {
		w.frame(0, c.Image.HeightMM, c.Image.Alt, align)
	}
	if p := c.Placeholder; p != nil {
		return w.drawSymbol(p, align)
	}
	return nil
}

func (w *pdfWriter) drawItems(style Style, t *ItemTable) {
	lineH := w.setFont(style, false)
	qtyW := 7.0
	priceW := 0.0
	if t.ShowPrices {
		priceW = w.usable * 0.25
	}
	subW := 0.0
	if t.ShowSubtotal {
		subW = w.usable * 0.27
	}
	nameW := w.usable - qtyW - priceW - subW

	row := func(qty, name, price, sub string, bold bool) {
		if bold {
			w.pdf.SetFont(pdfFont, "B", style.FontSizePt)
		} else {
			w.setFont(style, false)
		}
		y := w.pdf.GetY()
		w.pdf.SetXY(w.left+qtyW, y)
		w.pdf.MultiCell(nameW, lineH, w.tr(name), "", "L", false)
		next := w.pdf.GetY()

		w.pdf.SetXY(w.left, y)
		w.pdf.CellFormat(qtyW, lineH, w.tr(qty), "", 0, "L", false, 0, "")
		x := w.left + qtyW + nameW
		if t.ShowPrices {
			w.pdf.SetXY(x, y)
			w.pdf.CellFormat(priceW, lineH, w.tr(price), "", 0, "R", false, 0, "")
			x += priceW
		}
		if t.ShowSubtotal {
			w.pdf.SetXY(x, y)
			w.pdf.CellFormat(subW, lineH, w.tr(sub), "", 0, "R", false, 0, "")
		}
		w.pdf.SetXY(w.left, next)
	}

	row("Cant", "Descripción", "P.U.", "Importe", true)
	for _, r := range t.Rows {
		row(r.Quantity, r.Name, r.UnitPrice, r.Subtotal, false)
		if r.Notes != "" {
			w.pdf.SetFont(pdfFont, "I", style.FontSizePt*0.9)
			w.pdf.SetX(w.left + qtyW)
			w.pdf.MultiCell(nameW, lineH, w.tr(r.Notes), "", "L", false)
		}
	}
}

// frame draws a dashed placeholder box. widthMM zero spans the line.
func (w *pdfWriter) frame(widthMM, heightMM int, label, align string) {
	fw := float64(widthMM)
	if fw <= 0 || fw > w.usable {
		fw = w.usable
	}
	fh := float64(heightMM)
	x := w.alignedX(fw, align)
	y := w.pdf.GetY()

	w.pdf.SetDashPattern([]float64{1, 1}, 0)
	w.pdf.Rect(x, y, fw, fh, "D")
	w.pdf.SetDashPattern([]float64{}, 0)
	w.pdf.SetFont(pdfFont, "", 7)
	w.pdf.SetXY(x, y)
	w.pdf.CellFormat(fw, fh, w.tr("["+label+"]"), "", 0, "C", false, 0, "")
	w.pdf.SetXY(w.left, y+fh)
}

func (w *pdfWriter) alignedX(width float64, align string) float64 {
	switch align {
	case "C":
		return w.left + (w.usable-width)/2
	case "R":
		return w.left + w.usable - width
	}
	return w.left
}

func (w *pdfWriter) drawSymbol(p *Placeholder, align string) error {
	if p.Data == "" || p.Kind == printtemplate.BlockImage {
		w.frame(p.WidthMM, p.HeightMM, p.Label, align)
		return nil
	}

	var (
		code barcode.Barcode
		err  error
		pxW  = 512
		pxH  = 512
		mmW  = float64(p.WidthMM)
	)
	switch p.Kind {
	case printtemplate.BlockQRCode:
		code, err = qr.Encode(p.Data, qr.M, qr.Auto)
	case printtemplate.BlockBarcode:
		code, err = code128.Encode(p.Data)
		pxW, pxH = 1200, 260
		mmW = 0
	default:
		w.frame(p.WidthMM, p.HeightMM, p.Label, align)
		return nil
	}
	if err != nil {
		// Data the symbology cannot carry keeps its reserved space.
		w.frame(p.WidthMM, p.HeightMM, p.Label, align)
		return nil
	}
	pngBytes, err := symbolPNG(code, pxW, pxH)
	if err != nil {
		return err
	}

	if mmW <= 0 || mmW > w.usable {
		mmW = w.usable
	}
	mmH := float64(p.HeightMM)
	w.images++
	name := fmt.Sprintf("symbol-%d", w.images)
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	w.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(pngBytes))
	y := w.pdf.GetY()
	w.pdf.ImageOptions(name, w.alignedX(mmW, align), y, mmW, mmH, false, opt, 0, "")
	w.pdf.SetXY(w.left, y+mmH)
	return nil
}

func symbolPNG(code barcode.Barcode, width, height int) ([]byte, error) {
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	bounds := scaled.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, scaled, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
