package invoice

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Scale is the device pixel ratio used when rasterizing for export.
const Scale = 2

const (
	baseWidth  = 800
	margin     = 48
	lineHeight = 22
	rowHeight  = 28
)

var (
	white     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink       = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	muted     = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	headerBg  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	ruleColor = color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
	paid      = color.RGBA{0x16, 0xa3, 0x4a, 0xff}
)

// column x positions for the item table
var (
	colProduct  = margin + 12
	colQuantity = 440
	colPrice    = 600
	colTotalR   = baseWidth - margin - 12
)

const fontSize = 13

// Go Regular covers Latin-1, Latin Extended, Greek and Cyrillic, so product
// names with accents draw as text rather than boxes.
var regular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// newFace returns a face for one render; faces are not safe for concurrent use.
func newFace() (font.Face, error) {
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: fontSize, DPI: 72, Hinting: font.HintingFull})
}

// Rasterize draws the view at 1x and scales it up by scale.
func Rasterize(v *View, scale int) (*image.RGBA, error) {
	if scale < 1 {
		scale = 1
	}
	face, err := newFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	base := render(v, face)
	if scale == 1 {
		return base, nil
	}
	b := base.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.CatmullRom.Scale(dst, dst.Bounds(), base, b, draw.Src, nil)
	return dst, nil
}

func contentHeight(v *View) int {
	return margin + // top
		60 + // title row
		4*lineHeight + // billing block
		rowHeight + // table header
		len(v.Lines)*rowHeight +
		24 + // gap
		3*lineHeight + 8 + // totals
		margin
}

func render(v *View, face font.Face) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, baseWidth, contentHeight(v)))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	c := &canvas{img: img, face: face}
	y := margin

	// title and seller
	c.text(margin, y+20, "INVOICE", ink)
	c.textRight(baseWidth-margin, y+14, v.SellerName, ink)
	c.textRight(baseWidth-margin, y+14+lineHeight, v.SellerAddress, muted)
	y += 60

	// billing
	c.text(margin, y+14, "Billed To", ink)
	c.text(margin, y+14+lineHeight, "User ID: "+v.BilledTo, muted)
	c.textRight(baseWidth-margin, y+14, "Order ID: "+v.OrderID, ink)
	c.textRight(baseWidth-margin, y+14+lineHeight, "Order Date: "+FormatDate(v.Date), ink)
	c.textRight(baseWidth-margin, y+14+2*lineHeight, "Status: "+v.Status, paid)
	y += 4 * lineHeight

	// table
	c.fill(image.Rect(margin, y, baseWidth-margin, y+rowHeight), headerBg)
	c.text(colProduct, y+18, "PRODUCT", muted)
	c.text(colQuantity, y+18, "QUANTITY", muted)
	c.text(colPrice, y+18, "PRICE", muted)
	c.textRight(colTotalR, y+18, "TOTAL", muted)
	y += rowHeight
	for _, l := range v.Lines {
		c.text(colProduct, y+18, l.ProductName, ink)
		c.text(colQuantity, y+18, strconv.Itoa(l.Quantity), ink)
		c.text(colPrice, y+18, FormatMoney(l.Price), ink)
		c.textRight(colTotalR, y+18, FormatMoney(l.Total), ink)
		y += rowHeight
		c.fill(image.Rect(margin, y-1, baseWidth-margin, y), ruleColor)
	}
	y += 24

	// totals
	left := baseWidth - margin - 260
	c.text(left, y+14, "Subtotal", muted)
	c.textRight(baseWidth-margin, y+14, FormatMoney(v.Subtotal), ink)
	y += lineHeight
	c.text(left, y+14, "Tax ("+v.TaxRate.StringFixed(0)+"%)", muted)
	c.textRight(baseWidth-margin, y+14, FormatMoney(v.Tax), ink)
	y += lineHeight
	c.fill(image.Rect(left, y+2, baseWidth-margin, y+3), ruleColor)
	c.text(left, y+22, "Total", ink)
	c.textRight(baseWidth-margin, y+22, FormatMoney(v.Total), ink)

	return img
}

type canvas struct {
	img  *image.RGBA
	face font.Face
}

func (c *canvas) fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

// text draws s with its baseline at y
func (c *canvas) text(x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func (c *canvas) textRight(right, y int, s string, col color.Color) {
	w := font.MeasureString(c.face, s).Ceil()
	c.text(right-w, y, s, col)
}
