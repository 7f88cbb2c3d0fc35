package invoice

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// PageWidthMM is the A4 width the raster is fitted to.
const PageWidthMM = 210.0

// PageSize returns the page size in millimetres for a raster: A4 width and a
// height that keeps the raster's aspect ratio.
func PageSize(bounds image.Rectangle) (width, height float64) {
	ratio := float64(bounds.Dx()) / float64(bounds.Dy())
	return PageWidthMM, PageWidthMM / ratio
}

// RenderPDF rasterizes the view and embeds the image in a single-page PDF.
func RenderPDF(v *View) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	img, err := Rasterize(v, Scale)
	if err != nil {
		return nil, err
	}
	return EncodePDF(img, "invoice-"+v.OrderID)
}

// EncodePDF places img at the top-left of a page sized by PageSize.
func EncodePDF(img image.Image, name string) ([]byte, error) {
	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	width, height := PageSize(img.Bounds())
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(name, true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &raster)
	pdf.ImageOptions(name, 0, 0, width, height, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
