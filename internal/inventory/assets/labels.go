package assets

import (
	"bytes"
	"fmt"

	"assettracker/pkg/models"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const labelQRSize = 512

// LabelCode is the payload encoded in an asset's QR label.
func LabelCode(asset *models.Asset) string {
	return "asset:" + asset.ID
}

// RenderLabelPNG returns the QR code of the asset as a PNG image.
func RenderLabelPNG(asset *models.Asset) ([]byte, error) {
	png, err := qrcode.Encode(LabelCode(asset), qrcode.Medium, labelQRSize)
	if err != nil {
		return nil, fmt.Errorf("encode label qr: %w", err)
	}
	return png, nil
}

// RenderLabelPDF returns a printable A4 page with the asset details and its QR code.
func RenderLabelPDF(asset *models.Asset) ([]byte, error) {
	pdf, err := labelDocument(asset)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render label pdf: %w", err)
	}
	return out.Bytes(), nil
}

func labelDocument(asset *models.Asset) (*gofpdf.Fpdf, error) {
	png, err := RenderLabelPNG(asset)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; tr maps UTF-8 input onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(asset.Description))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("Serial: %s\nID: %s", asset.SerialNumber, asset.ID)), "", "L", false)

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(png))

	// A4 is 210mm wide, the code is 80mm.
	x := (210.0 - 80.0) / 2.0
	y := pdf.GetY() + 10
	pdf.ImageOptions("qr", x, y, 80, 80, false, opt, 0, "")

	return pdf, pdf.Error()
}
