package documents

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF lays out a filled letter body under its title.
func RenderPDF(title, body string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(0, 10, title, "", "C", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, body, "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
