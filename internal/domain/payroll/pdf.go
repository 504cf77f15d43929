package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF produces the printable payslip.
func RenderPDF(slip Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 12, "Payslip")
	pdf.Ln(16)

	period := fmt.Sprintf("%s %d", time.Month(slip.Month).String(), slip.Year)
	rows := [][2]string{
		{"Payslip ID", slip.PayslipID},
		{"Employee", fmt.Sprintf("%s (%s)", slip.EmpName, slip.EmpID)},
		{"Period", period},
		{"Net Pay", slip.NetPay.StringFixed(2)},
		{"Generated", slip.GeneratedAt.Format("2006-01-02")},
	}

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(120, 8, row[1], "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
