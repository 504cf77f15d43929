package payroll

import "github.com/shopspring/decimal"

// Compute sums a base salary with earning and deduction lines. Results are
// rounded to two decimal places at the end, not per line.
func Compute(baseSalary decimal.Decimal, lines []Line) (gross, deductions, net decimal.Decimal) {
	gross = baseSalary
	for _, line := range lines {
		switch line.Type {
		case LineEarning:
			gross = gross.Add(line.Amount)
		case LineDeduction:
			deductions = deductions.Add(line.Amount)
		}
	}
	gross = gross.Round(2)
	deductions = deductions.Round(2)
	net = gross.Sub(deductions)
	return gross, deductions, net
}
