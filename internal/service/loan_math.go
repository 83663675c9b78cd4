package service

import "math"

// DefaultEMIAnnualRate es la tasa anual (%) usada para estimar la cuota.
const DefaultEMIAnnualRate = 8.5

func TotalIncome(applicant, coapplicant float64) float64 {
	return applicant + coapplicant
}

// LoanToIncomeRatio es 0 cuando el ingreso total es 0, nunca indefinido.
func LoanToIncomeRatio(loanAmount, totalIncome float64) float64 {
	if totalIncome <= 0 {
		return 0
	}
	return loanAmount / totalIncome
}

// EMI calcula la cuota mensual con amortizacion estandar.
func EMI(principal, months, annualRate float64) float64 {
	if months == 0 {
		return 0
	}
	r := annualRate / (12 * 100)
	if r == 0 {
		return principal / months
	}
	growth := math.Pow(1+r, months)
	return principal * r * growth / (growth - 1)
}

// Round redondea a places decimales, mitades lejos de cero.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
