package analyzer

import "math"

// Thai payroll deduction model. All amounts in THB.
const (
	ssoRate              = 0.05
	ssoMonthlyCap        = 750.0
	personalAllowance    = 60000.0  // annual
	employmentExpenseCap = 100000.0 // annual, 50% of income up to this

	grossSearchIterations = 50
	grossSearchTolerance  = 10.0
)

// taxBracket taxes the portion of annual income between lower and upper.
type taxBracket struct {
	lower float64
	upper float64
	rate  float64
}

var taxBrackets = []taxBracket{
	{0, 150_000, 0.00},
	{150_000, 300_000, 0.05},
	{300_000, 500_000, 0.10},
	{500_000, 750_000, 0.15},
	{750_000, 1_000_000, 0.20},
	{1_000_000, 2_000_000, 0.25},
	{2_000_000, 5_000_000, 0.30},
	{5_000_000, math.Inf(1), 0.35},
}

// taxableIncome computes annual taxable income after the standard
// deductions: personal allowance, employment expense, provident fund, and
// any caller-supplied extra deductions.
func taxableIncome(annualGross, pvdRate, extraDeductions float64) float64 {
	pvd := annualGross * pvdRate
	employmentExpense := math.Min(annualGross*0.5, employmentExpenseCap)
	taxable := annualGross - personalAllowance - employmentExpense - pvd - extraDeductions
	if taxable < 0 {
		return 0
	}
	return taxable
}

// annualTax applies the progressive brackets marginally: each bracket taxes
// only the slice of income that falls inside it.
func annualTax(taxable float64) float64 {
	total := 0.0
	remaining := taxable
	for _, b := range taxBrackets {
		if remaining <= 0 {
			break
		}
		slice := math.Min(remaining, b.upper-b.lower)
		total += slice * b.rate
		remaining -= slice
	}
	return total
}

// MonthlyNetFromGross computes take-home pay for a monthly gross salary
// under the Thai model: progressive income tax, social security capped at
// 750/month, and the provident fund contribution.
func MonthlyNetFromGross(gross, pvdRate, extraDeductions float64) float64 {
	annualGross := gross * 12
	monthlyTax := annualTax(taxableIncome(annualGross, pvdRate, extraDeductions)) / 12
	monthlySSO := math.Min(gross*ssoRate, ssoMonthlyCap)
	monthlyPVD := gross * pvdRate
	return gross - monthlyTax - monthlySSO - monthlyPVD
}

// GrossFromNet inverts MonthlyNetFromGross by bisection. Net pay is strictly
// increasing in gross, so the root is bracketed by [net, 2*net].
func GrossFromNet(monthlyNet, pvdRate, extraDeductions float64) float64 {
	lower := monthlyNet
	upper := monthlyNet * 2.0

	for i := 0; i < grossSearchIterations; i++ {
		mid := (lower + upper) / 2.0
		net := MonthlyNetFromGross(mid, pvdRate, extraDeductions)
		if math.Abs(net-monthlyNet) < grossSearchTolerance {
			return mid
		}
		if net > monthlyNet {
			upper = mid
		} else {
			lower = mid
		}
	}
	return (lower + upper) / 2.0
}
