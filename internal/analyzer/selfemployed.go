package analyzer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/models"
)

// Subtotal rows that some statements print inline with transactions. They
// are bookkeeping furniture and must not count as income.
var summaryLineMarkers = []string{
	"ยอดยกมา",
	"ยอดยกไป",
	"ยอดรวม",
	"รวมรายการ",
	"TOTAL",
}

// analyzeSelfEmployed estimates irregular income by bucketing credits per
// calendar month and averaging across every month that saw at least one
// credit. There is no net-to-gross inversion: business income is taken at
// face value.
func analyzeSelfEmployed(credits []models.Transaction, opts Options) models.SalaryAnalysis {
	monthTotals := make(map[string]float64)
	kept := 0
	for _, tx := range credits {
		if isSummaryLine(tx.Description) {
			continue
		}
		key := monthKey(tx.Date)
		if key == "" {
			continue
		}
		monthTotals[key] += tx.Amount
		kept++
	}

	months := len(monthTotals)
	avg := 0.0
	if months > 0 {
		total := 0.0
		for _, v := range monthTotals {
			total += v
		}
		avg = total / float64(months)
	}

	confidence := models.ConfidenceLow
	switch {
	case months >= 6:
		confidence = models.ConfidenceHigh
	case months >= 4:
		confidence = models.ConfidenceMedium
	}

	result := models.SalaryAnalysis{
		DetectedAmount:       round2(avg),
		Confidence:           confidence,
		IncomeType:           models.IncomeSelfEmployed,
		MonthsDetected:       months,
		TransactionsAnalyzed: len(credits),
		BestCandidates:       topCreditsByAmount(credits, 10),
	}
	if months == 0 {
		result.RejectionReason = "No credited income found"
		return result
	}
	if opts.ExpectedGross > 0 {
		result.SetExpected(opts.ExpectedGross)
	}
	result.RejectionReason = decideApproval(&result, opts.ExpectedGross)
	return result
}

func isSummaryLine(description string) bool {
	up := strings.ToUpper(description)
	for _, marker := range summaryLineMarkers {
		if strings.Contains(up, strings.ToUpper(marker)) {
			return true
		}
	}
	return false
}

// monthKey reduces a transaction date to "YYYY-MM" with a Gregorian year.
// Dates are normally already normalized to DD/MM/YYYY by the parsers, but
// raw 2-digit years still appear in fixtures and older exports: those
// follow the Thai statement convention that 50-99 mean BE 25xx and 00-49
// mean BE 26xx.
func monthKey(date string) string {
	cleaned := strings.ReplaceAll(date, "-", "/")
	parts := strings.Split(cleaned, "/")
	if len(parts) != 3 {
		return ""
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return ""
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return ""
	}
	if len(parts[2]) == 2 {
		if year >= 50 {
			year += 2500
		} else {
			year += 2600
		}
	}
	if year > 2500 {
		year -= 543 // Buddhist to Gregorian
	}
	return strconv.Itoa(year) + "-" + twoDigits(month)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func topCreditsByAmount(credits []models.Transaction, limit int) []models.Transaction {
	out := make([]models.Transaction, 0, len(credits))
	for _, tx := range credits {
		if !isSummaryLine(tx.Description) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
