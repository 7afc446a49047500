// Package analyzer detects recurring income in a statement's credit
// transactions and estimates the gross salary behind the observed net
// amounts.
package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/models"
)

// Pattern-detection parameters.
const (
	minMonthsRequired   = 3 // shortest statement worth grouping
	idealMonthsRequired = 5 // for high confidence

	recurrenceScore        = 6
	sourceConsistencyScore = 5
	amountStabilityScore   = 4
	payrollTimeScore       = 2
	keywordScore           = 2
	notExcludedScore       = 1
	employerScore          = 3
	magnitudeScore         = 2

	// Typical Thai salary band for the magnitude bonus; tiny recurring
	// transfers (allowances, round-ups) score a penalty instead.
	salaryBandLow       = 10000.0
	salaryBandHigh      = 500000.0
	smallAmountCutoff   = 3000.0
	stabilityTight      = 0.03
	stabilityAcceptable = 0.05
)

var salaryKeywords = []string{
	"เงินเดือน", "BSD02", "Payroll", "SALARY", "SAL",
	"รับโอนเงิน", "เงินโอนเข้า", "IORSDT",
}

var exclusionKeywords = []string{
	"truemoney", "wallet", "ทรูมันนี่",
	"ถอนเงิน", "เช็ค", "check", "โอนเงินออก", "จ่าย",
}

// Options control one analysis run. Zero values mean "not provided".
type Options struct {
	ExpectedGross   float64
	Employer        string
	PVDRate         float64
	ExtraDeductions float64
	IncomeType      models.IncomeType
}

// Analyze inspects the credit transactions and produces a SalaryAnalysis
// with the estimated gross income, confidence tier, and approval decision.
func Analyze(txs []models.Transaction, opts Options) models.SalaryAnalysis {
	var credits []models.Transaction
	for _, tx := range txs {
		if tx.IsCredit {
			credits = append(credits, tx)
		}
	}

	if opts.IncomeType == models.IncomeSelfEmployed {
		return analyzeSelfEmployed(credits, opts)
	}
	return analyzeSalaried(credits, opts)
}

func analyzeSalaried(credits []models.Transaction, opts Options) models.SalaryAnalysis {
	group := detectSalaryGroup(credits, opts.Employer)

	if group == nil {
		result := models.SalaryAnalysis{
			DetectedAmount:       0,
			Confidence:           models.ConfidenceLow,
			IncomeType:           models.IncomeSalaried,
			TransactionsAnalyzed: len(credits),
			Approved:             false,
			RejectionReason:      "No recurring salary pattern detected",
		}
		if opts.ExpectedGross > 0 {
			// The caller's figure stands in for the missing detection, at
			// low confidence; approval still fails on months.
			result.DetectedAmount = round2(opts.ExpectedGross)
			result.SetExpected(opts.ExpectedGross)
			result.RejectionReason = decideApproval(&result, opts.ExpectedGross)
		}
		return result
	}

	monthlyNet := median(amountsOf(group.transactions))
	estimatedGross := GrossFromNet(monthlyNet, opts.PVDRate, opts.ExtraDeductions)

	// Recompute the net from the estimate; how closely it lands on the
	// observed median drives confidence.
	netAgain := MonthlyNetFromGross(estimatedGross, opts.PVDRate, opts.ExtraDeductions)
	diff := math.Abs(netAgain-monthlyNet) / math.Max(1.0, monthlyNet)

	confidence := models.ConfidenceLow
	switch {
	case group.months >= idealMonthsRequired && diff <= 0.03:
		confidence = models.ConfidenceHigh
	case group.months >= minMonthsRequired && diff <= 0.06:
		confidence = models.ConfidenceMedium
	}

	result := models.SalaryAnalysis{
		DetectedAmount:       round2(estimatedGross),
		Confidence:           confidence,
		IncomeType:           models.IncomeSalaried,
		MonthsDetected:       group.months,
		TransactionsAnalyzed: len(credits),
		BestCandidates:       annotateCandidates(group),
	}
	if opts.ExpectedGross > 0 {
		result.SetExpected(opts.ExpectedGross)
	}
	result.RejectionReason = decideApproval(&result, opts.ExpectedGross)
	return result
}

// salaryGroup is one candidate cluster of same-source credits.
type salaryGroup struct {
	source       string
	transactions []models.Transaction
	score        int
	months       int
}

// detectSalaryGroup groups credits by normalized source and returns the
// highest-scoring group with at least minMonthsRequired members, or nil.
// Ties keep the first group encountered in transaction order.
func detectSalaryGroup(credits []models.Transaction, employer string) *salaryGroup {
	groups := make(map[string][]models.Transaction)
	var order []string
	for _, tx := range credits {
		key := normalizeSource(tx)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	var best *salaryGroup
	for _, source := range order {
		txs := groups[source]
		if len(txs) < minMonthsRequired {
			continue
		}
		score := scoreSalaryGroup(txs, employer)
		if best == nil || score > best.score {
			best = &salaryGroup{
				source:       source,
				transactions: txs,
				score:        score,
				months:       len(txs),
			}
		}
	}
	return best
}

var (
	nonAlnumPattern    = regexp.MustCompile(`[^a-zA-Z0-9]`)
	parenCodePattern   = regexp.MustCompile(`\(([A-Z0-9]+)\)`)
	numericOnlyPattern = regexp.MustCompile(`^[\d\-/:.]+$`)
	transferWords      = regexp.MustCompile(`รับโอน|เงินโอน|โอนเข้า|TRANSFER|RECEIVE`)
)

// normalizeSource reduces a credit to a grouping key: the payer name when
// the parser extracted one, else a parenthesized transaction code from the
// description, else the first word that looks like a name.
func normalizeSource(tx models.Transaction) string {
	if tx.Payer != "" {
		return nonAlnumPattern.ReplaceAllString(strings.ToUpper(tx.Payer), "")
	}

	desc := strings.ToUpper(tx.Description)
	if m := parenCodePattern.FindStringSubmatch(desc); m != nil {
		return m[1]
	}

	desc = transferWords.ReplaceAllString(desc, "")
	for _, word := range strings.Fields(desc) {
		if len(word) >= 3 && !numericOnlyPattern.MatchString(word) {
			return nonAlnumPattern.ReplaceAllString(word, "")
		}
	}
	return "UNKNOWN"
}

func scoreSalaryGroup(txs []models.Transaction, employer string) int {
	score := 0

	switch {
	case len(txs) >= 6:
		score += recurrenceScore
	case len(txs) >= idealMonthsRequired:
		score += recurrenceScore - 1
	case len(txs) >= minMonthsRequired:
		score += recurrenceScore - 2
	}

	// members of a group share one source by construction
	score += sourceConsistencyScore

	amounts := amountsOf(txs)
	switch stability := amountStability(amounts); {
	case stability <= stabilityTight:
		score += amountStabilityScore
	case stability <= stabilityAcceptable:
		score += amountStabilityScore - 1
	}

	switch avg := mean(amounts); {
	case avg >= salaryBandLow && avg <= salaryBandHigh:
		score += magnitudeScore
	case avg < smallAmountCutoff:
		score -= magnitudeScore
	}

	payrollCount := 0
	for _, tx := range txs {
		if isPayrollTime(tx) {
			payrollCount++
		}
	}
	if payrollCount*2 >= len(txs) {
		score += payrollTimeScore
	}

	if anyHasKeyword(txs, salaryKeywords) {
		score += keywordScore
	}
	if !anyHasKeyword(txs, exclusionKeywords) {
		score += notExcludedScore
	}
	if employer != "" && anyContainsFold(txs, employer) {
		score += employerScore
	}
	return score
}

// isPayrollTime reports whether the credit landed in the 00:00-06:00 window
// where Thai payroll batch runs post.
func isPayrollTime(tx models.Transaction) bool {
	if tx.Time == "" {
		return false
	}
	parts := strings.SplitN(tx.Time, ":", 2)
	hour := -1
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return false
	}
	return hour >= 0 && hour <= 6
}

func anyHasKeyword(txs []models.Transaction, keywords []string) bool {
	for _, tx := range txs {
		lower := strings.ToLower(tx.Description)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

func anyContainsFold(txs []models.Transaction, needle string) bool {
	needle = strings.ToLower(needle)
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.Description), needle) {
			return true
		}
	}
	return false
}

// annotateCandidates marks the winning group's transactions with their
// group score and returns up to ten of them for reporting.
func annotateCandidates(group *salaryGroup) []models.Transaction {
	out := make([]models.Transaction, len(group.transactions))
	copy(out, group.transactions)
	for i := range out {
		out[i].Score = float64(group.score)
		out[i].ClusterID = 1
	}
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func amountsOf(txs []models.Transaction) []float64 {
	out := make([]float64, len(txs))
	for i, tx := range txs {
		out[i] = tx.Amount
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// amountStability is the MAD/median ratio: 0 for perfectly even amounts,
// large for noisy ones.
func amountStability(amounts []float64) float64 {
	if len(amounts) < 2 {
		return 0
	}
	med := median(amounts)
	if med <= 0 {
		return math.Inf(1)
	}
	deviations := make([]float64, len(amounts))
	for i, a := range amounts {
		deviations[i] = math.Abs(a - med)
	}
	return median(deviations) / med
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
