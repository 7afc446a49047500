package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamcredit/statement-analyzer/internal/models"
)

// salaryCredit builds one monthly payroll-looking credit.
func salaryCredit(month int, amount float64, payer string) models.Transaction {
	return models.Transaction{
		Page:        1,
		Date:        fmt.Sprintf("25/%02d/2025", month),
		Time:        "04:04",
		Channel:     "108682",
		Description: "เงินเดือน/อื่นๆ (BSD02) | " + payer,
		Amount:      amount,
		IsCredit:    true,
		Payer:       payer,
	}
}

func TestAnalyzeSalariedEndToEnd(t *testing.T) {
	// Derive the gross whose Thai-model net is 50,000 with the same formula
	// the engine uses, so the assertion checks internal consistency rather
	// than a hardcoded figure.
	wantGross := GrossFromNet(50000, 0, 0)

	var txs []models.Transaction
	for m := 1; m <= 6; m++ {
		txs = append(txs, salaryCredit(m, 50000, "ACME CAPITAL"))
	}
	// noise: debits must be ignored entirely
	txs = append(txs, models.Transaction{
		Date: "10/03/2025", Description: "จ่ายค่าสินค้า/บริการ (NBSWP) | 1234",
		Amount: 1200, IsCredit: false,
	})

	result := Analyze(txs, Options{})

	assert.Equal(t, models.IncomeSalaried, result.IncomeType)
	assert.Equal(t, 6, result.MonthsDetected)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
	assert.True(t, result.Approved)
	assert.Empty(t, result.RejectionReason)
	assert.InDelta(t, wantGross, result.DetectedAmount, wantGross*0.01)
	require.NotEmpty(t, result.BestCandidates)
	assert.Equal(t, 1, result.BestCandidates[0].ClusterID)
	assert.Greater(t, result.BestCandidates[0].Score, 0.0)
}

func TestAnalyzeGroupingStability(t *testing.T) {
	// 6 identical same-payer credits plus 20 unrelated one-off credits:
	// the recurring group must win and report months_detected = 6.
	var txs []models.Transaction
	for m := 1; m <= 6; m++ {
		txs = append(txs, salaryCredit(m, 42000, "SG CAPITAL"))
	}
	for i := 0; i < 20; i++ {
		txs = append(txs, models.Transaction{
			Date:        fmt.Sprintf("%02d/%02d/2025", (i%27)+1, (i%6)+1),
			Time:        "14:30",
			Description: fmt.Sprintf("รับโอนเงิน จาก PERSON%02d", i),
			Amount:      float64(500 + i*137),
			IsCredit:    true,
			Payer:       fmt.Sprintf("PERSON%02d", i),
		})
	}

	result := Analyze(txs, Options{})

	assert.Equal(t, 6, result.MonthsDetected)
	require.NotEmpty(t, result.BestCandidates)
	for _, c := range result.BestCandidates {
		assert.Equal(t, 42000.0, c.Amount)
	}
}

func TestAnalyzeApprovalGating(t *testing.T) {
	// A clean 5-month pattern is always rejected: 6 months are required.
	var txs []models.Transaction
	for m := 1; m <= 5; m++ {
		txs = append(txs, salaryCredit(m, 50000, "ACME CAPITAL"))
	}

	result := Analyze(txs, Options{})

	assert.False(t, result.Approved)
	assert.Contains(t, result.RejectionReason, "Insufficient data")
	assert.Contains(t, result.RejectionReason, "5 months")
}

func TestAnalyzeExpectedSalaryComparison(t *testing.T) {
	var txs []models.Transaction
	for m := 1; m <= 6; m++ {
		txs = append(txs, salaryCredit(m, 50000, "ACME CAPITAL"))
	}
	detected := Analyze(txs, Options{}).DetectedAmount

	t.Run("within tolerance approves", func(t *testing.T) {
		result := Analyze(txs, Options{ExpectedGross: detected + 4000})
		assert.True(t, result.Approved)
		require.NotNil(t, result.MatchesExpected)
		assert.True(t, *result.MatchesExpected)
	})

	t.Run("mismatch rejects naming both figures", func(t *testing.T) {
		expected := detected + 20000
		result := Analyze(txs, Options{ExpectedGross: expected})
		assert.False(t, result.Approved)
		assert.Contains(t, result.RejectionReason, "Salary mismatch")
		assert.Contains(t, result.RejectionReason, fmt.Sprintf("%.2f", result.DetectedAmount))
		assert.Contains(t, result.RejectionReason, fmt.Sprintf("%.2f", expected))
	})
}

func TestAnalyzeNoPatternDetected(t *testing.T) {
	// Two credits are below the 3-transaction grouping floor
	txs := []models.Transaction{
		salaryCredit(1, 30000, "ACME CAPITAL"),
		salaryCredit(2, 30000, "ACME CAPITAL"),
	}

	result := Analyze(txs, Options{})

	assert.Zero(t, result.DetectedAmount)
	assert.Equal(t, models.ConfidenceLow, result.Confidence)
	assert.False(t, result.Approved)
	assert.Equal(t, "No recurring salary pattern detected", result.RejectionReason)
	assert.Equal(t, 2, result.TransactionsAnalyzed)
}

func TestAnalyzeSelfEmployedAveraging(t *testing.T) {
	// 8 months of irregular credits from many counterparties: the estimate
	// is total credited / distinct months.
	var txs []models.Transaction
	total := 0.0
	for m := 1; m <= 8; m++ {
		for i := 0; i < 3; i++ {
			amount := float64(8000 + m*500 + i*321)
			total += amount
			txs = append(txs, models.Transaction{
				Date:        fmt.Sprintf("%02d/%02d/2025", 3+i*9, m),
				Description: fmt.Sprintf("รับโอนเงิน จาก CLIENT%d%d", m, i),
				Amount:      amount,
				IsCredit:    true,
			})
		}
	}
	// a subtotal row must not inflate the average
	txs = append(txs, models.Transaction{
		Date: "15/04/2025", Description: "ยอดรวมรายการฝาก", Amount: 99999, IsCredit: true,
	})

	result := Analyze(txs, Options{IncomeType: models.IncomeSelfEmployed})

	assert.Equal(t, models.IncomeSelfEmployed, result.IncomeType)
	assert.Equal(t, 8, result.MonthsDetected)
	assert.InDelta(t, total/8, result.DetectedAmount, 0.01)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)
	assert.True(t, result.Approved)
}

func TestAnalyzeSelfEmployedConfidenceTiers(t *testing.T) {
	buildMonths := func(n int) []models.Transaction {
		var txs []models.Transaction
		for m := 1; m <= n; m++ {
			txs = append(txs, models.Transaction{
				Date:        fmt.Sprintf("05/%02d/2025", m),
				Description: "รับโอนเงิน",
				Amount:      15000,
				IsCredit:    true,
			})
		}
		return txs
	}

	tests := []struct {
		months int
		want   models.Confidence
	}{
		{6, models.ConfidenceHigh},
		{4, models.ConfidenceMedium},
		{3, models.ConfidenceLow},
	}
	for _, tt := range tests {
		result := Analyze(buildMonths(tt.months), Options{IncomeType: models.IncomeSelfEmployed})
		assert.Equal(t, tt.want, result.Confidence, "months=%d", tt.months)
		assert.Equal(t, tt.months, result.MonthsDetected)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"25/01/2025", "2025-01"},
		{"30/09/2568", "2025-09"}, // full Buddhist year
		{"30/09/68", "2025-09"},   // 2-digit Buddhist year (>=50)
		{"01-04-25", "2082-04"},   // 2-digit year below 50 reads BE 26xx by convention
		{"garbage", ""},
		{"25/13/2025", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, monthKey(tt.date), "date=%s", tt.date)
	}
}

func TestNormalizeSource(t *testing.T) {
	tests := []struct {
		name string
		tx   models.Transaction
		want string
	}{
		{
			name: "payer preferred and cleaned",
			tx:   models.Transaction{Payer: "SG Capital Co., Ltd."},
			want: "SGCAPITALCOLTD",
		},
		{
			name: "parenthesized code fallback",
			tx:   models.Transaction{Description: "เงินเดือน/อื่นๆ (BSD02) | รายละเอียด"},
			want: "BSD02",
		},
		{
			name: "first meaningful word fallback",
			tx:   models.Transaction{Description: "รับโอนเงิน ACME 12345"},
			want: "ACME",
		},
		{
			name: "nothing usable",
			tx:   models.Transaction{Description: "123 45/6"},
			want: "UNKNOWN",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSource(tt.tx))
		})
	}
}
