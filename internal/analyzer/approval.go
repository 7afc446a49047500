package analyzer

import (
	"fmt"
	"math"

	"github.com/siamcredit/statement-analyzer/internal/models"
)

const (
	approvalMinMonths = 6
	expectedTolerance = 5000.0 // THB
)

// decideApproval applies the lending rules to a finished analysis, sets
// Approved, and returns the rejection reason ("" when approved).
//
// Rule order matters: a thin statement is rejected for insufficient months
// even when the detected figure matches the caller's expectation.
func decideApproval(a *models.SalaryAnalysis, expectedGross float64) string {
	if a.MonthsDetected < approvalMinMonths {
		a.Approved = false
		return fmt.Sprintf("Insufficient data: only %d months detected (required: %d)",
			a.MonthsDetected, approvalMinMonths)
	}

	if expectedGross > 0 {
		diff := a.DetectedAmount - expectedGross
		if math.Abs(diff) >= expectedTolerance {
			a.Approved = false
			diffPct := diff / expectedGross * 100
			return fmt.Sprintf("Salary mismatch: detected %.2f vs expected %.2f (diff: %.1f%%)",
				a.DetectedAmount, expectedGross, diffPct)
		}
		a.Approved = true
		return ""
	}

	if a.Confidence == models.ConfidenceHigh || a.Confidence == models.ConfidenceMedium {
		a.Approved = true
		return ""
	}
	a.Approved = false
	return "Low confidence in detection"
}
