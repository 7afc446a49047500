package models

// IncomeType classifies how monthly income was estimated.
type IncomeType string

const (
	IncomeSalaried     IncomeType = "salaried"
	IncomeSelfEmployed IncomeType = "self_employed"
)

// Confidence grades how reliable the detected income figure is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SalaryAnalysis is the result of running income detection over a statement.
type SalaryAnalysis struct {
	DetectedAmount       float64       `json:"detectedAmount"` // estimated monthly gross
	Confidence           Confidence    `json:"confidence"`
	IncomeType           IncomeType    `json:"incomeType"`
	MonthsDetected       int           `json:"monthsDetected"`
	TransactionsAnalyzed int           `json:"transactionsAnalyzed"`
	Approved             bool          `json:"approved"`
	RejectionReason      string        `json:"rejectionReason,omitempty"`
	BestCandidates       []Transaction `json:"bestCandidates,omitempty"` // winning group, capped at 10

	// Comparison fields, populated only when the caller supplied an
	// expected gross figure.
	ExpectedSalary       *float64 `json:"expectedSalary,omitempty"`
	Difference           *float64 `json:"difference,omitempty"`
	DifferencePercentage *float64 `json:"differencePercentage,omitempty"`
	MatchesExpected      *bool    `json:"matchesExpected,omitempty"`
}

// SetExpected fills in the comparison fields against an expected gross salary.
// Detected and expected are considered a match within 5,000 THB.
func (a *SalaryAnalysis) SetExpected(expected float64) {
	diff := a.DetectedAmount - expected
	matches := diff < 5000 && diff > -5000

	a.ExpectedSalary = &expected
	a.Difference = &diff
	a.MatchesExpected = &matches
	if expected != 0 {
		pct := diff / expected * 100
		a.DifferencePercentage = &pct
	}
}
