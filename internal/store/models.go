package store

import (
	"gorm.io/gorm"
)

// AnalysisRecord is a persisted salary analysis result.
type AnalysisRecord struct {
	gorm.Model
	RequestID       string `gorm:"uniqueIndex"`
	SourceFile      string
	Bank            string
	DetectedAmount  float64
	Confidence      string
	IncomeType      string
	MonthsDetected  int
	Approved        bool
	RejectionReason string
	ExpectedSalary  float64
	Masked          bool
}

// AuditLog records a processing event for traceability.
type AuditLog struct {
	gorm.Model
	RequestID string `gorm:"index"`
	Action    string
	Detail    string
}
