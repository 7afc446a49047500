// Package store persists analysis results and audit events in SQLite.
package store

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/siamcredit/statement-analyzer/internal/models"
)

type Store struct {
	db *gorm.DB
}

// New opens the SQLite database at dbPath and migrates the schema.
func New(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&AnalysisRecord{}, &AuditLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveAnalysis persists a finished analysis under the given request ID.
func (s *Store) SaveAnalysis(requestID, sourceFile string, bank models.BankType, a *models.SalaryAnalysis, masked bool) error {
	rec := &AnalysisRecord{
		RequestID:       requestID,
		SourceFile:      sourceFile,
		Bank:            string(bank),
		DetectedAmount:  a.DetectedAmount,
		Confidence:      string(a.Confidence),
		IncomeType:      string(a.IncomeType),
		MonthsDetected:  a.MonthsDetected,
		Approved:        a.Approved,
		RejectionReason: a.RejectionReason,
		Masked:          masked,
	}
	if a.ExpectedSalary != nil {
		rec.ExpectedSalary = *a.ExpectedSalary
	}
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// SaveAuditLog records a processing event.
func (s *Store) SaveAuditLog(requestID, action, detail string) error {
	entry := &AuditLog{RequestID: requestID, Action: action, Detail: detail}
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}
	return nil
}

// AnalysisByRequestID loads a previously saved analysis.
func (s *Store) AnalysisByRequestID(requestID string) (*AnalysisRecord, error) {
	var rec AnalysisRecord
	if err := s.db.Where("request_id = ?", requestID).First(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to load analysis %q: %w", requestID, err)
	}
	return &rec, nil
}
