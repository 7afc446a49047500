// Package writer renders analysis results for export.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/siamcredit/statement-analyzer/internal/models"
)

// CSVWriter writes a statement's transactions and the analysis verdict to
// CSV for review.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the report to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, stmt *models.Statement, analysis *models.SalaryAnalysis) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, stmt, analysis)
}

// Write writes the report in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, stmt *models.Statement, analysis *models.SalaryAnalysis) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		if stmt.Bank != "" {
			writer.Write([]string{"# Bank", string(stmt.Bank)})
		}
		if stmt.AccountNumber != "" {
			writer.Write([]string{"# Account Number", stmt.AccountNumber})
		}
		if stmt.Period != "" {
			writer.Write([]string{"# Statement Period", stmt.Period})
		}
		if analysis != nil {
			writer.Write([]string{"# Detected Income", formatAmount(analysis.DetectedAmount)})
			writer.Write([]string{"# Confidence", string(analysis.Confidence)})
			writer.Write([]string{"# Months Detected", strconv.Itoa(analysis.MonthsDetected)})
			writer.Write([]string{"# Approved", strconv.FormatBool(analysis.Approved)})
			if analysis.RejectionReason != "" {
				writer.Write([]string{"# Rejection Reason", analysis.RejectionReason})
			}
		}
	}

	header := []string{"Date", "Time", "Channel", "Description", "Payer", "Direction", "Amount", "Score"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range stmt.Transactions {
		direction := "DEBIT"
		if txn.IsCredit {
			direction = "CREDIT"
		}
		row := []string{
			txn.Date,
			txn.Time,
			txn.Channel,
			txn.Description,
			txn.Payer,
			direction,
			formatAmount(txn.Amount),
			formatScore(txn.Score),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return ""
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatScore(score float64) string {
	if score == 0 {
		return ""
	}
	return strconv.FormatFloat(score, 'f', 1, 64)
}
