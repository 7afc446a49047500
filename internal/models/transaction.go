package models

// Transaction represents a single statement transaction in canonical form.
// Date is always DD/MM/YYYY with a 4-digit Gregorian year regardless of how
// the source bank encoded it; Amount is always a positive magnitude with
// direction carried in IsCredit.
type Transaction struct {
	Page        int     `json:"page"`
	LineIndex   int     `json:"lineIndex"`
	Date        string  `json:"date"`
	Time        string  `json:"time,omitempty"` // HH:MM, empty when the layout has no per-row time
	Amount      float64 `json:"amount"`
	IsCredit    bool    `json:"isCredit"`
	Description string  `json:"description"`
	Channel     string  `json:"channel,omitempty"`
	Payer       string  `json:"payer,omitempty"` // best-effort remitter name, credits only

	// Populated by the income detection engine, not by parsing.
	Score     float64 `json:"score,omitempty"`
	ClusterID int     `json:"clusterId,omitempty"`
}

// BankType identifies one of the supported statement formats.
type BankType string

const (
	BankKBank   BankType = "kbank"
	BankSCB     BankType = "scb"
	BankKTB     BankType = "ktb"
	BankBBL     BankType = "bbl"
	BankTTB     BankType = "ttb"
	BankUnknown BankType = "unknown"
)

// Statement holds everything extracted from one PDF.
type Statement struct {
	SourceFile    string        `json:"sourceFile"`
	Bank          BankType      `json:"bank"`
	AccountNumber string        `json:"accountNumber,omitempty"`
	Period        string        `json:"period,omitempty"`
	TotalPages    int           `json:"totalPages"`
	Transactions  []Transaction `json:"transactions"`
}

// Credits returns the subset of transactions with money flowing in.
func (s *Statement) Credits() []Transaction {
	var out []Transaction
	for _, tx := range s.Transactions {
		if tx.IsCredit {
			out = append(out, tx)
		}
	}
	return out
}
