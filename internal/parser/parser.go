// Package parser reconstructs transactions from the text lines of Thai bank
// statement PDFs. Each supported bank has its own parser because the layouts
// share nothing beyond dates and money columns.
package parser

import (
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/models"
)

// Parser converts extracted page lines into transactions. Parsers are
// forward-only: lines that do not fit the bank's layout are skipped,
// never reported as errors.
type Parser interface {
	Parse(pages []extractor.Page) []models.Transaction
	BankName() string
}

// New returns the parser for the given bank, or nil if the bank is
// unknown or unsupported.
func New(bank models.BankType) Parser {
	switch bank {
	case models.BankKBank:
		return &KBankParser{}
	case models.BankSCB:
		return &SCBParser{}
	case models.BankKTB:
		return &KTBParser{}
	case models.BankBBL:
		return &BBLParser{}
	case models.BankTTB:
		return &TTBParser{}
	default:
		return nil
	}
}

// Detect identifies the bank from marker strings in the first two pages.
// SCB is checked before KBank on purpose: SCB statements routinely mention
// rival banks in transfer descriptions ("กสิกรไทย" etc.), so the more
// specific markers win by being tested first.
func Detect(pages []extractor.Page) models.BankType {
	var b strings.Builder
	for i, p := range pages {
		if i >= 2 {
			break
		}
		for _, ln := range p.Lines {
			b.WriteString(ln)
			b.WriteByte('\n')
		}
	}
	sample := b.String()
	upper := strings.ToUpper(sample)

	if strings.Contains(sample, "ธนาคารไทยพาณิชย์") || strings.Contains(upper, "SIAM COMMERCIAL") {
		return models.BankSCB
	}
	if strings.Contains(sample, "ธนาคารกรุงไทย") || strings.Contains(upper, "KRUNGTHAI") {
		return models.BankKTB
	}
	if strings.Contains(sample, "ธนาคารกสิกรไทย") || strings.Contains(upper, "KASIKORNBANK") {
		return models.BankKBank
	}
	if containsAny(upper, "K-MOBILE BANKING", "K PLUS", "K-PLUS") {
		return models.BankKBank
	}
	if strings.Contains(sample, "กสิกร") || strings.Contains(upper, "KBANK") {
		return models.BankKBank
	}
	if strings.Contains(sample, "ธนาคารกรุงเทพ") || strings.Contains(upper, "BANGKOK BANK") {
		return models.BankBBL
	}
	if strings.Contains(sample, "ธนาคารทหารไทยธนชาต") || containsAny(upper, "TMB", "THANACHART") {
		return models.BankTTB
	}
	if strings.Contains(upper, "TTB") || strings.Contains(sample, "ทีทีบี") || strings.Contains(sample, "ttbbank.com") {
		return models.BankTTB
	}
	return models.BankUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
