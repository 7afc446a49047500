package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/models"
)

// KTBParser handles Krungthai Bank statements. Each transaction is a
// seven-line block:
//
//	DD/MM/YY (Buddhist year)
//	transaction type with code, e.g. "เงินเดือน/อื่นๆ (BSD02)"
//	detail / reference / counterparty
//	amount
//	balance after
//	branch or channel code (digits)
//	HH:MM
//
// Statement headers repeat date-shaped lines ("วันที่ส่งคำขอ" followed by a
// date), so a date only starts a block when the next line carries the
// parenthesized transaction code.
type KTBParser struct{}

var (
	ktbDatePattern   = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{2})$`)
	ktbBranchPattern = regexp.MustCompile(`^\d{3,9}$`)
)

var ktbCreditKeywords = []string{
	"เงินเดือน",
	"เงินเดือน/อื่นๆ",
	"เงินโอนเข้า",
	"ฝากเงิน",
	"BSD02",
	"IORSDT",
	"SDCH",
}

var ktbDebitKeywords = []string{
	"โอนเงินออก",
	"ถอนเงิน",
	"ถอนเงินไม่ใช้บัตร",
	"จ่ายค่าสินค้า",
	"จ่ายค่าบริการ",
	"IORSWT",
	"NBSWT",
	"MORWSW",
	"MORISW",
	"NMIDSW",
	"MORPSW",
	"NBSWP",
	"CGSWP",
	"ATSWCR",
}

func (p *KTBParser) BankName() string { return string(models.BankKTB) }

func (p *KTBParser) Parse(pages []extractor.Page) []models.Transaction {
	var txs []models.Transaction
	for _, page := range pages {
		lines := page.Lines
		n := len(lines)
		i := 0
		for i < n {
			line := strings.TrimSpace(lines[i])
			if ktbDatePattern.MatchString(line) {
				candidate := ""
				if i+1 < n {
					candidate = strings.TrimSpace(lines[i+1])
				}
				if strings.Contains(candidate, "(") && strings.Contains(candidate, ")") {
					if tx, ok := p.parseBlock(lines, i, page.Number); ok {
						txs = append(txs, tx)
						i += 7
						continue
					}
				}
			}
			i++
		}
	}
	return txs
}

func (p *KTBParser) parseBlock(lines []string, start, pageNum int) (models.Transaction, bool) {
	if start+6 >= len(lines) {
		return models.Transaction{}, false
	}

	dateLine := strings.TrimSpace(lines[start])
	txTypeLine := strings.TrimSpace(lines[start+1])
	detailLine := strings.TrimSpace(lines[start+2])
	amountLine := strings.TrimSpace(lines[start+3])
	branchLine := strings.TrimSpace(lines[start+5])
	timeLine := strings.TrimSpace(lines[start+6])

	if !isLooseMoney(amountLine) {
		return models.Transaction{}, false
	}
	amount := parseMoney(amountLine)
	if amount == 0 {
		return models.Transaction{}, false
	}

	channel := ""
	if ktbBranchPattern.MatchString(branchLine) {
		channel = branchLine
	}
	timeVal := ""
	if isTime(timeLine) {
		timeVal = timeLine
	}

	isCredit := ktbIsCredit(txTypeLine)
	payer := ""
	if isCredit {
		payer = ktbPayer(detailLine)
	}

	return models.Transaction{
		Page:        pageNum,
		LineIndex:   start,
		Date:        normalizeKTBDate(dateLine),
		Time:        timeVal,
		Channel:     channel,
		Description: txTypeLine + " | " + detailLine,
		Amount:      amount,
		IsCredit:    isCredit,
		Payer:       payer,
	}, true
}

// ktbIsCredit classifies the movement from the transaction-type line.
// Keyword lexicons first, generic Thai verbs as fallback, debit by default.
func ktbIsCredit(txType string) bool {
	up := strings.ToUpper(txType)
	for _, kw := range ktbCreditKeywords {
		if strings.Contains(up, strings.ToUpper(kw)) {
			return true
		}
	}
	for _, kw := range ktbDebitKeywords {
		if strings.Contains(up, strings.ToUpper(kw)) {
			return false
		}
	}
	if strings.Contains(txType, "รับ") || strings.Contains(txType, "ฝาก") {
		return true
	}
	if strings.Contains(txType, "จ่าย") || strings.Contains(txType, "โอน") || strings.Contains(txType, "ถอน") {
		return false
	}
	return false
}

// ktbPayer pulls the payer name from detail lines like
// "SG CAPITAL/เอสจี แคปปิตอล/200000".
func ktbPayer(detail string) string {
	if detail == "" {
		return ""
	}
	if strings.Contains(detail, "/") {
		first := strings.TrimSpace(strings.SplitN(detail, "/", 2)[0])
		if len(first) > 3 && !isDigitsAndDashes(first) {
			return first
		}
	}
	fields := strings.Fields(detail)
	if len(fields) > 0 {
		first := fields[0]
		if len(first) > 2 && first == strings.ToUpper(first) && !isDigitsAndDashes(first) {
			return first
		}
	}
	return ""
}

func isDigitsAndDashes(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '-' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func normalizeKTBDate(d string) string {
	m := ktbDatePattern.FindStringSubmatch(d)
	if m == nil {
		return d
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	yy, _ := strconv.Atoi(m[3])
	return formatDate(day, month, gregorianYear(yy))
}
