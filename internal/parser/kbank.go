package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/models"
)

// KBankParser handles Kasikornbank K PLUS statements. Each transaction is a
// vertical block:
//
//	DD-MM-YY
//	HH:MM
//	channel (may span lines)
//	balance after
//	description (may span lines)
//	transaction-type keyword
//	amount
//
// The table-format variant (column headers วันที่/เวลา/ช่องทาง/รายการ/
// ยอดคงเหลือ, single channel line per row) extracts into the same vertical
// block shape, so one scanner covers both layouts.
type KBankParser struct{}

var kbankDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}$`)

// Transaction-type keywords terminate the description span and decide the
// direction of the movement.
var (
	kbankDebitTypes = map[string]bool{
		"ชำระเงิน":  true,
		"โอนเงิน":   true,
		"ถอนเงินสด": true,
	}
	kbankCreditTypes = map[string]bool{
		"รับโอนเงิน":          true,
		"รับโอนเงินอัตโนมัติ": true,
		"รับโอนเงินผ่าน QR":   true,
	}
)

func (p *KBankParser) BankName() string { return string(models.BankKBank) }

func (p *KBankParser) Parse(pages []extractor.Page) []models.Transaction {
	var txs []models.Transaction
	for _, page := range pages {
		txs = append(txs, p.parsePage(page)...)
	}
	return txs
}

func (p *KBankParser) parsePage(page extractor.Page) []models.Transaction {
	var txs []models.Transaction
	lines := page.Lines
	n := len(lines)
	i := 0

	for i < n {
		line := strings.TrimSpace(lines[i])
		if !kbankDatePattern.MatchString(line) {
			i++
			continue
		}

		startIdx := i
		dateStr := line
		i++
		if i >= n {
			break
		}

		// Carry-forward blocks (date, balance, "ยอดยกมา"/"ยอดยกไป") are
		// page furniture, not movements.
		if isKBankCarryForward(lines, startIdx) {
			i = startIdx + 3
			continue
		}

		var timeStr string
		if i < n && isTime(strings.TrimSpace(lines[i])) {
			timeStr = strings.TrimSpace(lines[i])
			i++
		}
		if i >= n {
			break
		}

		// Channel may span lines; the first money token after it is the
		// running balance. A new date before that means the block is
		// malformed and scanning resumes from it.
		var channelParts []string
		aborted := false
		for i < n && !isMoney(strings.TrimSpace(lines[i])) {
			if kbankDatePattern.MatchString(strings.TrimSpace(lines[i])) {
				aborted = true
				break
			}
			channelParts = append(channelParts, strings.TrimSpace(lines[i]))
			i++
		}
		if aborted {
			continue
		}
		if i >= n || !isMoney(strings.TrimSpace(lines[i])) {
			continue
		}
		channel := strings.Join(channelParts, " ")
		i++ // consume balance-after

		// Description lines run until the transaction-type keyword.
		var descLines []string
		txType := ""
		for i < n {
			candidate := strings.TrimSpace(lines[i])
			if kbankDebitTypes[candidate] || kbankCreditTypes[candidate] {
				txType = candidate
				i++
				break
			}
			if kbankDatePattern.MatchString(candidate) {
				break
			}
			descLines = append(descLines, candidate)
			i++
		}
		description := strings.Join(descLines, " ")

		var amount float64
		if i < n && isMoney(strings.TrimSpace(lines[i])) {
			amount = parseMoney(strings.TrimSpace(lines[i]))
			i++
		}
		if amount == 0 {
			continue
		}

		var isCredit bool
		switch {
		case kbankCreditTypes[txType]:
			isCredit = true
		case kbankDebitTypes[txType]:
			isCredit = false
		default:
			blob := txType + " " + description
			isCredit = strings.Contains(blob, "รับโอนเงิน") ||
				strings.Contains(blob, "รับดอกเบี้ย") ||
				strings.Contains(description, "My QR")
		}

		payer := ""
		if isCredit {
			payer = kbankPayerFromDescription(description)
		}

		txs = append(txs, models.Transaction{
			Page:        page.Number,
			LineIndex:   startIdx,
			Date:        normalizeKBankDate(dateStr),
			Time:        timeStr,
			Channel:     channel,
			Description: description,
			Amount:      amount,
			IsCredit:    isCredit,
			Payer:       payer,
		})
	}
	return txs
}

func isKBankCarryForward(lines []string, i int) bool {
	if i+2 >= len(lines) {
		return false
	}
	if !kbankDatePattern.MatchString(strings.TrimSpace(lines[i])) {
		return false
	}
	if !isMoney(strings.TrimSpace(lines[i+1])) {
		return false
	}
	next := lines[i+2]
	return strings.Contains(next, "ยอดยกมา") || strings.Contains(next, "ยอดยกไป")
}

// kbankPayerFromDescription pulls the sender name from transfer-in
// descriptions like "จาก SCB X5247 นาย กฤษฎา รักเพื่++".
func kbankPayerFromDescription(desc string) string {
	idx := strings.Index(desc, "จาก")
	if idx < 0 {
		return ""
	}
	after := strings.TrimSpace(desc[idx+len("จาก"):])
	if cut := strings.Index(after, "++"); cut >= 0 {
		after = strings.TrimSpace(after[:cut])
	}

	// The name usually follows a masked account token "X####". The padded
	// search also catches a token at the very start of the remainder.
	padded := " " + after
	if xIdx := strings.Index(padded, " X"); xIdx >= 0 {
		afterX := padded[xIdx+2:]
		tokens := strings.Fields(afterX)
		if len(tokens) > 1 {
			name := strings.TrimSpace(strings.Join(tokens[1:], " "))
			if len(name) >= 3 {
				return name
			}
		}
		beforeX := strings.TrimSpace(padded[:xIdx])
		if len(beforeX) >= 2 {
			return beforeX
		}
	}

	fields := strings.Fields(after)
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func normalizeKBankDate(d string) string {
	parts := strings.Split(d, "-")
	if len(parts) != 3 {
		return d
	}
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	yy, _ := strconv.Atoi(parts[2])
	return formatDate(day, month, gregorianYear(yy))
}
