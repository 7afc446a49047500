package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/models"
)

// BBLParser handles Bangkok Bank passbook statements. The printed table
// (Date | Particulars | Chq.No. | Withdrawal | Deposit | Balance | Via)
// extracts as two or three lines per row:
//
//	DD/MM/YY description
//	amount
//	"<balance after> <via>"
//
// The opening "B/F" row has no amount, only the brought-forward balance; it
// seeds the running balance without emitting a transaction. Direction comes
// from the running-balance delta, keyword hints as fallback.
type BBLParser struct{}

var bblDateDescPattern = regexp.MustCompile(`^(\d{2}/\d{2}/\d{2})\s+(.+)$`)

var bblCreditHints = []string{
	"SALARY",
	"CHEQUE DEP",
	"CHEQUE DEP NBK",
	"DEP",
	"DEPOSIT",
}

func (p *BBLParser) BankName() string { return string(models.BankBBL) }

func (p *BBLParser) Parse(pages []extractor.Page) []models.Transaction {
	var txs []models.Transaction
	prevBalance := 0.0
	haveBalance := false

	for _, page := range pages {
		lines := page.Lines
		n := len(lines)
		idx := 0

		for idx < n {
			m := bblDateDescPattern.FindStringSubmatch(strings.TrimSpace(lines[idx]))
			if m == nil {
				idx++
				continue
			}
			rawDate := m[1]
			desc := strings.TrimSpace(m[2])

			l1 := ""
			if idx+1 < n {
				l1 = strings.TrimSpace(lines[idx+1])
			}
			l2 := ""
			if idx+2 < n {
				l2 = strings.TrimSpace(lines[idx+2])
			}

			if !isLooseMoney(l1) {
				idx++
				continue
			}

			l2First := ""
			if fields := strings.Fields(l2); len(fields) > 0 {
				l2First = fields[0]
			}

			// B/F rows carry only the brought-forward balance.
			if strings.HasPrefix(strings.ToUpper(desc), "B/F") || !isLooseMoney(l2First) {
				prevBalance = parseMoney(l1)
				haveBalance = true
				idx += 2
				continue
			}

			amount := parseMoney(l1)
			balanceAfter := parseMoney(l2First)
			viaDetail := strings.TrimSpace(strings.TrimPrefix(l2, l2First))

			var oldBalance *float64
			if haveBalance {
				b := prevBalance
				oldBalance = &b
			}
			isCredit := bblIsCredit(desc, amount, balanceAfter, oldBalance)

			if amount != 0 {
				txs = append(txs, models.Transaction{
					Page:        page.Number,
					LineIndex:   idx,
					Date:        normalizeBBLDate(rawDate),
					Time:        "", // BBL rows carry no timestamp
					Channel:     desc,
					Description: viaDetail,
					Amount:      amount,
					IsCredit:    isCredit,
					Payer:       bblPayer(desc, viaDetail, isCredit),
				})
			}

			prevBalance = balanceAfter
			haveBalance = true
			idx += 3
		}
	}
	return txs
}

// bblIsCredit decides direction: a balance delta that matches the amount is
// authoritative, a keyword hint covers the first row of a statement, and
// anything else is treated as a withdrawal.
func bblIsCredit(desc string, amount, newBalance float64, oldBalance *float64) bool {
	if oldBalance != nil {
		diff := math.Round((newBalance-*oldBalance)*100) / 100
		if math.Abs(math.Abs(diff)-amount) <= 0.01 {
			return diff > 0
		}
	}
	up := strings.ToUpper(desc)
	for _, kw := range bblCreditHints {
		if strings.Contains(up, kw) {
			return true
		}
	}
	return false
}

func bblPayer(desc, viaDetail string, isCredit bool) string {
	if !isCredit {
		return ""
	}
	up := strings.ToUpper(desc)
	if strings.Contains(up, "SALARY") {
		return "SALARY"
	}
	if strings.Contains(up, "CHEQUE DEP") {
		return "CHEQUE DEP"
	}
	if viaDetail != "" && strings.HasPrefix(strings.ToUpper(viaDetail), "AUTO") {
		return strings.TrimSpace(viaDetail)
	}
	return ""
}

func normalizeBBLDate(d string) string {
	parts := strings.Split(d, "/")
	if len(parts) != 3 {
		return d
	}
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	yy, _ := strconv.Atoi(parts[2])
	// BBL prints the 2-digit Christian year
	return formatDate(day, month, 2000+yy)
}
