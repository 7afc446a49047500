package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/models"
)

// SCBParser handles Siam Commercial Bank statements. Each transaction is a
// strict six-line block:
//
//	DD/MM/YY
//	HH:MM
//	code ("X1", "X2")
//	channel ("ENET", "SIPI")
//	amount
//	"<balance after> <description>"
//
// The statement carries no per-row direction marker, so credit versus debit
// comes from comparing consecutive running balances.
type SCBParser struct{}

var (
	scbDatePattern        = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{2})$`)
	scbCodePattern        = regexp.MustCompile(`^[A-Z]\d$`)
	scbChannelPattern     = regexp.MustCompile(`^[A-Z]+$`)
	scbBalanceDescPattern = regexp.MustCompile(`^(\d{1,3}(?:,\d{3})*\.\d{2})\s+(.+)$`)
)

func (p *SCBParser) BankName() string { return string(models.BankSCB) }

func (p *SCBParser) Parse(pages []extractor.Page) []models.Transaction {
	var txs []models.Transaction
	prevBalance := 0.0
	haveBalance := false

	for _, page := range pages {
		lines := page.Lines
		n := len(lines)
		i := 0

		for i < n {
			cur := strings.TrimSpace(lines[i])

			// A brought-forward banner re-seeds the running balance; every
			// page restates it.
			if strings.Contains(cur, "ยอดเงินคงเหลือยกมา") ||
				strings.Contains(strings.ToUpper(cur), "BALANCE BROUGHT FORWARD") {
				j := i + 1
				for j < n && strings.TrimSpace(lines[j]) == "" {
					j++
				}
				if j < n && isMoney(strings.TrimSpace(lines[j])) {
					prevBalance = parseMoney(strings.TrimSpace(lines[j]))
					haveBalance = true
					i = j + 1
					continue
				}
				i++
				continue
			}

			if !scbDatePattern.MatchString(cur) || i+5 >= n {
				i++
				continue
			}

			timeLine := strings.TrimSpace(lines[i+1])
			codeLine := strings.TrimSpace(lines[i+2])
			channelLine := strings.TrimSpace(lines[i+3])
			amountLine := strings.TrimSpace(lines[i+4])
			balDescLine := strings.TrimSpace(lines[i+5])

			if !isTime(timeLine) || !scbCodePattern.MatchString(codeLine) ||
				!scbChannelPattern.MatchString(channelLine) || !isMoney(amountLine) {
				i++
				continue
			}
			m := scbBalanceDescPattern.FindStringSubmatch(balDescLine)
			if m == nil {
				i++
				continue
			}

			amount := parseMoney(amountLine)
			balanceAfter := parseMoney(m[1])
			description := strings.TrimSpace(m[2])

			isCredit := true
			if haveBalance {
				isCredit = balanceAfter > prevBalance
			}

			payer := ""
			if isCredit {
				payer = scbCounterparty(description)
			}

			if amount != 0 {
				txs = append(txs, models.Transaction{
					Page:        page.Number,
					LineIndex:   i,
					Date:        normalizeSCBDate(cur),
					Time:        timeLine,
					Channel:     codeLine + " " + channelLine,
					Description: description,
					Amount:      amount,
					IsCredit:    isCredit,
					Payer:       payer,
				})
			}

			prevBalance = balanceAfter
			haveBalance = true
			i += 6
		}
	}
	return txs
}

// scbCounterparty takes the sender from descriptions like
// "กสิกรไทย (KBANK) /X685027".
func scbCounterparty(description string) string {
	if description == "" {
		return ""
	}
	if idx := strings.Index(description, "/"); idx >= 0 {
		return strings.TrimSpace(description[:idx])
	}
	return ""
}

func normalizeSCBDate(d string) string {
	m := scbDatePattern.FindStringSubmatch(d)
	if m == nil {
		return d
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	yy, _ := strconv.Atoi(m[3])
	return formatDate(day, month, gregorianYear(yy))
}
