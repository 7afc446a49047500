package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/extractor"
	"github.com/siamcredit/statement-analyzer/internal/models"
)

// TTBParser handles TMBThanachart statements. The table columns extract as a
// vertical block per transaction:
//
//	HH:MM
//	DD <Thai month abbreviation> YY (Buddhist year)
//	description (may span lines)
//	channel, e.g. "KTB" (optional)
//	signed amount, "+25,000.00" or "-24,600.00"
//	balance after
//
// TTB is the only supported bank that signs amounts, so direction comes
// straight from the sign.
type TTBParser struct{}

var (
	// \p{Thai} rather than a consonant range: เม.ย. starts with the vowel เ.
	ttbThaiDatePattern = regexp.MustCompile(`^(\d{1,2})\s+(\p{Thai}\S+)\s+(\d{2})$`)
	ttbChannelPattern  = regexp.MustCompile(`^[A-Z]{2,6}$`)
)

func (p *TTBParser) BankName() string { return string(models.BankTTB) }

func (p *TTBParser) Parse(pages []extractor.Page) []models.Transaction {
	var txs []models.Transaction
	for _, page := range pages {
		lines := page.Lines
		n := len(lines)
		i := 0

		for i < n {
			timeLine := strings.TrimSpace(lines[i])
			if !isTime(timeLine) {
				i++
				continue
			}
			if i+1 >= n || !ttbThaiDatePattern.MatchString(strings.TrimSpace(lines[i+1])) {
				i++
				continue
			}
			dateLine := strings.TrimSpace(lines[i+1])

			// Description chunks run until the signed amount token.
			j := i + 2
			var descChunks []string
			amountIdx := -1
			for j < n {
				candidate := strings.TrimSpace(lines[j])
				if isSignedMoney(candidate) {
					amountIdx = j
					break
				}
				descChunks = append(descChunks, candidate)
				j++
			}
			if amountIdx < 0 {
				i++
				continue
			}

			// A short all-caps chunk right before the amount is the channel
			// (source bank abbreviation).
			channel := ""
			if len(descChunks) > 0 {
				last := descChunks[len(descChunks)-1]
				if ttbChannelPattern.MatchString(last) {
					channel = last
					descChunks = descChunks[:len(descChunks)-1]
				}
			}
			description := strings.Join(strings.Fields(strings.Join(descChunks, " ")), " ")

			signed := parseSignedMoney(strings.TrimSpace(lines[amountIdx]))
			if signed == 0 {
				i = amountIdx + 2
				continue
			}
			isCredit := signed > 0
			amount := signed
			if amount < 0 {
				amount = -amount
			}

			txs = append(txs, models.Transaction{
				Page:        page.Number,
				LineIndex:   i,
				Date:        normalizeTTBDate(dateLine),
				Time:        timeLine,
				Channel:     channel,
				Description: description,
				Amount:      amount,
				IsCredit:    isCredit,
				Payer:       ttbPayer(description, channel, isCredit),
			})

			// skip past the balance line
			i = amountIdx + 2
		}
	}
	return txs
}

func parseSignedMoney(s string) float64 {
	clean := strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}

// ttbPayer fills the payer for inbound transfers. The channel column holds
// the source bank abbreviation when the statement knows it.
func ttbPayer(description, channel string, isCredit bool) string {
	if !isCredit {
		return ""
	}
	if channel != "" {
		return channel
	}
	tokens := strings.Fields(description)
	if len(tokens) > 1 && strings.HasPrefix(tokens[0], "รับเงินโอน") {
		for _, tk := range tokens[1:] {
			if ttbChannelPattern.MatchString(tk) {
				return tk
			}
		}
	}
	return ""
}

func normalizeTTBDate(thaiDate string) string {
	m := ttbThaiDatePattern.FindStringSubmatch(thaiDate)
	if m == nil {
		return thaiDate
	}
	day, _ := strconv.Atoi(m[1])
	monthStr, ok := thaiMonths[m[2]]
	if !ok {
		monthStr = "01"
	}
	month, _ := strconv.Atoi(monthStr)
	yy, _ := strconv.Atoi(m[3])
	// 2-digit Buddhist year: "68" is BE 2568, Gregorian 2025
	return formatDate(day, month, 2500+yy-543)
}
