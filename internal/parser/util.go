package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/extractor"
)

// Shared token patterns. Each bank parser keeps its own date pattern because
// the epoch and separator conventions differ, but money and time tokens look
// the same everywhere.
var (
	moneyPattern       = regexp.MustCompile(`^\d{1,3}(?:,\d{3})*\.\d{2}$`)
	looseMoneyPattern  = regexp.MustCompile(`^[\d,]+\.\d{2}$`)
	signedMoneyPattern = regexp.MustCompile(`^[+-]?\d{1,3}(?:,\d{3})*\.\d{2}$`)
	timePattern        = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// thaiMonths maps the abbreviated Thai month names used on TTB statements.
var thaiMonths = map[string]string{
	"ม.ค.":  "01",
	"ก.พ.":  "02",
	"มี.ค.": "03",
	"เม.ย.": "04",
	"พ.ค.":  "05",
	"มิ.ย.": "06",
	"ก.ค.":  "07",
	"ส.ค.":  "08",
	"ก.ย.":  "09",
	"ต.ค.":  "10",
	"พ.ย.":  "11",
	"ธ.ค.":  "12",
}

func isMoney(s string) bool       { return moneyPattern.MatchString(s) }
func isLooseMoney(s string) bool  { return looseMoneyPattern.MatchString(s) }
func isSignedMoney(s string) bool { return signedMoneyPattern.MatchString(s) }
func isTime(s string) bool        { return timePattern.MatchString(s) }

// parseMoney converts "84,150.00" to 84150.00. Returns 0 for junk input;
// callers gate on the money patterns first.
func parseMoney(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// gregorianYear resolves a 2-digit statement year to a full Gregorian year.
// Thai statements mix epochs: SCB and BBL print the Christian year ("25" =
// 2025) while KTB and TTB print the Buddhist year ("68" = BE 2568 = 2025).
// Values of 60 and above cannot be near-future Christian years on a bank
// statement, so they are read as Buddhist.
func gregorianYear(yy int) int {
	if yy >= 60 {
		return 2500 + yy - 543
	}
	return 2000 + yy
}

// formatDate renders a normalized DD/MM/YYYY date string.
func formatDate(day, month, year int) string {
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}

// Account-number shapes seen across the supported banks.
// SCB prints 111-476524-7, BBL and TTB print 123-4-63258-4.
var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{3}-\d{6}-\d\b`),
	regexp.MustCompile(`\b\d{3}-\d-\d{5}-\d\b`),
	regexp.MustCompile(`\b\d{3}-\d-\d{5}-\d{1,2}\b`),
}

var periodPattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*-\s*(\d{2}/\d{2}/\d{4})`)

// FindAccountNumber scans the first pages for an account-number-shaped token.
// Returns "" when no supported shape appears, which is normal for KBank and
// KTB exports that mask the account.
func FindAccountNumber(pages []extractor.Page) string {
	for i, p := range pages {
		if i >= 2 {
			break
		}
		for _, ln := range p.Lines {
			for _, pat := range accountPatterns {
				if m := pat.FindString(ln); m != "" {
					return m
				}
			}
		}
	}
	return ""
}

// FindStatementPeriod returns the "DD/MM/YYYY - DD/MM/YYYY" banner from the
// statement header, or "" when absent.
func FindStatementPeriod(pages []extractor.Page) string {
	for i, p := range pages {
		if i >= 2 {
			break
		}
		for _, ln := range p.Lines {
			if m := periodPattern.FindStringSubmatch(ln); m != nil {
				return m[1] + " - " + m[2]
			}
		}
	}
	return ""
}
