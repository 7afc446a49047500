// Package masking replaces personally identifiable data in transactions
// with stable tokens before anything leaves the process, keeping the
// token-to-original mapping local for authorized reversal.
package masking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/siamcredit/statement-analyzer/internal/models"
)

type rule struct {
	prefix   string
	patterns []*regexp.Regexp
}

// Rule order matters: the 13-digit national ID must be tokenized before the
// looser account and phone shapes get a chance to chew on its digits.
var rules = []rule{
	{prefix: "THAIID", patterns: []*regexp.Regexp{
		regexp.MustCompile(`\b\d{13}\b`),
	}},
	{prefix: "ACCOUNT", patterns: []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3,4}-\d+-\d{5,7}-?\d?\b`),
	}},
	{prefix: "NAME", patterns: []*regexp.Regexp{
		regexp.MustCompile(`นางสาว\s+[ก-๙]+\s+[ก-๙]+`),
		regexp.MustCompile(`นาง\s+[ก-๙]+\s+[ก-๙]+`),
		regexp.MustCompile(`นาย\s+[ก-๙]+\s+[ก-๙]+`),
	}},
	{prefix: "PHONE", patterns: []*regexp.Regexp{
		regexp.MustCompile(`\b0\d{2}-\d{3}-\d{4}\b`),
		regexp.MustCompile(`\b0\d{9}\b`),
	}},
	{prefix: "EMAIL", patterns: []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	}},
}

// Masker tokenizes sensitive strings. One Masker covers one statement so
// the same original always maps to the same token within a document.
type Masker struct {
	tokens map[string]string // token -> original
	seen   map[string]string // original -> token
	counts map[string]int
}

func New() *Masker {
	return &Masker{
		tokens: make(map[string]string),
		seen:   make(map[string]string),
		counts: make(map[string]int),
	}
}

// MaskTransactions masks descriptions and payer names in place on a copy
// and returns it together with the token-to-original mapping.
func (m *Masker) MaskTransactions(txs []models.Transaction) ([]models.Transaction, map[string]string) {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	for i := range out {
		out[i].Description = m.MaskText(out[i].Description)
		if out[i].Payer != "" {
			out[i].Payer = m.MaskText(out[i].Payer)
		}
	}
	return out, m.Mapping()
}

// MaskText replaces every sensitive match in the text with its token.
func (m *Masker) MaskText(text string) string {
	masked := text
	for _, r := range rules {
		for _, pat := range r.patterns {
			for _, original := range pat.FindAllString(masked, -1) {
				masked = strings.ReplaceAll(masked, original, m.tokenFor(r.prefix, original))
			}
		}
	}
	return masked
}

// Mapping returns a copy of the token-to-original table.
func (m *Masker) Mapping() map[string]string {
	out := make(map[string]string, len(m.tokens))
	for k, v := range m.tokens {
		out[k] = v
	}
	return out
}

func (m *Masker) tokenFor(prefix, original string) string {
	if token, ok := m.seen[original]; ok {
		return token
	}
	m.counts[prefix]++
	token := fmt.Sprintf("%s_%03d", prefix, m.counts[prefix])
	m.tokens[token] = original
	m.seen[original] = token
	return token
}
