// Package extractor turns statement PDFs into ordered text lines per page.
// It has no knowledge of any specific bank layout.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Password-related errors are distinct so callers can tell the user to
// supply a password versus telling them the supplied one is wrong.
var (
	ErrEncryptedNoPassword = errors.New("pdf is password-protected, password required")
	ErrWrongPassword       = errors.New("wrong pdf password")
)

// Page holds the ordered text lines of a single PDF page.
type Page struct {
	Number int
	Lines  []string
}

// ExtractFile reads a PDF file and returns the ordered lines of each page.
func ExtractFile(path, password string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %q: %w", path, err)
	}
	return Extract(data, password)
}

// Extract parses PDF bytes and returns the ordered lines of each page.
// It tries multiple extraction methods because statement PDFs from
// different banks embed text differently.
func Extract(data []byte, password string) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	r, err := openReader(data, password)
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	// Method 1: row-based extraction (best ordering for tabular statements)
	pages = extractByRow(r, numPages)
	if isUsableText(pages) {
		return pages, nil
	}

	// Method 2: raw content with coordinate-based row reconstruction
	pages = extractByContent(r, numPages)
	if isUsableText(pages) {
		return pages, nil
	}

	// Method 3: plain text with font maps
	pages = extractByPlainText(r, numPages)
	if isUsableText(pages) {
		return pages, nil
	}

	return nil, fmt.Errorf("no readable text could be extracted; the pdf may be image-based or use undecodable font encodings")
}

func openReader(data []byte, password string) (*pdf.Reader, error) {
	asked := false
	pw := func() string {
		if asked {
			return "" // stop retrying, a wrong password loops forever otherwise
		}
		asked = true
		return password
	}

	r, err := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), pw)
	if err != nil {
		return nil, classifyOpenError(err, password)
	}
	return r, nil
}

// classifyOpenError distinguishes the two password failure modes a caller
// must tell apart: an encrypted document opened with no password at all
// versus one opened with the wrong password.
func classifyOpenError(err error, password string) error {
	if errors.Is(err, pdf.ErrInvalidPassword) {
		if password == "" {
			return ErrEncryptedNoPassword
		}
		return ErrWrongPassword
	}
	return fmt.Errorf("open pdf: %w", err)
}

func extractByRow(r *pdf.Reader, numPages int) []Page {
	var pages []Page
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, Page{Number: i, Lines: lines})
	}
	return pages
}

// extractByContent groups raw text fragments by Y coordinate to rebuild rows,
// then orders each row left to right.
func extractByContent(r *pdf.Reader, numPages int) []Page {
	var pages []Page
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y grows bottom-to-top, so rows sort descending
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, Page{Number: i, Lines: lines})
	}
	return pages
}

func extractByPlainText(r *pdf.Reader, numPages int) []Page {
	var pages []Page
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fontNames := page.Fonts()
		fonts := make(map[string]*pdf.Font)
		for _, name := range fontNames {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		var lines []string
		for _, ln := range strings.Split(text, "\n") {
			ln = strings.TrimSpace(ln)
			if ln != "" {
				lines = append(lines, ln)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, Page{Number: i, Lines: lines})
		}
	}
	return pages
}

// statementWords are strings that appear in essentially every supported
// statement. Extraction output containing none of them is treated as garbage
// from a broken font decode.
var statementWords = []string{
	"ธนาคาร", "บัญชี", "ยอด", "รายการ", "วันที่",
	"bank", "account", "balance", "statement", "date", "amount",
}

func containsStatementWords(pages []Page) bool {
	var b strings.Builder
	for _, p := range pages {
		for _, ln := range p.Lines {
			b.WriteString(ln)
			b.WriteByte(' ')
		}
	}
	combined := strings.ToLower(b.String())
	for _, w := range statementWords {
		if strings.Contains(combined, w) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of letter/digit/punctuation runes to total
// runes. Thai statements are mostly Thai script plus ASCII digits, so the
// check accepts any printable letter rather than ASCII only.
func textQuality(pages []Page) float64 {
	total := 0
	readable := 0
	for _, p := range pages {
		for _, ln := range p.Lines {
			for _, r := range ln {
				total++
				if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
					strings.ContainsRune(".,-/:()+*%", r) {
					readable++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func isUsableText(pages []Page) bool {
	n := 0
	for _, p := range pages {
		for _, ln := range p.Lines {
			n += len(ln)
		}
	}
	if n <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsStatementWords(pages)
}
