package parser

import (
	"testing"
)

func TestSCBParser_Parse(t *testing.T) {
	p := &SCBParser{}

	pages := pagesFromText(`ธนาคารไทยพาณิชย์ จำกัด (มหาชน)
เลขที่บัญชี 111-476524-7
01/02/2025 - 28/02/2025
ยอดเงินคงเหลือยกมา (BALANCE BROUGHT FORWARD)
38.89
01/02/25
15:31
X1
ENET
35,000.00
35,038.89 กสิกรไทย (KBANK) /X685027
02/02/25
16:35
X2
SIPI
4,000.00
31,038.89 SIPS TRUE MONEY CO.,LTD.`)

	txs := p.Parse(pages)
	if len(txs) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txs))
	}

	// First movement raises the balance: credit
	tx := txs[0]
	if tx.Date != "01/02/2025" {
		t.Errorf("txs[0].Date: got %q, want %q", tx.Date, "01/02/2025")
	}
	if tx.Time != "15:31" {
		t.Errorf("txs[0].Time: got %q, want %q", tx.Time, "15:31")
	}
	if tx.Channel != "X1 ENET" {
		t.Errorf("txs[0].Channel: got %q, want %q", tx.Channel, "X1 ENET")
	}
	if tx.Amount != 35000.00 {
		t.Errorf("txs[0].Amount: got %f, want %f", tx.Amount, 35000.00)
	}
	if !tx.IsCredit {
		t.Error("txs[0] should be a credit (balance rose from 38.89 to 35,038.89)")
	}
	if tx.Payer != "กสิกรไทย (KBANK)" {
		t.Errorf("txs[0].Payer: got %q, want %q", tx.Payer, "กสิกรไทย (KBANK)")
	}

	// Second movement lowers the balance: debit
	tx = txs[1]
	if tx.IsCredit {
		t.Error("txs[1] should be a debit (balance fell)")
	}
	if tx.Amount != 4000.00 {
		t.Errorf("txs[1].Amount: got %f, want %f", tx.Amount, 4000.00)
	}
	if tx.Payer != "" {
		t.Errorf("txs[1].Payer: got %q, want empty", tx.Payer)
	}
}

func TestSCBParser_BalanceCarriesAcrossPages(t *testing.T) {
	p := &SCBParser{}

	// Page 2 restates the brought-forward banner; the running balance must
	// reset to the restated value, not compare against page 1's tail.
	pages := pagesFromText(`ยอดเงินคงเหลือยกมา (BALANCE BROUGHT FORWARD)
1,000.00
01/02/25
09:00
X1
ENET
500.00
1,500.00 โอนเข้า /X123`,
		`ยอดเงินคงเหลือยกมา (BALANCE BROUGHT FORWARD)
1,500.00
15/02/25
10:00
X1
ENET
200.00
1,300.00 PromptPay`)

	txs := p.Parse(pages)
	if len(txs) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txs))
	}
	if !txs[0].IsCredit {
		t.Error("txs[0] should be a credit")
	}
	if txs[1].IsCredit {
		t.Error("txs[1] should be a debit")
	}
	if txs[1].Page != 2 {
		t.Errorf("txs[1].Page: got %d, want 2", txs[1].Page)
	}
}

func TestSCBParser_RejectsMalformedBlock(t *testing.T) {
	p := &SCBParser{}

	// Second line is not a time, so the date line does not start a block
	pages := pagesFromText(`01/02/25
not a time
X1
ENET
35,000.00
35,038.89 desc`)

	if txs := p.Parse(pages); len(txs) != 0 {
		t.Fatalf("transactions: got %d, want 0", len(txs))
	}
}

func TestNormalizeSCBDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01/02/25", "01/02/2025"}, // 2-digit Christian year
		{"01/02/68", "01/02/2025"}, // 2-digit Buddhist year, BE 2568
	}
	for _, tt := range tests {
		if got := normalizeSCBDate(tt.in); got != tt.want {
			t.Errorf("normalizeSCBDate(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
