package parser

import (
	"testing"
)

func TestTTBParser_Parse(t *testing.T) {
	p := &TTBParser{}

	pages := pagesFromText(`ธนาคารทหารไทยธนชาต จำกัด (มหาชน)
138-7-06896-6
05:44
30 ก.ย. 68
รับเงินโอน
KTB
+25,000.00
100,421.94
03:20
25 ก.ย. 68
หักบัญชีชำระ สินเชื่อ
อ
อัตโนมัติ
-24,600.00
75,421.94`)

	txs := p.Parse(pages)
	if len(txs) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txs))
	}

	tx := txs[0]
	if tx.Date != "30/09/2025" {
		t.Errorf("txs[0].Date: got %q, want %q (BE 2568)", tx.Date, "30/09/2025")
	}
	if tx.Time != "05:44" {
		t.Errorf("txs[0].Time: got %q, want %q", tx.Time, "05:44")
	}
	if tx.Channel != "KTB" {
		t.Errorf("txs[0].Channel: got %q, want %q", tx.Channel, "KTB")
	}
	if tx.Description != "รับเงินโอน" {
		t.Errorf("txs[0].Description: got %q, want %q", tx.Description, "รับเงินโอน")
	}
	if tx.Amount != 25000.00 {
		t.Errorf("txs[0].Amount: got %f, want %f", tx.Amount, 25000.00)
	}
	if !tx.IsCredit {
		t.Error("txs[0] should be a credit (+ sign)")
	}
	if tx.Payer != "KTB" {
		t.Errorf("txs[0].Payer: got %q, want %q", tx.Payer, "KTB")
	}

	// The "อัตโนมัติ" fragment is part of the wrapped description, not a
	// channel, because it is not a short uppercase token.
	tx = txs[1]
	if tx.IsCredit {
		t.Error("txs[1] should be a debit (- sign)")
	}
	if tx.Amount != 24600.00 {
		t.Errorf("txs[1].Amount: got %f, want %f", tx.Amount, 24600.00)
	}
	if tx.Description != "หักบัญชีชำระ สินเชื่อ อ อัตโนมัติ" {
		t.Errorf("txs[1].Description: got %q", tx.Description)
	}
	if tx.Channel != "" {
		t.Errorf("txs[1].Channel: got %q, want empty", tx.Channel)
	}
	if tx.Payer != "" {
		t.Errorf("txs[1].Payer: got %q, want empty (debits carry no payer)", tx.Payer)
	}
}

func TestTTBParser_IncompleteBlockSkipped(t *testing.T) {
	p := &TTBParser{}

	// Time line with a date but no amount anywhere: nothing to emit
	pages := pagesFromText(`05:44
30 ก.ย. 68
รับเงินโอน`)

	if txs := p.Parse(pages); len(txs) != 0 {
		t.Fatalf("transactions: got %d, want 0", len(txs))
	}
}

func TestTTBParser_VowelInitialMonth(t *testing.T) {
	p := &TTBParser{}

	// เม.ย. starts with a Thai vowel, not a consonant; the date pattern
	// must still accept it or April rows vanish from the statement.
	pages := pagesFromText(`09:12
25 เม.ย. 68
รับเงินโอน
SCB
+41,250.00
141,250.00`)

	txs := p.Parse(pages)
	if len(txs) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(txs))
	}
	if txs[0].Date != "25/04/2025" {
		t.Errorf("Date: got %q, want %q", txs[0].Date, "25/04/2025")
	}
	if !txs[0].IsCredit || txs[0].Amount != 41250.00 {
		t.Errorf("amount/direction: got %f credit=%t", txs[0].Amount, txs[0].IsCredit)
	}
}

func TestNormalizeTTBDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"30 ก.ย. 68", "30/09/2025"},
		{"1 เม.ย. 68", "01/04/2025"},
		{"24 ต.ค. 68", "24/10/2025"},
	}
	for _, tt := range tests {
		if got := normalizeTTBDate(tt.in); got != tt.want {
			t.Errorf("normalizeTTBDate(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
