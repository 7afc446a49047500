package parser

import (
	"testing"
)

func TestKBankParser_Parse(t *testing.T) {
	p := &KBankParser{}

	pages := pagesFromText(`ธนาคารกสิกรไทย จำกัด (มหาชน)
รายการเดินบัญชี
01-04-25
05:27
K PLUS
12,278.00
จาก SCB X5247 นาย กฤษฎา รักเพื่++
รับโอนเงิน
875.50
02-04-25
10:15
K PLUS
10,278.00
ไปยัง X1234 ร้านกาแฟ
ชำระเงิน
2,000.00`)

	txs := p.Parse(pages)
	if len(txs) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txs))
	}

	tx := txs[0]
	if tx.Date != "01/04/2025" {
		t.Errorf("txs[0].Date: got %q, want %q", tx.Date, "01/04/2025")
	}
	if tx.Time != "05:27" {
		t.Errorf("txs[0].Time: got %q, want %q", tx.Time, "05:27")
	}
	if tx.Channel != "K PLUS" {
		t.Errorf("txs[0].Channel: got %q, want %q", tx.Channel, "K PLUS")
	}
	if tx.Amount != 875.50 {
		t.Errorf("txs[0].Amount: got %f, want %f", tx.Amount, 875.50)
	}
	if !tx.IsCredit {
		t.Error("txs[0] should be a credit (รับโอนเงิน)")
	}
	if tx.Payer != "นาย กฤษฎา รักเพื่" {
		t.Errorf("txs[0].Payer: got %q, want %q", tx.Payer, "นาย กฤษฎา รักเพื่")
	}

	tx = txs[1]
	if tx.IsCredit {
		t.Error("txs[1] should be a debit (ชำระเงิน)")
	}
	if tx.Amount != 2000.00 {
		t.Errorf("txs[1].Amount: got %f, want %f", tx.Amount, 2000.00)
	}
	if tx.Payer != "" {
		t.Errorf("txs[1].Payer: got %q, want empty (debits have no payer)", tx.Payer)
	}
}

func TestKBankParser_SkipsCarryForward(t *testing.T) {
	p := &KBankParser{}

	// ยอดยกมา blocks look like transactions but carry no amount
	pages := pagesFromText(`05-04-25
5,575.20
ยอดยกมา
06-04-25
08:00
K PLUS
6,575.20
จาก KTB X4993 NUT SUBWIR++
รับโอนเงิน
1,000.00`)

	txs := p.Parse(pages)
	if len(txs) != 1 {
		t.Fatalf("transactions: got %d, want 1 (carry forward must be skipped)", len(txs))
	}
	if txs[0].Amount != 1000.00 {
		t.Errorf("Amount: got %f, want %f", txs[0].Amount, 1000.00)
	}
	if txs[0].Payer != "NUT SUBWIR" {
		t.Errorf("Payer: got %q, want %q", txs[0].Payer, "NUT SUBWIR")
	}
}

func TestKBankParser_AbandonsBlockOnNewDate(t *testing.T) {
	p := &KBankParser{}

	// First block is truncated: a new date appears before the balance line.
	// The parser must resume from the second date, not emit a broken record.
	pages := pagesFromText(`01-04-25
05:27
K PLUS
02-04-25
09:00
K PLUS
8,000.00
จาก SCB X1111 ACME CO++
รับโอนเงิน
30,000.00`)

	txs := p.Parse(pages)
	if len(txs) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(txs))
	}
	if txs[0].Date != "02/04/2025" {
		t.Errorf("Date: got %q, want %q", txs[0].Date, "02/04/2025")
	}
	if txs[0].Amount != 30000.00 {
		t.Errorf("Amount: got %f, want %f", txs[0].Amount, 30000.00)
	}
}

func TestKBankPayerFromDescription(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"จาก SCB X5247 นาย กฤษฎา รักเพื่++", "นาย กฤษฎา รักเพื่"},
		{"จาก KTB X4993 NUT SUBWIR++", "NUT SUBWIR"},
		{"จาก X5027 MR. JAYARAJ NIRMA++", "MR. JAYARAJ NIRMA"},
		{"ไม่มีคำสำคัญ", ""},
	}
	for _, tt := range tests {
		if got := kbankPayerFromDescription(tt.desc); got != tt.want {
			t.Errorf("payer from %q: got %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestKBankParser_TableLayout(t *testing.T) {
	p := &KBankParser{}

	// Column-header layout: same vertical blocks, one channel line per row.
	pages := pagesFromText(`วันที่
เวลา
ช่องทาง
รายการ
ยอดคงเหลือ
01-04-25
09:15
K PLUS
35,500.75
รับโอนเงินจาก SCB X5247 นาย สมชาย ใจดี++
รับโอนเงิน
25,000.00
02-04-25
18:40
EDC/K SHOP
33,200.75
ร้านกาแฟ
ชำระเงิน
2,300.00`)

	txs := p.Parse(pages)
	if len(txs) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(txs))
	}

	tx := txs[0]
	if tx.Date != "01/04/2025" {
		t.Errorf("txs[0].Date: got %q, want %q", tx.Date, "01/04/2025")
	}
	if tx.Channel != "K PLUS" {
		t.Errorf("txs[0].Channel: got %q, want %q", tx.Channel, "K PLUS")
	}
	if !tx.IsCredit || tx.Amount != 25000.00 {
		t.Errorf("txs[0] amount/direction: got %f credit=%t", tx.Amount, tx.IsCredit)
	}
	if tx.Payer != "นาย สมชาย ใจดี" {
		t.Errorf("txs[0].Payer: got %q, want %q", tx.Payer, "นาย สมชาย ใจดี")
	}

	tx = txs[1]
	if tx.Channel != "EDC/K SHOP" {
		t.Errorf("txs[1].Channel: got %q, want %q", tx.Channel, "EDC/K SHOP")
	}
	if tx.IsCredit || tx.Amount != 2300.00 {
		t.Errorf("txs[1] amount/direction: got %f credit=%t", tx.Amount, tx.IsCredit)
	}
}
