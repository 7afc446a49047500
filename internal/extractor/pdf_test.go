package extractor

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestClassifyOpenError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		password string
		want     error
	}{
		{"encrypted, no password given", pdf.ErrInvalidPassword, "", ErrEncryptedNoPassword},
		{"encrypted, wrong password", pdf.ErrInvalidPassword, "1234", ErrWrongPassword},
		{"wrapped password error", fmt.Errorf("reader: %w", pdf.ErrInvalidPassword), "1234", ErrWrongPassword},
	}
	for _, tt := range tests {
		got := classifyOpenError(tt.err, tt.password)
		if !errors.Is(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassifyOpenErrorPassesThroughOtherErrors(t *testing.T) {
	cause := errors.New("xref table corrupt")
	got := classifyOpenError(cause, "1234")

	if !errors.Is(got, cause) {
		t.Errorf("expected the original error to stay in the chain, got %v", got)
	}
	if errors.Is(got, ErrEncryptedNoPassword) || errors.Is(got, ErrWrongPassword) {
		t.Errorf("non-password error misreported as a password failure: %v", got)
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	_, err := Extract([]byte("this is not a pdf"), "")
	if err == nil {
		t.Fatal("expected an error for non-PDF bytes")
	}
	if errors.Is(err, ErrEncryptedNoPassword) || errors.Is(err, ErrWrongPassword) {
		t.Errorf("garbage input misreported as a password failure: %v", err)
	}
}
