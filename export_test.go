package bankledger

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func exportStatement(t *testing.T) *Statement {
	t.Helper()
	l, _ := newTestLedger()
	owner, accountID, _ := setupStatement(t, l)
	st, err := l.Statement(context.Background(), owner, accountID, NewDate(2026, time.March, 1), NewDate(2026, time.March, 31))
	if err != nil {
		t.Fatalf("Statement() failed: %v", err)
	}
	return st
}

func TestWritePDF(t *testing.T) {
	st := exportStatement(t)
	var buf bytes.Buffer
	if err := st.WritePDF(&buf); err != nil {
		t.Fatalf("WritePDF() failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with the PDF magic, got %q", buf.Bytes()[:8])
	}
}

func TestWriteXLSX(t *testing.T) {
	st := exportStatement(t)
	var buf bytes.Buffer
	if err := st.WriteXLSX(&buf); err != nil {
		t.Fatalf("WriteXLSX() failed: %v", err)
	}
	// An xlsx file is a zip archive.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Errorf("output is not a zip archive, got %q", buf.Bytes()[:4])
	}
}
