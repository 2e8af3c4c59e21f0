package bankledger

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// seedSnapshotStore populates a store with at least one record of every kind.
func seedSnapshotStore(t *testing.T) (*Ledger, *MemStore, string) {
	t.Helper()
	l, store := newTestLedger()
	ctx := context.Background()

	manager := seedManager(t, l)
	owner, accountID := seedCustomer(t, l, USD(5000))

	sp, err := l.AddSavingsProduct(ctx, manager, "High Yield", decimal.RequireFromString("4.25"), CompoundDaily, USD(100), 3)
	if err != nil {
		t.Fatalf("AddSavingsProduct() failed: %v", err)
	}
	sa, err := l.OpenSavingsAccount(ctx, owner, sp.ID, accountID, USD(1000))
	if err != nil {
		t.Fatalf("OpenSavingsAccount() failed: %v", err)
	}
	if _, err := l.ApplyInterest(ctx, sa.ID); err != nil {
		t.Fatalf("ApplyInterest() failed: %v", err)
	}

	ip, err := l.AddInvestmentProduct(ctx, manager, "ACME", "Acme Corp", "medium", USD(10), USD(10))
	if err != nil {
		t.Fatalf("AddInvestmentProduct() failed: %v", err)
	}
	portfolio, err := l.CreatePortfolio(ctx, owner, accountID, "Growth")
	if err != nil {
		t.Fatalf("CreatePortfolio() failed: %v", err)
	}
	if _, err := l.Buy(ctx, owner, portfolio.ID, ip.ID, Q(10)); err != nil {
		t.Fatalf("Buy() failed: %v", err)
	}

	lp, err := l.AddLoanProduct(ctx, manager, "Personal", "personal", USD(500), USD(50000), decimal.Zero, 6, 60)
	if err != nil {
		t.Fatalf("AddLoanProduct() failed: %v", err)
	}
	loan, err := l.ApplyForLoan(ctx, owner, lp.ID, accountID, USD(1200), 12)
	if err != nil {
		t.Fatalf("ApplyForLoan() failed: %v", err)
	}
	if err := l.ApproveLoan(ctx, manager, loan.ID); err != nil {
		t.Fatalf("ApproveLoan() failed: %v", err)
	}
	if _, err := l.DisburseLoan(ctx, manager, loan.ID); err != nil {
		t.Fatalf("DisburseLoan() failed: %v", err)
	}
	if _, err := l.MakeLoanPayment(ctx, owner, loan.ID, USD(100)); err != nil {
		t.Fatalf("MakeLoanPayment() failed: %v", err)
	}

	biller, err := l.AddBiller(ctx, owner, "City Power", "utilities", 15)
	if err != nil {
		t.Fatalf("AddBiller() failed: %v", err)
	}
	bill, err := l.AddBill(ctx, owner, biller.ID, USD(120), NewDate(2026, time.March, 15), "March electricity")
	if err != nil {
		t.Fatalf("AddBill() failed: %v", err)
	}
	if _, err := l.PayBill(ctx, owner, bill.ID, accountID); err != nil {
		t.Fatalf("PayBill() failed: %v", err)
	}

	if _, err := l.RaiseFraudFlag(ctx, accountID, "", RiskHigh, "velocity spike"); err != nil {
		t.Fatalf("RaiseFraudFlag() failed: %v", err)
	}
	return l, store, owner
}

func TestSnapshotRoundTrip(t *testing.T) {
	_, store, owner := seedSnapshotStore(t)

	var first bytes.Buffer
	if err := EncodeSnapshot(&first, store); err != nil {
		t.Fatalf("EncodeSnapshot() failed: %v", err)
	}
	decoded, err := DecodeSnapshot(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("DecodeSnapshot() failed: %v", err)
	}

	// Re-encoding the decoded store must reproduce the snapshot byte for
	// byte: record order and key order are both stable.
	var second bytes.Buffer
	if err := EncodeSnapshot(&second, decoded); err != nil {
		t.Fatalf("re-EncodeSnapshot() failed: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Errorf("snapshot is not byte-stable:\nfirst:\n%s\nsecond:\n%s", first.String(), second.String())
	}

	// The password hash survives even though User hides it from plain JSON.
	err = decoded.View(context.Background(), func(tx Tx) error {
		user, err := tx.User(owner)
		if err != nil {
			return err
		}
		if !user.CheckPassword("hunter22") {
			t.Error("decoded user rejects the original password")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reading decoded user failed: %v", err)
	}
}

func TestSaveAndLoadStore(t *testing.T) {
	_, store, _ := seedSnapshotStore(t)
	path := filepath.Join(t.TempDir(), "bank.jsonl")

	if err := SaveStore(path, store); err != nil {
		t.Fatalf("SaveStore() failed: %v", err)
	}
	loaded, err := LoadStore(path)
	if err != nil {
		t.Fatalf("LoadStore() failed: %v", err)
	}

	var want, got bytes.Buffer
	if err := EncodeSnapshot(&want, store); err != nil {
		t.Fatalf("EncodeSnapshot() failed: %v", err)
	}
	if err := EncodeSnapshot(&got, loaded); err != nil {
		t.Fatalf("EncodeSnapshot() failed: %v", err)
	}
	if !bytes.Equal(want.Bytes(), got.Bytes()) {
		t.Error("loaded store differs from the saved one")
	}
}

func TestLoadStoreMissingFile(t *testing.T) {
	store, err := LoadStore(filepath.Join(t.TempDir(), "does-not-exist.jsonl"))
	if err != nil {
		t.Fatalf("LoadStore() on a missing file failed: %v", err)
	}
	// A missing file is a fresh, empty store.
	l := NewLedger(store)
	if _, err := l.NewUser(context.Background(), "Alice", "alice@example.com", "pw", RoleCustomer); err != nil {
		t.Fatalf("NewUser() on fresh store failed: %v", err)
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	if _, err := DecodeSnapshot(bytes.NewReader([]byte("not json\n"))); err == nil {
		t.Error("DecodeSnapshot() accepted garbage input")
	}
}
