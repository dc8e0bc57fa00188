package gormrepo

import (
	"context"
	"testing"

	"coop-lending/internal/domain/ledger"
	"coop-lending/pkg/id"
)

func TestLedger_CreateKeepsTypedMetadata(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	tx := &ledger.Transaction{
		TransactionID: id.NewID32(),
		MemberID:      "m1",
		Amount:        dec("48200"),
		Type:          ledger.TypeLoanDisbursement,
		Channel:       ledger.ChannelInternal,
		Status:        ledger.StatusCompleted,
		Narration:     "Loan disbursement for LN-20261017-00001",
		Reference:     "RC-20261017-00001",
		Metadata: ledger.DisbursementMetadata{
			LoanNumber:      "LN-20261017-00001",
			Principal:       dec("50000"),
			ProcessingFee:   dec("300"),
			InsuranceFee:    dec("500"),
			ArrearsDeducted: dec("1000"),
			TotalDeductions: dec("1800"),
			NetAmount:       dec("48200"),
		},
	}
	if err := repo.Create(ctx, tx); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.ListByReference(ctx, "RC-20261017-00001")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListByReference: %d, %v", len(got), err)
	}
	md := got[0].Metadata
	if !md.ArrearsDeducted.Equal(dec("1000")) || !md.NetAmount.Equal(dec("48200")) || md.LoanNumber != "LN-20261017-00001" {
		t.Fatalf("metadata not round-tripped: %+v", md)
	}
	if !got[0].Amount.Equal(dec("48200")) {
		t.Fatalf("amount = %s", got[0].Amount)
	}
}
