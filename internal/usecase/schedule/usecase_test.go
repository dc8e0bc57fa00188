package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"coop-lending/internal/adapter/repository/gormrepo"
	"coop-lending/internal/domain/loan"
	domain "coop-lending/internal/domain/schedule"
	"coop-lending/internal/domain/shared"
	"coop-lending/internal/domain/uow"
	"coop-lending/internal/testutil/dbtest"
	"coop-lending/internal/testutil/uowmock"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newFlow(t *testing.T, batch int) (*Usecase, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	uc := NewUsecase(gormrepo.NewGormUoW(db), batch, zap.NewNop())
	uc.now = func() time.Time { return fixedNow }
	return uc, db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func disbursedLoan(t *testing.T, db *gorm.DB, amount string) *loan.Loan {
	t.Helper()
	m := dbtest.SeedMember(t, db, "S-"+amount)
	l := dbtest.SeedLoan(t, db, m.MemberID, amount, loan.StatusDisbursed)
	at := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(l).Update("disbursement_date", at).Error)
	return l
}

func TestGenerate_BuildsOnceAndSetsPayment(t *testing.T) {
	uc, db := newFlow(t, 0)
	ctx := context.Background()
	l := disbursedLoan(t, db, "100000")

	first, err := uc.Generate(ctx, l.LoanID)
	require.NoError(t, err)
	assert.True(t, first.Created)
	require.Len(t, first.Installments, 12)
	assert.Equal(t, "8884.88", first.MonthlyPayment.StringFixed(2))

	row := first.Installments[0]
	assert.Equal(t, 1, row.InstallmentNo)
	assert.True(t, row.DueDate.Equal(time.Date(2025, 2, 9, 8, 0, 0, 0, time.UTC)), row.DueDate.String())
	assert.Equal(t, "1000.00", row.InterestDue.StringFixed(2))
	assert.Equal(t, "7884.88", row.PrincipalDue.StringFixed(2))
	assert.True(t, first.Installments[11].BalanceAfter.IsZero())
	assert.True(t, first.Installments[1].DueDate.Equal(time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)))

	principal := decimal.Zero
	for _, r := range first.Installments {
		principal = principal.Add(r.PrincipalDue)
		assert.Equal(t, domain.StatusPending, r.Status)
	}
	assert.True(t, principal.Equal(dec("100000")), principal.String())

	second, err := uc.Generate(ctx, l.LoanID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	require.Len(t, second.Installments, 12)
	assert.Equal(t, first.Installments[5].ID, second.Installments[5].ID)

	var count int64
	require.NoError(t, db.Model(&domain.Installment{}).Where("loan_id = ?", l.ID).Count(&count).Error)
	assert.EqualValues(t, 12, count)

	stored, err := gormrepo.NewLoanRepository(db).GetByLoanID(ctx, l.LoanID)
	require.NoError(t, err)
	assert.Equal(t, "8884.88", stored.MonthlyPayment.StringFixed(2))
}

func TestGenerate_StartsFromApprovalWhenNotDisbursed(t *testing.T) {
	uc, db := newFlow(t, 0)
	m := dbtest.SeedMember(t, db, "S-APP")
	l := dbtest.SeedLoan(t, db, m.MemberID, "12000", loan.StatusApproved)
	require.NoError(t, db.Model(l).Update("approval_date", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)).Error)

	res, err := uc.Generate(context.Background(), l.LoanID)
	require.NoError(t, err)
	assert.True(t, res.Installments[0].DueDate.Equal(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)))
}

func TestGenerate_Rejections(t *testing.T) {
	uc, db := newFlow(t, 0)
	m := dbtest.SeedMember(t, db, "S-REJ")
	submitted := dbtest.SeedLoan(t, db, m.MemberID, "12000", loan.StatusSubmitted)

	_, err := uc.Generate(context.Background(), submitted.LoanID)
	require.ErrorIs(t, err, shared.ErrInvalid)

	_, err = uc.Generate(context.Background(), "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetAndSummary(t *testing.T) {
	uc, db := newFlow(t, 0)
	ctx := context.Background()
	l := disbursedLoan(t, db, "100000")

	empty, err := uc.Get(ctx, l.LoanID)
	require.NoError(t, err)
	assert.Empty(t, empty.Installments)

	_, err = uc.Generate(ctx, l.LoanID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Installment{}).
		Where("loan_id = ? AND installment_no = 1", l.ID).
		Updates(map[string]any{"status": domain.StatusPaid, "total_paid": "8884.88"}).Error)

	d, err := uc.Get(ctx, l.LoanID)
	require.NoError(t, err)
	assert.Equal(t, l.LoanID, d.Loan.LoanID)
	assert.Len(t, d.Installments, 12)

	s, err := uc.Summary(ctx, l.LoanID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.PaidCount)
	assert.Equal(t, 11, s.RemainingCount)
	require.NotNil(t, s.NextUnpaid)
	assert.Equal(t, 2, s.NextUnpaid.InstallmentNo)
	assert.True(t, s.TotalPrincipalDue.Equal(dec("100000")))
	assert.True(t, s.Outstanding.Equal(s.TotalDue.Sub(dec("8884.88"))))

	_, err = uc.Summary(ctx, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func seedInstallment(t *testing.T, db *gorm.DB, loanID uint64, no int, due time.Time, st domain.Status) uint64 {
	t.Helper()
	row := &domain.Installment{
		LoanID:        loanID,
		InstallmentNo: no,
		DueDate:       due,
		PrincipalDue:  dec("100"),
		InterestDue:   dec("1"),
		TotalDue:      dec("101"),
		BalanceAfter:  dec("0"),
		Status:        st,
	}
	require.NoError(t, db.Create(row).Error)
	return row.ID
}

func TestAdvance_MovesEachRowOnce(t *testing.T) {
	uc, db := newFlow(t, 2)
	l := disbursedLoan(t, db, "1000")
	day := 24 * time.Hour

	ids := map[string]uint64{
		"pending long late": seedInstallment(t, db, l.ID, 1, fixedNow.Add(-10*day), domain.StatusPending),
		"pending just late": seedInstallment(t, db, l.ID, 2, fixedNow.Add(-2*day), domain.StatusPending),
		"due just late":     seedInstallment(t, db, l.ID, 3, fixedNow.Add(-3*day), domain.StatusDue),
		"partial late":      seedInstallment(t, db, l.ID, 4, fixedNow.Add(-6*day), domain.StatusPartial),
		"paid":              seedInstallment(t, db, l.ID, 5, fixedNow.Add(-20*day), domain.StatusPaid),
		"future":            seedInstallment(t, db, l.ID, 6, fixedNow.Add(3*day), domain.StatusPending),
		"boundary":          seedInstallment(t, db, l.ID, 7, fixedNow.Add(-5*day), domain.StatusDue),
	}
	want := map[string]domain.Status{
		"pending long late": domain.StatusOverdue,
		"pending just late": domain.StatusDue,
		"due just late":     domain.StatusDue,
		"partial late":      domain.StatusOverdue,
		"paid":              domain.StatusPaid,
		"future":            domain.StatusPending,
		"boundary":          domain.StatusOverdue,
	}

	res, err := uc.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Scanned)
	assert.EqualValues(t, 3, res.ToOverdue)
	assert.EqualValues(t, 1, res.ToDue)
	assert.EqualValues(t, 4, res.Changed())
	assert.Equal(t, 3, res.Batches)

	for name, id := range ids {
		var row domain.Installment
		require.NoError(t, db.First(&row, id).Error)
		assert.Equal(t, want[name], row.Status, name)
	}

	again, err := uc.Advance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again.Changed())
}

func TestAdvance_StopsOnTxError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(&uowmock.UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error { return boom },
	}, 10, zap.NewNop())

	_, err := uc.Advance(context.Background())
	require.ErrorIs(t, err, boom)
}
