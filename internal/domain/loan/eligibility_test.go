package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coop-lending/internal/domain/member"
)

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	sevenMonths := []member.SavingsAccount{{Balance: d("10000"), StartDate: now.AddDate(0, -7, 0)}}

	tests := []struct {
		name     string
		amount   string
		accounts []member.SavingsAccount
		prior    int64
		wantErr  string
	}{
		{"first loan at cap", "20000", sevenMonths, 0, ""},
		{"first loan over cap", "21000", sevenMonths, 0, "exceeds 2x total savings"},
		{"repeat borrower gets 3x", "30000", sevenMonths, 1, ""},
		{"repeat borrower over 3x", "30000.01", sevenMonths, 4, "exceeds 3x"},
		{"no savings", "100", nil, 0, "no savings account"},
		{"account opened today", "100", []member.SavingsAccount{{Balance: d("99999"), StartDate: now}}, 0, "at least 6 months"},
		{
			"oldest account decides tenure, all balances count",
			"25000",
			[]member.SavingsAccount{
				{Balance: d("2500"), StartDate: now.AddDate(0, -1, 0)},
				{Balance: d("10000"), StartDate: now.AddDate(-1, 0, 0)},
			},
			0, "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEligibility(d(tt.amount), tt.accounts, tt.prior, now)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInsuranceFee(t *testing.T) {
	assert.Equal(t, "500.00", InsuranceFee(d("50000")).StringFixed(2))
	assert.Equal(t, "123.46", InsuranceFee(d("12345.6")).StringFixed(2))
}
