package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMortgage_Annuity(t *testing.T) {
	result, err := CalculateMortgage(MortgageTerms{
		Price:       5_000_000,
		DownPayment: 1_000_000,
		Years:       20,
		Rate:        10,
		PaymentType: PaymentTypeAnnuity,
	})
	require.NoError(t, err)

	assert.Equal(t, 4_000_000.0, result.LoanAmount)
	assert.InDelta(t, 38_600.87, result.MonthlyPayment, 0.005)
	require.Len(t, result.Schedule, 240)
	assert.InDelta(t, 0, result.Schedule[239].Balance, 1e-4)
	assert.InDelta(t, 9_264_207.79, result.TotalPayment, 0.01)
	assert.InDelta(t, result.TotalPayment-result.LoanAmount, result.TotalInterest, 1e-6)
}

func TestCalculateMortgage_DifferentiatedCostsLess(t *testing.T) {
	terms := MortgageTerms{Price: 3_000_000, DownPayment: 600_000, Years: 15, Rate: 7.5}

	terms.PaymentType = PaymentTypeAnnuity
	annuity, err := CalculateMortgage(terms)
	require.NoError(t, err)

	terms.PaymentType = PaymentTypeDifferentiated
	diff, err := CalculateMortgage(terms)
	require.NoError(t, err)

	assert.Less(t, diff.TotalInterest, annuity.TotalInterest)
	assert.Greater(t, diff.MonthlyPayment, annuity.MonthlyPayment)
	assert.InDelta(t, diff.Schedule[0].Payment, diff.MonthlyPayment, 1e-9)
}

func TestCalculateMortgage_InvalidTerm(t *testing.T) {
	_, err := CalculateMortgage(MortgageTerms{Price: 100, DownPayment: 0, Years: 0, Rate: 5})
	assert.ErrorIs(t, err, ErrInvalidTerm)
}
