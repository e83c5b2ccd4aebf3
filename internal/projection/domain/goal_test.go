package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGoal_RequiredMonthly(t *testing.T) {
	result, err := CalculateGoal(GoalPlan{
		GoalAmount:     1_000_000,
		CurrentSavings: 100_000,
		Years:          10,
		ExpectedRate:   6,
	})
	require.NoError(t, err)

	require.NotNil(t, result.RequiredMonthly)
	assert.Nil(t, result.ExpectedFinalAmount)
	assert.InDelta(t, 4_991.85, *result.RequiredMonthly, 0.005)
	require.Len(t, result.MonthlyBreakdown, 120)
	assert.InDelta(t, *result.RequiredMonthly*120, result.MonthlyBreakdown[119].Contributions, 1e-6)
}

func TestCalculateGoal_FixedContribution(t *testing.T) {
	contribution := 5_000.0
	result, err := CalculateGoal(GoalPlan{
		GoalAmount:          1_000_000,
		CurrentSavings:      100_000,
		Years:               10,
		ExpectedRate:        6,
		MonthlyContribution: &contribution,
	})
	require.NoError(t, err)

	assert.Nil(t, result.RequiredMonthly)
	require.NotNil(t, result.ExpectedFinalAmount)
	assert.InDelta(t, 1_001_336.41, *result.ExpectedFinalAmount, 0.005)

	for i, m := range result.MonthlyBreakdown {
		assert.Equal(t, i+1, m.Month)
		assert.InDelta(t, contribution*float64(i+1), m.Contributions, 1e-6)
		assert.Greater(t, m.Interest, 0.0)
	}
}

func TestCalculateGoal_ZeroRateIsLinear(t *testing.T) {
	result, err := CalculateGoal(GoalPlan{GoalAmount: 12_000, Years: 1})
	require.NoError(t, err)

	assert.InDelta(t, 1_000, *result.RequiredMonthly, 1e-9)
	last := result.MonthlyBreakdown[len(result.MonthlyBreakdown)-1]
	assert.InDelta(t, 12_000, last.Amount, 1e-9)
	assert.Zero(t, last.Interest)
}

func TestCalculateGoal_AlreadyReached(t *testing.T) {
	for _, rate := range []float64{0, 7} {
		result, err := CalculateGoal(GoalPlan{GoalAmount: 100_000, CurrentSavings: 1_000_000, Years: 5, ExpectedRate: rate})
		require.NoError(t, err)
		assert.Zero(t, *result.RequiredMonthly, "rate=%v", rate)
	}
}

func TestCalculateGoal_InvalidTerm(t *testing.T) {
	_, err := CalculateGoal(GoalPlan{GoalAmount: 1, Years: 0})
	assert.ErrorIs(t, err, ErrInvalidTerm)
}
