package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/finsimulator/internal/projection/domain"
)

func scenario(t *testing.T, name string, data any) ComparisonScenario {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return ComparisonScenario{Name: name, Data: raw}
}

func TestCompare_UnsupportedTypeFailsFast(t *testing.T) {
	svc, pub := newTestService(t)

	_, err := svc.Compare(context.Background(), &CompareRequest{
		Type:      "crypto",
		Scenarios: []ComparisonScenario{{Name: "a", Data: json.RawMessage(`{"bogus":true}`)}},
	})

	var unsupported *domain.UnsupportedComparisonTypeError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "crypto", unsupported.Type)
	assert.Equal(t, "failure", pub.last(t).Outcome)
}

func TestCompare_ScenarioCountBounds(t *testing.T) {
	svc, _ := newTestService(t)
	data := SavingsRequest{Initial: 1000, Years: 1, Rate: 5}

	for _, n := range []int{0, 1, 11} {
		req := &CompareRequest{Type: "savings"}
		for i := range n {
			req.Scenarios = append(req.Scenarios, scenario(t, fmt.Sprintf("s%d", i), data))
		}
		_, err := svc.Compare(context.Background(), req)
		assert.Equal(t, "scenarios", fieldOf(t, err), "n=%d", n)
	}

	req := &CompareRequest{Type: "savings"}
	for i := range 10 {
		req.Scenarios = append(req.Scenarios, scenario(t, fmt.Sprintf("s%d", i), data))
	}
	resp, err := svc.Compare(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Comparison, 10)
}

func TestCompare_MortgageRecommendsLowestTotal(t *testing.T) {
	svc, pub := newTestService(t)

	resp, err := svc.Compare(context.Background(), &CompareRequest{
		Type: "mortgage",
		Scenarios: []ComparisonScenario{
			scenario(t, "bank A", MortgageRequest{Price: 5_000_000, DownPayment: 1_000_000, Years: 20, Rate: 10}),
			scenario(t, "bank B", MortgageRequest{Price: 5_000_000, DownPayment: 1_000_000, Years: 20, Rate: 8.5}),
			scenario(t, "bank C", MortgageRequest{Price: 5_000_000, DownPayment: 1_000_000, Years: 20, Rate: 9}),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "mortgage", resp.Type)
	assert.Equal(t, "bank B", resp.Recommendation)
	require.Len(t, resp.Comparison, 3)
	assert.Equal(t, "bank A", resp.Comparison[0].Name)
	assert.IsType(t, &MortgageResponse{}, resp.Comparison[0].Data)

	event := pub.last(t)
	assert.Equal(t, "compare", event.Product)
	assert.Equal(t, 3, event.Scenarios)
}

func TestCompare_SavingsRecommendsHighestInterest(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Compare(context.Background(), &CompareRequest{
		Type: "savings",
		Scenarios: []ComparisonScenario{
			scenario(t, "yearly", SavingsRequest{Initial: 100_000, Years: 5, Rate: 8, Capitalization: "yearly"}),
			scenario(t, "daily", SavingsRequest{Initial: 100_000, Years: 5, Rate: 8, Capitalization: "daily"}),
			scenario(t, "none", SavingsRequest{Initial: 100_000, Years: 5, Rate: 8, Capitalization: "none"}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "daily", resp.Recommendation)
}

func TestCompare_TieKeepsFirstScenario(t *testing.T) {
	svc, _ := newTestService(t)
	data := CreditRequest{Amount: 100_000, Years: 1, Rate: 10}

	resp, err := svc.Compare(context.Background(), &CompareRequest{
		Type:      "credit",
		Scenarios: []ComparisonScenario{scenario(t, "first", data), scenario(t, "second", data)},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Recommendation)
}

func TestCompare_Goal(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Compare(context.Background(), &CompareRequest{
		Type: "goal",
		Scenarios: []ComparisonScenario{
			scenario(t, "cautious", GoalRequest{GoalAmount: 1_000_000, CurrentSavings: 100_000, Years: 10, ExpectedRate: 4}),
			scenario(t, "bold", GoalRequest{GoalAmount: 1_000_000, CurrentSavings: 100_000, Years: 10, ExpectedRate: 9}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "bold", resp.Recommendation)

	low, high := 3_000.0, 6_000.0
	resp, err = svc.Compare(context.Background(), &CompareRequest{
		Type: "goal",
		Scenarios: []ComparisonScenario{
			scenario(t, "low", GoalRequest{GoalAmount: 1_000_000, Years: 10, ExpectedRate: 6, MonthlyContribution: &low}),
			scenario(t, "high", GoalRequest{GoalAmount: 1_000_000, Years: 10, ExpectedRate: 6, MonthlyContribution: &high}),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "high", resp.Recommendation)
}

func TestCompare_GoalRejectsMixedModes(t *testing.T) {
	svc, _ := newTestService(t)
	contribution := 5_000.0

	_, err := svc.Compare(context.Background(), &CompareRequest{
		Type: "goal",
		Scenarios: []ComparisonScenario{
			scenario(t, "solve", GoalRequest{GoalAmount: 1_000_000, Years: 10, ExpectedRate: 6}),
			scenario(t, "fixed", GoalRequest{GoalAmount: 1_000_000, Years: 10, ExpectedRate: 6, MonthlyContribution: &contribution}),
		},
	})
	assert.Equal(t, "scenarios[1].data.monthly_contribution", fieldOf(t, err))
}

func TestCompare_StrictScenarioDecoding(t *testing.T) {
	svc, _ := newTestService(t)
	valid := scenario(t, "ok", MortgageRequest{Price: 100_000, Years: 10, Rate: 5})

	tests := []struct {
		name string
		data string
	}{
		{"unknown field", `{"price":100000,"years":10,"rate":5,"amount":1}`},
		{"null", `null`},
		{"empty", ``},
		{"array", `[1,2]`},
		{"trailing value", `{"price":100000,"years":10,"rate":5}{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Compare(context.Background(), &CompareRequest{
				Type:      "mortgage",
				Scenarios: []ComparisonScenario{valid, {Name: "bad", Data: json.RawMessage(tt.data)}},
			})
			assert.Equal(t, "scenarios[1].data", fieldOf(t, err))
		})
	}
}

func TestCompare_ScenarioValidationIsPrefixed(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Compare(context.Background(), &CompareRequest{
		Type: "mortgage",
		Scenarios: []ComparisonScenario{
			scenario(t, "ok", MortgageRequest{Price: 100_000, Years: 10, Rate: 5}),
			scenario(t, "bad", MortgageRequest{Price: 100_000, Years: 10, Rate: 0}),
		},
	})
	assert.Equal(t, "scenarios[1].data.rate", fieldOf(t, err))

	_, err = svc.Compare(context.Background(), &CompareRequest{
		Type: "mortgage",
		Scenarios: []ComparisonScenario{
			scenario(t, "ok", MortgageRequest{Price: 100_000, Years: 10, Rate: 5}),
			scenario(t, " ", MortgageRequest{Price: 100_000, Years: 10, Rate: 5}),
		},
	})
	assert.Equal(t, "scenarios[1].name", fieldOf(t, err))
}
