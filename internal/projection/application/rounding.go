package application

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/finsimulator/internal/projection/domain"
)

const moneyPlaces = 2

// round2 金额四舍五入到分（远离零），只在响应边界调用
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(moneyPlaces).InexactFloat64()
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}

// roundPath 路径数据量大（最多 10000 x 601），使用浮点舍入
func roundPath(path []float64) []float64 {
	out := make([]float64, len(path))
	for i, v := range path {
		out[i] = math.Round(v*100) / 100
	}
	return out
}

func toPaymentItems(schedule []domain.ScheduleEntry) []PaymentItem {
	items := make([]PaymentItem, len(schedule))
	for i, e := range schedule {
		items[i] = PaymentItem{
			Month:     e.Month,
			Payment:   round2(e.Payment),
			Principal: round2(e.Principal),
			Interest:  round2(e.Interest),
			Balance:   round2(e.Balance),
		}
	}
	return items
}

func toCreditPaymentItems(schedule []domain.ScheduleEntry) []CreditPaymentItem {
	base := toPaymentItems(schedule)
	items := make([]CreditPaymentItem, len(schedule))
	for i, e := range schedule {
		items[i] = CreditPaymentItem{PaymentItem: base[i], Fees: round2(e.Fees)}
	}
	return items
}

func toMortgageResponse(r *domain.MortgageResult) *MortgageResponse {
	return &MortgageResponse{
		LoanAmount:      round2(r.LoanAmount),
		MonthlyPayment:  round2(r.MonthlyPayment),
		TotalPayment:    round2(r.TotalPayment),
		TotalInterest:   round2(r.TotalInterest),
		PaymentSchedule: toPaymentItems(r.Schedule),
	}
}

func toCreditResponse(r *domain.CreditResult, paymentDay int) *CreditResponse {
	return &CreditResponse{
		MonthlyPayment:   round2(r.MonthlyPayment),
		TotalPayment:     round2(r.TotalPayment),
		TotalInterest:    round2(r.TotalInterest),
		EffectiveRate:    round2(r.EffectiveRate),
		CommissionAmount: round2(r.CommissionAmount),
		MonthlyInsurance: round2(r.MonthlyInsurance),
		TotalInsurance:   round2(r.TotalInsurance),
		PaymentDay:       paymentDay,
		PaymentSchedule:  toCreditPaymentItems(r.Schedule),
	}
}

func toSavingsResponse(r *domain.SavingsResult) *SavingsResponse {
	years := make([]SavingsYear, len(r.YearlyBreakdown))
	for i, y := range r.YearlyBreakdown {
		years[i] = SavingsYear{
			Year:          y.Year,
			Amount:        round2(y.Amount),
			Contributions: round2(y.Contributions),
			Interest:      round2(y.Interest),
		}
	}
	return &SavingsResponse{
		FinalAmountNominal: round2(r.FinalAmountNominal),
		FinalAmountReal:    round2(r.FinalAmountReal),
		TotalContributions: round2(r.TotalContributions),
		TotalInterest:      round2(r.TotalInterest),
		TotalTax:           round2(r.TotalTax),
		YearlyBreakdown:    years,
	}
}

func toGoalResponse(r *domain.GoalResult) *GoalResponse {
	months := make([]GoalMonth, len(r.MonthlyBreakdown))
	for i, m := range r.MonthlyBreakdown {
		months[i] = GoalMonth{
			Month:         m.Month,
			Amount:        round2(m.Amount),
			Contributions: round2(m.Contributions),
			Interest:      round2(m.Interest),
		}
	}
	return &GoalResponse{
		RequiredMonthly:     round2Ptr(r.RequiredMonthly),
		ExpectedFinalAmount: round2Ptr(r.ExpectedFinalAmount),
		MonthlyBreakdown:    months,
	}
}

func toMonteCarloResponse(o *domain.SimulationOutcome, includePaths bool) *MonteCarloResponse {
	s := o.Summary

	percentiles := make(map[string]float64, len(s.Percentiles))
	for _, p := range s.Percentiles {
		percentiles[strconv.Itoa(p.Level)] = round2(p.Value)
	}

	distribution := make([]DistributionBucket, len(s.Distribution))
	for i, b := range s.Distribution {
		distribution[i] = DistributionBucket{
			Range:   b.Label(),
			Count:   b.Count,
			Percent: round2(b.Percent),
		}
	}

	resp := &MonteCarloResponse{
		Statistics: SimulationStatistics{
			Median: round2(s.Statistics.Median),
			Mean:   round2(s.Statistics.Mean),
			Std:    round2(s.Statistics.StdDev),
			Min:    round2(s.Statistics.Min),
			Max:    round2(s.Statistics.Max),
		},
		Percentiles: percentiles,
		Probabilities: SimulationProbabilities{
			Loss:           round2(s.Probabilities.Loss),
			NegativeReturn: round2(s.Probabilities.NegativeReturn),
			ReachGoal:      round2Ptr(s.Probabilities.ReachGoal),
		},
		Distribution: distribution,
	}

	if includePaths {
		resp.SimulationsData = make([][]float64, len(o.Paths))
		for i, path := range o.Paths {
			resp.SimulationsData[i] = roundPath(path)
		}
	}
	return resp
}
