package domain

import "math"

// GoalPlan 目标规划参数
type GoalPlan struct {
	GoalAmount          float64
	CurrentSavings      float64
	Years               int
	ExpectedRate        float64  // 预期年化收益率（%）
	MonthlyContribution *float64 // 为空时反推所需月投入
}

// MonthlyBreakdown 月度明细
// Contributions 为截至当月的累计投入（不含期初存量），Interest 为当月收益
type MonthlyBreakdown struct {
	Month         int
	Amount        float64
	Contributions float64
	Interest      float64
}

// GoalResult 目标规划结果
// RequiredMonthly 与 ExpectedFinalAmount 恰有一个非空
type GoalResult struct {
	RequiredMonthly     *float64
	ExpectedFinalAmount *float64
	MonthlyBreakdown    []MonthlyBreakdown
}

// CalculateGoal 计算目标规划
//
// 给定固定月投入时按年金终值正推期末金额；否则反解达成目标所需的月投入，结果不小于 0。
func CalculateGoal(p GoalPlan) (*GoalResult, error) {
	months := TermMonths(float64(p.Years))
	if months < 1 {
		return nil, ErrInvalidTerm
	}
	monthlyRate := MonthlyRate(p.ExpectedRate)

	if p.MonthlyContribution == nil {
		required := requiredMonthly(p.GoalAmount, p.CurrentSavings, monthlyRate, months)
		return &GoalResult{
			RequiredMonthly:  &required,
			MonthlyBreakdown: goalBreakdown(p.CurrentSavings, required, monthlyRate, months),
		}, nil
	}

	contribution := *p.MonthlyContribution
	final := futureValue(p.CurrentSavings, contribution, monthlyRate, months)
	return &GoalResult{
		ExpectedFinalAmount: &final,
		MonthlyBreakdown:    goalBreakdown(p.CurrentSavings, contribution, monthlyRate, months),
	}, nil
}

func requiredMonthly(goal, current, monthlyRate float64, months int) float64 {
	n := float64(months)
	if monthlyRate == 0 {
		return math.Max((goal-current)/n, 0)
	}
	growth := math.Pow(1+monthlyRate, n)
	annuityFactor := (growth - 1) / monthlyRate
	return math.Max((goal-current*growth)/annuityFactor, 0)
}

func futureValue(current, contribution, monthlyRate float64, months int) float64 {
	n := float64(months)
	if monthlyRate == 0 {
		return current + contribution*n
	}
	growth := math.Pow(1+monthlyRate, n)
	return current*growth + contribution*(growth-1)/monthlyRate
}

// goalBreakdown 逐月回放：先入金，再按月利率计息
func goalBreakdown(current, contribution, monthlyRate float64, months int) []MonthlyBreakdown {
	breakdown := make([]MonthlyBreakdown, 0, months)
	balance := current
	var contributed float64

	for month := 1; month <= months; month++ {
		balance += contribution
		contributed += contribution

		interest := balance * monthlyRate
		balance += interest

		breakdown = append(breakdown, MonthlyBreakdown{
			Month:         month,
			Amount:        balance,
			Contributions: contributed,
			Interest:      interest,
		})
	}
	return breakdown
}
