package domain

import (
	"fmt"
	"math"
)

// Capitalization 利息资本化频率
type Capitalization string

const (
	CapitalizationDaily     Capitalization = "daily"
	CapitalizationMonthly   Capitalization = "monthly"
	CapitalizationQuarterly Capitalization = "quarterly"
	CapitalizationYearly    Capitalization = "yearly"
	CapitalizationNone      Capitalization = "none" // 不复利，按单利近似
)

// ParseCapitalization 解析资本化频率，空字符串按月处理
func ParseCapitalization(s string) (Capitalization, error) {
	switch c := Capitalization(s); c {
	case "":
		return CapitalizationMonthly, nil
	case CapitalizationDaily, CapitalizationMonthly, CapitalizationQuarterly, CapitalizationYearly, CapitalizationNone:
		return c, nil
	default:
		return "", fmt.Errorf("unknown capitalization %q", s)
	}
}

// PeriodsPerYear 每年计息期数；不复利时返回 0
func (c Capitalization) PeriodsPerYear() int {
	switch c {
	case CapitalizationDaily:
		return 365
	case CapitalizationMonthly:
		return 12
	case CapitalizationQuarterly:
		return 4
	case CapitalizationYearly:
		return 1
	default:
		return 0
	}
}

// SavingsPlan 储蓄测算参数
type SavingsPlan struct {
	Initial        float64
	Monthly        float64
	Years          int
	Rate           float64 // 年化利率（%）
	Capitalization Capitalization
	TaxRate        float64 // 利息所得税率（%）
	Inflation      float64 // 年通胀率（%）
}

// YearlyBreakdown 年度明细，Amount 为税前名义余额
type YearlyBreakdown struct {
	Year          int
	Amount        float64
	Contributions float64
	Interest      float64
}

// SavingsResult 储蓄测算结果（完整精度）
type SavingsResult struct {
	FinalAmountNominal float64 // 税后名义金额
	FinalAmountReal    float64 // 通胀折算后再扣税
	TotalContributions float64
	TotalInterest      float64
	TotalTax           float64
	YearlyBreakdown    []YearlyBreakdown
}

// CalculateSavings 计算储蓄终值
//
// 顺序固定：先对税前名义金额做通胀折算，再从折算结果中扣除利息税。
func CalculateSavings(p SavingsPlan) (*SavingsResult, error) {
	months := TermMonths(float64(p.Years))
	if months < 1 {
		return nil, ErrInvalidTerm
	}

	final := p.balanceAfter(p.Years)
	contributions := p.Initial + p.Monthly*float64(months)
	interest := final - contributions
	tax := interest * p.TaxRate / percent

	realAmount := final
	if p.Inflation > 0 {
		realAmount = final * math.Pow(1-p.Inflation/percent, float64(p.Years))
	}

	breakdown := make([]YearlyBreakdown, 0, p.Years)
	prev := p.Initial
	yearlyContributions := p.Monthly * monthsPerYear
	for year := 1; year <= p.Years; year++ {
		amount := p.balanceAfter(year)
		breakdown = append(breakdown, YearlyBreakdown{
			Year:          year,
			Amount:        amount,
			Contributions: yearlyContributions,
			Interest:      amount - prev - yearlyContributions,
		})
		prev = amount
	}

	return &SavingsResult{
		FinalAmountNominal: final - tax,
		FinalAmountReal:    realAmount - tax,
		TotalContributions: contributions,
		TotalInterest:      interest,
		TotalTax:           tax,
		YearlyBreakdown:    breakdown,
	}, nil
}

// balanceAfter 指定年数后的税前名义余额
func (p SavingsPlan) balanceAfter(years int) float64 {
	annual := AnnualRate(p.Rate)
	k := p.Capitalization.PeriodsPerYear()
	if k == 0 {
		y := float64(years)
		return p.Initial +
			p.Monthly*float64(years*monthsPerYear) +
			p.Initial*annual*y +
			p.Monthly*annual*y/2
	}

	ratePerPeriod := annual / float64(k)
	periods := float64(years * k)

	payment := p.Monthly
	if k != monthsPerYear {
		payment = p.Monthly * monthsPerYear / float64(k)
	}

	if ratePerPeriod == 0 {
		return p.Initial + payment*periods
	}

	growth := math.Pow(1+ratePerPeriod, periods)
	fv := p.Initial * growth
	if payment > 0 {
		fv += payment * (growth - 1) / ratePerPeriod
	}
	return fv
}
