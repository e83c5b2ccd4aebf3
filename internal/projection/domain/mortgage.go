package domain

// MortgageTerms 房贷测算参数
type MortgageTerms struct {
	Price       float64     // 房产总价
	DownPayment float64     // 首付
	Years       int         // 贷款年限
	Rate        float64     // 年化利率（%）
	PaymentType PaymentType // 还款方式
}

// MortgageResult 房贷测算结果（完整精度）
type MortgageResult struct {
	LoanAmount     float64
	MonthlyPayment float64 // 等额本息为固定月供，等额本金为首期月供
	TotalPayment   float64
	TotalInterest  float64
	Schedule       []ScheduleEntry
}

// CalculateMortgage 计算房贷月供与完整还款计划
func CalculateMortgage(t MortgageTerms) (*MortgageResult, error) {
	loanAmount := t.Price - t.DownPayment
	monthlyRate := MonthlyRate(t.Rate)
	months := TermMonths(float64(t.Years))
	if months < 1 {
		return nil, ErrInvalidTerm
	}

	schedule := BuildSchedule(loanAmount, monthlyRate, months, t.PaymentType)
	totalPayment, _ := scheduleTotals(schedule)

	return &MortgageResult{
		LoanAmount:     loanAmount,
		MonthlyPayment: FirstPayment(loanAmount, monthlyRate, months, t.PaymentType),
		TotalPayment:   totalPayment,
		TotalInterest:  totalPayment - loanAmount,
		Schedule:       schedule,
	}, nil
}
