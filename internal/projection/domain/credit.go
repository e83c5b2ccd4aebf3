package domain

// CreditTerms 消费贷测算参数
type CreditTerms struct {
	Amount      float64     // 合同金额
	Years       float64     // 贷款期限（年，可为小数）
	Rate        float64     // 年化利率（%）
	PaymentType PaymentType // 还款方式
	Commission  float64     // 一次性手续费（合同金额的 %）
	Insurance   float64     // 年化保险费率（合同金额的 %）
}

// CreditResult 消费贷测算结果（完整精度）
type CreditResult struct {
	MonthlyPayment   float64 // 首期月供（含保险，不含手续费）
	TotalPayment     float64
	TotalInterest    float64
	EffectiveRate    float64
	CommissionAmount float64
	MonthlyInsurance float64
	TotalInsurance   float64
	Schedule         []ScheduleEntry
}

// CalculateCredit 计算消费贷
//
// 手续费从放款金额中一次性扣除，并作为首期费用计入；保险按合同金额每月平摊。
// EffectiveRate 为名义利率、手续费率与保险费率的简单相加，属于披露口径的近似值，并非真实 IRR。
func CalculateCredit(t CreditTerms) (*CreditResult, error) {
	months := TermMonths(t.Years)
	if months < 1 {
		return nil, ErrInvalidTerm
	}
	monthlyRate := MonthlyRate(t.Rate)

	commission := t.Amount * t.Commission / percent
	disbursed := t.Amount - commission

	var monthlyInsurance float64
	if t.Insurance > 0 {
		monthlyInsurance = t.Amount * t.Insurance / percent / monthsPerYear
	}

	schedule := BuildSchedule(disbursed, monthlyRate, months, t.PaymentType)
	var basePayments float64
	for i := range schedule {
		basePayments += schedule[i].Payment

		fees := monthlyInsurance
		if schedule[i].Month == 1 && commission > 0 {
			fees += commission
		}
		schedule[i].Fees = fees
		schedule[i].Payment += fees
	}

	totalInsurance := monthlyInsurance * float64(months)
	totalPayment := basePayments + totalInsurance + commission

	return &CreditResult{
		MonthlyPayment:   FirstPayment(disbursed, monthlyRate, months, t.PaymentType) + monthlyInsurance,
		TotalPayment:     totalPayment,
		TotalInterest:    totalPayment - t.Amount,
		EffectiveRate:    t.Rate + t.Commission + t.Insurance,
		CommissionAmount: commission,
		MonthlyInsurance: monthlyInsurance,
		TotalInsurance:   totalInsurance,
		Schedule:         schedule,
	}, nil
}
