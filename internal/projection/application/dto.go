package application

import "encoding/json"

// MortgageRequest 房贷测算请求
type MortgageRequest struct {
	Price       float64 `json:"price" validate:"finite,gt=0"`
	DownPayment float64 `json:"down_payment" validate:"finite,gte=0,ltfield=Price"`
	Years       int     `json:"years" validate:"min=1,max=50"`
	Rate        float64 `json:"rate" validate:"finite,gte=0.1,lte=99"`
	PaymentType string  `json:"payment_type,omitempty" validate:"omitempty,oneof=annuity differentiated"`
}

// PaymentItem 还款计划条目
type PaymentItem struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// MortgageResponse 房贷测算结果
type MortgageResponse struct {
	LoanAmount      float64       `json:"loan_amount"`
	MonthlyPayment  float64       `json:"monthly_payment"`
	TotalPayment    float64       `json:"total_payment"`
	TotalInterest   float64       `json:"total_interest"`
	PaymentSchedule []PaymentItem `json:"payment_schedule"`
}

// CreditRequest 消费贷测算请求
// PaymentDay 缺省为 15，显式传 0 视为非法
type CreditRequest struct {
	Amount      float64 `json:"amount" validate:"finite,gt=0"`
	Years       float64 `json:"years" validate:"finite,gte=0.25,lte=30"`
	Rate        float64 `json:"rate" validate:"finite,gte=0,lte=99"`
	PaymentType string  `json:"payment_type,omitempty" validate:"omitempty,oneof=annuity differentiated"`
	Commission  float64 `json:"commission" validate:"finite,gte=0,lte=99"`
	Insurance   float64 `json:"insurance" validate:"finite,gte=0,lte=99"`
	PaymentDay  *int    `json:"payment_day,omitempty" validate:"omitempty,min=1,max=31"`
}

// CreditPaymentItem 消费贷还款计划条目，含当期费用
type CreditPaymentItem struct {
	PaymentItem
	Fees float64 `json:"fees"`
}

// CreditResponse 消费贷测算结果
type CreditResponse struct {
	MonthlyPayment   float64             `json:"monthly_payment"`
	TotalPayment     float64             `json:"total_payment"`
	TotalInterest    float64             `json:"total_interest"`
	EffectiveRate    float64             `json:"effective_rate"`
	CommissionAmount float64             `json:"commission_amount"`
	MonthlyInsurance float64             `json:"monthly_insurance"`
	TotalInsurance   float64             `json:"total_insurance"`
	PaymentDay       int                 `json:"payment_day"`
	PaymentSchedule  []CreditPaymentItem `json:"payment_schedule"`
}

// SavingsRequest 储蓄测算请求
type SavingsRequest struct {
	Initial        float64 `json:"initial" validate:"finite,gte=0"`
	Monthly        float64 `json:"monthly" validate:"finite,gte=0"`
	Years          int     `json:"years" validate:"min=1,max=100"`
	Rate           float64 `json:"rate" validate:"finite,gte=0,lte=50"`
	Capitalization string  `json:"capitalization,omitempty" validate:"omitempty,oneof=daily monthly quarterly yearly none"`
	TaxRate        float64 `json:"tax_rate" validate:"finite,gte=0,lte=99"`
	Inflation      float64 `json:"inflation" validate:"finite,gte=0,lte=99"`
}

// SavingsYear 年度明细
type SavingsYear struct {
	Year          int     `json:"year"`
	Amount        float64 `json:"amount"`
	Contributions float64 `json:"contributions"`
	Interest      float64 `json:"interest"`
}

// SavingsResponse 储蓄测算结果
type SavingsResponse struct {
	FinalAmountNominal float64       `json:"final_amount_nominal"`
	FinalAmountReal    float64       `json:"final_amount_real"`
	TotalContributions float64       `json:"total_contributions"`
	TotalInterest      float64       `json:"total_interest"`
	TotalTax           float64       `json:"total_tax"`
	YearlyBreakdown    []SavingsYear `json:"yearly_breakdown"`
}

// GoalRequest 目标规划请求
type GoalRequest struct {
	GoalAmount          float64  `json:"goal_amount" validate:"finite,gt=0"`
	CurrentSavings      float64  `json:"current_savings" validate:"finite,gte=0"`
	Years               int      `json:"years" validate:"min=1,max=100"`
	ExpectedRate        float64  `json:"expected_rate" validate:"finite,gte=0,lte=99"`
	MonthlyContribution *float64 `json:"monthly_contribution,omitempty" validate:"omitempty,finite,gte=0"`
}

// GoalMonth 月度明细
type GoalMonth struct {
	Month         int     `json:"month"`
	Amount        float64 `json:"amount"`
	Contributions float64 `json:"contributions"`
	Interest      float64 `json:"interest"`
}

// GoalResponse 目标规划结果，两个金额字段恰有一个非空
type GoalResponse struct {
	RequiredMonthly     *float64    `json:"required_monthly"`
	ExpectedFinalAmount *float64    `json:"expected_final_amount"`
	MonthlyBreakdown    []GoalMonth `json:"monthly_breakdown"`
}

// MonteCarloRequest 蒙特卡洛模拟请求
// Simulations 缺省为 1000，显式传 0 视为非法
type MonteCarloRequest struct {
	Initial      float64  `json:"initial" validate:"finite,gte=0"`
	Monthly      float64  `json:"monthly" validate:"finite,gte=0"`
	Years        int      `json:"years" validate:"min=1,max=50"`
	AvgReturn    float64  `json:"avg_return" validate:"finite,gte=-50,lte=99"`
	Risk         float64  `json:"risk" validate:"finite,gte=0,lte=99"`
	Simulations  *int     `json:"simulations,omitempty" validate:"omitempty,min=10,max=10000"`
	GoalAmount   *float64 `json:"goal_amount,omitempty" validate:"omitempty,finite,gt=0"`
	IncludePaths *bool    `json:"include_paths,omitempty"`
}

// SimulationStatistics 终值统计
type SimulationStatistics struct {
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// SimulationProbabilities 结果概率（%）
type SimulationProbabilities struct {
	Loss           float64  `json:"loss"`
	NegativeReturn float64  `json:"negative_return"`
	ReachGoal      *float64 `json:"reach_goal,omitempty"`
}

// DistributionBucket 直方图桶
type DistributionBucket struct {
	Range   string  `json:"range"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// MonteCarloResponse 蒙特卡洛模拟结果
// Percentiles 以分位点（"5"、"10" ...）为键
type MonteCarloResponse struct {
	Statistics      SimulationStatistics    `json:"statistics"`
	Percentiles     map[string]float64      `json:"percentiles"`
	Probabilities   SimulationProbabilities `json:"probabilities"`
	Distribution    []DistributionBucket    `json:"distribution"`
	SimulationsData [][]float64             `json:"simulations_data,omitempty"`
}

// ComparisonScenario 对比方案，Data 按对比类型解码
type ComparisonScenario struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// CompareRequest 方案对比请求
type CompareRequest struct {
	Type      string               `json:"type"`
	Scenarios []ComparisonScenario `json:"scenarios"`
}

// ComparisonItem 单个方案的计算结果
type ComparisonItem struct {
	Name string `json:"name"`
	Data any    `json:"data"`
}

// CompareResponse 方案对比结果
type CompareResponse struct {
	Type           string           `json:"type"`
	Comparison     []ComparisonItem `json:"comparison"`
	Recommendation string           `json:"recommendation"`
}
