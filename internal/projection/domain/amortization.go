package domain

import (
	"fmt"
	"math"
)

// PaymentType 还款方式
type PaymentType string

const (
	PaymentTypeAnnuity        PaymentType = "annuity"        // 等额本息
	PaymentTypeDifferentiated PaymentType = "differentiated" // 等额本金
)

// ParsePaymentType 解析还款方式，空字符串按等额本息处理
func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(s) {
	case "", PaymentTypeAnnuity:
		return PaymentTypeAnnuity, nil
	case PaymentTypeDifferentiated:
		return PaymentTypeDifferentiated, nil
	default:
		return "", fmt.Errorf("unknown payment type %q", s)
	}
}

// ScheduleEntry 还款计划中的一期
// Payment = Principal + Interest + Fees，Balance 为本期还款后的剩余本金（不小于 0）
type ScheduleEntry struct {
	Month     int
	Payment   float64
	Principal float64
	Interest  float64
	Fees      float64
	Balance   float64
}

// AnnuityPayment 等额本息月供
// 月利率为 0 时退化为 principal / months
func AnnuityPayment(principal, monthlyRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	n := float64(months)
	if monthlyRate == 0 {
		return principal / n
	}
	growth := math.Pow(1+monthlyRate, n)
	return principal * monthlyRate * growth / (growth - 1)
}

// FirstPayment 首期应还金额（不含费用）
// 等额本金方式下首期最高，此后逐月递减
func FirstPayment(principal, monthlyRate float64, months int, pt PaymentType) float64 {
	if pt == PaymentTypeDifferentiated {
		if months <= 0 {
			return 0
		}
		return principal/float64(months) + principal*monthlyRate
	}
	return AnnuityPayment(principal, monthlyRate, months)
}

// BuildSchedule 逐月回放还款计划
// 内部始终使用完整精度累计，四舍五入只在响应边界进行
func BuildSchedule(principal, monthlyRate float64, months int, pt PaymentType) []ScheduleEntry {
	if months <= 0 {
		return nil
	}

	schedule := make([]ScheduleEntry, 0, months)
	balance := principal
	annuity := AnnuityPayment(principal, monthlyRate, months)
	fixedPrincipal := principal / float64(months)

	for month := 1; month <= months; month++ {
		interest := balance * monthlyRate

		var principalPart, payment float64
		if pt == PaymentTypeDifferentiated {
			principalPart = fixedPrincipal
			payment = principalPart + interest
		} else {
			payment = annuity
			principalPart = payment - interest
		}

		balance -= principalPart

		schedule = append(schedule, ScheduleEntry{
			Month:     month,
			Payment:   payment,
			Principal: principalPart,
			Interest:  interest,
			Balance:   math.Max(balance, 0),
		})
	}

	return schedule
}

// scheduleTotals 汇总计划中的还款总额与利息总额
func scheduleTotals(schedule []ScheduleEntry) (payments, interest float64) {
	for _, e := range schedule {
		payments += e.Payment
		interest += e.Interest
	}
	return payments, interest
}
