// Package domain 包含金融测算引擎的领域模型：利率换算、摊还计算、储蓄/目标规划与蒙特卡洛模拟
package domain

import (
	"errors"
	"math"
)

const (
	monthsPerYear = 12
	percent       = 100.0
)

var (
	// ErrInvalidTerm 期限换算后不足一个月，无法生成还款计划
	ErrInvalidTerm = errors.New("term must be at least one month")
	// ErrInvalidSampleCount 模拟次数必须为正
	ErrInvalidSampleCount = errors.New("sample count must be positive")
	// ErrInvalidWorkerCount 工作协程数必须为正
	ErrInvalidWorkerCount = errors.New("worker count must be positive")
)

// MonthlyRate 将年化百分比利率换算为月利率
func MonthlyRate(annualPercent float64) float64 {
	return annualPercent / percent / monthsPerYear
}

// AnnualRate 将年化百分比利率换算为小数形式
func AnnualRate(annualPercent float64) float64 {
	return annualPercent / percent
}

// TermMonths 将年数换算为月数，向零截断（0.99 年 -> 11 个月）
func TermMonths(years float64) int {
	return int(math.Trunc(years * monthsPerYear))
}
