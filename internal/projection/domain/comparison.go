package domain

import "fmt"

// ComparisonType 方案对比的产品类型，集合封闭
type ComparisonType string

const (
	ComparisonMortgage ComparisonType = "mortgage"
	ComparisonCredit   ComparisonType = "credit"
	ComparisonSavings  ComparisonType = "savings"
	ComparisonGoal     ComparisonType = "goal"
)

const (
	MinScenarios = 2
	MaxScenarios = 10
)

// UnsupportedComparisonTypeError 未注册对比策略的类型
type UnsupportedComparisonTypeError struct {
	Type string
}

func (e *UnsupportedComparisonTypeError) Error() string {
	return fmt.Sprintf("unsupported comparison type %q: expected one of mortgage, credit, savings, goal", e.Type)
}

// ParseComparisonType 在计算任何方案之前校验对比类型
func ParseComparisonType(s string) (ComparisonType, error) {
	switch t := ComparisonType(s); t {
	case ComparisonMortgage, ComparisonCredit, ComparisonSavings, ComparisonGoal:
		return t, nil
	default:
		return "", &UnsupportedComparisonTypeError{Type: s}
	}
}

// Ordering 推荐方案的选取方向
type Ordering int

const (
	PreferMin Ordering = iota
	PreferMax
)

// GoalOrdering 目标规划的选取方向：反推月投入取最小，给定月投入时期末金额取最大
func GoalOrdering(solvedForContribution bool) Ordering {
	if solvedForContribution {
		return PreferMin
	}
	return PreferMax
}

// Ordering 房贷与消费贷按还款总额取最小，储蓄按利息总额取最大
// 目标规划的方向取决于结果形态，见 GoalOrdering
func (t ComparisonType) Ordering() Ordering {
	if t == ComparisonSavings {
		return PreferMax
	}
	return PreferMin
}

// SelectIndex 按方向选出推荐下标，并列时取最先出现者；空切片返回 -1
func SelectIndex(values []float64, o Ordering) int {
	if o == PreferMax {
		return SelectMaxIndex(values)
	}
	return SelectMinIndex(values)
}

// SelectMinIndex 稳定最小值下标
func SelectMinIndex(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v < values[best] {
			best = i
		}
	}
	return best
}

// SelectMaxIndex 稳定最大值下标
func SelectMaxIndex(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}
