package domain

import (
	"fmt"
	"math"
	"slices"

	"github.com/montanaflynn/stats"
)

// HistogramBuckets 终值分布直方图的桶数
const HistogramBuckets = 10

// SummaryPercentiles 汇总时输出的分位点
var SummaryPercentiles = []int{5, 10, 25, 50, 75, 90, 95}

// Statistics 终值的描述性统计，StdDev 为总体标准差
type Statistics struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// PercentilePoint 分位点及其取值
type PercentilePoint struct {
	Level int
	Value float64
}

// Probabilities 结果概率（百分比 0-100）
type Probabilities struct {
	Loss           float64  // 终值低于累计投入
	NegativeReturn float64  // 终值低于初始本金
	ReachGoal      *float64 // 终值不低于目标金额，仅在给定目标时计算
}

// HistogramBucket 直方图的一个等宽桶
type HistogramBucket struct {
	Lower   float64
	Upper   float64
	Count   int
	Percent float64
}

// Label 区间标签，边界取整
func (b HistogramBucket) Label() string {
	return fmt.Sprintf("%.0f-%.0f", b.Lower, b.Upper)
}

// SimulationSummary 对全部终值的一次性汇总
type SimulationSummary struct {
	Statistics    Statistics
	Percentiles   []PercentilePoint
	Probabilities Probabilities
	Distribution  []HistogramBucket
}

// Summarize 汇总全部样本终值
// totalContributed 为名义累计投入（initial + monthly*months），goal 为空时不计算达成概率
func Summarize(finals []float64, initial, totalContributed float64, goal *float64) (SimulationSummary, error) {
	if len(finals) == 0 {
		return SimulationSummary{}, ErrInvalidSampleCount
	}

	st, err := describe(finals)
	if err != nil {
		return SimulationSummary{}, err
	}

	sorted := slices.Clone(finals)
	slices.Sort(sorted)

	points := make([]PercentilePoint, 0, len(SummaryPercentiles))
	for _, level := range SummaryPercentiles {
		points = append(points, PercentilePoint{Level: level, Value: Percentile(sorted, float64(level))})
	}

	n := float64(len(finals))
	var loss, negative, reached int
	for _, v := range finals {
		if v < totalContributed {
			loss++
		}
		if v < initial {
			negative++
		}
		if goal != nil && v >= *goal {
			reached++
		}
	}

	probs := Probabilities{
		Loss:           float64(loss) / n * percent,
		NegativeReturn: float64(negative) / n * percent,
	}
	if goal != nil {
		reach := float64(reached) / n * percent
		probs.ReachGoal = &reach
	}

	return SimulationSummary{
		Statistics:    st,
		Percentiles:   points,
		Probabilities: probs,
		Distribution:  Histogram(finals, HistogramBuckets),
	}, nil
}

// describe 描述性统计；全部取值相同时直接返回该值与 0 标准差，不经过浮点累加
func describe(values []float64) (Statistics, error) {
	data := stats.Float64Data(values)

	lo, err := data.Min()
	if err != nil {
		return Statistics{}, fmt.Errorf("min: %w", err)
	}
	hi, err := data.Max()
	if err != nil {
		return Statistics{}, fmt.Errorf("max: %w", err)
	}
	if lo == hi {
		return Statistics{Mean: lo, Median: lo, Min: lo, Max: hi}, nil
	}

	mean, err := data.Mean()
	if err != nil {
		return Statistics{}, fmt.Errorf("mean: %w", err)
	}
	median, err := data.Median()
	if err != nil {
		return Statistics{}, fmt.Errorf("median: %w", err)
	}
	std, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return Statistics{}, fmt.Errorf("std dev: %w", err)
	}

	return Statistics{Mean: mean, Median: median, StdDev: std, Min: lo, Max: hi}, nil
}

// Percentile 线性插值分位数，sorted 必须升序
// 秩为 p/100*(n-1)，落在两个样本之间时按距离插值
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	rank := p / percent * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// Histogram 在 [min, max] 上构建等宽直方图，最后一个桶包含右端点
// 全部取值相同时区间扩展为 [v-0.5, v+0.5]
func Histogram(values []float64, buckets int) []HistogramBucket {
	if len(values) == 0 || buckets <= 0 {
		return nil
	}

	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(buckets)

	result := make([]HistogramBucket, buckets)
	for i := range result {
		result[i].Lower = lo + width*float64(i)
		result[i].Upper = lo + width*float64(i+1)
	}
	result[buckets-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / (hi - lo) * float64(buckets))
		if idx >= buckets {
			idx = buckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		// 按桶边界校正浮点误差
		if idx > 0 && v < result[idx].Lower {
			idx--
		} else if idx < buckets-1 && v >= result[idx+1].Lower {
			idx++
		}
		result[idx].Count++
	}

	total := float64(len(values))
	for i := range result {
		result[i].Percent = float64(result[i].Count) / total * percent
	}
	return result
}
