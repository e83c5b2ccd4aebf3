package domain

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers 蒙特卡洛默认工作协程数
const DefaultWorkers = 3

// SimulationRequest 蒙特卡洛模拟参数
type SimulationRequest struct {
	Initial   float64
	Monthly   float64
	Years     int
	AvgReturn float64 // 年化平均收益率（%）
	Risk      float64 // 年化波动率（%），作为正态分布标准差
	Samples   int
	Goal      *float64
}

// Months 模拟月数
func (r SimulationRequest) Months() int {
	return TermMonths(float64(r.Years))
}

// TotalContributed 名义累计投入
func (r SimulationRequest) TotalContributed() float64 {
	return r.Initial + r.Monthly*float64(r.Months())
}

// SimulationOutcome 模拟结果
// Paths 与 Finals 按工作协程序号拼接，第 i 条路径的终值为 Finals[i]
type SimulationOutcome struct {
	Finals       []float64
	Paths        [][]float64
	WorkerCounts []int
	Summary      SimulationSummary
}

// WorkerError 单个工作协程失败，整次模拟随之中止
type WorkerError struct {
	Worker int
	Cause  error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("monte carlo worker %d failed: %v", e.Worker, e.Cause)
}

func (e *WorkerError) Unwrap() error {
	return e.Cause
}

// batchFunc 在给定随机源上生成 count 条路径
type batchFunc func(rng *rand.Rand, p pathParams, count int) ([]float64, [][]float64)

type pathParams struct {
	initial     float64
	monthly     float64
	monthlyRate float64
	monthlyRisk float64
	months      int
}

// MonteCarloEngine 蒙特卡洛模拟引擎
// 将样本数均分给固定数量的工作协程，全部完成后统一汇总。
type MonteCarloEngine struct {
	workers int
	seed    *uint64
	batch   batchFunc
}

// EngineOption 引擎配置项
type EngineOption func(*MonteCarloEngine)

// WithWorkers 设置工作协程数，为 1 时在调用方协程内同步执行
func WithWorkers(n int) EngineOption {
	return func(e *MonteCarloEngine) {
		e.workers = n
	}
}

// WithSeed 固定随机种子，第 i 个工作协程使用 PCG(seed, i)
func WithSeed(seed uint64) EngineOption {
	return func(e *MonteCarloEngine) {
		e.seed = &seed
	}
}

// NewMonteCarloEngine 创建模拟引擎
func NewMonteCarloEngine(opts ...EngineOption) *MonteCarloEngine {
	e := &MonteCarloEngine{
		workers: DefaultWorkers,
		batch:   simulateBatch,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers 当前配置的工作协程数
func (e *MonteCarloEngine) Workers() int {
	return e.workers
}

// PartitionSamples 将 samples 个样本分配给 workers 个工作协程
// 余数依次分给前 samples%workers 个协程
func PartitionSamples(samples, workers int) []int {
	if workers <= 0 {
		return nil
	}
	base, remainder := samples/workers, samples%workers
	counts := make([]int, workers)
	for i := range counts {
		counts[i] = base
		if i < remainder {
			counts[i]++
		}
	}
	return counts
}

// Run 执行模拟并汇总
//
// ctx 只在派发前与等待屏障时生效：已派发的批次总会跑完，取消后调用方立即返回 ctx.Err()。
func (e *MonteCarloEngine) Run(ctx context.Context, req SimulationRequest) (*SimulationOutcome, error) {
	if e.workers < 1 {
		return nil, ErrInvalidWorkerCount
	}
	if req.Samples < 1 {
		return nil, ErrInvalidSampleCount
	}
	months := req.Months()
	if months < 1 {
		return nil, ErrInvalidTerm
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := pathParams{
		initial:     req.Initial,
		monthly:     req.Monthly,
		monthlyRate: MonthlyRate(req.AvgReturn),
		monthlyRisk: req.Risk / percent / math.Sqrt(monthsPerYear),
		months:      months,
	}

	var (
		counts []int
		finals []float64
		paths  [][]float64
		err    error
	)
	if e.workers == 1 {
		counts = []int{req.Samples}
		finals, paths, err = e.runWorker(0, params, req.Samples)
	} else {
		counts = PartitionSamples(req.Samples, e.workers)
		finals, paths, err = e.fanOut(ctx, params, counts)
	}
	if err != nil {
		return nil, err
	}
	if len(finals) != req.Samples {
		return nil, fmt.Errorf("monte carlo produced %d samples, want %d", len(finals), req.Samples)
	}

	summary, err := Summarize(finals, req.Initial, req.TotalContributed(), req.Goal)
	if err != nil {
		return nil, err
	}

	return &SimulationOutcome{
		Finals:       finals,
		Paths:        paths,
		WorkerCounts: counts,
		Summary:      summary,
	}, nil
}

type workerResult struct {
	finals []float64
	paths  [][]float64
}

// fanOut 派发各批次并在屏障处等待，结果按协程序号拼接
func (e *MonteCarloEngine) fanOut(ctx context.Context, params pathParams, counts []int) ([]float64, [][]float64, error) {
	results := make([]workerResult, len(counts))

	var g errgroup.Group
	for i, n := range counts {
		if n <= 0 {
			continue
		}
		g.Go(func() error {
			finals, paths, err := e.runWorker(i, params, n)
			if err != nil {
				return err
			}
			results[i] = workerResult{finals: finals, paths: paths}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, nil, err
		}
	}

	var total int
	for _, n := range counts {
		total += n
	}
	finals := make([]float64, 0, total)
	paths := make([][]float64, 0, total)
	for _, r := range results {
		finals = append(finals, r.finals...)
		paths = append(paths, r.paths...)
	}
	return finals, paths, nil
}

// runWorker 执行单个批次，panic 转换为 WorkerError
func (e *MonteCarloEngine) runWorker(worker int, params pathParams, count int) (finals []float64, paths [][]float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &WorkerError{Worker: worker, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	finals, paths = e.batch(e.rngFor(worker), params, count)
	if len(finals) != count {
		return nil, nil, &WorkerError{Worker: worker, Cause: fmt.Errorf("produced %d samples, want %d", len(finals), count)}
	}
	return finals, paths, nil
}

func (e *MonteCarloEngine) rngFor(worker int) *rand.Rand {
	if e.seed != nil {
		return rand.New(rand.NewPCG(*e.seed, uint64(worker)))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func simulateBatch(rng *rand.Rand, p pathParams, count int) ([]float64, [][]float64) {
	finals := make([]float64, count)
	paths := make([][]float64, count)
	for i := range count {
		path := simulatePath(rng, p)
		paths[i] = path
		finals[i] = path[len(path)-1]
	}
	return finals, paths
}

// simulatePath 单条路径：每月先入金，再乘以 (1 + N(rate, risk))
func simulatePath(rng *rand.Rand, p pathParams) []float64 {
	path := make([]float64, p.months+1)
	balance := p.initial
	path[0] = balance
	for m := 1; m <= p.months; m++ {
		sample := p.monthlyRate + p.monthlyRisk*rng.NormFloat64()
		balance += p.monthly
		balance *= 1 + sample
		path[m] = balance
	}
	return path
}
