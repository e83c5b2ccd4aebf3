// Package application 金融测算服务的用例逻辑：边界校验、调用领域引擎、响应边界舍入与审计
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wyfcoding/finsimulator/internal/projection/domain"
	"github.com/wyfcoding/finsimulator/pkg/logger"
	"github.com/wyfcoding/finsimulator/pkg/metrics"
)

const (
	productMortgage   = "mortgage"
	productCredit     = "credit"
	productSavings    = "savings"
	productGoal       = "goal"
	productMonteCarlo = "montecarlo"
	productCompare    = "compare"
)

// ServiceConfig 应用服务配置
type ServiceConfig struct {
	// 请求未指定 include_paths 时是否返回路径
	IncludePathsDefault bool
	// 单次模拟超时，0 表示不限
	SimulationTimeout time.Duration
}

// ProjectionService 金融测算应用服务
// 各用例无共享可变状态，可被并发调用。
type ProjectionService struct {
	engine    *domain.MonteCarloEngine
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	cfg       ServiceConfig
}

// NewProjectionService 创建应用服务；publisher 与 m 可为 nil
func NewProjectionService(engine *domain.MonteCarloEngine, publisher domain.EventPublisher, m *metrics.Metrics, cfg ServiceConfig) *ProjectionService {
	if engine == nil {
		engine = domain.NewMonteCarloEngine()
	}
	return &ProjectionService{
		engine:    engine,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
	}
}

// CalculateMortgage 房贷测算
func (s *ProjectionService) CalculateMortgage(ctx context.Context, req *MortgageRequest) (resp *MortgageResponse, err error) {
	defer s.observe(ctx, productMortgage, time.Now(), &err, &auditInfo{})

	_, resp, err = s.mortgage(req, "")
	return resp, err
}

func (s *ProjectionService) mortgage(req *MortgageRequest, prefix string) (*domain.MortgageResult, *MortgageResponse, error) {
	terms, err := validateMortgage(req, prefix)
	if err != nil {
		return nil, nil, err
	}
	result, err := domain.CalculateMortgage(terms)
	if err != nil {
		return nil, nil, fmt.Errorf("calculate mortgage: %w", err)
	}
	return result, toMortgageResponse(result), nil
}

// CalculateCredit 消费贷测算
func (s *ProjectionService) CalculateCredit(ctx context.Context, req *CreditRequest) (resp *CreditResponse, err error) {
	defer s.observe(ctx, productCredit, time.Now(), &err, &auditInfo{})

	_, resp, err = s.credit(req, "")
	return resp, err
}

func (s *ProjectionService) credit(req *CreditRequest, prefix string) (*domain.CreditResult, *CreditResponse, error) {
	terms, err := validateCredit(req, prefix)
	if err != nil {
		return nil, nil, err
	}
	result, err := domain.CalculateCredit(terms)
	if err != nil {
		return nil, nil, fmt.Errorf("calculate credit: %w", err)
	}
	return result, toCreditResponse(result, *req.PaymentDay), nil
}

// CalculateSavings 储蓄测算
func (s *ProjectionService) CalculateSavings(ctx context.Context, req *SavingsRequest) (resp *SavingsResponse, err error) {
	defer s.observe(ctx, productSavings, time.Now(), &err, &auditInfo{})

	_, resp, err = s.savings(req, "")
	return resp, err
}

func (s *ProjectionService) savings(req *SavingsRequest, prefix string) (*domain.SavingsResult, *SavingsResponse, error) {
	plan, err := validateSavings(req, prefix)
	if err != nil {
		return nil, nil, err
	}
	result, err := domain.CalculateSavings(plan)
	if err != nil {
		return nil, nil, fmt.Errorf("calculate savings: %w", err)
	}
	return result, toSavingsResponse(result), nil
}

// CalculateGoal 目标规划
func (s *ProjectionService) CalculateGoal(ctx context.Context, req *GoalRequest) (resp *GoalResponse, err error) {
	defer s.observe(ctx, productGoal, time.Now(), &err, &auditInfo{})

	_, resp, err = s.goal(req, "")
	return resp, err
}

func (s *ProjectionService) goal(req *GoalRequest, prefix string) (*domain.GoalResult, *GoalResponse, error) {
	plan, err := validateGoal(req, prefix)
	if err != nil {
		return nil, nil, err
	}
	result, err := domain.CalculateGoal(plan)
	if err != nil {
		return nil, nil, fmt.Errorf("calculate goal: %w", err)
	}
	return result, toGoalResponse(result), nil
}

// Simulate 蒙特卡洛模拟
func (s *ProjectionService) Simulate(ctx context.Context, req *MonteCarloRequest) (resp *MonteCarloResponse, err error) {
	info := &auditInfo{}
	defer s.observe(ctx, productMonteCarlo, time.Now(), &err, info)

	simReq, err := ValidateMonteCarlo(req)
	if err != nil {
		return nil, err
	}
	info.samples = simReq.Samples

	if s.cfg.SimulationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SimulationTimeout)
		defer cancel()
	}

	outcome, err := s.engine.Run(ctx, simReq)
	if err != nil {
		return nil, fmt.Errorf("monte carlo simulation: %w", err)
	}

	batches := 0
	for _, n := range outcome.WorkerCounts {
		if n > 0 {
			batches++
		}
	}
	s.metrics.RecordSimulation(len(outcome.Finals), batches)

	includePaths := s.cfg.IncludePathsDefault
	if req.IncludePaths != nil {
		includePaths = *req.IncludePaths
	}
	return toMonteCarloResponse(outcome, includePaths), nil
}

type auditInfo struct {
	samples   int
	scenarios int
}

// observe 统一记录耗时、指标、日志与审计事件，在用例返回时通过 defer 调用
func (s *ProjectionService) observe(ctx context.Context, product string, start time.Time, errp *error, info *auditInfo) {
	err := *errp
	duration := time.Since(start)
	s.metrics.RecordCalculation(product, err, duration)

	outcome := "success"
	if err != nil {
		outcome = "failure"
		if IsInvalidInput(err) {
			logger.Warn(ctx, "calculation rejected", "product", product, "error", err)
		} else {
			logger.Error(ctx, "calculation failed", "product", product, "error", err, "duration", duration)
		}
	} else {
		logger.Info(ctx, "calculation completed",
			"product", product,
			"samples", info.samples,
			"scenarios", info.scenarios,
			"duration", duration,
		)
	}

	if s.publisher == nil {
		return
	}
	event := domain.CalculationCompletedEvent{
		EventID:    uuid.NewString(),
		RequestID:  logger.RequestID(ctx),
		Product:    product,
		Outcome:    outcome,
		Samples:    info.samples,
		Scenarios:  info.scenarios,
		DurationMs: duration.Milliseconds(),
		OccurredOn: time.Now().UTC(),
	}
	if perr := s.publisher.PublishCalculationCompleted(context.WithoutCancel(ctx), event); perr != nil {
		s.metrics.RecordAuditFailure()
		logger.Warn(ctx, "failed to publish calculation event", "product", product, "error", perr)
	}
}
