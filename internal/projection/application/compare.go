package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wyfcoding/finsimulator/internal/projection/domain"
)

// Compare 方案对比
// 对比类型在计算任何方案之前校验；推荐方案按完整精度取值选出，并列时取靠前者。
func (s *ProjectionService) Compare(ctx context.Context, req *CompareRequest) (resp *CompareResponse, err error) {
	info := &auditInfo{scenarios: len(req.Scenarios)}
	defer s.observe(ctx, productCompare, time.Now(), &err, info)

	kind, err := domain.ParseComparisonType(req.Type)
	if err != nil {
		return nil, err
	}
	if n := len(req.Scenarios); n < domain.MinScenarios || n > domain.MaxScenarios {
		return nil, invalid("scenarios", "must contain between %d and %d entries, got %d", domain.MinScenarios, domain.MaxScenarios, n)
	}
	for i, sc := range req.Scenarios {
		if strings.TrimSpace(sc.Name) == "" {
			return nil, invalid(fmt.Sprintf("scenarios[%d].name", i), "must not be empty")
		}
	}

	items := make([]ComparisonItem, len(req.Scenarios))
	keys := make([]float64, len(req.Scenarios))
	ordering := kind.Ordering()

	switch kind {
	case domain.ComparisonMortgage:
		err = eachScenario(req.Scenarios, func(i int, prefix string, r *MortgageRequest) error {
			result, dto, err := s.mortgage(r, prefix)
			if err != nil {
				return err
			}
			items[i].Data, keys[i] = dto, result.TotalPayment
			return nil
		})
	case domain.ComparisonCredit:
		err = eachScenario(req.Scenarios, func(i int, prefix string, r *CreditRequest) error {
			result, dto, err := s.credit(r, prefix)
			if err != nil {
				return err
			}
			items[i].Data, keys[i] = dto, result.TotalPayment
			return nil
		})
	case domain.ComparisonSavings:
		err = eachScenario(req.Scenarios, func(i int, prefix string, r *SavingsRequest) error {
			result, dto, err := s.savings(r, prefix)
			if err != nil {
				return err
			}
			items[i].Data, keys[i] = dto, result.TotalInterest
			return nil
		})
	case domain.ComparisonGoal:
		ordering, err = s.compareGoals(req.Scenarios, items, keys)
	}
	if err != nil {
		return nil, err
	}

	for i, sc := range req.Scenarios {
		items[i].Name = sc.Name
	}
	best := domain.SelectIndex(keys, ordering)

	return &CompareResponse{
		Type:           string(kind),
		Comparison:     items,
		Recommendation: req.Scenarios[best].Name,
	}, nil
}

// compareGoals 所有方案必须同为反推月投入或同为给定月投入
func (s *ProjectionService) compareGoals(scenarios []ComparisonScenario, items []ComparisonItem, keys []float64) (domain.Ordering, error) {
	var solvedFirst bool
	err := eachScenario(scenarios, func(i int, prefix string, r *GoalRequest) error {
		solved := r.MonthlyContribution == nil
		if i == 0 {
			solvedFirst = solved
		} else if solved != solvedFirst {
			return invalid(prefix+".monthly_contribution", "must be set on all goal scenarios or on none")
		}

		result, dto, err := s.goal(r, prefix)
		if err != nil {
			return err
		}
		items[i].Data = dto
		if solved {
			keys[i] = *result.RequiredMonthly
		} else {
			keys[i] = *result.ExpectedFinalAmount
		}
		return nil
	})
	return domain.GoalOrdering(solvedFirst), err
}

// eachScenario 按声明类型严格解码每个方案（拒绝未知字段）后回调
func eachScenario[T any](scenarios []ComparisonScenario, fn func(i int, prefix string, req *T) error) error {
	for i, sc := range scenarios {
		prefix := fmt.Sprintf("scenarios[%d].data", i)
		var req T
		if err := decodeStrict(sc.Data, &req); err != nil {
			return invalid(prefix, "%v", err)
		}
		if err := fn(i, prefix, &req); err != nil {
			return err
		}
	}
	return nil
}

func decodeStrict(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errors.New("is required")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("does not match the declared comparison type: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("must be a single JSON object")
	}
	return nil
}
