package application

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wyfcoding/finsimulator/internal/projection/domain"
)

const (
	defaultSimulations = 1000
	defaultPaymentDay  = 15
)

// ValidationError 请求参数不满足约束
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsValidationError 判断是否为参数校验错误
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidInput 判断错误是否由调用方输入引起（参数校验、对比类型、退化期限或样本数）
func IsInvalidInput(err error) bool {
	var unsupported *domain.UnsupportedComparisonTypeError
	return IsValidationError(err) ||
		errors.As(err, &unsupported) ||
		errors.Is(err, domain.ErrInvalidTerm) ||
		errors.Is(err, domain.ErrInvalidSampleCount)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// requestValidator 按 DTO 上的 validate 标签校验，字段名取 json 标签
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// finite 拒绝 NaN 与 ±Inf
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			x := f.Float()
			return !math.IsNaN(x) && !math.IsInf(x, 0)
		default:
			return true
		}
	}); err != nil {
		panic(err)
	}
	return v
}

// checkStruct 校验请求结构体，返回第一个失败字段；prefix 非空时作为字段路径前缀
func checkStruct(req any, prefix string) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return invalid(prefix, "%v", err)
	}
	fe := errs[0]
	return invalid(fieldPath(prefix, fe.Field()), "%s", ruleMessage(fe))
}

func fieldPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "finite":
		return "must be a finite number"
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "gte", "min":
		return fmt.Sprintf("must be greater than or equal to %s, got %v", fe.Param(), fe.Value())
	case "lte", "max":
		return fmt.Sprintf("must be less than or equal to %s, got %v", fe.Param(), fe.Value())
	case "ltfield":
		return "must be less than " + strings.ToLower(fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

// ValidateMortgage 校验房贷请求并返回领域参数
func ValidateMortgage(req *MortgageRequest) (domain.MortgageTerms, error) {
	return validateMortgage(req, "")
}

func validateMortgage(req *MortgageRequest, prefix string) (domain.MortgageTerms, error) {
	if err := checkStruct(req, prefix); err != nil {
		return domain.MortgageTerms{}, err
	}
	pt, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		return domain.MortgageTerms{}, invalid(fieldPath(prefix, "payment_type"), "%v", err)
	}
	return domain.MortgageTerms{
		Price:       req.Price,
		DownPayment: req.DownPayment,
		Years:       req.Years,
		Rate:        req.Rate,
		PaymentType: pt,
	}, nil
}

// ValidateCredit 校验消费贷请求，payment_day 缺省为 15
func ValidateCredit(req *CreditRequest) (domain.CreditTerms, error) {
	return validateCredit(req, "")
}

func validateCredit(req *CreditRequest, prefix string) (domain.CreditTerms, error) {
	if err := checkStruct(req, prefix); err != nil {
		return domain.CreditTerms{}, err
	}
	pt, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		return domain.CreditTerms{}, invalid(fieldPath(prefix, "payment_type"), "%v", err)
	}
	if req.PaymentDay == nil {
		day := defaultPaymentDay
		req.PaymentDay = &day
	}
	return domain.CreditTerms{
		Amount:      req.Amount,
		Years:       req.Years,
		Rate:        req.Rate,
		PaymentType: pt,
		Commission:  req.Commission,
		Insurance:   req.Insurance,
	}, nil
}

// ValidateSavings 校验储蓄请求
func ValidateSavings(req *SavingsRequest) (domain.SavingsPlan, error) {
	return validateSavings(req, "")
}

func validateSavings(req *SavingsRequest, prefix string) (domain.SavingsPlan, error) {
	if err := checkStruct(req, prefix); err != nil {
		return domain.SavingsPlan{}, err
	}
	capitalization, err := domain.ParseCapitalization(req.Capitalization)
	if err != nil {
		return domain.SavingsPlan{}, invalid(fieldPath(prefix, "capitalization"), "%v", err)
	}
	return domain.SavingsPlan{
		Initial:        req.Initial,
		Monthly:        req.Monthly,
		Years:          req.Years,
		Rate:           req.Rate,
		Capitalization: capitalization,
		TaxRate:        req.TaxRate,
		Inflation:      req.Inflation,
	}, nil
}

// ValidateGoal 校验目标规划请求
func ValidateGoal(req *GoalRequest) (domain.GoalPlan, error) {
	return validateGoal(req, "")
}

func validateGoal(req *GoalRequest, prefix string) (domain.GoalPlan, error) {
	if err := checkStruct(req, prefix); err != nil {
		return domain.GoalPlan{}, err
	}
	var contribution *float64
	if req.MonthlyContribution != nil {
		v := *req.MonthlyContribution
		contribution = &v
	}
	return domain.GoalPlan{
		GoalAmount:          req.GoalAmount,
		CurrentSavings:      req.CurrentSavings,
		Years:               req.Years,
		ExpectedRate:        req.ExpectedRate,
		MonthlyContribution: contribution,
	}, nil
}

// ValidateMonteCarlo 校验模拟请求，simulations 缺省为 1000
func ValidateMonteCarlo(req *MonteCarloRequest) (domain.SimulationRequest, error) {
	if err := checkStruct(req, ""); err != nil {
		return domain.SimulationRequest{}, err
	}
	if req.Simulations == nil {
		n := defaultSimulations
		req.Simulations = &n
	}
	var goal *float64
	if req.GoalAmount != nil {
		v := *req.GoalAmount
		goal = &v
	}
	return domain.SimulationRequest{
		Initial:   req.Initial,
		Monthly:   req.Monthly,
		Years:     req.Years,
		AvgReturn: req.AvgReturn,
		Risk:      req.Risk,
		Samples:   *req.Simulations,
		Goal:      goal,
	}, nil
}
