package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/finsimulator/internal/projection/application"
	"github.com/wyfcoding/finsimulator/pkg/response"
)

// ProjectionHandler 负责处理金融测算相关的 HTTP 请求
type ProjectionHandler struct {
	svc *application.ProjectionService
}

// NewProjectionHandler 创建 HTTP 处理器
func NewProjectionHandler(svc *application.ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *ProjectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1")
	{
		api.POST("/mortgage", h.CalculateMortgage)
		api.POST("/credit", h.CalculateCredit)
		api.POST("/savings", h.CalculateSavings)
		api.POST("/goal", h.CalculateGoal)
		api.POST("/montecarlo", h.Simulate)
		api.POST("/compare", h.Compare)
	}
}

// CalculateMortgage 房贷测算
func (h *ProjectionHandler) CalculateMortgage(c *gin.Context) {
	var req application.MortgageRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.CalculateMortgage(c.Request.Context(), &req)
	respond(c, resp, err)
}

// CalculateCredit 消费贷测算
func (h *ProjectionHandler) CalculateCredit(c *gin.Context) {
	var req application.CreditRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.CalculateCredit(c.Request.Context(), &req)
	respond(c, resp, err)
}

// CalculateSavings 储蓄测算
func (h *ProjectionHandler) CalculateSavings(c *gin.Context) {
	var req application.SavingsRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.CalculateSavings(c.Request.Context(), &req)
	respond(c, resp, err)
}

// CalculateGoal 目标规划
func (h *ProjectionHandler) CalculateGoal(c *gin.Context) {
	var req application.GoalRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.CalculateGoal(c.Request.Context(), &req)
	respond(c, resp, err)
}

// Simulate 蒙特卡洛模拟
func (h *ProjectionHandler) Simulate(c *gin.Context) {
	var req application.MonteCarloRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.Simulate(c.Request.Context(), &req)
	respond(c, resp, err)
}

// Compare 方案对比
func (h *ProjectionHandler) Compare(c *gin.Context) {
	var req application.CompareRequest
	if !bind(c, &req) {
		return
	}
	resp, err := h.svc.Compare(c.Request.Context(), &req)
	respond(c, resp, err)
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

func respond(c *gin.Context, data any, err error) {
	if err != nil {
		status, detail := StatusFor(err)
		response.ErrorWithStatus(c, status, err.Error(), detail)
		return
	}
	response.Success(c, data)
}

// StatusFor 将用例错误映射为 HTTP 状态码，校验错误附带字段名
func StatusFor(err error) (int, any) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, gin.H{"field": ve.Field}
	case application.IsInvalidInput(err):
		return http.StatusBadRequest, nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, nil
	default:
		return http.StatusInternalServerError, nil
	}
}
