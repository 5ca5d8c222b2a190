package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// SubscriptionHandler 学校订阅 HTTP 处理器
type SubscriptionHandler struct {
	subscriptionSvc service.SubscriptionService
}

// NewSubscriptionHandler 创建 SubscriptionHandler
func NewSubscriptionHandler(subscriptionSvc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionSvc: subscriptionSvc}
}

// Start 登记订阅并开启试用
// POST /api/v1/subscription
func (h *SubscriptionHandler) Start(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.StartSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sub, err := h.subscriptionSvc.Start(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, sub)
}

// Current 当前订阅状态
// GET /api/v1/subscription
func (h *SubscriptionHandler) Current(c *gin.Context) {
	sub, err := h.subscriptionSvc.Current(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, sub)
}

// SubmitPayment 登记续费付款
// POST /api/v1/subscription/payments
func (h *SubscriptionHandler) SubmitPayment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	p, err := h.subscriptionSvc.SubmitPayment(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, p)
}

// ListPayments 付款记录
// GET /api/v1/subscription/payments?status=
func (h *SubscriptionHandler) ListPayments(c *gin.Context) {
	var req dto.PaymentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.subscriptionSvc.ListPayments(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ReviewPayment 审核付款
// POST /api/v1/subscription/payments/:id/review
func (h *SubscriptionHandler) ReviewPayment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	p, err := h.subscriptionSvc.ReviewPayment(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, p)
}
