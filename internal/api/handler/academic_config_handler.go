package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/service"
	"github.com/OsvaldoFernando/SIGE-APP/pkg/response"
)

// AcademicConfigHandler 全局学术配置 HTTP 处理器
type AcademicConfigHandler struct {
	configSvc service.AcademicConfigService
}

// NewAcademicConfigHandler 创建 AcademicConfigHandler
func NewAcademicConfigHandler(configSvc service.AcademicConfigService) *AcademicConfigHandler {
	return &AcademicConfigHandler{configSvc: configSvc}
}

// Get 获取全局学术配置（未保存过时返回默认值）
// GET /api/v1/academic-config
func (h *AcademicConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configSvc.Get(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, cfg)
}

// Update 保存全局学术配置（需携带 version）
// PUT /api/v1/academic-config
func (h *AcademicConfigHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAcademicConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.configSvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, cfg)
}
