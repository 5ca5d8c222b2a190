package dto

// ── 站内通知 DTO ──

// CreateNoticeRequest 发布通知；global 为 false 时必须指定接收人
type CreateNoticeRequest struct {
	Title      string   `json:"title"      binding:"required,notblank,max=200"`
	Message    string   `json:"message"    binding:"required,notblank,max=5000"`
	Kind       string   `json:"kind"       binding:"omitempty,oneof=info warning urgent system"`
	Global     bool     `json:"global"`
	Recipients []string `json:"recipients" binding:"omitempty,max=500,dive,uuid"`
}

// NoticeListRequest 我的通知列表查询参数
type NoticeListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only"`
}

// NoticeResponse 通知响应；read 只在"我的通知"中有意义
type NoticeResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Kind      string `json:"kind"`
	Global    bool   `json:"global"`
	Active    bool   `json:"active"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// UnreadCountResponse 未读数量
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// SetNoticeActiveRequest 启用或停用通知
type SetNoticeActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
