package dto

// ── 订阅 DTO ──

// StartSubscriptionRequest 首次登记学校，开启试用期
type StartSubscriptionRequest struct {
	SchoolName string `json:"school_name" binding:"required,notblank,max=200"`
}

// SubscriptionResponse 订阅状态
type SubscriptionResponse struct {
	ID            string `json:"id"`
	SchoolName    string `json:"school_name"`
	Plan          string `json:"plan"`
	Status        string `json:"status"`
	StartDate     string `json:"start_date"`
	ExpiryDate    string `json:"expiry_date"`
	AmountPaid    string `json:"amount_paid"`
	Active        bool   `json:"active"`
	DaysRemaining int    `json:"days_remaining"`
}

// SubmitPaymentRequest 登记续费付款
type SubmitPaymentRequest struct {
	Plan      string `json:"plan"      binding:"required,oneof=monthly annual"`
	Amount    string `json:"amount"    binding:"required"`
	PaidOn    string `json:"paid_on"   binding:"required"` // YYYY-MM-DD
	Reference string `json:"reference" binding:"omitempty,max=100"`
	Notes     string `json:"notes"     binding:"omitempty,max=2000"`
}

// ReviewPaymentRequest 审核付款
type ReviewPaymentRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" binding:"omitempty,max=2000"`
}

// PaymentListRequest 付款列表查询参数
type PaymentListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// PaymentResponse 付款记录
type PaymentResponse struct {
	ID          string  `json:"id"`
	Plan        string  `json:"plan"`
	Amount      string  `json:"amount"`
	PaidOn      string  `json:"paid_on"`
	Reference   string  `json:"reference"`
	Notes       string  `json:"notes"`
	Status      string  `json:"status"`
	SubmittedBy *string `json:"submitted_by"`
	ReviewedBy  *string `json:"reviewed_by"`
	ReviewedAt  *string `json:"reviewed_at"`
}
