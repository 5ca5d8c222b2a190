package dto

// ── 学年模块 DTO ──

// FeePolicyRequest 学年收费策略（仅存储，不参与计算）
type FeePolicyRequest struct {
	ChargeFees         bool   `json:"charge_fees"`
	PaymentDueDay      int    `json:"payment_due_day"      binding:"omitempty,min=1,max=31"`
	PenaltyStartDay    int    `json:"penalty_start_day"    binding:"omitempty,min=1,max=31"`
	InitialPenaltyPct  string `json:"initial_penalty_pct"`
	DailyPenaltyPct    string `json:"daily_penalty_pct"`
	PenaltyDeadlineDay int    `json:"penalty_deadline_day" binding:"omitempty,min=1,max=31"`
	BlockOnDebt        bool   `json:"block_on_debt"`
	BlockOnDebtDay     int    `json:"block_on_debt_day"    binding:"omitempty,min=1,max=31"`
}

// CreateAcademicYearRequest 创建学年请求
type CreateAcademicYearRequest struct {
	Code        string            `json:"code"        binding:"required,yearcode"` // "2025/2026"
	Description string            `json:"description" binding:"omitempty,max=200"`
	StartDate   string            `json:"start_date"  binding:"required"` // "2025-09-01"
	EndDate     string            `json:"end_date"    binding:"required"`
	Status      string            `json:"status"      binding:"omitempty,oneof=planned active closed"`
	IsCurrent   bool              `json:"is_current"`
	FeePolicy   *FeePolicyRequest `json:"fee_policy"`
}

// UpdateAcademicYearRequest 更新学年请求；is_current 只能通过 set-current 接口修改
type UpdateAcademicYearRequest struct {
	Description *string           `json:"description" binding:"omitempty,max=200"`
	StartDate   *string           `json:"start_date"`
	EndDate     *string           `json:"end_date"`
	Status      *string           `json:"status"      binding:"omitempty,oneof=planned active closed"`
	FeePolicy   *FeePolicyRequest `json:"fee_policy"`
	Version     int               `json:"version"     binding:"required,min=1"`
}

// FeePolicyResponse 收费策略
type FeePolicyResponse struct {
	ChargeFees         bool   `json:"charge_fees"`
	PaymentDueDay      int    `json:"payment_due_day"`
	PenaltyStartDay    int    `json:"penalty_start_day"`
	InitialPenaltyPct  string `json:"initial_penalty_pct"`
	DailyPenaltyPct    string `json:"daily_penalty_pct"`
	PenaltyDeadlineDay int    `json:"penalty_deadline_day"`
	BlockOnDebt        bool   `json:"block_on_debt"`
	BlockOnDebtDay     int    `json:"block_on_debt_day"`
}

// AcademicYearResponse 学年信息响应
type AcademicYearResponse struct {
	ID              string            `json:"id"`
	Code            string            `json:"code"`
	Description     string            `json:"description"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	Status          string            `json:"status"`
	IsCurrent       bool              `json:"is_current"`
	EnrollmentsOpen bool              `json:"enrollments_open"`
	FeePolicy       FeePolicyResponse `json:"fee_policy"`
	Version         int               `json:"version"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

// ── 校历事件 DTO ──

// CreateCalendarEventRequest 创建校历事件请求
type CreateCalendarEventRequest struct {
	Title       string `json:"title"       binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Type        string `json:"type"        binding:"required,oneof=enrollment matriculation partial_exam_1 partial_exam_2 final_exam retake special_exam vacation other"`
	StartDate   string `json:"start_date"  binding:"required"`
	EndDate     string `json:"end_date"    binding:"required"`
	Status      string `json:"status"      binding:"omitempty,oneof=active closed"`
}

// UpdateCalendarEventRequest 更新校历事件请求
type UpdateCalendarEventRequest struct {
	Title       *string `json:"title"       binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Type        *string `json:"type"        binding:"omitempty,oneof=enrollment matriculation partial_exam_1 partial_exam_2 final_exam retake special_exam vacation other"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Status      *string `json:"status"      binding:"omitempty,oneof=active closed"`
}

// CalendarEventResponse 校历事件响应
type CalendarEventResponse struct {
	ID          string `json:"id"`
	YearID      string `json:"year_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
	Occurring   bool   `json:"occurring"`
}

// ── 学期 DTO ──

// CreateLecturePeriodRequest 创建学期请求
type CreateLecturePeriodRequest struct {
	Name      string `json:"name"       binding:"required,notblank,max=100"`
	Number    int    `json:"number"     binding:"required,min=1,max=4"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	Status    string `json:"status"     binding:"omitempty,oneof=planned active closed"`
}

// UpdateLecturePeriodRequest 更新学期请求；is_current 只能通过 set-current 接口修改
type UpdateLecturePeriodRequest struct {
	Name      *string `json:"name"       binding:"omitempty,notblank,max=100"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"     binding:"omitempty,oneof=planned active closed"`
}

// LecturePeriodResponse 学期响应
type LecturePeriodResponse struct {
	ID        string `json:"id"`
	YearID    string `json:"year_id"`
	Name      string `json:"name"`
	Number    int    `json:"number"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
	IsCurrent bool   `json:"is_current"`
}
