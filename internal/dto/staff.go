package dto

// ── 教职工与学生 DTO ──

// CreateProfessorRequest 创建教师请求
type CreateProfessorRequest struct {
	FullName string `json:"full_name" binding:"required,notblank,max=200"`
	Email    string `json:"email"     binding:"required,email"`
	Phone    string `json:"phone"     binding:"omitempty,max=30"`
	Degree   string `json:"degree"    binding:"omitempty,max=100"`
	YearID   string `json:"year_id"   binding:"omitempty,uuid"` // 默认当前学年
	UserID   string `json:"user_id"   binding:"omitempty,uuid"`
}

// UpdateProfessorRequest 更新教师请求；编号不可修改
type UpdateProfessorRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,notblank,max=200"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	Phone    *string `json:"phone"     binding:"omitempty,max=30"`
	Degree   *string `json:"degree"    binding:"omitempty,max=100"`
	UserID   *string `json:"user_id"   binding:"omitempty,uuid"`
	Active   *bool   `json:"active"`
}

// ProfessorResponse 教师响应
type ProfessorResponse struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Degree   string  `json:"degree"`
	YearID   string  `json:"year_id"`
	UserID   *string `json:"user_id"`
	Active   bool    `json:"active"`
}

// StudentListRequest 学生列表查询参数
type StudentListRequest struct {
	PaginationRequest
	CourseID string `form:"course_id" binding:"omitempty,uuid"`
}

// StudentResponse 学生响应
type StudentResponse struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	EnrollmentID   string `json:"enrollment_id"`
	FullName       string `json:"full_name"`
	CourseID       string `json:"course_id"`
	YearID         string `json:"year_id"`
	CurricularYear int    `json:"curricular_year"`
	Active         bool   `json:"active"`
}
