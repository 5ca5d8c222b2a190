package dto

// ── 报名模块 DTO ──

// PriorGradeItem 既往科目成绩
type PriorGradeItem struct {
	SubjectID      string `json:"subject_id"      binding:"required,uuid"`
	Grade          string `json:"grade"           binding:"required,grade"`
	CompletionYear int    `json:"completion_year" binding:"omitempty,min=1900,max=2100"`
}

// SubmitEnrollmentRequest 公开报名请求
type SubmitEnrollmentRequest struct {
	FullName       string           `json:"full_name"       binding:"required,notblank,max=200"`
	Sex            string           `json:"sex"             binding:"required,oneof=M F"`
	BirthDate      string           `json:"birth_date"      binding:"required"` // "2005-03-14"
	IdentityCard   string           `json:"identity_card"   binding:"required,notblank,max=30"`
	Email          string           `json:"email"           binding:"required,email"`
	Phone          string           `json:"phone"           binding:"required,notblank,max=30"`
	Address        string           `json:"address"         binding:"omitempty,max=255"`
	CourseID       string           `json:"course_id"       binding:"required,uuid"`
	PreviousSchool string           `json:"previous_school" binding:"omitempty,max=200"`
	CompletionYear int              `json:"completion_year" binding:"omitempty,min=1900,max=2100"`
	PriorGrades    []PriorGradeItem `json:"prior_grades"    binding:"omitempty,dive"`
}

// EnrollmentListRequest 报名列表查询参数
type EnrollmentListRequest struct {
	PaginationRequest
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
	YearID       string `form:"year_id"       binding:"omitempty,uuid"`
	ApprovedOnly bool   `form:"approved_only"`
	Keyword      string `form:"keyword"       binding:"omitempty,max=50"`
}

// TestScoreEntry 一条入学考试成绩；score 为空字符串表示清除
type TestScoreEntry struct {
	EnrollmentID string `json:"enrollment_id"` // 逐条校验，非法 ID 只跳过该条
	Score        string `json:"score"`
}

// RecordTestScoresRequest 批量录入入学考试成绩
type RecordTestScoresRequest struct {
	Entries []TestScoreEntry `json:"entries" binding:"required,min=1,dive"`
}

// RunAdmissionRequest 执行录取排名请求
type RunAdmissionRequest struct {
	YearID string `json:"year_id" binding:"omitempty,uuid"` // 默认当前学年
}

// EnrollmentResponse 报名信息响应
type EnrollmentResponse struct {
	ID                  string  `json:"id"`
	Number              string  `json:"number"`
	FullName            string  `json:"full_name"`
	Sex                 string  `json:"sex"`
	BirthDate           string  `json:"birth_date"`
	IdentityCard        string  `json:"identity_card"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	Address             string  `json:"address"`
	CourseID            string  `json:"course_id"`
	CourseName          string  `json:"course_name,omitempty"`
	YearID              string  `json:"year_id"`
	TestScore           *string `json:"test_score"`
	Approved            bool    `json:"approved"`
	ResultAt            *string `json:"result_at"`
	EnrolledAt          string  `json:"enrolled_at"`
	MatriculationStatus string  `json:"matriculation_status"`
}

// EnrollmentStatusResponse 公开查询报名结果（不含联系方式）
type EnrollmentStatusResponse struct {
	Number              string  `json:"number"`
	FullName            string  `json:"full_name"`
	CourseName          string  `json:"course_name"`
	TestScore           *string `json:"test_score"`
	Approved            bool    `json:"approved"`
	ResultAt            *string `json:"result_at"`
	MatriculationStatus string  `json:"matriculation_status"`
}

// BatchError 批量操作中被跳过的条目
type BatchError struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult 批量操作结果：格式错误的条目被跳过，其余照常提交
type BatchResult struct {
	Total   int          `json:"total"`
	Applied int          `json:"applied"`
	Skipped int          `json:"skipped"`
	Errors  []BatchError `json:"errors,omitempty"`
}

// AdmissionResultResponse 一次录取排名的结果
type AdmissionResultResponse struct {
	RunID         string          `json:"run_id"`
	CourseID      string          `json:"course_id"`
	YearID        string          `json:"year_id"`
	Criterion     string          `json:"criterion"`
	Capacity      int             `json:"capacity"`
	MinimumScore  string          `json:"minimum_score"`
	EligibleCount int             `json:"eligible_count"`
	ApprovedCount int             `json:"approved_count"`
	Ranking       []RankingRecord `json:"ranking"`
	RunAt         string          `json:"run_at"`
}

// RankingRecord 排名中的一位候选人
type RankingRecord struct {
	Position     int    `json:"position"`
	EnrollmentID string `json:"enrollment_id"`
	Number       string `json:"number"`
	Score        string `json:"score"`
	Approved     bool   `json:"approved"`
}

// AdmissionRunResponse 录取排名审计记录
type AdmissionRunResponse struct {
	ID            string `json:"id"`
	CourseID      string `json:"course_id"`
	Criterion     string `json:"criterion"`
	Capacity      int    `json:"capacity"`
	MinimumScore  string `json:"minimum_score"`
	EligibleCount int    `json:"eligible_count"`
	ApprovedCount int    `json:"approved_count"`
	RunBy         string `json:"run_by,omitempty"`
	RunAt         string `json:"run_at"`
}

// PriorGradeResponse 既往成绩响应
type PriorGradeResponse struct {
	SubjectID      string `json:"subject_id"`
	Grade          string `json:"grade"`
	CompletionYear int    `json:"completion_year"`
}

// MatriculationResponse 注册结果
type MatriculationResponse struct {
	StudentID     string `json:"student_id"`
	StudentNumber string `json:"student_number"`
	EnrollmentID  string `json:"enrollment_id"`
	CourseID      string `json:"course_id"`
	YearID        string `json:"year_id"`
}
