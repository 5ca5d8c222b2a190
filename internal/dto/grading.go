package dto

// ── 成绩模块 DTO ──

// GradeEntry 一位学生的原始成绩，空字符串表示未录入
type GradeEntry struct {
	StudentID  string `json:"student_id"` // 逐条校验，非法 ID 只跳过该条
	Partial1   string `json:"partial1"`
	Partial2   string `json:"partial2"`
	Exam       string `json:"exam"`
	Retake     string `json:"retake"`
	Attendance string `json:"attendance"`
}

// RecordGradesRequest 批量录入成绩
type RecordGradesRequest struct {
	YearID      string       `json:"year_id"      binding:"required,uuid"`
	PeriodID    string       `json:"period_id"    binding:"required,uuid"`
	SubjectID   string       `json:"subject_id"   binding:"required,uuid"`
	ProfessorID string       `json:"professor_id" binding:"omitempty,uuid"`
	Entries     []GradeEntry `json:"entries"      binding:"required,min=1,dive"`
}

// SubjectEvaluationResponse 单科判定
type SubjectEvaluationResponse struct {
	SubjectID         string  `json:"subject_id"`
	SubjectCode       string  `json:"subject_code,omitempty"`
	SubjectName       string  `json:"subject_name,omitempty"`
	PeriodID          string  `json:"period_id"`
	CurricularYear    int     `json:"curricular_year"`
	Partial1          *string `json:"partial1"`
	Partial2          *string `json:"partial2"`
	Exam              *string `json:"exam"`
	Retake            *string `json:"retake"`
	Attendance        *string `json:"attendance"`
	ContinuousAverage *string `json:"continuous_average"`
	FinalGrade        *string `json:"final_grade"`
	Outcome           string  `json:"outcome"`
	Reason            string  `json:"reason"`
}

// StudentEvaluationResponse 学生某学年的全部科目判定
type StudentEvaluationResponse struct {
	StudentID string                      `json:"student_id"`
	YearID    string                      `json:"year_id"`
	Subjects  []SubjectEvaluationResponse `json:"subjects"`
	Approved  int                         `json:"approved"`
	Pending   int                         `json:"pending"`
	Failed    int                         `json:"failed"`
}

// ProgressionResponse 升级判定
type ProgressionResponse struct {
	StudentID      string   `json:"student_id"`
	CurrentYear    int      `json:"current_year"`
	TargetYear     int      `json:"target_year"`
	Allowed        bool     `json:"allowed"`
	Behind         int      `json:"behind"`
	BehindSubjects []string `json:"behind_subject_ids,omitempty"`
	BarrierYear    bool     `json:"barrier_year"`
	Reason         string   `json:"reason,omitempty"`
}
