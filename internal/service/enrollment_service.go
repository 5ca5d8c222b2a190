package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 报名模块业务错误 ──

var (
	ErrEnrollmentNotFound    = fmt.Errorf("%w: 报名记录不存在", apperrors.ErrNotFound)
	ErrEnrollmentClosed      = fmt.Errorf("%w: 当前不在报名期内", apperrors.ErrPolicyViolation)
	ErrEnrollmentDuplicate   = fmt.Errorf("%w: 证件号、邮箱或电话已被其他报名使用", apperrors.ErrConflict)
	ErrEnrollmentNotApproved = fmt.Errorf("%w: 报名尚未被录取", apperrors.ErrPolicyViolation)
	ErrAlreadyMatriculated   = fmt.Errorf("%w: 该报名已完成注册", apperrors.ErrConflict)
	ErrNotMatriculated       = fmt.Errorf("%w: 该报名尚未注册", apperrors.ErrPolicyViolation)
	ErrNoSeatsAvailable      = fmt.Errorf("%w: 课程名额已满", apperrors.ErrPolicyViolation)
	ErrPriorGradeSubject     = fmt.Errorf("%w: 既往成绩中的科目不存在", apperrors.ErrValidation)
	ErrPriorGradeDuplicate   = fmt.Errorf("%w: 既往成绩中存在重复科目", apperrors.ErrValidation)
)

// admissionRunHistory 默认返回的排名审计条数
const admissionRunHistory = 20

// EnrollmentService 报名、入学考试、录取排名与注册
type EnrollmentService interface {
	// Submit 公开报名：受当前学年报名期限制，分配 INS 编号
	Submit(ctx context.Context, req *dto.SubmitEnrollmentRequest) (*dto.EnrollmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EnrollmentResponse, error)
	// GetStatus 公开按报名号查询结果
	GetStatus(ctx context.Context, number string) (*dto.EnrollmentStatusResponse, error)
	List(ctx context.Context, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, int64, error)

	// RecordTestScores 批量录入入学考试成绩；格式错误的条目跳过，其余同一事务提交
	RecordTestScores(ctx context.Context, req *dto.RecordTestScoresRequest, callerID string) (*dto.BatchResult, error)
	// RunAdmission 按课程与学年重新排名并写入录取结果
	RunAdmission(ctx context.Context, courseID string, req *dto.RunAdmissionRequest, callerID string) (*dto.AdmissionResultResponse, error)
	ListAdmissionRuns(ctx context.Context, courseID string) ([]dto.AdmissionRunResponse, error)

	// Eligibility 用既往成绩判定是否满足课程先修要求
	Eligibility(ctx context.Context, enrollmentID string) (*rules.EligibilityResult, error)
	UpsertPriorGrade(ctx context.Context, enrollmentID string, item *dto.PriorGradeItem, callerID string) (*dto.PriorGradeResponse, error)
	ListPriorGrades(ctx context.Context, enrollmentID string) ([]dto.PriorGradeResponse, error)

	// Matriculate 录取后注册为学生，分配 ALU 编号
	Matriculate(ctx context.Context, enrollmentID string, callerID string) (*dto.MatriculationResponse, error)
	CancelMatriculation(ctx context.Context, enrollmentID string, callerID string) error
}

type enrollmentService struct {
	repo      *repository.Repository
	academics AcademicConfigService
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, cfg config.AcademicConfig, academics AcademicConfigService, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		academics: academics,
		loc:       cfg.Location(),
		now:       time.Now,
		logger:    logger,
	}
}

// ════════════════════════ 报名 ════════════════════════

func (s *enrollmentService) Submit(ctx context.Context, req *dto.SubmitEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	year, err := s.openYear(ctx)
	if err != nil {
		return nil, err
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", req.CourseID), zap.Error(err))
		return nil, err
	}
	if !course.Active {
		return nil, ErrCourseInactive
	}

	birth, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	grades, err := s.parsePriorGrades(ctx, req.PriorGrades)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	identity := strings.TrimSpace(req.IdentityCard)
	phone := strings.TrimSpace(req.Phone)
	if _, err := s.repo.Enrollment.FindDuplicate(ctx, identity, email, phone); err == nil {
		return nil, ErrEnrollmentDuplicate
	} else if !isNotFound(err) {
		s.logger.Error("检查重复报名失败", zap.Error(err))
		return nil, err
	}

	e := &model.Enrollment{
		FullName:            strings.TrimSpace(req.FullName),
		Sex:                 model.Sex(req.Sex),
		BirthDate:           birth,
		IdentityCard:        identity,
		Email:               email,
		Phone:               phone,
		Address:             strings.TrimSpace(req.Address),
		CourseID:            course.CourseID,
		YearID:              year.YearID,
		EnrolledAt:          s.now(),
		MatriculationStatus: model.MatriculationPending,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		n, err := tx.Sequence.Next(ctx, rules.ScopeEnrollment)
		if err != nil {
			return err
		}
		e.Number = rules.EnrollmentNumber(n)
		if err := tx.Enrollment.Create(ctx, e); err != nil {
			return err
		}

		if req.PreviousSchool == "" && req.CompletionYear == 0 && len(grades) == 0 {
			return nil
		}
		h := &model.AcademicHistory{
			EnrollmentID:   e.EnrollmentID,
			PreviousSchool: strings.TrimSpace(req.PreviousSchool),
			CompletionYear: req.CompletionYear,
		}
		if err := tx.History.Create(ctx, h); err != nil {
			return err
		}
		for i := range grades {
			grades[i].HistoryID = h.HistoryID
			if err := tx.History.UpsertGrade(ctx, &grades[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrEnrollmentDuplicate
		}
		s.logger.Error("提交报名失败", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}
	e.Course = course

	s.logger.Info("报名已提交",
		zap.String("number", e.Number),
		zap.String("course_id", course.CourseID),
		zap.String("year_id", year.YearID),
	)
	return toEnrollmentResponse(e), nil
}

// openYear 当前学年存在且今天处于报名期
func (s *enrollmentService) openYear(ctx context.Context) (*model.AcademicYear, error) {
	year, err := s.repo.AcademicYear.GetCurrent(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEnrollmentClosed
		}
		s.logger.Error("查询当前学年失败", zap.Error(err))
		return nil, err
	}

	events, err := s.repo.CalendarEvent.ListByYearAndType(ctx, year.YearID, model.EventEnrollment)
	if err != nil {
		s.logger.Error("查询报名期失败", zap.String("year_id", year.YearID), zap.Error(err))
		return nil, err
	}
	if !rules.EnrollmentsOpen(events, rules.CivilDate(s.now(), s.loc)) {
		return nil, ErrEnrollmentClosed
	}
	return year, nil
}

func (s *enrollmentService) parsePriorGrades(ctx context.Context, items []dto.PriorGradeItem) ([]model.SubjectGrade, error) {
	grades := make([]model.SubjectGrade, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.SubjectID] {
			return nil, ErrPriorGradeDuplicate
		}
		seen[item.SubjectID] = true

		g, err := s.buildPriorGrade(ctx, &item)
		if err != nil {
			return nil, err
		}
		grades = append(grades, *g)
	}
	return grades, nil
}

func (s *enrollmentService) buildPriorGrade(ctx context.Context, item *dto.PriorGradeItem) (*model.SubjectGrade, error) {
	if _, err := s.repo.Subject.GetByID(ctx, item.SubjectID); err != nil {
		if isNotFound(err) {
			return nil, ErrPriorGradeSubject
		}
		s.logger.Error("查询科目失败", zap.String("id", item.SubjectID), zap.Error(err))
		return nil, err
	}
	grade, err := parseRequiredScore(item.Grade)
	if err != nil {
		return nil, err
	}
	return &model.SubjectGrade{
		SubjectID:      item.SubjectID,
		Grade:          grade,
		CompletionYear: item.CompletionYear,
	}, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, id string) (*dto.EnrollmentResponse, error) {
	e, err := s.getEnrollment(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toEnrollmentResponse(e), nil
}

func (s *enrollmentService) GetStatus(ctx context.Context, number string) (*dto.EnrollmentStatusResponse, error) {
	e, err := s.repo.Enrollment.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("按编号查询报名失败", zap.String("number", number), zap.Error(err))
		return nil, err
	}

	resp := &dto.EnrollmentStatusResponse{
		Number:              e.Number,
		FullName:            e.FullName,
		TestScore:           decPtrStr(e.TestScore),
		Approved:            e.Approved,
		ResultAt:            formatTimePtr(e.ResultAt),
		MatriculationStatus: string(e.MatriculationStatus),
	}
	if e.Course != nil {
		resp.CourseName = e.Course.Name
	}
	return resp, nil
}

func (s *enrollmentService) List(ctx context.Context, req *dto.EnrollmentListRequest) ([]dto.EnrollmentResponse, int64, error) {
	filter := repository.EnrollmentFilter{
		CourseID:     req.CourseID,
		YearID:       req.YearID,
		ApprovedOnly: req.ApprovedOnly,
		Search:       strings.TrimSpace(req.Keyword),
	}
	list, total, err := s.repo.Enrollment.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出报名失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EnrollmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toEnrollmentResponse(&list[i]))
	}
	return result, total, nil
}

// ════════════════════════ 入学考试与排名 ════════════════════════

func (s *enrollmentService) RecordTestScores(ctx context.Context, req *dto.RecordTestScoresRequest, callerID string) (*dto.BatchResult, error) {
	type parsed struct {
		index int
		id    string
		score *decimal.Decimal
	}

	result := &dto.BatchResult{Total: len(req.Entries)}
	valid := make([]parsed, 0, len(req.Entries))
	for i, entry := range req.Entries {
		if err := checkEntryID(entry.EnrollmentID); err != nil {
			result.Errors = append(result.Errors, dto.BatchError{Index: i, ID: entry.EnrollmentID, Reason: err.Error()})
			continue
		}
		score, err := rules.ParseScore(entry.Score)
		if err != nil {
			result.Errors = append(result.Errors, dto.BatchError{Index: i, ID: entry.EnrollmentID, Reason: err.Error()})
			continue
		}
		valid = append(valid, parsed{index: i, id: entry.EnrollmentID, score: score})
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for _, p := range valid {
			n, err := tx.Enrollment.SetTestScore(ctx, p.id, p.score)
			if err != nil {
				return err
			}
			if n == 0 {
				result.Errors = append(result.Errors, dto.BatchError{Index: p.index, ID: p.id, Reason: ErrEnrollmentNotFound.Error()})
				continue
			}
			result.Applied++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("录入入学考试成绩失败", zap.Error(err))
		return nil, err
	}
	result.Skipped = result.Total - result.Applied

	s.logger.Info("入学考试成绩已录入",
		zap.String("by", callerID),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *enrollmentService) RunAdmission(ctx context.Context, courseID string, req *dto.RunAdmissionRequest, callerID string) (*dto.AdmissionResultResponse, error) {
	yearID := req.YearID
	if yearID == "" {
		year, err := s.repo.AcademicYear.GetCurrent(ctx)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrNoCurrentAcademicYear
			}
			s.logger.Error("查询当前学年失败", zap.Error(err))
			return nil, err
		}
		yearID = year.YearID
	} else if _, err := s.repo.AcademicYear.GetByID(ctx, yearID); err != nil {
		if isNotFound(err) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", yearID), zap.Error(err))
		return nil, err
	}

	criterion, err := s.academics.TieBreak(ctx)
	if err != nil {
		return nil, err
	}
	cmp, err := rules.LookupTieBreak(criterion)
	if err != nil {
		return nil, err
	}

	var (
		course  *model.Course
		ranking []dto.RankingRecord
		run     *model.AdmissionRun
	)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		course, err = tx.Course.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			if isNotFound(err) {
				return ErrCourseNotFound
			}
			return err
		}

		list, err := tx.Enrollment.ListRankable(ctx, courseID, yearID)
		if err != nil {
			return err
		}
		candidates := make([]rules.Candidate, 0, len(list))
		for _, e := range list {
			candidates = append(candidates, rules.Candidate{
				ID:         e.EnrollmentID,
				Number:     e.Number,
				Score:      e.TestScore,
				BirthDate:  e.BirthDate,
				EnrolledAt: e.EnrolledAt,
				Sex:        e.Sex,
			})
		}

		res := rules.RankAdmissions(candidates, course.Capacity, course.MinimumScore, cmp)
		ranking = toRankingRecords(res)

		at := s.now()
		if err := tx.Enrollment.ResetApproval(ctx, courseID, yearID); err != nil {
			return err
		}
		if err := tx.Enrollment.Approve(ctx, res.Approved, at); err != nil {
			return err
		}

		snapshot, err := json.Marshal(ranking)
		if err != nil {
			return err
		}
		run = &model.AdmissionRun{
			CourseID:      courseID,
			YearID:        yearID,
			Criterion:     string(criterion),
			Capacity:      course.Capacity,
			MinimumScore:  course.MinimumScore,
			EligibleCount: res.Eligible(),
			ApprovedCount: len(res.Approved),
			Snapshot:      datatypes.JSON(snapshot),
			RunBy:         &callerID,
			RunAt:         at,
		}
		return tx.AdmissionRun.Create(ctx, run)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("执行录取排名失败", zap.String("course_id", courseID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("录取排名完成",
		zap.String("course_id", courseID),
		zap.String("year_id", yearID),
		zap.String("criterion", run.Criterion),
		zap.Int("eligible", run.EligibleCount),
		zap.Int("approved", run.ApprovedCount),
	)
	return &dto.AdmissionResultResponse{
		RunID:         run.RunID,
		CourseID:      courseID,
		YearID:        yearID,
		Criterion:     run.Criterion,
		Capacity:      run.Capacity,
		MinimumScore:  decStr(run.MinimumScore),
		EligibleCount: run.EligibleCount,
		ApprovedCount: run.ApprovedCount,
		Ranking:       ranking,
		RunAt:         formatTime(run.RunAt),
	}, nil
}

func toRankingRecords(res rules.RankingResult) []dto.RankingRecord {
	approved := make(map[string]bool, len(res.Approved))
	for _, id := range res.Approved {
		approved[id] = true
	}
	records := make([]dto.RankingRecord, 0, len(res.Ranked))
	for i, c := range res.Ranked {
		records = append(records, dto.RankingRecord{
			Position:     i + 1,
			EnrollmentID: c.ID,
			Number:       c.Number,
			Score:        decStr(*c.Score),
			Approved:     approved[c.ID],
		})
	}
	return records
}

func (s *enrollmentService) ListAdmissionRuns(ctx context.Context, courseID string) ([]dto.AdmissionRunResponse, error) {
	runs, err := s.repo.AdmissionRun.ListByCourse(ctx, courseID, admissionRunHistory)
	if err != nil {
		s.logger.Error("查询录取记录失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AdmissionRunResponse, 0, len(runs))
	for _, r := range runs {
		item := dto.AdmissionRunResponse{
			ID:            r.RunID,
			CourseID:      r.CourseID,
			Criterion:     r.Criterion,
			Capacity:      r.Capacity,
			MinimumScore:  decStr(r.MinimumScore),
			EligibleCount: r.EligibleCount,
			ApprovedCount: r.ApprovedCount,
			RunAt:         formatTime(r.RunAt),
		}
		if r.RunBy != nil {
			item.RunBy = *r.RunBy
		}
		result = append(result, item)
	}
	return result, nil
}

// ════════════════════════ 既往成绩与先修资格 ════════════════════════

func (s *enrollmentService) Eligibility(ctx context.Context, enrollmentID string) (*rules.EligibilityResult, error) {
	e, err := s.getEnrollment(ctx, s.repo, enrollmentID)
	if err != nil {
		return nil, err
	}

	reqs, err := s.repo.Prerequisite.ListByCourse(ctx, e.CourseID)
	if err != nil {
		s.logger.Error("查询先修要求失败", zap.String("course_id", e.CourseID), zap.Error(err))
		return nil, err
	}
	requirements := make([]rules.Requirement, 0, len(reqs))
	for _, r := range reqs {
		item := rules.Requirement{SubjectID: r.SubjectID, Minimum: r.MinimumGrade, Mandatory: r.Mandatory}
		if r.Subject != nil {
			item.SubjectName = r.Subject.Name
		}
		requirements = append(requirements, item)
	}

	grades := map[string]decimal.Decimal{}
	h, err := s.repo.History.GetByEnrollment(ctx, enrollmentID)
	if err != nil && !isNotFound(err) {
		s.logger.Error("查询既往成绩失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		return nil, err
	}
	if h != nil {
		for _, g := range h.Grades {
			grades[g.SubjectID] = g.Grade
		}
	}

	result := rules.CheckEligibility(requirements, grades)
	return &result, nil
}

func (s *enrollmentService) UpsertPriorGrade(ctx context.Context, enrollmentID string, item *dto.PriorGradeItem, callerID string) (*dto.PriorGradeResponse, error) {
	if _, err := s.getEnrollment(ctx, s.repo, enrollmentID); err != nil {
		return nil, err
	}
	g, err := s.buildPriorGrade(ctx, item)
	if err != nil {
		return nil, err
	}
	g.CreatedBy = &callerID
	g.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		h, err := tx.History.GetByEnrollment(ctx, enrollmentID)
		if err != nil {
			if !isNotFound(err) {
				return err
			}
			h = &model.AcademicHistory{EnrollmentID: enrollmentID}
			h.CreatedBy = &callerID
			if err := tx.History.Create(ctx, h); err != nil {
				return err
			}
		}
		g.HistoryID = h.HistoryID
		return tx.History.UpsertGrade(ctx, g)
	})
	if err != nil {
		s.logger.Error("保存既往成绩失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		return nil, err
	}

	return &dto.PriorGradeResponse{SubjectID: g.SubjectID, Grade: decStr(g.Grade), CompletionYear: g.CompletionYear}, nil
}

func (s *enrollmentService) ListPriorGrades(ctx context.Context, enrollmentID string) ([]dto.PriorGradeResponse, error) {
	if _, err := s.getEnrollment(ctx, s.repo, enrollmentID); err != nil {
		return nil, err
	}
	h, err := s.repo.History.GetByEnrollment(ctx, enrollmentID)
	if err != nil {
		if isNotFound(err) {
			return []dto.PriorGradeResponse{}, nil
		}
		s.logger.Error("查询既往成绩失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PriorGradeResponse, 0, len(h.Grades))
	for _, g := range h.Grades {
		result = append(result, dto.PriorGradeResponse{SubjectID: g.SubjectID, Grade: decStr(g.Grade), CompletionYear: g.CompletionYear})
	}
	return result, nil
}

// ════════════════════════ 注册 ════════════════════════

func (s *enrollmentService) Matriculate(ctx context.Context, enrollmentID string, callerID string) (*dto.MatriculationResponse, error) {
	var (
		e       *model.Enrollment
		student *model.Student
	)
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		e, err = s.getEnrollment(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		if !e.Approved {
			return ErrEnrollmentNotApproved
		}
		if e.MatriculationStatus == model.MatriculationDone {
			return ErrAlreadyMatriculated
		}

		course, err := tx.Course.GetByIDForUpdate(ctx, e.CourseID)
		if err != nil {
			return err
		}
		taken, err := tx.Course.CountMatriculated(ctx, course.CourseID, e.YearID)
		if err != nil {
			return err
		}
		if taken >= int64(course.Capacity) {
			return ErrNoSeatsAvailable
		}

		// 取消过注册的报名沿用原学号
		student, err = tx.Student.GetByEnrollment(ctx, enrollmentID)
		switch {
		case err == nil:
			student.Active = true
			student.UpdatedBy = &callerID
			if err := tx.Student.Update(ctx, student); err != nil {
				return err
			}
		case isNotFound(err):
			n, err := tx.Sequence.Next(ctx, rules.ScopeStudent)
			if err != nil {
				return err
			}
			student = &model.Student{
				Number:         rules.StudentNumber(n),
				EnrollmentID:   e.EnrollmentID,
				FullName:       e.FullName,
				CourseID:       e.CourseID,
				YearID:         e.YearID,
				CurricularYear: 1,
				Active:         true,
			}
			student.CreatedBy = &callerID
			student.UpdatedBy = &callerID
			if err := tx.Student.Create(ctx, student); err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Enrollment.SetMatriculationStatus(ctx, enrollmentID, model.MatriculationDone)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("注册失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("报名已注册为学生",
		zap.String("enrollment", e.Number),
		zap.String("student", student.Number),
	)
	return &dto.MatriculationResponse{
		StudentID:     student.StudentID,
		StudentNumber: student.Number,
		EnrollmentID:  e.EnrollmentID,
		CourseID:      e.CourseID,
		YearID:        e.YearID,
	}, nil
}

func (s *enrollmentService) CancelMatriculation(ctx context.Context, enrollmentID string, callerID string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		e, err := s.getEnrollment(ctx, tx, enrollmentID)
		if err != nil {
			return err
		}
		if e.MatriculationStatus != model.MatriculationDone {
			return ErrNotMatriculated
		}

		student, err := tx.Student.GetByEnrollment(ctx, enrollmentID)
		if err != nil && !isNotFound(err) {
			return err
		}
		if student != nil {
			student.Active = false
			student.UpdatedBy = &callerID
			if err := tx.Student.Update(ctx, student); err != nil {
				return err
			}
		}
		return tx.Enrollment.SetMatriculationStatus(ctx, enrollmentID, model.MatriculationPending)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("取消注册失败", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		}
		return err
	}

	s.logger.Info("注册已取消", zap.String("enrollment_id", enrollmentID), zap.String("by", callerID))
	return nil
}

// ── 辅助 ──

func (s *enrollmentService) getEnrollment(ctx context.Context, repo *repository.Repository, id string) (*model.Enrollment, error) {
	e, err := repo.Enrollment.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询报名失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return e, nil
}

func toEnrollmentResponse(e *model.Enrollment) *dto.EnrollmentResponse {
	resp := &dto.EnrollmentResponse{
		ID:                  e.EnrollmentID,
		Number:              e.Number,
		FullName:            e.FullName,
		Sex:                 string(e.Sex),
		BirthDate:           formatDate(e.BirthDate),
		IdentityCard:        e.IdentityCard,
		Email:               e.Email,
		Phone:               e.Phone,
		Address:             e.Address,
		CourseID:            e.CourseID,
		YearID:              e.YearID,
		TestScore:           decPtrStr(e.TestScore),
		Approved:            e.Approved,
		ResultAt:            formatTimePtr(e.ResultAt),
		EnrolledAt:          formatTime(e.EnrolledAt),
		MatriculationStatus: string(e.MatriculationStatus),
	}
	if e.Course != nil {
		resp.CourseName = e.Course.Name
	}
	return resp
}
