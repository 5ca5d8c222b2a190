package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 成绩模块业务错误 ──

var (
	ErrStudentNotFound       = fmt.Errorf("%w: 学生不存在", apperrors.ErrNotFound)
	ErrProfessorNotFound     = fmt.Errorf("%w: 教师不存在", apperrors.ErrNotFound)
	ErrPeriodYearMismatch    = fmt.Errorf("%w: 学期不属于该学年", apperrors.ErrValidation)
	ErrStudentCourseMismatch = fmt.Errorf("%w: 学生不属于该科目所在课程", apperrors.ErrValidation)
	ErrStudentInactive       = fmt.Errorf("%w: 学生已停用", apperrors.ErrPolicyViolation)
)

// GradingService 成绩录入、科目判定与升级判定
type GradingService interface {
	// RecordGrades 批量录入某学期某科目的成绩；无法解析的条目跳过，其余同一事务提交
	RecordGrades(ctx context.Context, req *dto.RecordGradesRequest, callerID string) (*dto.BatchResult, error)
	// EvaluateStudent 按当前生效策略重新判定学生在某学年的全部科目；yearID 为空时不限学年
	EvaluateStudent(ctx context.Context, studentID, yearID string) (*dto.StudentEvaluationResponse, error)
	// CheckProgression 统计欠科并应用门槛年级规则
	CheckProgression(ctx context.Context, studentID string) (*dto.ProgressionResponse, error)
}

type gradingService struct {
	repo      *repository.Repository
	cfg       config.AcademicConfig
	academics AcademicConfigService
	now       func() time.Time
	logger    *zap.Logger
}

// NewGradingService 创建 GradingService 实例
func NewGradingService(repo *repository.Repository, cfg config.AcademicConfig, academics AcademicConfigService, logger *zap.Logger) GradingService {
	return &gradingService{
		repo:      repo,
		cfg:       cfg,
		academics: academics,
		now:       time.Now,
		logger:    logger,
	}
}

// ────────────────────── RecordGrades ──────────────────────

func (s *gradingService) RecordGrades(ctx context.Context, req *dto.RecordGradesRequest, callerID string) (*dto.BatchResult, error) {
	subject, err := s.checkGradeContext(ctx, req)
	if err != nil {
		return nil, err
	}
	policy, err := s.academics.ResolvePolicy(ctx, subject.CourseID)
	if err != nil {
		return nil, err
	}
	flags := rules.FlagsOf(*subject)

	var professorID *string
	if req.ProfessorID != "" {
		professorID = strPtr(req.ProfessorID)
	}

	result := &dto.BatchResult{Total: len(req.Entries)}
	skip := func(i int, id string, err error) {
		result.Errors = append(result.Errors, dto.BatchError{Index: i, ID: id, Reason: err.Error()})
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i, entry := range req.Entries {
			if err := checkEntryID(entry.StudentID); err != nil {
				skip(i, entry.StudentID, err)
				continue
			}
			sheet, err := parseScoreSheet(&entry)
			if err != nil {
				skip(i, entry.StudentID, err)
				continue
			}

			student, err := tx.Student.GetByID(ctx, entry.StudentID)
			if err != nil {
				if isNotFound(err) {
					skip(i, entry.StudentID, ErrStudentNotFound)
					continue
				}
				return err
			}
			if student.CourseID != subject.CourseID {
				skip(i, entry.StudentID, ErrStudentCourseMismatch)
				continue
			}
			if !student.Active {
				skip(i, entry.StudentID, ErrStudentInactive)
				continue
			}

			ev := rules.EvaluateSubject(flags, sheet, policy)
			g := &model.StudentGrade{
				StudentID:         student.StudentID,
				SubjectID:         subject.SubjectID,
				PeriodID:          req.PeriodID,
				YearID:            req.YearID,
				ProfessorID:       professorID,
				Partial1:          sheet.Partial1,
				Partial2:          sheet.Partial2,
				Exam:              sheet.Exam,
				Retake:            sheet.Retake,
				Attendance:        sheet.Attendance,
				ContinuousAverage: ev.ContinuousAverage,
				FinalGrade:        ev.FinalGrade,
				Outcome:           string(ev.Outcome),
				Reason:            ev.Reason,
				EvaluatedAt:       s.now(),
			}
			g.CreatedBy = &callerID
			g.UpdatedBy = &callerID
			if err := tx.StudentGrade.Upsert(ctx, g); err != nil {
				return err
			}
			result.Applied++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("录入成绩失败",
			zap.String("subject_id", req.SubjectID),
			zap.String("period_id", req.PeriodID),
			zap.Error(err),
		)
		return nil, err
	}
	result.Skipped = result.Total - result.Applied

	s.logger.Info("成绩已录入",
		zap.String("subject_id", req.SubjectID),
		zap.String("period_id", req.PeriodID),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// checkGradeContext 校验学年可编辑、学期属于学年、科目与教师存在
func (s *gradingService) checkGradeContext(ctx context.Context, req *dto.RecordGradesRequest) (*model.Subject, error) {
	year, err := s.repo.AcademicYear.GetByID(ctx, req.YearID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", req.YearID), zap.Error(err))
		return nil, err
	}
	if err := rules.GuardYearEdit(year.Status, s.cfg.EnforceClosedYear); err != nil {
		return nil, err
	}

	period, err := s.repo.LecturePeriod.GetByID(ctx, req.PeriodID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLecturePeriodNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", req.PeriodID), zap.Error(err))
		return nil, err
	}
	if period.YearID != year.YearID {
		return nil, ErrPeriodYearMismatch
	}

	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", req.SubjectID), zap.Error(err))
		return nil, err
	}

	if req.ProfessorID != "" {
		if _, err := s.repo.Professor.GetByID(ctx, req.ProfessorID); err != nil {
			if isNotFound(err) {
				return nil, ErrProfessorNotFound
			}
			s.logger.Error("查询教师失败", zap.String("id", req.ProfessorID), zap.Error(err))
			return nil, err
		}
	}
	return subject, nil
}

// parseScoreSheet 空字符串表示未录入
func parseScoreSheet(e *dto.GradeEntry) (rules.ScoreSheet, error) {
	var (
		sheet rules.ScoreSheet
		err   error
	)
	if sheet.Partial1, err = rules.ParseScore(e.Partial1); err != nil {
		return sheet, fmt.Errorf("partial1: %w", err)
	}
	if sheet.Partial2, err = rules.ParseScore(e.Partial2); err != nil {
		return sheet, fmt.Errorf("partial2: %w", err)
	}
	if sheet.Exam, err = rules.ParseScore(e.Exam); err != nil {
		return sheet, fmt.Errorf("exam: %w", err)
	}
	if sheet.Retake, err = rules.ParseScore(e.Retake); err != nil {
		return sheet, fmt.Errorf("retake: %w", err)
	}
	if sheet.Attendance, err = rules.ParsePercent(e.Attendance); err != nil {
		return sheet, fmt.Errorf("attendance: %w", err)
	}
	return sheet, nil
}

// ────────────────────── EvaluateStudent ──────────────────────

func (s *gradingService) EvaluateStudent(ctx context.Context, studentID, yearID string) (*dto.StudentEvaluationResponse, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	policy, err := s.academics.ResolvePolicy(ctx, student.CourseID)
	if err != nil {
		return nil, err
	}

	grades, err := s.repo.StudentGrade.ListByStudent(ctx, studentID, yearID)
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StudentEvaluationResponse{
		StudentID: studentID,
		YearID:    yearID,
		Subjects:  make([]dto.SubjectEvaluationResponse, 0, len(grades)),
	}
	for _, g := range grades {
		item := dto.SubjectEvaluationResponse{
			SubjectID:  g.SubjectID,
			PeriodID:   g.PeriodID,
			Partial1:   decPtrStr(g.Partial1),
			Partial2:   decPtrStr(g.Partial2),
			Exam:       decPtrStr(g.Exam),
			Retake:     decPtrStr(g.Retake),
			Attendance: decPtrStr(g.Attendance),
		}

		if g.Subject != nil {
			item.SubjectCode = g.Subject.Code
			item.SubjectName = g.Subject.Name
			item.CurricularYear = g.Subject.CurricularYear
		}
		ev := evaluateGrade(&g, g.Subject, policy)
		item.ContinuousAverage = decPtrStr(ev.ContinuousAverage)
		item.FinalGrade = decPtrStr(ev.FinalGrade)
		item.Outcome = string(ev.Outcome)
		item.Reason = ev.Reason

		switch {
		case ev.Outcome.Approved():
			resp.Approved++
		case ev.Outcome.Settled():
			resp.Failed++
		default:
			resp.Pending++
		}
		resp.Subjects = append(resp.Subjects, item)
	}
	return resp, nil
}

// evaluateGrade 按当前策略重新判定；科目缺失时只能沿用录入时保存的结果
func evaluateGrade(g *model.StudentGrade, subject *model.Subject, policy rules.Policy) rules.Evaluation {
	if subject == nil {
		return rules.Evaluation{
			Outcome:           rules.Outcome(g.Outcome),
			Reason:            g.Reason,
			ContinuousAverage: g.ContinuousAverage,
			FinalGrade:        g.FinalGrade,
		}
	}
	return rules.EvaluateSubject(rules.FlagsOf(*subject), sheetOf(g), policy)
}

func sheetOf(g *model.StudentGrade) rules.ScoreSheet {
	return rules.ScoreSheet{
		Partial1:   g.Partial1,
		Partial2:   g.Partial2,
		Exam:       g.Exam,
		Retake:     g.Retake,
		Attendance: g.Attendance,
	}
}

// ────────────────────── CheckProgression ──────────────────────

func (s *gradingService) CheckProgression(ctx context.Context, studentID string) (*dto.ProgressionResponse, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	policy, err := s.academics.ResolvePolicy(ctx, student.CourseID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.repo.Subject.ListByCourse(ctx, student.CourseID)
	if err != nil {
		s.logger.Error("列出科目失败", zap.String("course_id", student.CourseID), zap.Error(err))
		return nil, err
	}
	grades, err := s.repo.StudentGrade.ListByStudent(ctx, studentID, "")
	if err != nil {
		s.logger.Error("查询学生成绩失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	bySubject := make(map[string]*model.Subject, len(subjects))
	for i := range subjects {
		bySubject[subjects[i].SubjectID] = &subjects[i]
	}

	// 结果按当前策略重新判定，与 EvaluateStudent 一致；同一科目任一记录通过即视为通过
	best := make(map[string]rules.Outcome, len(grades))
	for i := range grades {
		g := &grades[i]
		subject := g.Subject
		if subject == nil {
			subject = bySubject[g.SubjectID]
		}
		outcome := evaluateGrade(g, subject, policy).Outcome
		if prev, ok := best[g.SubjectID]; ok && prev.Approved() {
			continue
		}
		best[g.SubjectID] = outcome
	}

	progress := make([]rules.SubjectProgress, 0, len(subjects))
	for _, sub := range subjects {
		if !sub.Active {
			continue
		}
		progress = append(progress, rules.SubjectProgress{
			SubjectID:      sub.SubjectID,
			CurricularYear: sub.CurricularYear,
			Outcome:        best[sub.SubjectID],
		})
	}

	res := rules.CheckProgression(progress, student.CurricularYear, policy)
	return &dto.ProgressionResponse{
		StudentID:      studentID,
		CurrentYear:    student.CurricularYear,
		TargetYear:     res.TargetYear,
		Allowed:        res.Allowed,
		Behind:         res.Behind,
		BehindSubjects: res.BehindIDs,
		BarrierYear:    res.BarrierYear,
		Reason:         res.Reason,
	}, nil
}

// ── 辅助 ──

func (s *gradingService) getStudent(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}
