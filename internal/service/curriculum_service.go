package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 课程体系业务错误 ──

var (
	ErrLevelNotFound           = fmt.Errorf("%w: 学历层次不存在", apperrors.ErrNotFound)
	ErrLevelCodeExists         = fmt.Errorf("%w: 学历层次代码已存在", apperrors.ErrConflict)
	ErrLevelScaleInvalid       = fmt.Errorf("%w: 评分区间上限必须大于下限", apperrors.ErrValidation)
	ErrCourseNotFound          = fmt.Errorf("%w: 课程不存在", apperrors.ErrNotFound)
	ErrCourseCodeExists        = fmt.Errorf("%w: 课程代码已存在", apperrors.ErrConflict)
	ErrCourseInactive          = fmt.Errorf("%w: 课程已停用", apperrors.ErrPolicyViolation)
	ErrPrerequisiteForeign     = fmt.Errorf("%w: 先修科目不存在", apperrors.ErrValidation)
	ErrPrerequisiteDuplicate   = fmt.Errorf("%w: 先修要求中存在重复科目", apperrors.ErrValidation)
	ErrCurriculumGradeNotFound = fmt.Errorf("%w: 课程方案不存在", apperrors.ErrNotFound)
	ErrCurriculumGradeExists   = fmt.Errorf("%w: 该课程已存在相同版本号的方案", apperrors.ErrConflict)
	ErrCurriculumGradeObsolete = fmt.Errorf("%w: 已废弃的课程方案不能重新启用", apperrors.ErrPolicyViolation)
)

// CurriculumService 学历层次、课程、课程方案与入学先修要求
type CurriculumService interface {
	// ── 学历层次 ──
	CreateLevel(ctx context.Context, req *dto.AcademicLevelRequest, callerID string) (*dto.AcademicLevelResponse, error)
	GetLevel(ctx context.Context, id string) (*dto.AcademicLevelResponse, error)
	ListLevels(ctx context.Context) ([]dto.AcademicLevelResponse, error)
	UpdateLevel(ctx context.Context, id string, req *dto.AcademicLevelRequest, callerID string) (*dto.AcademicLevelResponse, error)

	// ── 课程 ──
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context, activeOnly bool) ([]dto.CourseResponse, error)
	UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	ToggleActive(ctx context.Context, id string, callerID string) (*dto.CourseResponse, error)
	// AvailableSeats max(0, 容量 - 当前学年已录取人数)
	AvailableSeats(ctx context.Context, courseID string) (int64, error)
	SetPrerequisites(ctx context.Context, courseID string, req *dto.SetPrerequisitesRequest, callerID string) ([]dto.PrerequisiteResponse, error)
	ListPrerequisites(ctx context.Context, courseID string) ([]dto.PrerequisiteResponse, error)

	// ── 课程方案 ──
	CreateGrade(ctx context.Context, courseID string, req *dto.CurriculumGradeRequest, callerID string) (*dto.CurriculumGradeResponse, error)
	GetGrade(ctx context.Context, id string) (*dto.CurriculumGradeResponse, error)
	ListGrades(ctx context.Context, courseID string) ([]dto.CurriculumGradeResponse, error)
	UpdateGradePolicy(ctx context.Context, id string, req *dto.UpdateCurriculumGradeRequest, callerID string) (*dto.CurriculumGradeResponse, error)
	// ActivateGrade 启用方案，同课程其他 active 方案改为 obsolete
	ActivateGrade(ctx context.Context, id string, callerID string) (*dto.CurriculumGradeResponse, error)
}

type curriculumService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCurriculumService 创建 CurriculumService 实例
func NewCurriculumService(repo *repository.Repository, logger *zap.Logger) CurriculumService {
	return &curriculumService{repo: repo, logger: logger}
}

// ════════════════════════ 学历层次 ════════════════════════

func (s *curriculumService) CreateLevel(ctx context.Context, req *dto.AcademicLevelRequest, callerID string) (*dto.AcademicLevelResponse, error) {
	level := &model.AcademicLevel{Active: true}
	if err := applyLevel(level, req); err != nil {
		return nil, err
	}
	level.CreatedBy = &callerID
	level.UpdatedBy = &callerID

	if err := s.repo.AcademicLevel.Create(ctx, level); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrLevelCodeExists
		}
		s.logger.Error("创建学历层次失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	return toLevelResponse(level), nil
}

func (s *curriculumService) GetLevel(ctx context.Context, id string) (*dto.AcademicLevelResponse, error) {
	level, err := s.getLevel(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLevelResponse(level), nil
}

func (s *curriculumService) ListLevels(ctx context.Context) ([]dto.AcademicLevelResponse, error) {
	levels, err := s.repo.AcademicLevel.List(ctx)
	if err != nil {
		s.logger.Error("列出学历层次失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AcademicLevelResponse, 0, len(levels))
	for i := range levels {
		result = append(result, *toLevelResponse(&levels[i]))
	}
	return result, nil
}

func (s *curriculumService) UpdateLevel(ctx context.Context, id string, req *dto.AcademicLevelRequest, callerID string) (*dto.AcademicLevelResponse, error) {
	level, err := s.getLevel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyLevel(level, req); err != nil {
		return nil, err
	}
	level.UpdatedBy = &callerID

	if err := s.repo.AcademicLevel.Update(ctx, level); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrLevelCodeExists
		}
		s.logger.Error("更新学历层次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toLevelResponse(level), nil
}

func applyLevel(level *model.AcademicLevel, req *dto.AcademicLevelRequest) error {
	level.Code = strings.TrimSpace(req.Code)
	level.Name = strings.TrimSpace(req.Name)
	level.DurationYears = req.DurationYears
	level.AdmissionRequirements = req.AdmissionRequirements

	level.Cadence = model.CadenceSemester
	if req.Cadence != "" {
		level.Cadence = model.PeriodCadence(req.Cadence)
	}
	level.PeriodsPerYear = req.PeriodsPerYear
	if level.PeriodsPerYear == 0 {
		level.PeriodsPerYear = 2
		if level.Cadence == model.CadenceTrimester {
			level.PeriodsPerYear = 3
		}
	}

	var err error
	if level.MinPassingGrade, err = scoreOrDefault(req.MinPassingGrade, 10); err != nil {
		return err
	}
	if level.ScaleMin, err = scoreOrDefault(req.ScaleMin, 0); err != nil {
		return err
	}
	if level.ScaleMax, err = scoreOrDefault(req.ScaleMax, 20); err != nil {
		return err
	}
	if !level.ScaleMax.GreaterThan(level.ScaleMin) {
		return ErrLevelScaleInvalid
	}
	if req.Active != nil {
		level.Active = *req.Active
	}
	return nil
}

func scoreOrDefault(raw string, def int64) (decimal.Decimal, error) {
	d, err := rules.ParseScore(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d == nil {
		return decimal.NewFromInt(def), nil
	}
	return *d, nil
}

// ════════════════════════ 课程 ════════════════════════

func (s *curriculumService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	level, err := s.getLevel(ctx, req.LevelID)
	if err != nil {
		return nil, err
	}
	minimum, err := scoreOrDefault(req.MinimumScore, 10)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		Code:                  strings.TrimSpace(req.Code),
		Name:                  strings.TrimSpace(req.Name),
		LevelID:               level.LevelID,
		Capacity:              req.Capacity,
		MinimumScore:          minimum,
		DurationMonths:        req.DurationMonths,
		RequiresPrerequisites: req.RequiresPrerequisites,
		Active:                true,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("创建课程失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	course.Level = level

	s.logger.Info("课程已创建", zap.String("course_id", course.CourseID), zap.String("code", course.Code))
	return s.toCourseResponse(ctx, course)
}

func (s *curriculumService) GetCourse(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toCourseResponse(ctx, course)
}

func (s *curriculumService) ListCourses(ctx context.Context, activeOnly bool) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		resp, err := s.toCourseResponse(ctx, &courses[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *curriculumService) UpdateCourse(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.LevelID != nil && *req.LevelID != course.LevelID {
		level, err := s.getLevel(ctx, *req.LevelID)
		if err != nil {
			return nil, err
		}
		course.LevelID = level.LevelID
		course.Level = level
	}
	if req.Capacity != nil {
		course.Capacity = *req.Capacity
	}
	if req.MinimumScore != nil {
		if course.MinimumScore, err = parseRequiredScore(*req.MinimumScore); err != nil {
			return nil, err
		}
	}
	if req.DurationMonths != nil {
		course.DurationMonths = *req.DurationMonths
	}
	if req.RequiresPrerequisites != nil {
		course.RequiresPrerequisites = *req.RequiresPrerequisites
	}
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toCourseResponse(ctx, course)
}

func (s *curriculumService) ToggleActive(ctx context.Context, id string, callerID string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Active = !course.Active
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("切换课程状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("课程状态已切换", zap.String("course_id", id), zap.Bool("active", course.Active))
	return s.toCourseResponse(ctx, course)
}

func (s *curriculumService) AvailableSeats(ctx context.Context, courseID string) (int64, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return s.availableSeats(ctx, course)
}

// availableSeats 以当前学年统计已录取人数；没有当前学年时统计全部
func (s *curriculumService) availableSeats(ctx context.Context, course *model.Course) (int64, error) {
	yearID := ""
	if year, err := s.repo.AcademicYear.GetCurrent(ctx); err == nil {
		yearID = year.YearID
	} else if !isNotFound(err) {
		s.logger.Error("查询当前学年失败", zap.Error(err))
		return 0, err
	}

	approved, err := s.repo.Course.CountApproved(ctx, course.CourseID, yearID)
	if err != nil {
		s.logger.Error("统计录取人数失败", zap.String("course_id", course.CourseID), zap.Error(err))
		return 0, err
	}
	return max(0, int64(course.Capacity)-approved), nil
}

// ── 入学先修要求 ──

func (s *curriculumService) SetPrerequisites(ctx context.Context, courseID string, req *dto.SetPrerequisitesRequest, callerID string) ([]dto.PrerequisiteResponse, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}

	reqs := make([]model.PrerequisiteRequirement, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for i, item := range req.Items {
		if seen[item.SubjectID] {
			return nil, ErrPrerequisiteDuplicate
		}
		seen[item.SubjectID] = true

		if _, err := s.repo.Subject.GetByID(ctx, item.SubjectID); err != nil {
			if isNotFound(err) {
				return nil, ErrPrerequisiteForeign
			}
			s.logger.Error("查询科目失败", zap.String("id", item.SubjectID), zap.Error(err))
			return nil, err
		}
		minimum, err := parseRequiredScore(item.MinimumGrade)
		if err != nil {
			return nil, err
		}

		r := model.PrerequisiteRequirement{
			CourseID:     courseID,
			SubjectID:    item.SubjectID,
			MinimumGrade: minimum,
			Mandatory:    item.Mandatory,
			SortOrder:    i,
		}
		r.CreatedBy = &callerID
		r.UpdatedBy = &callerID
		reqs = append(reqs, r)
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.Prerequisite.ReplaceForCourse(ctx, courseID, reqs)
	})
	if err != nil {
		s.logger.Error("保存先修要求失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	return s.ListPrerequisites(ctx, courseID)
}

func (s *curriculumService) ListPrerequisites(ctx context.Context, courseID string) ([]dto.PrerequisiteResponse, error) {
	reqs, err := s.repo.Prerequisite.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询先修要求失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PrerequisiteResponse, 0, len(reqs))
	for _, r := range reqs {
		item := dto.PrerequisiteResponse{
			ID:           r.RequirementID,
			SubjectID:    r.SubjectID,
			MinimumGrade: decStr(r.MinimumGrade),
			Mandatory:    r.Mandatory,
			SortOrder:    r.SortOrder,
		}
		if r.Subject != nil {
			item.SubjectName = r.Subject.Name
		}
		result = append(result, item)
	}
	return result, nil
}

// ════════════════════════ 课程方案 ════════════════════════

func (s *curriculumService) CreateGrade(ctx context.Context, courseID string, req *dto.CurriculumGradeRequest, callerID string) (*dto.CurriculumGradeResponse, error) {
	if _, err := s.getCourse(ctx, courseID); err != nil {
		return nil, err
	}

	grade := &model.CurriculumGrade{
		CourseID:            courseID,
		Name:                strings.TrimSpace(req.Name),
		Revision:            req.Revision,
		Status:              model.GradeDraft,
		AutoRomanPrecedence: req.AutoRomanPrecedence,
	}
	if grade.Revision == "" {
		grade.Revision = "1.0"
	}
	if req.Status != "" {
		grade.Status = model.GradeStatus(req.Status)
	}
	if err := applyGradePolicy(grade, &req.GradePolicyRequest); err != nil {
		return nil, err
	}
	grade.CreatedBy = &callerID
	grade.UpdatedBy = &callerID

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if grade.Status == model.GradeActive {
			if err := tx.CurriculumGrade.LockByCourse(ctx, courseID); err != nil {
				return err
			}
			// 先废弃旧方案，再写入新的 active 方案
			if err := tx.CurriculumGrade.ObsoleteOthers(ctx, courseID, ""); err != nil {
				return err
			}
		}
		return tx.CurriculumGrade.Create(ctx, grade)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrCurriculumGradeExists
		}
		s.logger.Error("创建课程方案失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	return toGradeResponse(grade), nil
}

func (s *curriculumService) GetGrade(ctx context.Context, id string) (*dto.CurriculumGradeResponse, error) {
	grade, err := s.getGrade(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toGradeResponse(grade), nil
}

func (s *curriculumService) ListGrades(ctx context.Context, courseID string) ([]dto.CurriculumGradeResponse, error) {
	grades, err := s.repo.CurriculumGrade.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出课程方案失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.CurriculumGradeResponse, 0, len(grades))
	for i := range grades {
		result = append(result, *toGradeResponse(&grades[i]))
	}
	return result, nil
}

func (s *curriculumService) UpdateGradePolicy(ctx context.Context, id string, req *dto.UpdateCurriculumGradeRequest, callerID string) (*dto.CurriculumGradeResponse, error) {
	grade, err := s.getGrade(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		grade.Name = strings.TrimSpace(*req.Name)
	}
	if req.AutoRomanPrecedence != nil {
		grade.AutoRomanPrecedence = *req.AutoRomanPrecedence
	}
	if err := applyGradePolicy(grade, &req.GradePolicyRequest); err != nil {
		return nil, err
	}
	grade.UpdatedBy = &callerID

	if err := s.repo.CurriculumGrade.Update(ctx, grade); err != nil {
		s.logger.Error("更新课程方案失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toGradeResponse(grade), nil
}

func (s *curriculumService) ActivateGrade(ctx context.Context, id string, callerID string) (*dto.CurriculumGradeResponse, error) {
	var grade *model.CurriculumGrade
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		grade, err = s.getGrade(ctx, tx, id)
		if err != nil {
			return err
		}
		if grade.Status == model.GradeObsolete {
			return ErrCurriculumGradeObsolete
		}
		if err := tx.CurriculumGrade.LockByCourse(ctx, grade.CourseID); err != nil {
			return err
		}
		if err := tx.CurriculumGrade.ObsoleteOthers(ctx, grade.CourseID, grade.GradeID); err != nil {
			return err
		}
		grade.Status = model.GradeActive
		grade.UpdatedBy = &callerID
		return tx.CurriculumGrade.Update(ctx, grade)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("启用课程方案失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("课程方案已启用", zap.String("grade_id", id), zap.String("course_id", grade.CourseID))
	return toGradeResponse(grade), nil
}

// applyGradePolicy 策略字段逐项覆盖；传入空串表示恢复为沿用全局配置
func applyGradePolicy(grade *model.CurriculumGrade, req *dto.GradePolicyRequest) error {
	var err error
	if req.DirectPassAverage != nil {
		if grade.DirectPassAverage, err = parseOptionalScore(req.DirectPassAverage); err != nil {
			return err
		}
	}
	if req.MinExamAverage != nil {
		if grade.MinExamAverage, err = parseOptionalScore(req.MinExamAverage); err != nil {
			return err
		}
	}
	if req.DirectFailAverage != nil {
		if grade.DirectFailAverage, err = parseOptionalScore(req.DirectFailAverage); err != nil {
			return err
		}
	}
	if req.MaxBehindSubjects != nil {
		grade.MaxBehindSubjects = req.MaxBehindSubjects
	}
	if req.LawOfSeven != nil {
		grade.LawOfSeven = req.LawOfSeven
	}
	if req.AllowSpecialExam != nil {
		grade.AllowSpecialExam = req.AllowSpecialExam
	}
	if req.UseCredits != nil {
		grade.UseCredits = req.UseCredits
	}
	return nil
}

// ── 辅助 ──

func (s *curriculumService) getLevel(ctx context.Context, id string) (*model.AcademicLevel, error) {
	level, err := s.repo.AcademicLevel.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLevelNotFound
		}
		s.logger.Error("查询学历层次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return level, nil
}

func (s *curriculumService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *curriculumService) getGrade(ctx context.Context, repo *repository.Repository, id string) (*model.CurriculumGrade, error) {
	grade, err := repo.CurriculumGrade.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCurriculumGradeNotFound
		}
		s.logger.Error("查询课程方案失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return grade, nil
}

func toLevelResponse(l *model.AcademicLevel) *dto.AcademicLevelResponse {
	return &dto.AcademicLevelResponse{
		ID:                    l.LevelID,
		Code:                  l.Code,
		Name:                  l.Name,
		DurationYears:         l.DurationYears,
		Cadence:               string(l.Cadence),
		PeriodsPerYear:        l.PeriodsPerYear,
		MinPassingGrade:       decStr(l.MinPassingGrade),
		ScaleMin:              decStr(l.ScaleMin),
		ScaleMax:              decStr(l.ScaleMax),
		AdmissionRequirements: l.AdmissionRequirements,
		Active:                l.Active,
	}
}

func (s *curriculumService) toCourseResponse(ctx context.Context, c *model.Course) (*dto.CourseResponse, error) {
	seats, err := s.availableSeats(ctx, c)
	if err != nil {
		return nil, err
	}
	resp := &dto.CourseResponse{
		ID:                    c.CourseID,
		Code:                  c.Code,
		Name:                  c.Name,
		LevelID:               c.LevelID,
		Capacity:              c.Capacity,
		MinimumScore:          decStr(c.MinimumScore),
		DurationMonths:        c.DurationMonths,
		RequiresPrerequisites: c.RequiresPrerequisites,
		Active:                c.Active,
		AvailableSeats:        seats,
	}
	if c.Level != nil {
		resp.Level = toLevelResponse(c.Level)
	}
	return resp, nil
}

func toGradeResponse(g *model.CurriculumGrade) *dto.CurriculumGradeResponse {
	return &dto.CurriculumGradeResponse{
		ID:                  g.GradeID,
		CourseID:            g.CourseID,
		Name:                g.Name,
		Revision:            g.Revision,
		Status:              string(g.Status),
		DirectPassAverage:   decPtrStr(g.DirectPassAverage),
		MinExamAverage:      decPtrStr(g.MinExamAverage),
		DirectFailAverage:   decPtrStr(g.DirectFailAverage),
		MaxBehindSubjects:   g.MaxBehindSubjects,
		LawOfSeven:          g.LawOfSeven,
		AllowSpecialExam:    g.AllowSpecialExam,
		UseCredits:          g.UseCredits,
		AutoRomanPrecedence: g.AutoRomanPrecedence,
	}
}
