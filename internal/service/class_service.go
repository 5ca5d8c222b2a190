package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 班级模块业务错误 ──

var (
	ErrClassNotFound        = fmt.Errorf("%w: 班级不存在", apperrors.ErrNotFound)
	ErrClassNameExists      = fmt.Errorf("%w: 该课程在本学年已有同名班级", apperrors.ErrConflict)
	ErrClassInactive        = fmt.Errorf("%w: 班级已停用", apperrors.ErrPolicyViolation)
	ErrClassSubjectCourse   = fmt.Errorf("%w: 科目不属于班级所在课程", apperrors.ErrValidation)
	ErrClassSubjectNotFound = fmt.Errorf("%w: 班级未开设该科目", apperrors.ErrNotFound)
	ErrClassSubjectInUse    = fmt.Errorf("%w: 该科目已排入课表，不能从班级移除", apperrors.ErrPolicyViolation)
	ErrProfessorInactive    = fmt.Errorf("%w: 教师已停用", apperrors.ErrPolicyViolation)
)

// ClassService 班级与班级开设科目
type ClassService interface {
	Create(ctx context.Context, req *dto.CreateClassRequest, callerID string) (*dto.ClassResponse, error)
	Get(ctx context.Context, id string) (*dto.ClassResponse, error)
	// List 未指定学年时使用当前学年；没有当前学年则不按学年过滤
	List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID string) (*dto.ClassResponse, error)

	// AssignSubject 开设科目；已开设时只替换任课教师
	AssignSubject(ctx context.Context, classID string, req *dto.AssignClassSubjectRequest, callerID string) (*dto.ClassSubjectResponse, error)
	ListSubjects(ctx context.Context, classID string) ([]dto.ClassSubjectResponse, error)
	RemoveSubject(ctx context.Context, classID, subjectID string) error
}

type classService struct {
	repo   *repository.Repository
	cfg    config.AcademicConfig
	logger *zap.Logger
}

// NewClassService 创建 ClassService 实例
func NewClassService(repo *repository.Repository, cfg config.AcademicConfig, logger *zap.Logger) ClassService {
	return &classService{repo: repo, cfg: cfg, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classService) Create(ctx context.Context, req *dto.CreateClassRequest, callerID string) (*dto.ClassResponse, error) {
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

	year, err := s.resolveYear(ctx, req.YearID)
	if err != nil {
		return nil, err
	}
	if err := rules.GuardYearEdit(year.Status, s.cfg.EnforceClosedYear); err != nil {
		return nil, err
	}
	if req.RoomID != nil {
		if err := checkRoomUsable(ctx, s.repo, *req.RoomID); err != nil {
			return nil, err
		}
	}

	class := &model.ClassGroup{
		Name:             strings.TrimSpace(req.Name),
		CourseID:         course.CourseID,
		YearID:           year.YearID,
		CurricularYear:   req.CurricularYear,
		CurricularPeriod: 1,
		Shift:            model.ShiftMorning,
		Capacity:         40,
		RoomID:           req.RoomID,
		Active:           true,
	}
	if req.CurricularPeriod > 0 {
		class.CurricularPeriod = req.CurricularPeriod
	}
	if req.Shift != "" {
		class.Shift = model.Shift(req.Shift)
	}
	if req.Capacity > 0 {
		class.Capacity = req.Capacity
	}
	class.CreatedBy = &callerID
	class.UpdatedBy = &callerID

	if err := s.repo.ClassGroup.Create(ctx, class); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrClassNameExists
		}
		s.logger.Error("创建班级失败", zap.String("name", class.Name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("班级已创建",
		zap.String("class_id", class.ClassID),
		zap.String("course_id", class.CourseID),
		zap.String("year_id", class.YearID),
	)
	return toClassResponse(class), nil
}

// resolveYear 未指定学年时使用当前学年
func (s *classService) resolveYear(ctx context.Context, yearID string) (*model.AcademicYear, error) {
	var (
		year *model.AcademicYear
		err  error
	)
	if yearID == "" {
		year, err = s.repo.AcademicYear.GetCurrent(ctx)
		if isNotFound(err) {
			return nil, ErrNoCurrentAcademicYear
		}
	} else {
		year, err = s.repo.AcademicYear.GetByID(ctx, yearID)
		if isNotFound(err) {
			return nil, ErrAcademicYearNotFound
		}
	}
	if err != nil {
		s.logger.Error("查询学年失败", zap.String("id", yearID), zap.Error(err))
		return nil, err
	}
	return year, nil
}

// ────────────────────── 查询与更新 ──────────────────────

func (s *classService) Get(ctx context.Context, id string) (*dto.ClassResponse, error) {
	class, err := getClass(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	return toClassResponse(class), nil
}

func (s *classService) List(ctx context.Context, req *dto.ClassListRequest) ([]dto.ClassResponse, error) {
	f := repository.ClassFilter{CourseID: req.CourseID, YearID: req.YearID, CurricularYear: req.CurricularYear}
	if f.YearID == "" {
		current, err := s.repo.AcademicYear.GetCurrent(ctx)
		switch {
		case err == nil:
			f.YearID = current.YearID
		case !isNotFound(err):
			s.logger.Error("查询当前学年失败", zap.Error(err))
			return nil, err
		}
	}

	list, err := s.repo.ClassGroup.List(ctx, f)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ClassResponse, 0, len(list))
	for i := range list {
		result = append(result, *toClassResponse(&list[i]))
	}
	return result, nil
}

func (s *classService) Update(ctx context.Context, id string, req *dto.UpdateClassRequest, callerID string) (*dto.ClassResponse, error) {
	class, err := getClass(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		class.Name = strings.TrimSpace(*req.Name)
	}
	if req.CurricularYear != nil {
		class.CurricularYear = *req.CurricularYear
	}
	if req.CurricularPeriod != nil {
		class.CurricularPeriod = *req.CurricularPeriod
	}
	if req.Shift != nil {
		class.Shift = model.Shift(*req.Shift)
	}
	if req.Capacity != nil {
		class.Capacity = *req.Capacity
	}
	if req.RoomID != nil {
		if err := checkRoomUsable(ctx, s.repo, *req.RoomID); err != nil {
			return nil, err
		}
		class.RoomID = req.RoomID
	}
	if req.Active != nil {
		class.Active = *req.Active
	}
	class.UpdatedBy = &callerID

	if err := s.repo.ClassGroup.Update(ctx, class); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrClassNameExists
		}
		s.logger.Error("更新班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toClassResponse(class), nil
}

// ────────────────────── 班级科目 ──────────────────────

func (s *classService) AssignSubject(ctx context.Context, classID string, req *dto.AssignClassSubjectRequest, callerID string) (*dto.ClassSubjectResponse, error) {
	class, err := getClass(ctx, s.repo, s.logger, classID)
	if err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", req.SubjectID), zap.Error(err))
		return nil, err
	}
	if subject.CourseID != class.CourseID {
		return nil, ErrClassSubjectCourse
	}
	if req.ProfessorID != nil {
		if _, err := activeProfessor(ctx, s.repo, s.logger, *req.ProfessorID); err != nil {
			return nil, err
		}
	}

	cs := &model.ClassSubject{ClassID: class.ClassID, SubjectID: subject.SubjectID, ProfessorID: req.ProfessorID}
	cs.CreatedBy = &callerID
	cs.UpdatedBy = &callerID
	if err := s.repo.ClassGroup.UpsertSubject(ctx, cs); err != nil {
		s.logger.Error("开设班级科目失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	return &dto.ClassSubjectResponse{
		SubjectID:   subject.SubjectID,
		Code:        subject.Code,
		Name:        subject.Name,
		ProfessorID: cs.ProfessorID,
	}, nil
}

func (s *classService) ListSubjects(ctx context.Context, classID string) ([]dto.ClassSubjectResponse, error) {
	if _, err := getClass(ctx, s.repo, s.logger, classID); err != nil {
		return nil, err
	}
	list, err := s.repo.ClassGroup.ListSubjects(ctx, classID)
	if err != nil {
		s.logger.Error("列出班级科目失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassSubjectResponse, 0, len(list))
	for _, cs := range list {
		item := dto.ClassSubjectResponse{SubjectID: cs.SubjectID, ProfessorID: cs.ProfessorID}
		if cs.Subject != nil {
			item.Code = cs.Subject.Code
			item.Name = cs.Subject.Name
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *classService) RemoveSubject(ctx context.Context, classID, subjectID string) error {
	n, err := s.repo.Lesson.CountByClassSubject(ctx, classID, subjectID)
	if err != nil {
		s.logger.Error("统计班级科目课节失败", zap.String("class_id", classID), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrClassSubjectInUse
	}

	removed, err := s.repo.ClassGroup.RemoveSubject(ctx, classID, subjectID)
	if err != nil {
		s.logger.Error("移除班级科目失败", zap.String("class_id", classID), zap.Error(err))
		return err
	}
	if removed == 0 {
		return ErrClassSubjectNotFound
	}
	return nil
}

// ── 班级与课表共用的查询 ──

func getClass(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.ClassGroup, error) {
	class, err := repo.ClassGroup.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClassNotFound
		}
		logger.Error("查询班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return class, nil
}

func activeProfessor(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Professor, error) {
	p, err := repo.Professor.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfessorNotFound
		}
		logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !p.Active {
		return nil, ErrProfessorInactive
	}
	return p, nil
}

// checkRoomUsable 教室存在且启用
func checkRoomUsable(ctx context.Context, repo *repository.Repository, id string) error {
	room, err := repo.Room.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrRoomNotFound
		}
		return err
	}
	if !room.Active {
		return ErrRoomInactive
	}
	return nil
}

func toClassResponse(c *model.ClassGroup) *dto.ClassResponse {
	return &dto.ClassResponse{
		ID:               c.ClassID,
		Name:             c.Name,
		CourseID:         c.CourseID,
		YearID:           c.YearID,
		CurricularYear:   c.CurricularYear,
		CurricularPeriod: c.CurricularPeriod,
		Shift:            string(c.Shift),
		Capacity:         c.Capacity,
		RoomID:           c.RoomID,
		Active:           c.Active,
	}
}
