package service

import (
	"context"
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

// ── 课表模块业务错误 ──

var (
	ErrLessonNotFound          = fmt.Errorf("%w: 课节不存在", apperrors.ErrNotFound)
	ErrLessonClash             = fmt.Errorf("%w: 课表时间冲突", apperrors.ErrConflict)
	ErrLessonProfessorRequired = fmt.Errorf("%w: 未指定教师且班级科目没有任课教师", apperrors.ErrValidation)
)

// LessonClashError 排课冲突，列出每个冲突的资源与课节
type LessonClashError struct {
	Clashes []rules.Clash
}

func (e *LessonClashError) Error() string {
	parts := make([]string, 0, len(e.Clashes))
	for _, c := range e.Clashes {
		parts = append(parts, fmt.Sprintf("%s=%s", c.Kind, c.LessonID))
	}
	return ErrLessonClash.Error() + ": " + strings.Join(parts, ", ")
}

func (e *LessonClashError) Unwrap() error { return ErrLessonClash }

// TimetableService 按学期排课，并按班级、教师、教室查看课表
type TimetableService interface {
	// CreateLesson 同一学期内教室、教师、班级的时间不得重叠
	CreateLesson(ctx context.Context, req *dto.CreateLessonRequest, callerID string) (*dto.LessonResponse, error)
	GetLesson(ctx context.Context, id string) (*dto.LessonResponse, error)
	UpdateLesson(ctx context.Context, id string, req *dto.UpdateLessonRequest, callerID string) (*dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, id string) error

	ClassTimetable(ctx context.Context, classID string, req *dto.TimetableRequest) (*dto.TimetableResponse, error)
	ProfessorTimetable(ctx context.Context, professorID string, req *dto.TimetableRequest) (*dto.TimetableResponse, error)
	RoomTimetable(ctx context.Context, roomID string, req *dto.TimetableRequest) (*dto.TimetableResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	cfg    config.AcademicConfig
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, cfg config.AcademicConfig, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, cfg: cfg, logger: logger}
}

// ────────────────────── CreateLesson ──────────────────────

func (s *timetableService) CreateLesson(ctx context.Context, req *dto.CreateLessonRequest, callerID string) (*dto.LessonResponse, error) {
	class, err := getClass(ctx, s.repo, s.logger, req.ClassID)
	if err != nil {
		return nil, err
	}
	if !class.Active {
		return nil, ErrClassInactive
	}
	if err := s.checkPeriod(ctx, class, req.PeriodID); err != nil {
		return nil, err
	}

	assigned, err := s.repo.ClassGroup.GetSubject(ctx, class.ClassID, req.SubjectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClassSubjectNotFound
		}
		s.logger.Error("查询班级科目失败", zap.String("class_id", class.ClassID), zap.Error(err))
		return nil, err
	}

	professorID := req.ProfessorID
	if professorID == "" && assigned.ProfessorID != nil {
		professorID = *assigned.ProfessorID
	}
	if professorID == "" {
		return nil, ErrLessonProfessorRequired
	}
	if _, err := activeProfessor(ctx, s.repo, s.logger, professorID); err != nil {
		return nil, err
	}

	roomID := req.RoomID
	if roomID == nil {
		roomID = class.RoomID
	}
	if roomID != nil {
		if err := checkRoomUsable(ctx, s.repo, *roomID); err != nil {
			return nil, err
		}
	}

	start, end, err := rules.ValidateLessonSlot(req.Weekday, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ClassID:     class.ClassID,
		SubjectID:   req.SubjectID,
		ProfessorID: professorID,
		RoomID:      roomID,
		PeriodID:    req.PeriodID,
		Weekday:     req.Weekday,
		StartTime:   start,
		EndTime:     end,
		Kind:        model.LessonTheory,
		Status:      model.LessonActive,
		Slots:       2,
	}
	if req.Kind != "" {
		lesson.Kind = model.LessonKind(req.Kind)
	}
	if req.Slots > 0 {
		lesson.Slots = req.Slots
	}
	lesson.CreatedBy = &callerID
	lesson.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := s.checkClashes(ctx, tx, lesson); err != nil {
			return err
		}
		return tx.Lesson.Create(ctx, lesson)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("排课失败", zap.String("class_id", class.ClassID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("课节已排定",
		zap.String("lesson_id", lesson.LessonID),
		zap.String("class_id", lesson.ClassID),
		zap.Int("weekday", lesson.Weekday),
		zap.String("start", lesson.StartTime),
	)
	return toLessonResponse(lesson), nil
}

// checkPeriod 学期属于班级所在学年，且学年可编辑
func (s *timetableService) checkPeriod(ctx context.Context, class *model.ClassGroup, periodID string) error {
	year, err := s.repo.AcademicYear.GetByID(ctx, class.YearID)
	if err != nil {
		if isNotFound(err) {
			return ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", class.YearID), zap.Error(err))
		return err
	}
	if err := rules.GuardYearEdit(year.Status, s.cfg.EnforceClosedYear); err != nil {
		return err
	}

	period, err := s.repo.LecturePeriod.GetByID(ctx, periodID)
	if err != nil {
		if isNotFound(err) {
			return ErrLecturePeriodNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", periodID), zap.Error(err))
		return err
	}
	if period.YearID != class.YearID {
		return ErrPeriodYearMismatch
	}
	return nil
}

// checkClashes 锁定学期后与同一天的 active 课节比对
func (s *timetableService) checkClashes(ctx context.Context, tx *repository.Repository, lesson *model.Lesson) error {
	if lesson.Status != model.LessonActive {
		return nil
	}
	if err := tx.Lesson.LockPeriod(ctx, lesson.PeriodID); err != nil {
		return err
	}
	existing, err := tx.Lesson.ListActiveOnDay(ctx, lesson.PeriodID, lesson.Weekday)
	if err != nil {
		return err
	}
	if clashes := rules.FindClashes(lesson, existing); len(clashes) > 0 {
		return &LessonClashError{Clashes: clashes}
	}
	return nil
}

// ────────────────────── 查询、调整与删除 ──────────────────────

func (s *timetableService) GetLesson(ctx context.Context, id string) (*dto.LessonResponse, error) {
	lesson, err := s.getLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLessonResponse(lesson), nil
}

func (s *timetableService) UpdateLesson(ctx context.Context, id string, req *dto.UpdateLessonRequest, callerID string) (*dto.LessonResponse, error) {
	lesson, err := s.getLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	class, err := getClass(ctx, s.repo, s.logger, lesson.ClassID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPeriod(ctx, class, lesson.PeriodID); err != nil {
		return nil, err
	}

	if req.ProfessorID != nil && *req.ProfessorID != lesson.ProfessorID {
		if _, err := activeProfessor(ctx, s.repo, s.logger, *req.ProfessorID); err != nil {
			return nil, err
		}
		lesson.ProfessorID = *req.ProfessorID
	}
	if req.RoomID != nil {
		if err := checkRoomUsable(ctx, s.repo, *req.RoomID); err != nil {
			return nil, err
		}
		lesson.RoomID = req.RoomID
	}
	weekday, start, end := lesson.Weekday, lesson.StartTime, lesson.EndTime
	if req.Weekday != nil {
		weekday = *req.Weekday
	}
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	start, end, err = rules.ValidateLessonSlot(weekday, start, end)
	if err != nil {
		return nil, err
	}
	lesson.Weekday, lesson.StartTime, lesson.EndTime = weekday, start, end
	if req.Kind != nil {
		lesson.Kind = model.LessonKind(*req.Kind)
	}
	if req.Status != nil {
		lesson.Status = model.LessonStatus(*req.Status)
	}
	if req.Slots != nil {
		lesson.Slots = *req.Slots
	}
	lesson.Version = req.Version
	lesson.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := s.checkClashes(ctx, tx, lesson); err != nil {
			return err
		}
		return tx.Lesson.Update(ctx, lesson)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("调整课节失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return toLessonResponse(lesson), nil
}

func (s *timetableService) DeleteLesson(ctx context.Context, id string) error {
	lesson, err := s.getLesson(ctx, id)
	if err != nil {
		return err
	}
	class, err := getClass(ctx, s.repo, s.logger, lesson.ClassID)
	if err != nil {
		return err
	}
	if err := s.checkPeriod(ctx, class, lesson.PeriodID); err != nil {
		return err
	}

	if err := s.repo.Lesson.Delete(ctx, id); err != nil {
		s.logger.Error("删除课节失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 课表视图 ──────────────────────

func (s *timetableService) ClassTimetable(ctx context.Context, classID string, req *dto.TimetableRequest) (*dto.TimetableResponse, error) {
	if _, err := getClass(ctx, s.repo, s.logger, classID); err != nil {
		return nil, err
	}
	return s.timetable(ctx, req, repository.LessonFilter{ClassID: classID})
}

func (s *timetableService) ProfessorTimetable(ctx context.Context, professorID string, req *dto.TimetableRequest) (*dto.TimetableResponse, error) {
	if _, err := s.repo.Professor.GetByID(ctx, professorID); err != nil {
		if isNotFound(err) {
			return nil, ErrProfessorNotFound
		}
		return nil, err
	}
	return s.timetable(ctx, req, repository.LessonFilter{ProfessorID: professorID})
}

func (s *timetableService) RoomTimetable(ctx context.Context, roomID string, req *dto.TimetableRequest) (*dto.TimetableResponse, error) {
	if _, err := s.repo.Room.GetByID(ctx, roomID); err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return s.timetable(ctx, req, repository.LessonFilter{RoomID: roomID})
}

func (s *timetableService) timetable(ctx context.Context, req *dto.TimetableRequest, f repository.LessonFilter) (*dto.TimetableResponse, error) {
	periodID, err := s.resolvePeriod(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	f.PeriodID = periodID

	lessons, err := s.repo.Lesson.List(ctx, f)
	if err != nil {
		s.logger.Error("查询课表失败", zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}
	resp := &dto.TimetableResponse{PeriodID: periodID, Lessons: make([]dto.LessonResponse, 0, len(lessons))}
	for i := range lessons {
		resp.Lessons = append(resp.Lessons, *toLessonResponse(&lessons[i]))
	}
	return resp, nil
}

// resolvePeriod 未指定学期时取当前学年的当前学期
func (s *timetableService) resolvePeriod(ctx context.Context, periodID string) (string, error) {
	if periodID != "" {
		if _, err := s.repo.LecturePeriod.GetByID(ctx, periodID); err != nil {
			if isNotFound(err) {
				return "", ErrLecturePeriodNotFound
			}
			return "", err
		}
		return periodID, nil
	}

	year, err := s.repo.AcademicYear.GetCurrent(ctx)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNoCurrentAcademicYear
		}
		return "", err
	}
	period, err := s.repo.LecturePeriod.GetCurrent(ctx, year.YearID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNoCurrentLecturePeriod
		}
		return "", err
	}
	return period.PeriodID, nil
}

func (s *timetableService) getLesson(ctx context.Context, id string) (*model.Lesson, error) {
	lesson, err := s.repo.Lesson.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLessonNotFound
		}
		s.logger.Error("查询课节失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return lesson, nil
}

func toLessonResponse(l *model.Lesson) *dto.LessonResponse {
	return &dto.LessonResponse{
		ID:          l.LessonID,
		ClassID:     l.ClassID,
		SubjectID:   l.SubjectID,
		ProfessorID: l.ProfessorID,
		RoomID:      l.RoomID,
		PeriodID:    l.PeriodID,
		Weekday:     l.Weekday,
		StartTime:   l.StartTime,
		EndTime:     l.EndTime,
		Kind:        string(l.Kind),
		Status:      string(l.Status),
		Slots:       l.Slots,
		Version:     l.Version,
	}
}
