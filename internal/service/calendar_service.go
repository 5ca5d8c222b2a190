package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 校历模块业务错误 ──

var (
	ErrCalendarEventNotFound = fmt.Errorf("%w: 校历事件不存在", apperrors.ErrNotFound)
	ErrICSInvalid            = fmt.Errorf("%w: ICS 文件无法解析", apperrors.ErrValidation)
)

// ICSImportResult 导入 ICS 的结果
type ICSImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// CalendarService 校历事件业务接口
type CalendarService interface {
	CreateEvent(ctx context.Context, yearID string, req *dto.CreateCalendarEventRequest, callerID string) (*dto.CalendarEventResponse, error)
	GetEvent(ctx context.Context, id string) (*dto.CalendarEventResponse, error)
	UpdateEvent(ctx context.Context, id string, req *dto.UpdateCalendarEventRequest, callerID string) (*dto.CalendarEventResponse, error)
	DeleteEvent(ctx context.Context, id string, callerID string) error
	ListEvents(ctx context.Context, yearID string) ([]dto.CalendarEventResponse, error)
	// IsOccurring 事件 active 且今天落在其日期范围内
	IsOccurring(ctx context.Context, id string) (bool, error)
	// ExportICS 导出学年校历，返回文件内容与建议文件名
	ExportICS(ctx context.Context, yearID string) ([]byte, string, error)
	ImportICS(ctx context.Context, yearID string, r io.Reader, callerID string) (*ICSImportResult, error)
}

type calendarService struct {
	repo   *repository.Repository
	cfg    config.AcademicConfig
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, cfg config.AcademicConfig, logger *zap.Logger) CalendarService {
	return &calendarService{
		repo:   repo,
		cfg:    cfg,
		loc:    cfg.Location(),
		now:    time.Now,
		logger: logger,
	}
}

// ────────────────────── CreateEvent ──────────────────────

func (s *calendarService) CreateEvent(ctx context.Context, yearID string, req *dto.CreateCalendarEventRequest, callerID string) (*dto.CalendarEventResponse, error) {
	if _, err := s.editableYear(ctx, yearID); err != nil {
		return nil, err
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	status := model.EventActive
	if req.Status != "" {
		status = model.EventStatus(req.Status)
	}

	ev := &model.CalendarEvent{
		YearID:      yearID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        model.EventType(req.Type),
		StartDate:   start,
		EndDate:     end,
		Status:      status,
	}
	ev.CreatedBy = &callerID
	ev.UpdatedBy = &callerID

	if err := s.repo.CalendarEvent.Create(ctx, ev); err != nil {
		s.logger.Error("创建校历事件失败", zap.String("year_id", yearID), zap.Error(err))
		return nil, err
	}

	return s.toResponse(ev), nil
}

// ────────────────────── GetEvent ──────────────────────

func (s *calendarService) GetEvent(ctx context.Context, id string) (*dto.CalendarEventResponse, error) {
	ev, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ev), nil
}

// ────────────────────── UpdateEvent ──────────────────────

func (s *calendarService) UpdateEvent(ctx context.Context, id string, req *dto.UpdateCalendarEventRequest, callerID string) (*dto.CalendarEventResponse, error) {
	ev, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.editableYear(ctx, ev.YearID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		ev.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Type != nil {
		ev.Type = model.EventType(*req.Type)
	}
	if req.StartDate != nil {
		if ev.StartDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if ev.EndDate, err = parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if err := rules.ValidateDateRange(ev.StartDate, ev.EndDate); err != nil {
		return nil, err
	}
	if req.Status != nil {
		ev.Status = model.EventStatus(*req.Status)
	}
	ev.UpdatedBy = &callerID

	if err := s.repo.CalendarEvent.Update(ctx, ev); err != nil {
		s.logger.Error("更新校历事件失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toResponse(ev), nil
}

// ────────────────────── DeleteEvent ──────────────────────

func (s *calendarService) DeleteEvent(ctx context.Context, id string, callerID string) error {
	ev, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.editableYear(ctx, ev.YearID); err != nil {
		return err
	}

	if err := s.repo.CalendarEvent.Delete(ctx, id); err != nil {
		s.logger.Error("删除校历事件失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("校历事件已删除", zap.String("event_id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── ListEvents ──────────────────────

func (s *calendarService) ListEvents(ctx context.Context, yearID string) ([]dto.CalendarEventResponse, error) {
	if _, err := s.getYear(ctx, yearID); err != nil {
		return nil, err
	}

	events, err := s.repo.CalendarEvent.ListByYear(ctx, yearID)
	if err != nil {
		s.logger.Error("列出校历事件失败", zap.String("year_id", yearID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CalendarEventResponse, 0, len(events))
	for i := range events {
		result = append(result, *s.toResponse(&events[i]))
	}
	return result, nil
}

// ────────────────────── IsOccurring ──────────────────────

func (s *calendarService) IsOccurring(ctx context.Context, id string) (bool, error) {
	ev, err := s.getEvent(ctx, id)
	if err != nil {
		return false, err
	}
	return rules.IsOccurring(*ev, s.today()), nil
}

// ────────────────────── ICS ──────────────────────

func (s *calendarService) ExportICS(ctx context.Context, yearID string) ([]byte, string, error) {
	year, err := s.getYear(ctx, yearID)
	if err != nil {
		return nil, "", err
	}

	events, err := s.repo.CalendarEvent.ListByYear(ctx, yearID)
	if err != nil {
		s.logger.Error("列出校历事件失败", zap.String("year_id", yearID), zap.Error(err))
		return nil, "", err
	}

	data := BuildCalendarICS(year, events, s.loc, s.now())
	filename := fmt.Sprintf("calendario-%s.ics", strings.ReplaceAll(year.Code, "/", "-"))
	return data, filename, nil
}

func (s *calendarService) ImportICS(ctx context.Context, yearID string, r io.Reader, callerID string) (*ICSImportResult, error) {
	year, err := s.editableYear(ctx, yearID)
	if err != nil {
		return nil, err
	}

	parsed, skipped, err := ParseCalendarICS(r, year.YearID, s.loc)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		for i := range parsed {
			parsed[i].CreatedBy = &callerID
			parsed[i].UpdatedBy = &callerID
			if err := tx.CalendarEvent.Create(ctx, &parsed[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("导入 ICS 失败", zap.String("year_id", yearID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("ICS 已导入",
		zap.String("year_id", yearID),
		zap.Int("imported", len(parsed)),
		zap.Int("skipped", skipped),
	)
	return &ICSImportResult{Imported: len(parsed), Skipped: skipped}, nil
}

// ── 辅助 ──

func (s *calendarService) today() time.Time {
	return rules.CivilDate(s.now(), s.loc)
}

func (s *calendarService) getYear(ctx context.Context, id string) (*model.AcademicYear, error) {
	year, err := s.repo.AcademicYear.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return year, nil
}

// editableYear 已结束学年的校历同样不可修改
func (s *calendarService) editableYear(ctx context.Context, id string) (*model.AcademicYear, error) {
	year, err := s.getYear(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.GuardYearEdit(year.Status, s.cfg.EnforceClosedYear); err != nil {
		return nil, err
	}
	return year, nil
}

func (s *calendarService) getEvent(ctx context.Context, id string) (*model.CalendarEvent, error) {
	ev, err := s.repo.CalendarEvent.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCalendarEventNotFound
		}
		s.logger.Error("查询校历事件失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return ev, nil
}

func (s *calendarService) toResponse(ev *model.CalendarEvent) *dto.CalendarEventResponse {
	return &dto.CalendarEventResponse{
		ID:          ev.EventID,
		YearID:      ev.YearID,
		Title:       ev.Title,
		Description: ev.Description,
		Type:        string(ev.Type),
		StartDate:   formatDate(ev.StartDate),
		EndDate:     formatDate(ev.EndDate),
		Status:      string(ev.Status),
		Occurring:   rules.IsOccurring(*ev, s.today()),
	}
}
