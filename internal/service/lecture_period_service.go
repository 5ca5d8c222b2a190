package service

import (
	"context"
	"errors"
	"fmt"
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

// ── 学期模块业务错误 ──

var (
	ErrLecturePeriodNotFound  = fmt.Errorf("%w: 学期不存在", apperrors.ErrNotFound)
	ErrNoCurrentLecturePeriod = fmt.Errorf("%w: 该学年尚未设置当前学期", apperrors.ErrNotFound)
	ErrLecturePeriodExists    = fmt.Errorf("%w: 该学年已存在相同序号的学期", apperrors.ErrConflict)
	ErrPeriodOutsideYear      = fmt.Errorf("%w: 学期日期必须落在学年范围内", apperrors.ErrValidation)
)

// LecturePeriodService 学期业务接口
type LecturePeriodService interface {
	Create(ctx context.Context, yearID string, req *dto.CreateLecturePeriodRequest, callerID string) (*dto.LecturePeriodResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LecturePeriodResponse, error)
	GetCurrent(ctx context.Context, yearID string) (*dto.LecturePeriodResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLecturePeriodRequest, callerID string) (*dto.LecturePeriodResponse, error)
	ListByYear(ctx context.Context, yearID string) ([]dto.LecturePeriodResponse, error)
	// SetCurrent 每个学年至多一个当前学期，目标学期强制为 active
	SetCurrent(ctx context.Context, id string, callerID string) (*dto.LecturePeriodResponse, error)
}

type lecturePeriodService struct {
	repo   *repository.Repository
	cfg    config.AcademicConfig
	logger *zap.Logger
}

// NewLecturePeriodService 创建 LecturePeriodService 实例
func NewLecturePeriodService(repo *repository.Repository, cfg config.AcademicConfig, logger *zap.Logger) LecturePeriodService {
	return &lecturePeriodService{repo: repo, cfg: cfg, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *lecturePeriodService) Create(ctx context.Context, yearID string, req *dto.CreateLecturePeriodRequest, callerID string) (*dto.LecturePeriodResponse, error) {
	year, err := s.editableYear(ctx, yearID)
	if err != nil {
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
	if err := validatePeriodRange(year, start, end); err != nil {
		return nil, err
	}

	status := model.YearPlanned
	if req.Status != "" {
		status = model.YearStatus(req.Status)
	}

	period := &model.LecturePeriod{
		YearID:    yearID,
		Name:      strings.TrimSpace(req.Name),
		Number:    req.Number,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
	period.CreatedBy = &callerID
	period.UpdatedBy = &callerID

	if err := s.repo.LecturePeriod.Create(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrLecturePeriodExists
		}
		s.logger.Error("创建学期失败", zap.String("year_id", yearID), zap.Error(err))
		return nil, err
	}

	return toPeriodResponse(period), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *lecturePeriodService) GetByID(ctx context.Context, id string) (*dto.LecturePeriodResponse, error) {
	period, err := s.getPeriod(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toPeriodResponse(period), nil
}

// ────────────────────── GetCurrent ──────────────────────

func (s *lecturePeriodService) GetCurrent(ctx context.Context, yearID string) (*dto.LecturePeriodResponse, error) {
	period, err := s.repo.LecturePeriod.GetCurrent(ctx, yearID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoCurrentLecturePeriod
		}
		s.logger.Error("查询当前学期失败", zap.String("year_id", yearID), zap.Error(err))
		return nil, err
	}
	return toPeriodResponse(period), nil
}

// ────────────────────── Update ──────────────────────

func (s *lecturePeriodService) Update(ctx context.Context, id string, req *dto.UpdateLecturePeriodRequest, callerID string) (*dto.LecturePeriodResponse, error) {
	period, err := s.getPeriod(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	year, err := s.editableYear(ctx, period.YearID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		period.Name = strings.TrimSpace(*req.Name)
	}
	if req.StartDate != nil {
		if period.StartDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if period.EndDate, err = parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if err := validatePeriodRange(year, period.StartDate, period.EndDate); err != nil {
		return nil, err
	}
	if req.Status != nil {
		period.Status = model.YearStatus(*req.Status)
	}
	// 当前学期必须处于 active
	if period.IsCurrent && period.Status != model.YearActive {
		period.IsCurrent = false
	}
	period.UpdatedBy = &callerID

	if err := s.repo.LecturePeriod.Update(ctx, period); err != nil {
		s.logger.Error("更新学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toPeriodResponse(period), nil
}

// ────────────────────── ListByYear ──────────────────────

func (s *lecturePeriodService) ListByYear(ctx context.Context, yearID string) ([]dto.LecturePeriodResponse, error) {
	periods, err := s.repo.LecturePeriod.ListByYear(ctx, yearID)
	if err != nil {
		s.logger.Error("列出学期失败", zap.String("year_id", yearID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.LecturePeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *toPeriodResponse(&periods[i]))
	}
	return result, nil
}

// ────────────────────── SetCurrent ──────────────────────

func (s *lecturePeriodService) SetCurrent(ctx context.Context, id string, callerID string) (*dto.LecturePeriodResponse, error) {
	var period *model.LecturePeriod
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		period, err = s.getPeriod(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := s.editableYear(ctx, period.YearID); err != nil {
			return err
		}
		if err := tx.LecturePeriod.LockByYear(ctx, period.YearID); err != nil {
			return err
		}
		if err := tx.LecturePeriod.ClearCurrent(ctx, period.YearID, period.PeriodID); err != nil {
			return err
		}
		period.IsCurrent = true
		period.Status = model.YearActive
		period.UpdatedBy = &callerID
		return tx.LecturePeriod.Update(ctx, period)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("设置当前学期失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("当前学期已切换", zap.String("period_id", period.PeriodID), zap.String("year_id", period.YearID))
	return toPeriodResponse(period), nil
}

// ── 辅助 ──

func (s *lecturePeriodService) getPeriod(ctx context.Context, repo *repository.Repository, id string) (*model.LecturePeriod, error) {
	period, err := repo.LecturePeriod.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLecturePeriodNotFound
		}
		s.logger.Error("查询学期失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return period, nil
}

func (s *lecturePeriodService) editableYear(ctx context.Context, yearID string) (*model.AcademicYear, error) {
	year, err := s.repo.AcademicYear.GetByID(ctx, yearID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", yearID), zap.Error(err))
		return nil, err
	}
	if err := rules.GuardYearEdit(year.Status, s.cfg.EnforceClosedYear); err != nil {
		return nil, err
	}
	return year, nil
}

func validatePeriodRange(year *model.AcademicYear, start, end time.Time) error {
	if err := rules.ValidateDateRange(start, end); err != nil {
		return err
	}
	if start.Before(year.StartDate) || end.After(year.EndDate) {
		return ErrPeriodOutsideYear
	}
	return nil
}

func toPeriodResponse(p *model.LecturePeriod) *dto.LecturePeriodResponse {
	return &dto.LecturePeriodResponse{
		ID:        p.PeriodID,
		YearID:    p.YearID,
		Name:      p.Name,
		Number:    p.Number,
		StartDate: formatDate(p.StartDate),
		EndDate:   formatDate(p.EndDate),
		Status:    string(p.Status),
		IsCurrent: p.IsCurrent,
	}
}
