package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 学年模块业务错误 ──

var (
	ErrAcademicYearNotFound   = fmt.Errorf("%w: 学年不存在", apperrors.ErrNotFound)
	ErrNoCurrentAcademicYear  = fmt.Errorf("%w: 尚未设置当前学年", apperrors.ErrNotFound)
	ErrAcademicYearCodeExists = fmt.Errorf("%w: 学年代码已存在", apperrors.ErrConflict)
	ErrAcademicYearIsCurrent  = fmt.Errorf("%w: 不能删除当前学年", apperrors.ErrPolicyViolation)
	ErrPenaltyPctInvalid      = fmt.Errorf("%w: 罚金百分比必须在 0 到 100 之间", apperrors.ErrValidation)

	// ErrAcademicYearClosed 已结束学年禁止修改
	ErrAcademicYearClosed = rules.ErrYearClosed
)

// AcademicYearService 学年业务接口
type AcademicYearService interface {
	Create(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AcademicYearResponse, error)
	GetCurrent(ctx context.Context) (*dto.AcademicYearResponse, error)
	List(ctx context.Context) ([]dto.AcademicYearResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error)
	// SetCurrent 设置当前学年的唯一入口
	SetCurrent(ctx context.Context, id string, callerID string) (*dto.AcademicYearResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	EnrollmentsOpen(ctx context.Context, id string) (bool, error)
}

type academicYearService struct {
	repo   *repository.Repository
	cfg    config.AcademicConfig
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewAcademicYearService 创建 AcademicYearService 实例
func NewAcademicYearService(repo *repository.Repository, cfg config.AcademicConfig, logger *zap.Logger) AcademicYearService {
	return &academicYearService{
		repo:   repo,
		cfg:    cfg,
		loc:    cfg.Location(),
		now:    time.Now,
		logger: logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *academicYearService) Create(ctx context.Context, req *dto.CreateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error) {
	if err := rules.ValidateYearCode(req.Code); err != nil {
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

	status := model.YearPlanned
	if req.Status != "" {
		status = model.YearStatus(req.Status)
	}

	year := &model.AcademicYear{
		Code:        req.Code,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
	}
	if req.FeePolicy != nil {
		fee, err := toFeePolicy(req.FeePolicy)
		if err != nil {
			return nil, err
		}
		year.FeePolicy = fee
	}
	year.CreatedBy = &callerID
	year.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.AcademicYear.LockAll(ctx); err != nil {
			return err
		}
		// 先以非当前状态落库，is_current 只经由 setCurrent 设置
		if err := tx.AcademicYear.Create(ctx, year); err != nil {
			return err
		}
		if req.IsCurrent {
			return s.setCurrent(ctx, tx, year)
		}
		if year.Status == model.YearActive {
			return s.closeOthers(ctx, tx, year.YearID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAcademicYearCodeExists
		}
		s.logger.Error("创建学年失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学年已创建",
		zap.String("year_id", year.YearID),
		zap.String("code", year.Code),
		zap.String("status", string(year.Status)),
		zap.Bool("is_current", year.IsCurrent),
	)
	return s.toResponse(ctx, year), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *academicYearService) GetByID(ctx context.Context, id string) (*dto.AcademicYearResponse, error) {
	year, err := s.getYear(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, year), nil
}

// ────────────────────── GetCurrent ──────────────────────

func (s *academicYearService) GetCurrent(ctx context.Context) (*dto.AcademicYearResponse, error) {
	year, err := s.repo.AcademicYear.GetCurrent(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoCurrentAcademicYear
		}
		s.logger.Error("查询当前学年失败", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, year), nil
}

// ────────────────────── List ──────────────────────

func (s *academicYearService) List(ctx context.Context) ([]dto.AcademicYearResponse, error) {
	years, err := s.repo.AcademicYear.List(ctx)
	if err != nil {
		s.logger.Error("列出学年失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AcademicYearResponse, 0, len(years))
	for i := range years {
		result = append(result, *s.toResponse(ctx, &years[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *academicYearService) Update(ctx context.Context, id string, req *dto.UpdateAcademicYearRequest, callerID string) (*dto.AcademicYearResponse, error) {
	var year *model.AcademicYear
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.AcademicYear.LockAll(ctx); err != nil {
			return err
		}
		var err error
		year, err = tx.AcademicYear.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrAcademicYearNotFound
			}
			return err
		}
		if err := rules.GuardYearEdit(year.Status, s.cfg.EnforceClosedYear); err != nil {
			return err
		}

		wasActive := year.Status == model.YearActive
		if err := applyYearUpdate(year, req); err != nil {
			return err
		}
		year.Version = req.Version
		year.UpdatedBy = &callerID

		// 离开 active 的当前学年同时失去当前标志
		if year.IsCurrent && year.Status != model.YearActive {
			year.IsCurrent = false
		}
		if err := tx.AcademicYear.Update(ctx, year); err != nil {
			return err
		}
		if year.Status == model.YearActive && !wasActive {
			return s.closeOthers(ctx, tx, year.YearID)
		}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("更新学年失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	return s.toResponse(ctx, year), nil
}

func applyYearUpdate(year *model.AcademicYear, req *dto.UpdateAcademicYearRequest) error {
	if req.Description != nil {
		year.Description = *req.Description
	}
	if req.StartDate != nil {
		d, err := parseDate(*req.StartDate)
		if err != nil {
			return err
		}
		year.StartDate = d
	}
	if req.EndDate != nil {
		d, err := parseDate(*req.EndDate)
		if err != nil {
			return err
		}
		year.EndDate = d
	}
	if err := rules.ValidateDateRange(year.StartDate, year.EndDate); err != nil {
		return err
	}
	if req.Status != nil {
		year.Status = model.YearStatus(*req.Status)
	}
	if req.FeePolicy != nil {
		fee, err := toFeePolicy(req.FeePolicy)
		if err != nil {
			return err
		}
		year.FeePolicy = fee
	}
	return nil
}

// ────────────────────── SetCurrent ──────────────────────

func (s *academicYearService) SetCurrent(ctx context.Context, id string, callerID string) (*dto.AcademicYearResponse, error) {
	var year *model.AcademicYear
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.AcademicYear.LockAll(ctx); err != nil {
			return err
		}
		var err error
		year, err = tx.AcademicYear.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return ErrAcademicYearNotFound
			}
			return err
		}
		if err := rules.GuardYearEdit(year.Status, s.cfg.EnforceClosedYear); err != nil {
			return err
		}
		year.UpdatedBy = &callerID
		return s.setCurrent(ctx, tx, year)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("设置当前学年失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("当前学年已切换", zap.String("year_id", year.YearID), zap.String("code", year.Code))
	return s.toResponse(ctx, year), nil
}

// setCurrent 其他学年全部结束并取消当前标志，目标学年强制为 active
// 调用方须已在事务内锁住学年表
func (s *academicYearService) setCurrent(ctx context.Context, tx *repository.Repository, year *model.AcademicYear) error {
	if err := s.closeOthers(ctx, tx, year.YearID); err != nil {
		return err
	}
	if err := tx.AcademicYear.ClearCurrent(ctx, year.YearID); err != nil {
		return err
	}
	year.IsCurrent = true
	rules.NormalizeYear(year)
	return tx.AcademicYear.Update(ctx, year)
}

// closeOthers 至多一个进行中的学年
func (s *academicYearService) closeOthers(ctx context.Context, tx *repository.Repository, exceptID string) error {
	n, err := tx.AcademicYear.CloseOtherActive(ctx, exceptID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("其他进行中的学年已结束", zap.String("except", exceptID), zap.Int64("closed", n))
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *academicYearService) Delete(ctx context.Context, id string, callerID string) error {
	year, err := s.getYear(ctx, id)
	if err != nil {
		return err
	}
	if year.IsCurrent {
		return ErrAcademicYearIsCurrent
	}

	if err := s.repo.AcademicYear.Delete(ctx, id); err != nil {
		s.logger.Error("删除学年失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("学年已删除", zap.String("year_id", id), zap.String("code", year.Code), zap.String("by", callerID))
	return nil
}

// ────────────────────── EnrollmentsOpen ──────────────────────

func (s *academicYearService) EnrollmentsOpen(ctx context.Context, id string) (bool, error) {
	if _, err := s.getYear(ctx, id); err != nil {
		return false, err
	}
	return s.enrollmentsOpen(ctx, id)
}

func (s *academicYearService) enrollmentsOpen(ctx context.Context, yearID string) (bool, error) {
	events, err := s.repo.CalendarEvent.ListByYearAndType(ctx, yearID, model.EventEnrollment)
	if err != nil {
		s.logger.Error("查询报名事件失败", zap.String("year_id", yearID), zap.Error(err))
		return false, err
	}
	return rules.EnrollmentsOpen(events, rules.CivilDate(s.now(), s.loc)), nil
}

// ── 辅助 ──

func (s *academicYearService) getYear(ctx context.Context, id string) (*model.AcademicYear, error) {
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

func toFeePolicy(req *dto.FeePolicyRequest) (model.FeePolicy, error) {
	initial, err := parsePenaltyPct(req.InitialPenaltyPct)
	if err != nil {
		return model.FeePolicy{}, err
	}
	daily, err := parsePenaltyPct(req.DailyPenaltyPct)
	if err != nil {
		return model.FeePolicy{}, err
	}
	return model.FeePolicy{
		ChargeFees:         req.ChargeFees,
		PaymentDueDay:      req.PaymentDueDay,
		PenaltyStartDay:    req.PenaltyStartDay,
		InitialPenaltyPct:  initial,
		DailyPenaltyPct:    daily,
		PenaltyDeadlineDay: req.PenaltyDeadlineDay,
		BlockOnDebt:        req.BlockOnDebt,
		BlockOnDebtDay:     req.BlockOnDebtDay,
	}, nil
}

func parsePenaltyPct(raw string) (decimal.Decimal, error) {
	d, err := rules.ParsePercent(raw)
	if err != nil {
		return decimal.Zero, ErrPenaltyPctInvalid
	}
	if d == nil {
		return decimal.Zero, nil
	}
	return *d, nil
}

func (s *academicYearService) toResponse(ctx context.Context, y *model.AcademicYear) *dto.AcademicYearResponse {
	open, err := s.enrollmentsOpen(ctx, y.YearID)
	if err != nil {
		open = false
	}
	fee := y.FeePolicy
	return &dto.AcademicYearResponse{
		ID:              y.YearID,
		Code:            y.Code,
		Description:     y.Description,
		StartDate:       formatDate(y.StartDate),
		EndDate:         formatDate(y.EndDate),
		Status:          string(y.Status),
		IsCurrent:       y.IsCurrent,
		EnrollmentsOpen: open,
		FeePolicy: dto.FeePolicyResponse{
			ChargeFees:         fee.ChargeFees,
			PaymentDueDay:      fee.PaymentDueDay,
			PenaltyStartDay:    fee.PenaltyStartDay,
			InitialPenaltyPct:  decStr(fee.InitialPenaltyPct),
			DailyPenaltyPct:    decStr(fee.DailyPenaltyPct),
			PenaltyDeadlineDay: fee.PenaltyDeadlineDay,
			BlockOnDebt:        fee.BlockOnDebt,
			BlockOnDebtDay:     fee.BlockOnDebtDay,
		},
		Version:   y.Version,
		CreatedAt: formatTime(y.CreatedAt),
		UpdatedAt: formatTime(y.UpdatedAt),
	}
}
