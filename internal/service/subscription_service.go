package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// ── 订阅模块业务错误 ──

var (
	ErrSubscriptionNotFound  = fmt.Errorf("%w: 尚未登记订阅", apperrors.ErrNotFound)
	ErrSubscriptionExists    = fmt.Errorf("%w: 订阅已登记", apperrors.ErrConflict)
	ErrPaymentNotFound       = fmt.Errorf("%w: 付款记录不存在", apperrors.ErrNotFound)
	ErrPaymentAmountInvalid  = fmt.Errorf("%w: 付款金额必须为正数且最多两位小数", apperrors.ErrValidation)
	ErrPaymentAlreadyHandled = fmt.Errorf("%w: 付款已审核", apperrors.ErrPolicyViolation)
)

// SubscriptionService 学校订阅状态、续费登记与审核
type SubscriptionService interface {
	// Start 首次登记，开启 15 天试用
	Start(ctx context.Context, req *dto.StartSubscriptionRequest, callerID string) (*dto.SubscriptionResponse, error)
	// Current 到期后状态按 expired 回显，不修改存储
	Current(ctx context.Context) (*dto.SubscriptionResponse, error)
	SubmitPayment(ctx context.Context, req *dto.SubmitPaymentRequest, callerID string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, req *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error)
	// ReviewPayment 通过时按套餐延长订阅；结果以站内通知告知登记人
	ReviewPayment(ctx context.Context, paymentID string, req *dto.ReviewPaymentRequest, callerID string) (*dto.PaymentResponse, error)
}

type subscriptionService struct {
	repo   *repository.Repository
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewSubscriptionService 创建 SubscriptionService 实例
func NewSubscriptionService(repo *repository.Repository, cfg config.AcademicConfig, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{repo: repo, loc: cfg.Location(), now: time.Now, logger: logger}
}

// ────────────────────── Start / Current ──────────────────────

func (s *subscriptionService) Start(ctx context.Context, req *dto.StartSubscriptionRequest, callerID string) (*dto.SubscriptionResponse, error) {
	_, err := s.repo.Subscription.Get(ctx)
	if err == nil {
		return nil, ErrSubscriptionExists
	}
	if !isNotFound(err) {
		s.logger.Error("查询订阅失败", zap.Error(err))
		return nil, err
	}

	today := s.today()
	expiry, _ := rules.PlanExpiry(model.PlanTrial, today)
	sub := &model.Subscription{
		SchoolName: strings.TrimSpace(req.SchoolName),
		Plan:       model.PlanTrial,
		Status:     model.SubscriptionActive,
		StartDate:  today,
		ExpiryDate: expiry,
		AmountPaid: decimal.Zero,
	}
	sub.CreatedBy = &callerID
	sub.UpdatedBy = &callerID

	if err := s.repo.Subscription.Create(ctx, sub); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrSubscriptionExists
		}
		s.logger.Error("登记订阅失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("订阅试用已开启", zap.String("school", sub.SchoolName), zap.Time("expiry", sub.ExpiryDate))
	return s.toSubscriptionResponse(sub), nil
}

func (s *subscriptionService) Current(ctx context.Context) (*dto.SubscriptionResponse, error) {
	sub, err := s.getSubscription(ctx)
	if err != nil {
		return nil, err
	}
	return s.toSubscriptionResponse(sub), nil
}

// ────────────────────── 续费付款 ──────────────────────

func (s *subscriptionService) SubmitPayment(ctx context.Context, req *dto.SubmitPaymentRequest, callerID string) (*dto.PaymentResponse, error) {
	sub, err := s.getSubscription(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() || amount.Exponent() < -2 {
		return nil, ErrPaymentAmountInvalid
	}
	paidOn, err := parseDate(req.PaidOn)
	if err != nil {
		return nil, err
	}

	p := &model.SubscriptionPayment{
		SubscriptionID: sub.SubscriptionID,
		Plan:           model.SubscriptionPlan(req.Plan),
		Amount:         amount,
		PaidOn:         paidOn,
		Reference:      strings.TrimSpace(req.Reference),
		Notes:          strings.TrimSpace(req.Notes),
		Status:         model.PaymentPending,
	}
	if _, err := rules.PlanExpiry(p.Plan, paidOn); err != nil {
		return nil, err
	}
	p.CreatedBy = &callerID
	p.UpdatedBy = &callerID

	if err := s.repo.Subscription.CreatePayment(ctx, p); err != nil {
		s.logger.Error("登记付款失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("续费付款已登记",
		zap.String("payment_id", p.PaymentID),
		zap.String("plan", string(p.Plan)),
		zap.String("amount", p.Amount.StringFixed(2)),
		zap.String("by", callerID),
	)
	return toPaymentResponse(p), nil
}

func (s *subscriptionService) ListPayments(ctx context.Context, req *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error) {
	list, total, err := s.repo.Subscription.ListPayments(ctx, model.PaymentStatus(req.Status), req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出付款失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.PaymentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toPaymentResponse(&list[i]))
	}
	return result, total, nil
}

func (s *subscriptionService) ReviewPayment(ctx context.Context, paymentID string, req *dto.ReviewPaymentRequest, callerID string) (*dto.PaymentResponse, error) {
	var payment *model.SubscriptionPayment
	now := s.now()
	today := rules.CivilDate(now, s.loc)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		p, err := tx.Subscription.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			if isNotFound(err) {
				return ErrPaymentNotFound
			}
			return err
		}
		if p.Status != model.PaymentPending {
			return ErrPaymentAlreadyHandled
		}

		p.Status = model.PaymentRejected
		if req.Approve {
			p.Status = model.PaymentApproved
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			p.Notes = notes
		}
		p.ReviewedBy = &callerID
		p.ReviewedAt = &now
		p.UpdatedBy = &callerID
		if err := tx.Subscription.UpdatePayment(ctx, p); err != nil {
			return err
		}

		if req.Approve {
			if err := s.extend(ctx, tx, p, today, callerID); err != nil {
				return err
			}
		}
		payment = p

		if p.CreatedBy == nil {
			return nil
		}
		return tx.Notice.Create(ctx, reviewNotice(p, callerID), []string{*p.CreatedBy})
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("审核付款失败", zap.String("payment_id", paymentID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("续费付款已审核",
		zap.String("payment_id", paymentID),
		zap.String("status", string(payment.Status)),
		zap.String("by", callerID),
	)
	return toPaymentResponse(payment), nil
}

// extend 通过审核的付款：切换套餐、累计金额并顺延到期日
func (s *subscriptionService) extend(ctx context.Context, tx *repository.Repository, p *model.SubscriptionPayment, today time.Time, callerID string) error {
	sub, err := tx.Subscription.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	expiry, err := rules.RenewalExpiry(p.Plan, sub.ExpiryDate, today)
	if err != nil {
		return err
	}
	if sub.ExpiryDate.Before(today) {
		sub.StartDate = today
	}
	sub.ExpiryDate = expiry
	sub.Plan = p.Plan
	sub.Status = model.SubscriptionActive
	sub.AmountPaid = sub.AmountPaid.Add(p.Amount)
	sub.UpdatedBy = &callerID
	return tx.Subscription.Update(ctx, sub)
}

func reviewNotice(p *model.SubscriptionPayment, callerID string) *model.Notice {
	n := &model.Notice{
		Kind:   model.NoticeSystem,
		Active: true,
	}
	if p.Status == model.PaymentApproved {
		n.Title = "续费已确认"
		n.Message = fmt.Sprintf("金额 %s 的续费付款已审核通过，订阅已延长。", p.Amount.StringFixed(2))
	} else {
		n.Title = "续费未通过"
		n.Message = fmt.Sprintf("金额 %s 的续费付款未通过审核。%s", p.Amount.StringFixed(2), p.Notes)
	}
	n.CreatedBy = &callerID
	n.UpdatedBy = &callerID
	return n
}

// ── 辅助 ──

func (s *subscriptionService) today() time.Time {
	return rules.CivilDate(s.now(), s.loc)
}

func (s *subscriptionService) getSubscription(ctx context.Context) (*model.Subscription, error) {
	sub, err := s.repo.Subscription.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubscriptionNotFound
		}
		s.logger.Error("查询订阅失败", zap.Error(err))
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) toSubscriptionResponse(sub *model.Subscription) *dto.SubscriptionResponse {
	today := s.today()
	active := rules.SubscriptionActive(sub, today)
	status := sub.Status
	if status == model.SubscriptionActive && !active {
		status = model.SubscriptionExpired
	}
	return &dto.SubscriptionResponse{
		ID:            sub.SubscriptionID,
		SchoolName:    sub.SchoolName,
		Plan:          string(sub.Plan),
		Status:        string(status),
		StartDate:     formatDate(sub.StartDate),
		ExpiryDate:    formatDate(sub.ExpiryDate),
		AmountPaid:    sub.AmountPaid.StringFixed(2),
		Active:        active,
		DaysRemaining: rules.DaysRemaining(sub, today),
	}
}

func toPaymentResponse(p *model.SubscriptionPayment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:          p.PaymentID,
		Plan:        string(p.Plan),
		Amount:      p.Amount.StringFixed(2),
		PaidOn:      formatDate(p.PaidOn),
		Reference:   p.Reference,
		Notes:       p.Notes,
		Status:      string(p.Status),
		SubmittedBy: p.CreatedBy,
		ReviewedBy:  p.ReviewedBy,
		ReviewedAt:  formatTimePtr(p.ReviewedAt),
	}
}
