package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 站内通知业务错误 ──

var (
	ErrNoticeNotFound           = fmt.Errorf("%w: 通知不存在", apperrors.ErrNotFound)
	ErrNoticeRecipientsRequired = fmt.Errorf("%w: 定向通知至少需要一个接收人", apperrors.ErrValidation)
	ErrNoticeRecipientNotFound  = fmt.Errorf("%w: 接收人不存在", apperrors.ErrValidation)
)

// NoticeService 站内通知：发布、停用，以及用户查看与已读标记
type NoticeService interface {
	Create(ctx context.Context, req *dto.CreateNoticeRequest, callerID string) (*dto.NoticeResponse, error)
	ListAll(ctx context.Context, req *dto.PaginationRequest) ([]dto.NoticeResponse, int64, error)
	SetActive(ctx context.Context, id string, active bool) error

	// ListMine 当前用户可见的启用通知，最新的在前
	ListMine(ctx context.Context, userID string, req *dto.NoticeListRequest) ([]dto.NoticeResponse, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// MarkRead 不可见的通知按不存在处理；重复标记无副作用
	MarkRead(ctx context.Context, userID, noticeID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type noticeService struct {
	repo   *repository.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewNoticeService 创建 NoticeService 实例
func NewNoticeService(repo *repository.Repository, logger *zap.Logger) NoticeService {
	return &noticeService{repo: repo, now: time.Now, logger: logger}
}

// ────────────────────── 发布与管理 ──────────────────────

func (s *noticeService) Create(ctx context.Context, req *dto.CreateNoticeRequest, callerID string) (*dto.NoticeResponse, error) {
	recipients := dedupe(req.Recipients)
	if !req.Global && len(recipients) == 0 {
		return nil, ErrNoticeRecipientsRequired
	}
	if !req.Global {
		for _, uid := range recipients {
			if _, err := s.repo.User.GetByID(ctx, uid); err != nil {
				if isNotFound(err) {
					return nil, fmt.Errorf("%w: %s", ErrNoticeRecipientNotFound, uid)
				}
				s.logger.Error("查询接收人失败", zap.String("user_id", uid), zap.Error(err))
				return nil, err
			}
		}
	} else {
		recipients = nil
	}

	n := &model.Notice{
		Title:   strings.TrimSpace(req.Title),
		Message: strings.TrimSpace(req.Message),
		Kind:    model.NoticeInfo,
		Global:  req.Global,
		Active:  true,
	}
	if req.Kind != "" {
		n.Kind = model.NoticeKind(req.Kind)
	}
	n.CreatedBy = &callerID
	n.UpdatedBy = &callerID

	if err := s.repo.Notice.Create(ctx, n, recipients); err != nil {
		s.logger.Error("发布通知失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("通知已发布",
		zap.String("notice_id", n.NoticeID),
		zap.Bool("global", n.Global),
		zap.Int("recipients", len(recipients)),
	)
	return toNoticeResponse(n, false), nil
}

func (s *noticeService) ListAll(ctx context.Context, req *dto.PaginationRequest) ([]dto.NoticeResponse, int64, error) {
	list, total, err := s.repo.Notice.ListAll(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出通知失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.NoticeResponse, 0, len(list))
	for i := range list {
		result = append(result, *toNoticeResponse(&list[i], false))
	}
	return result, total, nil
}

func (s *noticeService) SetActive(ctx context.Context, id string, active bool) error {
	n, err := s.repo.Notice.SetActive(ctx, id, active)
	if err != nil {
		s.logger.Error("更新通知状态失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrNoticeNotFound
	}
	return nil
}

// ────────────────────── 我的通知 ──────────────────────

func (s *noticeService) ListMine(ctx context.Context, userID string, req *dto.NoticeListRequest) ([]dto.NoticeResponse, int64, error) {
	list, total, err := s.repo.Notice.ListForUser(ctx, userID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出我的通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.NoticeResponse, 0, len(list))
	for i := range list {
		result = append(result, *toNoticeResponse(&list[i].Notice, list[i].Read))
	}
	return result, total, nil
}

func (s *noticeService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.Notice.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("统计未读通知失败", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (s *noticeService) MarkRead(ctx context.Context, userID, noticeID string) error {
	ok, err := s.repo.Notice.VisibleTo(ctx, noticeID, userID)
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("id", noticeID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrNoticeNotFound
	}
	return s.repo.Notice.MarkRead(ctx, noticeID, userID, s.now())
}

func (s *noticeService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.Notice.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		s.logger.Error("全部标记已读失败", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// ── 辅助 ──

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toNoticeResponse(n *model.Notice, read bool) *dto.NoticeResponse {
	return &dto.NoticeResponse{
		ID:        n.NoticeID,
		Title:     n.Title,
		Message:   n.Message,
		Kind:      string(n.Kind),
		Global:    n.Global,
		Active:    n.Active,
		Read:      read,
		CreatedAt: formatTime(n.CreatedAt),
	}
}
