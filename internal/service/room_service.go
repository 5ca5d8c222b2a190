package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ── 教室模块业务错误 ──

var (
	ErrRoomNotFound   = fmt.Errorf("%w: 教室不存在", apperrors.ErrNotFound)
	ErrRoomNameExists = fmt.Errorf("%w: 教室名称已存在", apperrors.ErrConflict)
	ErrRoomInactive   = fmt.Errorf("%w: 教室已停用", apperrors.ErrPolicyViolation)
	ErrRoomInUse      = fmt.Errorf("%w: 教室仍有排定的课节，不能删除或停用", apperrors.ErrPolicyViolation)
)

// RoomService 教室业务接口
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RoomResponse, error)
	List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建 RoomService 实例
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room := &model.Room{
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		Kind:     model.RoomNormal,
		Active:   true,
	}
	if req.Kind != "" {
		room.Kind = model.RoomKind(req.Kind)
	}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrRoomNameExists
		}
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	return toRoomResponse(room), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *roomService) GetByID(ctx context.Context, id string) (*dto.RoomResponse, error) {
	room, err := s.getRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────────────────── List ──────────────────────

func (s *roomService) List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *toRoomResponse(&rooms[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room, err := s.getRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Kind != nil {
		room.Kind = model.RoomKind(*req.Kind)
	}
	if req.Active != nil {
		if room.Active && !*req.Active {
			if err := s.ensureUnused(ctx, id); err != nil {
				return nil, err
			}
		}
		room.Active = *req.Active
	}
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Update(ctx, room); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrRoomNameExists
		}
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────────────────── Delete ──────────────────────

func (s *roomService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getRoom(ctx, id); err != nil {
		return err
	}
	if err := s.ensureUnused(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Room.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("教室已删除", zap.String("id", id), zap.String("by", callerID))
	return nil
}

// ── 内部辅助方法 ──

func (s *roomService) getRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRoomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return room, nil
}

// ensureUnused active 课节仍占用的教室不能删除或停用
func (s *roomService) ensureUnused(ctx context.Context, id string) error {
	n, err := s.repo.Lesson.CountActiveByRoom(ctx, id)
	if err != nil {
		s.logger.Error("统计教室课节失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrRoomInUse
	}
	return nil
}

func toRoomResponse(room *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:       room.RoomID,
		Name:     room.Name,
		Capacity: room.Capacity,
		Kind:     string(room.Kind),
		Active:   room.Active,
	}
}
