package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// CalendarEventRepository 校历事件数据访问接口
type CalendarEventRepository interface {
	Create(ctx context.Context, ev *model.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	Update(ctx context.Context, ev *model.CalendarEvent) error
	Delete(ctx context.Context, id string) error
	ListByYear(ctx context.Context, yearID string) ([]model.CalendarEvent, error)
	ListByYearAndType(ctx context.Context, yearID string, t model.EventType) ([]model.CalendarEvent, error)
}

type calendarEventRepo struct {
	db *gorm.DB
}

// NewCalendarEventRepo 创建 CalendarEventRepository 实例
func NewCalendarEventRepo(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepo{db: db}
}

func (r *calendarEventRepo) Create(ctx context.Context, ev *model.CalendarEvent) error {
	return translateError(r.db.WithContext(ctx).Create(ev).Error)
}

func (r *calendarEventRepo) GetByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	var ev model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&ev).Error
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *calendarEventRepo) Update(ctx context.Context, ev *model.CalendarEvent) error {
	return translateError(r.db.WithContext(ctx).Save(ev).Error)
}

func (r *calendarEventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.CalendarEvent{}).Error
}

func (r *calendarEventRepo) ListByYear(ctx context.Context, yearID string) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("year_id = ?", yearID).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *calendarEventRepo) ListByYearAndType(ctx context.Context, yearID string, t model.EventType) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("year_id = ? AND type = ?", yearID, t).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}
