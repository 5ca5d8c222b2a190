package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// NoticeRepository 站内通知数据访问接口
type NoticeRepository interface {
	// Create 写入通知及其接收人；全局通知不写接收人
	Create(ctx context.Context, n *model.Notice, recipients []string) error
	GetByID(ctx context.Context, id string) (*model.Notice, error)
	SetActive(ctx context.Context, id string, active bool) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.Notice, int64, error)

	// VisibleTo 通知处于启用状态且对该用户可见
	VisibleTo(ctx context.Context, noticeID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.NoticeView, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	// MarkRead 重复标记不报错
	MarkRead(ctx context.Context, noticeID, userID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
}

type noticeRepo struct {
	db *gorm.DB
}

// NewNoticeRepo 创建 NoticeRepository 实例
func NewNoticeRepo(db *gorm.DB) NoticeRepository {
	return &noticeRepo{db: db}
}

func (r *noticeRepo) Create(ctx context.Context, n *model.Notice, recipients []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return translateError(err)
		}
		if n.Global || len(recipients) == 0 {
			return nil
		}
		rows := make([]model.NoticeRecipient, 0, len(recipients))
		for _, uid := range recipients {
			rows = append(rows, model.NoticeRecipient{NoticeID: n.NoticeID, UserID: uid})
		}
		return translateError(tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error)
	})
}

func (r *noticeRepo) GetByID(ctx context.Context, id string) (*model.Notice, error) {
	var n model.Notice
	err := r.db.WithContext(ctx).
		Where("notice_id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noticeRepo) SetActive(ctx context.Context, id string, active bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Notice{}).
		Where("notice_id = ?", id).
		Updates(map[string]interface{}{"active": active, "updated_at": gorm.Expr("NOW()")})
	return res.RowsAffected, res.Error
}

func (r *noticeRepo) ListAll(ctx context.Context, offset, limit int) ([]model.Notice, int64, error) {
	var list []model.Notice
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Notice{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

// visible 当前用户可见的启用通知
func (r *noticeRepo) visible(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("notices AS n").
		Where("n.active").
		Where("n.is_global OR EXISTS (SELECT 1 FROM notice_recipients nr WHERE nr.notice_id = n.notice_id AND nr.user_id = ?)", userID)
}

func (r *noticeRepo) VisibleTo(ctx context.Context, noticeID, userID string) (bool, error) {
	var n int64
	err := r.visible(ctx, userID).Where("n.notice_id = ?", noticeID).Count(&n).Error
	return n > 0, err
}

func (r *noticeRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]model.NoticeView, int64, error) {
	var list []model.NoticeView
	var total int64

	db := r.visible(ctx, userID).
		Joins("LEFT JOIN notice_reads rd ON rd.notice_id = n.notice_id AND rd.user_id = ?", userID)
	if unreadOnly {
		db = db.Where("rd.user_id IS NULL")
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Select("n.*, rd.user_id IS NOT NULL AS is_read").
		Order("n.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&list).Error
	return list, total, err
}

func (r *noticeRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.visible(ctx, userID).
		Where("NOT EXISTS (SELECT 1 FROM notice_reads rd WHERE rd.notice_id = n.notice_id AND rd.user_id = ?)", userID).
		Count(&n).Error
	return n, err
}

func (r *noticeRepo) MarkRead(ctx context.Context, noticeID, userID string, at time.Time) error {
	row := model.NoticeRead{NoticeID: noticeID, UserID: userID, ReadAt: at}
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error)
}

func (r *noticeRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO notice_reads (notice_id, user_id, read_at)
		SELECT n.notice_id, ?, ? FROM notices n
		WHERE n.active
		  AND (n.is_global OR EXISTS (SELECT 1 FROM notice_recipients nr WHERE nr.notice_id = n.notice_id AND nr.user_id = ?))
		ON CONFLICT DO NOTHING`, userID, at, userID)
	return res.RowsAffected, res.Error
}
