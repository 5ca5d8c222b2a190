package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// SubscriptionRepository 订阅与续费付款数据访问接口
type SubscriptionRepository interface {
	// Get 返回唯一的订阅记录，不存在时返回 gorm.ErrRecordNotFound
	Get(ctx context.Context) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error
	Update(ctx context.Context, sub *model.Subscription) error

	CreatePayment(ctx context.Context, p *model.SubscriptionPayment) error
	// GetPaymentForUpdate 读取并锁定付款记录，防止重复审核
	GetPaymentForUpdate(ctx context.Context, id string) (*model.SubscriptionPayment, error)
	UpdatePayment(ctx context.Context, p *model.SubscriptionPayment) error
	ListPayments(ctx context.Context, status model.PaymentStatus, offset, limit int) ([]model.SubscriptionPayment, int64, error)
}

type subscriptionRepo struct {
	db *gorm.DB
}

// NewSubscriptionRepo 创建 SubscriptionRepository 实例
func NewSubscriptionRepo(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Get(ctx context.Context) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	return translateError(r.db.WithContext(ctx).Create(sub).Error)
}

func (r *subscriptionRepo) Update(ctx context.Context, sub *model.Subscription) error {
	return updateVersioned(r.db.WithContext(ctx), sub, &sub.Version)
}

func (r *subscriptionRepo) CreatePayment(ctx context.Context, p *model.SubscriptionPayment) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *subscriptionRepo) GetPaymentForUpdate(ctx context.Context, id string) (*model.SubscriptionPayment, error) {
	var p model.SubscriptionPayment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *subscriptionRepo) UpdatePayment(ctx context.Context, p *model.SubscriptionPayment) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error)
}

func (r *subscriptionRepo) ListPayments(ctx context.Context, status model.PaymentStatus, offset, limit int) ([]model.SubscriptionPayment, int64, error) {
	var list []model.SubscriptionPayment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SubscriptionPayment{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}
