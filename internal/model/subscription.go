package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionPlan 订阅套餐
type SubscriptionPlan string

const (
	PlanTrial   SubscriptionPlan = "trial"
	PlanMonthly SubscriptionPlan = "monthly"
	PlanAnnual  SubscriptionPlan = "annual"
)

// SubscriptionStatus 订阅状态
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription 学校的系统使用订阅，对应 subscriptions；全库只有一条
type Subscription struct {
	SubscriptionID string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subscription_id"`
	SchoolName     string             `gorm:"type:varchar(200);not null"                     json:"school_name"`
	Plan           SubscriptionPlan   `gorm:"type:varchar(10);not null;default:'trial'"      json:"plan"`
	Status         SubscriptionStatus `gorm:"type:varchar(10);not null;default:'pending'"    json:"status"`
	StartDate      time.Time          `gorm:"type:date;not null"                             json:"start_date"`
	ExpiryDate     time.Time          `gorm:"type:date;not null"                             json:"expiry_date"`
	AmountPaid     decimal.Decimal    `gorm:"type:numeric(10,2);not null;default:0"          json:"amount_paid"`
	Notes          string             `gorm:"type:text;not null;default:''"                  json:"notes"`
	VersionedModel
}

// TableName 指定表名
func (Subscription) TableName() string { return "subscriptions" }

// PaymentStatus 付款审核状态
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// SubscriptionPayment 续费付款登记，对应 subscription_payments
// 审核通过后才会延长订阅
type SubscriptionPayment struct {
	PaymentID      string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`
	SubscriptionID string           `gorm:"type:uuid;not null;index"                       json:"subscription_id"`
	Plan           SubscriptionPlan `gorm:"type:varchar(10);not null"                      json:"plan"`
	Amount         decimal.Decimal  `gorm:"type:numeric(10,2);not null"                    json:"amount"`
	PaidOn         time.Time        `gorm:"type:date;not null"                             json:"paid_on"`
	Reference      string           `gorm:"type:varchar(100);not null;default:''"          json:"reference"`
	Notes          string           `gorm:"type:text;not null;default:''"                  json:"notes"`
	Status         PaymentStatus    `gorm:"type:varchar(10);not null;default:'pending'"    json:"status"`
	ReviewedBy     *string          `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (SubscriptionPayment) TableName() string { return "subscription_payments" }
