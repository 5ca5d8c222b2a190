package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// YearStatus 学年状态：planned → active → closed
type YearStatus string

const (
	YearPlanned YearStatus = "planned"
	YearActive  YearStatus = "active"
	YearClosed  YearStatus = "closed"
)

// Valid 是否为已知状态
func (s YearStatus) Valid() bool {
	switch s {
	case YearPlanned, YearActive, YearClosed:
		return true
	}
	return false
}

// FeePolicy 学年收费策略，只做存储与回显，不参与计算
type FeePolicy struct {
	ChargeFees         bool            `gorm:"not null;default:false"         json:"charge_fees"`
	PaymentDueDay      int             `gorm:"not null;default:10"            json:"payment_due_day"`
	PenaltyStartDay    int             `gorm:"not null;default:11"            json:"penalty_start_day"`
	InitialPenaltyPct  decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"initial_penalty_pct"`
	DailyPenaltyPct    decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"daily_penalty_pct"`
	PenaltyDeadlineDay int             `gorm:"not null;default:0"             json:"penalty_deadline_day"`
	BlockOnDebt        bool            `gorm:"not null;default:false"         json:"block_on_debt"`
	BlockOnDebtDay     int             `gorm:"not null;default:0"             json:"block_on_debt_day"`
}

// AcademicYear 学年表，对应 academic_years
type AcademicYear struct {
	YearID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"year_id"`
	Code        string     `gorm:"type:varchar(9);not null;uniqueIndex"           json:"code"` // 2025/2026
	Description string     `gorm:"type:varchar(200);not null;default:''"          json:"description"`
	StartDate   time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	Status      YearStatus `gorm:"type:varchar(10);not null;default:'planned'"    json:"status"`
	IsCurrent   bool       `gorm:"not null;default:false"                         json:"is_current"`
	FeePolicy   FeePolicy  `gorm:"embedded;embeddedPrefix:fee_"                   json:"fee_policy"`
	VersionedModel
}

// TableName 指定表名
func (AcademicYear) TableName() string { return "academic_years" }

// StartYear 学年起始年份，用于教师编号 PROF/{year}/NNNN
func (y *AcademicYear) StartYear() int {
	return y.StartDate.Year()
}
