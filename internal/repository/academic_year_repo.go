package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// AcademicYearRepository 学年数据访问接口
type AcademicYearRepository interface {
	Create(ctx context.Context, year *model.AcademicYear) error
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	GetCurrent(ctx context.Context) (*model.AcademicYear, error)
	List(ctx context.Context) ([]model.AcademicYear, error)
	Update(ctx context.Context, year *model.AcademicYear) error
	Delete(ctx context.Context, id string) error
	// LockAll 锁住全部学年行，保证"当前学年/唯一进行中"的排他更新串行执行
	LockAll(ctx context.Context) error
	// ClearCurrent 除 exceptID 外全部取消 is_current
	ClearCurrent(ctx context.Context, exceptID string) error
	// CloseOtherActive 除 exceptID 外进行中的学年全部结束，并取消 is_current
	CloseOtherActive(ctx context.Context, exceptID string) (int64, error)
}

type academicYearRepo struct {
	db *gorm.DB
}

// NewAcademicYearRepo 创建 AcademicYearRepository 实例
func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) Create(ctx context.Context, year *model.AcademicYear) error {
	return translateError(r.db.WithContext(ctx).Create(year).Error)
}

func (r *academicYearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("year_id = ?", id).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) GetCurrent(ctx context.Context) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) List(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&years).Error
	return years, err
}

func (r *academicYearRepo) Update(ctx context.Context, year *model.AcademicYear) error {
	return updateVersioned(r.db.WithContext(ctx), year, &year.Version)
}

// Delete 物理删除，期间/事件/报名由外键级联删除
func (r *academicYearRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("year_id = ?", id).
		Delete(&model.AcademicYear{}).Error
}

func (r *academicYearRepo) LockAll(ctx context.Context) error {
	var ids []string
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("year_id", &ids).Error
}

func (r *academicYearRepo) ClearCurrent(ctx context.Context, exceptID string) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("is_current = ? AND year_id <> ?", true, exceptID).
		Updates(map[string]interface{}{
			"is_current": false,
			"version":    gorm.Expr("version + 1"),
		}).Error
}

func (r *academicYearRepo) CloseOtherActive(ctx context.Context, exceptID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.AcademicYear{}).
		Where("status = ? AND year_id <> ?", model.YearActive, exceptID).
		Updates(map[string]interface{}{
			"status":     model.YearClosed,
			"is_current": false,
			"version":    gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}
