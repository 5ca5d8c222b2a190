package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// EnrollmentFilter 报名列表筛选条件
type EnrollmentFilter struct {
	CourseID     string
	YearID       string
	ApprovedOnly bool
	Search       string // 按姓名或编号模糊查询
}

// EnrollmentRepository 报名数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	GetByNumber(ctx context.Context, number string) (*model.Enrollment, error)
	Update(ctx context.Context, e *model.Enrollment) error
	List(ctx context.Context, f EnrollmentFilter, offset, limit int) ([]model.Enrollment, int64, error)
	// ListRankable 返回参与排名的报名（课程 + 学年）
	ListRankable(ctx context.Context, courseID, yearID string) ([]model.Enrollment, error)
	// FindDuplicate 查找证件号/邮箱/电话任一相同的报名
	FindDuplicate(ctx context.Context, identityCard, email, phone string) (*model.Enrollment, error)
	// SetTestScore 写入入学考试成绩；清空成绩时同时撤销录取
	SetTestScore(ctx context.Context, id string, score *decimal.Decimal) (int64, error)
	// ResetApproval 撤销课程在该学年的全部录取
	ResetApproval(ctx context.Context, courseID, yearID string) error
	Approve(ctx context.Context, ids []string, at time.Time) error
	SetMatriculationStatus(ctx context.Context, id string, status model.MatriculationStatus) error
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	return translateError(r.db.WithContext(ctx).Omit("Course").Create(e).Error)
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("enrollment_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) GetByNumber(ctx context.Context, number string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("number = ?", number).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) Update(ctx context.Context, e *model.Enrollment) error {
	return translateError(r.db.WithContext(ctx).Omit("Course", "number", "enrolled_at").Save(e).Error)
}

func (r *enrollmentRepo) List(ctx context.Context, f EnrollmentFilter, offset, limit int) ([]model.Enrollment, int64, error) {
	var list []model.Enrollment
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Enrollment{})
	if f.CourseID != "" {
		db = db.Where("course_id = ?", f.CourseID)
	}
	if f.YearID != "" {
		db = db.Where("year_id = ?", f.YearID)
	}
	if f.ApprovedOnly {
		db = db.Where("approved = ?", true)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("full_name ILIKE ? OR number ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("number ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *enrollmentRepo) ListRankable(ctx context.Context, courseID, yearID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND year_id = ? AND test_score IS NOT NULL", courseID, yearID).
		Order("number ASC").
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepo) FindDuplicate(ctx context.Context, identityCard, email, phone string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Where("identity_card = ? OR LOWER(email) = LOWER(?) OR phone = ?", identityCard, email, phone).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) SetTestScore(ctx context.Context, id string, score *decimal.Decimal) (int64, error) {
	updates := map[string]interface{}{"test_score": score}
	if score == nil {
		updates["approved"] = false
		updates["result_at"] = nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *enrollmentRepo) ResetApproval(ctx context.Context, courseID, yearID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ? AND year_id = ?", courseID, yearID).
		Updates(map[string]interface{}{
			"approved":  false,
			"result_at": nil,
		}).Error
}

func (r *enrollmentRepo) Approve(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id IN ?", ids).
		Updates(map[string]interface{}{
			"approved":  true,
			"result_at": at,
		}).Error
}

func (r *enrollmentRepo) SetMatriculationStatus(ctx context.Context, id string, status model.MatriculationStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("enrollment_id = ?", id).
		Update("matriculation_status", status).Error
}
