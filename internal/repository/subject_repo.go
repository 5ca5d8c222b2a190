package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	FindByName(ctx context.Context, courseID, name string) (*model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]model.Subject, error)
	// CountGradeReferences 引用该科目的成绩记录数（既往成绩 + 学生成绩）
	CountGradeReferences(ctx context.Context, id string) (int64, error)

	// ── 先修关系 ──

	// PrerequisiteEdges 返回全部先修边：subject_id → []required_subject_id
	PrerequisiteEdges(ctx context.Context) (map[string][]string, error)
	ListPrerequisites(ctx context.Context, subjectID string) ([]model.Subject, error)
	AddPrerequisite(ctx context.Context, edge *model.SubjectPrerequisite) error
	RemovePrerequisite(ctx context.Context, subjectID, requiredID string) (int64, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return translateError(r.db.WithContext(ctx).Create(subject).Error)
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) FindByName(ctx context.Context, courseID, name string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND LOWER(name) = LOWER(?)", courseID, name).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) Update(ctx context.Context, subject *model.Subject) error {
	return translateError(r.db.WithContext(ctx).Save(subject).Error)
}

func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	return translateError(r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		Delete(&model.Subject{}).Error)
}

func (r *subjectRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("curricular_year ASC, period ASC, name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) CountGradeReferences(ctx context.Context, id string) (int64, error) {
	var history, grades int64
	if err := r.db.WithContext(ctx).
		Model(&model.SubjectGrade{}).
		Where("subject_id = ?", id).
		Count(&history).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.StudentGrade{}).
		Where("subject_id = ?", id).
		Count(&grades).Error; err != nil {
		return 0, err
	}
	return history + grades, nil
}

func (r *subjectRepo) PrerequisiteEdges(ctx context.Context) (map[string][]string, error) {
	var rows []model.SubjectPrerequisite
	// 锁住边表，防止并发插入绕过环检测
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	edges := make(map[string][]string, len(rows))
	for _, row := range rows {
		edges[row.SubjectID] = append(edges[row.SubjectID], row.RequiredSubjectID)
	}
	return edges, nil
}

func (r *subjectRepo) ListPrerequisites(ctx context.Context, subjectID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Joins("JOIN subject_prerequisites sp ON sp.required_subject_id = subjects.subject_id").
		Where("sp.subject_id = ?", subjectID).
		Order("subjects.name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) AddPrerequisite(ctx context.Context, edge *model.SubjectPrerequisite) error {
	return translateError(r.db.WithContext(ctx).Create(edge).Error)
}

func (r *subjectRepo) RemovePrerequisite(ctx context.Context, subjectID, requiredID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("subject_id = ? AND required_subject_id = ?", subjectID, requiredID).
		Delete(&model.SubjectPrerequisite{})
	return res.RowsAffected, res.Error
}
