package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User            UserRepository
	AcademicYear    AcademicYearRepository
	CalendarEvent   CalendarEventRepository
	LecturePeriod   LecturePeriodRepository
	AcademicLevel   AcademicLevelRepository
	Course          CourseRepository
	CurriculumGrade CurriculumGradeRepository
	Subject         SubjectRepository
	Prerequisite    PrerequisiteRepository
	Enrollment      EnrollmentRepository
	History         AcademicHistoryRepository
	AdmissionRun    AdmissionRunRepository
	Student         StudentRepository
	Professor       ProfessorRepository
	StudentGrade    StudentGradeRepository
	AcademicConfig  AcademicConfigRepository
	Sequence        SequenceRepository
	Room            RoomRepository
	ClassGroup      ClassGroupRepository
	Lesson          LessonRepository
	Subscription    SubscriptionRepository
	Notice          NoticeRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		User:            NewUserRepo(db),
		AcademicYear:    NewAcademicYearRepo(db),
		CalendarEvent:   NewCalendarEventRepo(db),
		LecturePeriod:   NewLecturePeriodRepo(db),
		AcademicLevel:   NewAcademicLevelRepo(db),
		Course:          NewCourseRepo(db),
		CurriculumGrade: NewCurriculumGradeRepo(db),
		Subject:         NewSubjectRepo(db),
		Prerequisite:    NewPrerequisiteRepo(db),
		Enrollment:      NewEnrollmentRepo(db),
		History:         NewAcademicHistoryRepo(db),
		AdmissionRun:    NewAdmissionRunRepo(db),
		Student:         NewStudentRepo(db),
		Professor:       NewProfessorRepo(db),
		StudentGrade:    NewStudentGradeRepo(db),
		AcademicConfig:  NewAcademicConfigRepo(db),
		Sequence:        NewSequenceRepo(db),
		Room:            NewRoomRepo(db),
		ClassGroup:      NewClassGroupRepo(db),
		Lesson:          NewLessonRepo(db),
		Subscription:    NewSubscriptionRepo(db),
		Notice:          NewNoticeRepo(db),
	}
}

// ── 事务 ──

// BeginTx 开启事务
// 单元测试中 Repository 只装配了 mock，没有 db，此时返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务的 Repository；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在同一事务内执行 fn，fn 返回错误或 panic 时回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return err
		}
	}
	return nil
}

// ── 错误转换 ──

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError 将唯一约束冲突转换为 ErrConflict，其余错误原样返回
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		// 删除仍被 RESTRICT 外键引用的记录
		return fmt.Errorf("%w: 记录仍被引用 (%s)", apperrors.ErrPolicyViolation, pgErr.ConstraintName)
	}
	return err
}

// updateVersioned 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
// model 必须嵌入 VersionedModel；成功后 *version 已加一
func updateVersioned(db *gorm.DB, value interface{}, version *int) error {
	old := *version
	*version = old + 1
	res := db.Model(value).
		Where("version = ?", old).
		Select("*").
		Omit("created_at", "created_by").
		Updates(value)
	if res.Error != nil {
		*version = old
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		*version = old
		return apperrors.ErrOptimisticLock
	}
	return nil
}
