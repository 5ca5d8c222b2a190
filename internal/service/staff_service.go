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
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

// ErrProfessorEmailExists 教师邮箱已被使用
var ErrProfessorEmailExists = fmt.Errorf("%w: 教师邮箱已存在", apperrors.ErrConflict)

// StaffService 教师管理与学生只读查询
type StaffService interface {
	// CreateProfessor 按学年起始年份分配 PROF/{year}/NNNN 编号
	CreateProfessor(ctx context.Context, req *dto.CreateProfessorRequest, callerID string) (*dto.ProfessorResponse, error)
	GetProfessor(ctx context.Context, id string) (*dto.ProfessorResponse, error)
	ListProfessors(ctx context.Context, req *dto.PaginationRequest) ([]dto.ProfessorResponse, int64, error)
	UpdateProfessor(ctx context.Context, id string, req *dto.UpdateProfessorRequest, callerID string) (*dto.ProfessorResponse, error)

	GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error)
	ListStudents(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error)
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

// ────────────────────── CreateProfessor ──────────────────────

func (s *staffService) CreateProfessor(ctx context.Context, req *dto.CreateProfessorRequest, callerID string) (*dto.ProfessorResponse, error) {
	year, err := s.hiringYear(ctx, req.YearID)
	if err != nil {
		return nil, err
	}

	p := &model.Professor{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Degree:   strings.TrimSpace(req.Degree),
		YearID:   year.YearID,
		Active:   true,
	}
	if req.UserID != "" {
		p.UserID = strPtr(req.UserID)
	}
	p.CreatedBy = &callerID
	p.UpdatedBy = &callerID

	start := year.StartYear()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		n, err := tx.Sequence.Next(ctx, rules.ScopeProfessor(start))
		if err != nil {
			return err
		}
		p.Code = rules.ProfessorCode(start, n)
		return tx.Professor.Create(ctx, p)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrProfessorEmailExists
		}
		s.logger.Error("创建教师失败", zap.String("email", p.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("教师已创建", zap.String("code", p.Code), zap.String("by", callerID))
	return toProfessorResponse(p), nil
}

// hiringYear 未指定学年时使用当前学年
func (s *staffService) hiringYear(ctx context.Context, yearID string) (*model.AcademicYear, error) {
	var (
		year *model.AcademicYear
		err  error
	)
	if yearID == "" {
		year, err = s.repo.AcademicYear.GetCurrent(ctx)
		if isNotFound(err) {
			return nil, ErrNoCurrentAcademicYear
		}
	} else {
		year, err = s.repo.AcademicYear.GetByID(ctx, yearID)
		if isNotFound(err) {
			return nil, ErrAcademicYearNotFound
		}
	}
	if err != nil {
		s.logger.Error("查询学年失败", zap.String("id", yearID), zap.Error(err))
		return nil, err
	}
	return year, nil
}

// ────────────────────── Professor 查询与更新 ──────────────────────

func (s *staffService) GetProfessor(ctx context.Context, id string) (*dto.ProfessorResponse, error) {
	p, err := s.getProfessor(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfessorResponse(p), nil
}

func (s *staffService) ListProfessors(ctx context.Context, req *dto.PaginationRequest) ([]dto.ProfessorResponse, int64, error) {
	list, total, err := s.repo.Professor.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.ProfessorResponse, 0, len(list))
	for i := range list {
		result = append(result, *toProfessorResponse(&list[i]))
	}
	return result, total, nil
}

func (s *staffService) UpdateProfessor(ctx context.Context, id string, req *dto.UpdateProfessorRequest, callerID string) (*dto.ProfessorResponse, error) {
	p, err := s.getProfessor(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		p.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		p.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Degree != nil {
		p.Degree = strings.TrimSpace(*req.Degree)
	}
	if req.UserID != nil {
		p.UserID = req.UserID
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	p.UpdatedBy = &callerID

	if err := s.repo.Professor.Update(ctx, p); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrProfessorEmailExists
		}
		s.logger.Error("更新教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toProfessorResponse(p), nil
}

// ────────────────────── Student ──────────────────────

func (s *staffService) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	st, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toStudentResponse(st), nil
}

func (s *staffService) ListStudents(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, int64, error) {
	list, total, err := s.repo.Student.List(ctx, req.CourseID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.StudentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toStudentResponse(&list[i]))
	}
	return result, total, nil
}

// ── 辅助 ──

func (s *staffService) getProfessor(ctx context.Context, id string) (*model.Professor, error) {
	p, err := s.repo.Professor.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfessorNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func toProfessorResponse(p *model.Professor) *dto.ProfessorResponse {
	return &dto.ProfessorResponse{
		ID:       p.ProfessorID,
		Code:     p.Code,
		FullName: p.FullName,
		Email:    p.Email,
		Phone:    p.Phone,
		Degree:   p.Degree,
		YearID:   p.YearID,
		UserID:   p.UserID,
		Active:   p.Active,
	}
}

func toStudentResponse(st *model.Student) *dto.StudentResponse {
	return &dto.StudentResponse{
		ID:             st.StudentID,
		Number:         st.Number,
		EnrollmentID:   st.EnrollmentID,
		FullName:       st.FullName,
		CourseID:       st.CourseID,
		YearID:         st.YearID,
		CurricularYear: st.CurricularYear,
		Active:         st.Active,
	}
}
