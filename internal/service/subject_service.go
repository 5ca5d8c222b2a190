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

// ── 科目模块业务错误 ──

var (
	ErrSubjectNotFound        = fmt.Errorf("%w: 科目不存在", apperrors.ErrNotFound)
	ErrSubjectCodeExists      = fmt.Errorf("%w: 该课程已存在相同代码的科目", apperrors.ErrConflict)
	ErrSubjectInUse           = fmt.Errorf("%w: 科目已有成绩记录或被列为入学先修要求，不能删除", apperrors.ErrPolicyViolation)
	ErrSubjectGradeMismatch   = fmt.Errorf("%w: 课程方案不属于该课程", apperrors.ErrValidation)
	ErrPrerequisiteCourse     = fmt.Errorf("%w: 先修科目必须属于同一课程", apperrors.ErrValidation)
	ErrPrerequisiteNotFound   = fmt.Errorf("%w: 先修关系不存在", apperrors.ErrNotFound)
	ErrPrerequisiteEdgeExists = fmt.Errorf("%w: 先修关系已存在", apperrors.ErrConflict)
	ErrPrerequisiteCycle      = rules.ErrPrerequisiteCycle
	ErrSelfPrerequisite       = rules.ErrSelfPrerequisite
)

// SubjectService 科目与科目先修关系
type SubjectService interface {
	Create(ctx context.Context, courseID string, req *dto.CreateSubjectRequest, callerID string) (*dto.SubjectResponse, error)
	Get(ctx context.Context, id string) (*dto.SubjectResponse, error)
	ListByCourse(ctx context.Context, courseID string) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest, callerID string) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// AddPrerequisite 新增先修边 subject → required，拒绝自环与成环
	AddPrerequisite(ctx context.Context, subjectID, requiredID string, callerID string) (*dto.SubjectResponse, error)
	RemovePrerequisite(ctx context.Context, subjectID, requiredID string) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *subjectService) Create(ctx context.Context, courseID string, req *dto.CreateSubjectRequest, callerID string) (*dto.SubjectResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", courseID), zap.Error(err))
		return nil, err
	}

	var grade *model.CurriculumGrade
	if req.GradeID != nil && *req.GradeID != "" {
		var err error
		grade, err = s.repo.CurriculumGrade.GetByID(ctx, *req.GradeID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrCurriculumGradeNotFound
			}
			s.logger.Error("查询课程方案失败", zap.String("id", *req.GradeID), zap.Error(err))
			return nil, err
		}
		if grade.CourseID != courseID {
			return nil, ErrSubjectGradeMismatch
		}
	}

	subject := &model.Subject{
		CourseID:             courseID,
		GradeID:              req.GradeID,
		Code:                 strings.TrimSpace(req.Code),
		Name:                 strings.TrimSpace(req.Name),
		Area:                 model.AreaCore,
		Credits:              req.Credits,
		Hours:                req.Hours,
		CurricularYear:       req.CurricularYear,
		Period:               req.Period,
		IsProject:            req.IsProject,
		LawOfSevenApplicable: req.LawOfSevenApplicable,
		RequiresTwoPositives: req.RequiresTwoPositives,
		Active:               true,
	}
	if req.Area != "" {
		subject.Area = model.KnowledgeArea(req.Area)
	}
	if subject.Period == 0 {
		subject.Period = 1
	}
	subject.Normalize()
	subject.CreatedBy = &callerID
	subject.UpdatedBy = &callerID

	var prereqs []string
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Subject.Create(ctx, subject); err != nil {
			return err
		}
		if grade == nil || !grade.AutoRomanPrecedence {
			return nil
		}
		id, err := s.linkRomanPredecessor(ctx, tx, subject, callerID)
		if err != nil {
			return err
		}
		if id != "" {
			prereqs = append(prereqs, id)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrSubjectCodeExists
		}
		s.logger.Error("创建科目失败", zap.String("course_id", courseID), zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	return toSubjectResponse(subject, prereqs), nil
}

// linkRomanPredecessor "Matemática II" 自动依赖同课程的 "Matemática I"
// 前驱科目不存在时不做处理
func (s *subjectService) linkRomanPredecessor(ctx context.Context, tx *repository.Repository, subject *model.Subject, callerID string) (string, error) {
	prevName, ok := rules.RomanPredecessor(subject.Name)
	if !ok {
		return "", nil
	}
	prev, err := tx.Subject.FindByName(ctx, subject.CourseID, prevName)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}

	edge := &model.SubjectPrerequisite{SubjectID: subject.SubjectID, RequiredSubjectID: prev.SubjectID}
	edge.CreatedBy = &callerID
	edge.UpdatedBy = &callerID
	if err := tx.Subject.AddPrerequisite(ctx, edge); err != nil {
		return "", err
	}

	s.logger.Info("已按罗马数字自动添加先修",
		zap.String("subject", subject.Name),
		zap.String("required", prev.Name),
	)
	return prev.SubjectID, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *subjectService) Get(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withPrerequisites(ctx, subject)
}

func (s *subjectService) ListByCourse(ctx context.Context, courseID string) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("列出科目失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	edges, err := s.repo.Subject.PrerequisiteEdges(ctx)
	if err != nil {
		s.logger.Error("读取先修关系失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i], edges[subjects[i].SubjectID]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *subjectService) Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest, callerID string) (*dto.SubjectResponse, error) {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Area != nil {
		subject.Area = model.KnowledgeArea(*req.Area)
	}
	if req.Credits != nil {
		subject.Credits = *req.Credits
	}
	if req.Hours != nil {
		subject.Hours = *req.Hours
	}
	if req.CurricularYear != nil {
		subject.CurricularYear = *req.CurricularYear
	}
	if req.Period != nil {
		subject.Period = *req.Period
	}
	if req.IsProject != nil {
		subject.IsProject = *req.IsProject
	}
	if req.LawOfSevenApplicable != nil {
		subject.LawOfSevenApplicable = *req.LawOfSevenApplicable
	}
	if req.RequiresTwoPositives != nil {
		subject.RequiresTwoPositives = *req.RequiresTwoPositives
	}
	if req.Active != nil {
		subject.Active = *req.Active
	}
	subject.Normalize()
	subject.UpdatedBy = &callerID

	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		s.logger.Error("更新科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.withPrerequisites(ctx, subject)
}

// ────────────────────── Delete ──────────────────────

func (s *subjectService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getSubject(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.Subject.CountGradeReferences(ctx, id)
	if err != nil {
		s.logger.Error("统计科目成绩引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	required, err := s.repo.Prerequisite.CountBySubject(ctx, id)
	if err != nil {
		s.logger.Error("统计科目先修要求引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if refs+required > 0 {
		return ErrSubjectInUse
	}

	if err := s.repo.Subject.Delete(ctx, id); err != nil {
		// 检查之后才写入的引用由外键兜底
		if errors.Is(err, apperrors.ErrPolicyViolation) {
			return ErrSubjectInUse
		}
		s.logger.Error("删除科目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("科目已删除", zap.String("subject_id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── 先修关系 ──────────────────────

func (s *subjectService) AddPrerequisite(ctx context.Context, subjectID, requiredID string, callerID string) (*dto.SubjectResponse, error) {
	if subjectID == requiredID {
		return nil, ErrSelfPrerequisite
	}
	subject, err := s.getSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	required, err := s.getSubject(ctx, requiredID)
	if err != nil {
		return nil, err
	}
	if subject.CourseID != required.CourseID {
		return nil, ErrPrerequisiteCourse
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		edges, err := tx.Subject.PrerequisiteEdges(ctx)
		if err != nil {
			return err
		}
		for _, existing := range edges[subjectID] {
			if existing == requiredID {
				return ErrPrerequisiteEdgeExists
			}
		}
		if err := rules.CheckPrerequisiteEdge(edges, subjectID, requiredID); err != nil {
			return err
		}

		edge := &model.SubjectPrerequisite{SubjectID: subjectID, RequiredSubjectID: requiredID}
		edge.CreatedBy = &callerID
		edge.UpdatedBy = &callerID
		return tx.Subject.AddPrerequisite(ctx, edge)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("添加先修关系失败",
				zap.String("subject_id", subjectID),
				zap.String("required_id", requiredID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	return s.withPrerequisites(ctx, subject)
}

func (s *subjectService) RemovePrerequisite(ctx context.Context, subjectID, requiredID string) error {
	n, err := s.repo.Subject.RemovePrerequisite(ctx, subjectID, requiredID)
	if err != nil {
		s.logger.Error("删除先修关系失败", zap.String("subject_id", subjectID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrPrerequisiteNotFound
	}
	return nil
}

// ── 辅助 ──

func (s *subjectService) getSubject(ctx context.Context, id string) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return subject, nil
}

func (s *subjectService) withPrerequisites(ctx context.Context, subject *model.Subject) (*dto.SubjectResponse, error) {
	prereqs, err := s.repo.Subject.ListPrerequisites(ctx, subject.SubjectID)
	if err != nil {
		s.logger.Error("查询科目先修失败", zap.String("id", subject.SubjectID), zap.Error(err))
		return nil, err
	}
	ids := make([]string, 0, len(prereqs))
	for _, p := range prereqs {
		ids = append(ids, p.SubjectID)
	}
	return toSubjectResponse(subject, ids), nil
}

func toSubjectResponse(s *model.Subject, prereqs []string) *dto.SubjectResponse {
	return &dto.SubjectResponse{
		ID:                   s.SubjectID,
		CourseID:             s.CourseID,
		GradeID:              s.GradeID,
		Code:                 s.Code,
		Name:                 s.Name,
		Area:                 string(s.Area),
		Credits:              s.Credits,
		Hours:                s.Hours,
		CurricularYear:       s.CurricularYear,
		Period:               s.Period,
		IsProject:            s.IsProject,
		LawOfSevenApplicable: s.LawOfSevenApplicable,
		RequiresTwoPositives: s.RequiresTwoPositives,
		Active:               s.Active,
		Prerequisites:        prereqs,
	}
}
