package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/OsvaldoFernando/SIGE-APP/config"
	"github.com/OsvaldoFernando/SIGE-APP/internal/dto"
	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
	"github.com/OsvaldoFernando/SIGE-APP/internal/repository"
	"github.com/OsvaldoFernando/SIGE-APP/internal/rules"
	apperrors "github.com/OsvaldoFernando/SIGE-APP/pkg/errors"
)

const academicConfigCacheKey = "academic_config"

// JSONCache 全局配置缓存；redis.Client 实现了该接口，未启用 Redis 时为 nil
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AcademicConfigService 全局学术配置与生效策略解析
type AcademicConfigService interface {
	Get(ctx context.Context) (*dto.AcademicConfigResponse, error)
	Update(ctx context.Context, req *dto.UpdateAcademicConfigRequest, callerID string) (*dto.AcademicConfigResponse, error)
	// ResolvePolicy 默认值 → 全局配置 → 课程的 active 课程方案
	ResolvePolicy(ctx context.Context, courseID string) (rules.Policy, error)
	// TieBreak 当前生效的录取同分规则
	TieBreak(ctx context.Context) (model.TieBreakCriterion, error)
}

type academicConfigService struct {
	repo   *repository.Repository
	cfg    config.AcademicConfig
	cache  JSONCache
	logger *zap.Logger
}

// NewAcademicConfigService 创建 AcademicConfigService 实例，cache 可为 nil
func NewAcademicConfigService(repo *repository.Repository, cfg config.AcademicConfig, cache JSONCache, logger *zap.Logger) AcademicConfigService {
	return &academicConfigService{repo: repo, cfg: cfg, cache: cache, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *academicConfigService) Get(ctx context.Context) (*dto.AcademicConfigResponse, error) {
	global, err := s.loadGlobal(ctx)
	if err != nil {
		return nil, err
	}
	if global == nil {
		def := s.defaultGlobal()
		resp := toAcademicConfigResponse(&def)
		resp.IsDefault = true
		return resp, nil
	}
	return toAcademicConfigResponse(global), nil
}

// ────────────────────── Update ──────────────────────

func (s *academicConfigService) Update(ctx context.Context, req *dto.UpdateAcademicConfigRequest, callerID string) (*dto.AcademicConfigResponse, error) {
	next, err := buildGlobalConfig(req)
	if err != nil {
		return nil, err
	}
	next.UpdatedBy = &callerID

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		current, err := tx.AcademicConfig.Get(ctx)
		if err != nil {
			if !isNotFound(err) {
				return err
			}
			next.CreatedBy = &callerID
			return tx.AcademicConfig.Create(ctx, next)
		}
		next.CreatedAt = current.CreatedAt
		next.CreatedBy = current.CreatedBy
		next.Version = req.Version
		return tx.AcademicConfig.Update(ctx, next)
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("保存全局学术配置失败", zap.Error(err))
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.logger.Info("全局学术配置已更新", zap.String("by", callerID), zap.Int("version", next.Version))
	return toAcademicConfigResponse(next), nil
}

// buildGlobalConfig 解析请求中的数值并校验占比
func buildGlobalConfig(req *dto.UpdateAcademicConfigRequest) (*model.GlobalAcademicConfig, error) {
	c := &model.GlobalAcademicConfig{
		Singleton:                  true,
		MaxBehindSubjects:          req.MaxBehindSubjects,
		TieBreak:                   model.TieBreakCriterion(req.TieBreak),
		LawOfSeven:                 req.LawOfSeven,
		TwoPositivesForExemption:   req.TwoPositivesForExemption,
		ExemptionOnlyComplementary: req.ExemptionOnlyComplementary,
		AllowSpecialExam:           req.AllowSpecialExam,
		ProjectSpecialRules:        req.ProjectSpecialRules,
		UseCredits:                 req.UseCredits,
		BarriersEnabled:            req.BarriersEnabled,
		BarrierYears:               model.IntArray(req.BarrierYears),
	}
	if c.BarrierYears == nil {
		c.BarrierYears = model.IntArray{}
	}
	if !rules.KnownTieBreak(c.TieBreak) {
		return nil, rules.ErrUnknownTieBreak
	}

	var err error
	if c.ContinuousWeight, err = parseRequiredPercent(req.ContinuousWeight); err != nil {
		return nil, err
	}
	if c.ExamWeight, err = parseRequiredPercent(req.ExamWeight); err != nil {
		return nil, err
	}
	if err := rules.ValidateWeights(c.ContinuousWeight, c.ExamWeight); err != nil {
		return nil, err
	}
	if c.MinAttendance, err = parseRequiredPercent(req.MinAttendance); err != nil {
		return nil, err
	}
	if c.PassingGrade, err = parseRequiredScore(req.PassingGrade); err != nil {
		return nil, err
	}
	if c.DirectPassAverage, err = parseRequiredScore(req.DirectPassAverage); err != nil {
		return nil, err
	}
	if c.MinExamAverage, err = parseRequiredScore(req.MinExamAverage); err != nil {
		return nil, err
	}
	if c.DirectFailAverage, err = parseRequiredScore(req.DirectFailAverage); err != nil {
		return nil, err
	}
	return c, nil
}

// ────────────────────── ResolvePolicy ──────────────────────

func (s *academicConfigService) ResolvePolicy(ctx context.Context, courseID string) (rules.Policy, error) {
	global, err := s.loadGlobal(ctx)
	if err != nil {
		return rules.Policy{}, err
	}

	var grade *model.CurriculumGrade
	if courseID != "" {
		grade, err = s.repo.CurriculumGrade.GetActiveByCourse(ctx, courseID)
		if err != nil {
			if !isNotFound(err) {
				s.logger.Error("查询课程方案失败", zap.String("course_id", courseID), zap.Error(err))
				return rules.Policy{}, err
			}
			grade = nil
		}
	}

	p := rules.ResolvePolicy(global, grade)
	if global == nil {
		p.TieBreak = model.TieBreakCriterion(s.cfg.DefaultTieBreak)
	}
	return p, nil
}

// ────────────────────── TieBreak ──────────────────────

func (s *academicConfigService) TieBreak(ctx context.Context) (model.TieBreakCriterion, error) {
	global, err := s.loadGlobal(ctx)
	if err != nil {
		return "", err
	}
	if global == nil || global.TieBreak == "" {
		return model.TieBreakCriterion(s.cfg.DefaultTieBreak), nil
	}
	if !rules.KnownTieBreak(global.TieBreak) {
		s.logger.Warn("未注册的同分排序规则，使用部署默认值",
			zap.String("stored", string(global.TieBreak)),
			zap.String("default", s.cfg.DefaultTieBreak),
		)
		return model.TieBreakCriterion(s.cfg.DefaultTieBreak), nil
	}
	return global.TieBreak, nil
}

// ── 辅助 ──

// loadGlobal 读取全局配置；没有记录时返回 nil 并记录警告
func (s *academicConfigService) loadGlobal(ctx context.Context) (*model.GlobalAcademicConfig, error) {
	if s.cache != nil {
		var cached model.GlobalAcademicConfig
		if err := s.cache.GetJSON(ctx, academicConfigCacheKey, &cached); err == nil {
			cached.Singleton = true
			return &cached, nil
		}
	}

	global, err := s.repo.AcademicConfig.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			s.logger.Warn("全局学术配置缺失，使用默认值", zap.Error(apperrors.ErrConfigurationMissing))
			return nil, nil
		}
		s.logger.Error("读取全局学术配置失败", zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, academicConfigCacheKey, global, s.cfg.ConfigCacheTTL); err != nil {
			s.logger.Warn("写入配置缓存失败", zap.Error(err))
		}
	}
	return global, nil
}

func (s *academicConfigService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, academicConfigCacheKey); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("清除配置缓存失败", zap.Error(err))
	}
}

func (s *academicConfigService) defaultGlobal() model.GlobalAcademicConfig {
	def := rules.DefaultGlobalConfig()
	if s.cfg.DefaultTieBreak != "" {
		def.TieBreak = model.TieBreakCriterion(s.cfg.DefaultTieBreak)
	}
	return def
}

func toAcademicConfigResponse(c *model.GlobalAcademicConfig) *dto.AcademicConfigResponse {
	years := []int(c.BarrierYears)
	if years == nil {
		years = []int{}
	}
	return &dto.AcademicConfigResponse{
		ContinuousWeight:           decStr(c.ContinuousWeight),
		ExamWeight:                 decStr(c.ExamWeight),
		MinAttendance:              decStr(c.MinAttendance),
		PassingGrade:               decStr(c.PassingGrade),
		DirectPassAverage:          decStr(c.DirectPassAverage),
		MinExamAverage:             decStr(c.MinExamAverage),
		DirectFailAverage:          decStr(c.DirectFailAverage),
		MaxBehindSubjects:          c.MaxBehindSubjects,
		TieBreak:                   string(c.TieBreak),
		LawOfSeven:                 c.LawOfSeven,
		TwoPositivesForExemption:   c.TwoPositivesForExemption,
		ExemptionOnlyComplementary: c.ExemptionOnlyComplementary,
		AllowSpecialExam:           c.AllowSpecialExam,
		ProjectSpecialRules:        c.ProjectSpecialRules,
		UseCredits:                 c.UseCredits,
		BarriersEnabled:            c.BarriersEnabled,
		BarrierYears:               years,
		Version:                    c.Version,
	}
}
