// Package recommend 组织推荐与技能对比的调用流程
//
// 推荐优先走配置的 pipeline；pipeline 失败、超时或未配置时，
// 对注入的候选集调用一次 similarity.Rank 作为兜底。
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio_engine/internal/catalog"
	"portfolio_engine/internal/logger"
	"portfolio_engine/internal/model"
	"portfolio_engine/internal/similarity"
	"portfolio_engine/internal/workflow"
)

var (
	// ErrInvalidReference 参考项目不满足前置条件
	ErrInvalidReference = errors.New("invalid reference project")
	// ErrSameSkill 对比的两个技能相同
	ErrSameSkill = errors.New("cannot compare a skill with itself")
	// ErrInvalidLimit limit 为负数
	ErrInvalidLimit = errors.New("limit must not be negative")
)

// 推荐结果来源
const (
	SourcePipeline = "pipeline"
	SourceFallback = "fallback"
)

const (
	defaultScene = "recommend"
	defaultLimit = 3
)

// Runner 执行 pipeline，由 workflow.Engine 实现
type Runner interface {
	Run(ctx *workflow.Context, scene string) error
}

// Request 推荐请求
type Request struct {
	Reference *model.Project
	// Pool 为空时兜底排序使用目录中的已发布项目
	Pool []*model.Project
	// Limit 为 nil 时使用默认值，显式的 0 返回空结果
	Limit *int
}

// Result 推荐结果
type Result struct {
	Items     []*model.ScoredProject
	Source    string
	RequestID string
	Trace     []string
}

// Service 推荐服务
type Service struct {
	store  catalog.Store
	runner Runner
	scene  string
	limit  int
	now    func() time.Time
}

// Option 配置 Service
type Option func(*Service)

func WithScene(scene string) Option {
	return func(s *Service) { s.scene = scene }
}

func WithDefaultLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithClock 替换时间来源，合成项目的年份依赖它
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService runner 可以为 nil，此时所有请求都走兜底排序
func NewService(store catalog.Store, runner Runner, opts ...Option) *Service {
	s := &Service{
		store:  store,
		runner: runner,
		scene:  defaultScene,
		limit:  defaultLimit,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend 返回与参考项目最相似的项目，结果可以为空
func (s *Service) Recommend(ctx context.Context, req Request) (*Result, error) {
	if err := similarity.Validate(req.Reference); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	limit := s.limit
	if req.Limit != nil {
		if *req.Limit < 0 {
			return nil, ErrInvalidLimit
		}
		limit = *req.Limit
	}
	ref := s.resolveReference(ctx, req.Reference)

	if s.runner != nil {
		wfCtx := workflow.NewContext(ctx, ref, limit)
		wfCtx.RequestPool = req.Pool
		wfCtx.Config["scene"] = s.scene

		err := s.runner.Run(wfCtx, s.scene)
		for _, line := range wfCtx.Logs() {
			logger.Debug("[%s] %s", wfCtx.RequestID, line)
		}
		if err == nil {
			items := wfCtx.GetResults()
			if len(items) > limit {
				items = items[:limit]
			}
			return &Result{
				Items:     items,
				Source:    SourcePipeline,
				RequestID: wfCtx.RequestID,
				Trace:     wfCtx.Logs(),
			}, nil
		}
		logger.Warn("[%s] pipeline %s failed, using fallback ranking: %v", wfCtx.RequestID, s.scene, err)
	}

	pool := req.Pool
	if len(pool) == 0 && s.store != nil {
		projects, err := s.store.ListProjects(ctx, true)
		if err != nil {
			logger.Error("fallback pool unavailable: %v", err)
		}
		pool = projects
	}

	return &Result{
		Items:  similarity.Rank(ref, pool, limit),
		Source: SourceFallback,
	}, nil
}

// resolveReference 用目录中的记录补全请求里缺失的字段，请求中的非空字段优先
func (s *Service) resolveReference(ctx context.Context, ref *model.Project) *model.Project {
	if s.store == nil {
		return ref
	}
	stored, err := s.store.GetProject(ctx, ref.ID)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			logger.Error("lookup reference project %d: %v", ref.ID, err)
		}
		return ref
	}

	merged := *stored
	if ref.Title != "" {
		merged.Title = ref.Title
	}
	if ref.Description != "" {
		merged.Description = ref.Description
	}
	if ref.Category != "" {
		merged.Category = ref.Category
	}
	if len(ref.Tags) > 0 {
		merged.Tags = ref.Tags
	}
	return &merged
}
