package workflow

import (
	"context"
	"sync"

	"portfolio_engine/internal/model"

	"github.com/google/uuid"
)

// Context 承载一次推荐请求的全部状态
// 召回节点可以并行写入，所有读写都经过锁
type Context struct {
	Ctx       context.Context
	RequestID string
	Reference *model.Project
	Limit     int
	Config    map[string]interface{}

	// RequestPool 是请求方显式注入的候选集
	RequestPool []*model.Project

	mu            sync.RWMutex
	Candidates    []*model.Project            // 当前候选集
	RecallResults map[string][]*model.Project // key: 召回节点名
	Results       []*model.ScoredProject      // 排序节点的输出
	TraceLog      []string
}

// NewContext 创建一个新的工作流上下文
func NewContext(ctx context.Context, ref *model.Project, limit int) *Context {
	return &Context{
		Ctx:           ctx,
		RequestID:     uuid.New().String(),
		Reference:     ref,
		Limit:         limit,
		Config:        make(map[string]interface{}),
		RecallResults: make(map[string][]*model.Project),
		Candidates:    make([]*model.Project, 0),
		Results:       make([]*model.ScoredProject, 0),
		TraceLog:      make([]string, 0),
	}
}

// SetRecallResult 记录召回结果并合并到候选集
func (c *Context) SetRecallResult(source string, items []*model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RecallResults[source] = items
	c.Candidates = append(c.Candidates, items...)
}

// GetCandidates 返回候选集的副本
func (c *Context) GetCandidates() []*model.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*model.Project, len(c.Candidates))
	copy(result, c.Candidates)
	return result
}

// UpdateCandidates 替换整个候选集，用于过滤阶段
func (c *Context) UpdateCandidates(items []*model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Candidates = items
}

// SetResults 写入排序结果
func (c *Context) SetResults(results []*model.ScoredProject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Results = results
}

// GetResults 返回排序结果的副本
func (c *Context) GetResults() []*model.ScoredProject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*model.ScoredProject, len(c.Results))
	copy(result, c.Results)
	return result
}

// AddLog 添加追踪日志
func (c *Context) AddLog(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TraceLog = append(c.TraceLog, msg)
}

// Logs 返回追踪日志的副本
func (c *Context) Logs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	logs := make([]string, len(c.TraceLog))
	copy(logs, c.TraceLog)
	return logs
}

// fork 为并行子节点创建独立的上下文
// 请求参数共享，候选集、结果和日志各自独立，由 merge 按配置顺序合并
func (c *Context) fork() *Context {
	return &Context{
		Ctx:           c.Ctx,
		RequestID:     c.RequestID,
		Reference:     c.Reference,
		Limit:         c.Limit,
		Config:        c.Config,
		RequestPool:   c.RequestPool,
		RecallResults: make(map[string][]*model.Project),
		Candidates:    make([]*model.Project, 0),
		Results:       make([]*model.ScoredProject, 0),
		TraceLog:      make([]string, 0),
	}
}

// merge 将子上下文的召回、结果和日志追加到当前上下文
func (c *Context) merge(child *Context) {
	child.mu.RLock()
	defer child.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	for source, items := range child.RecallResults {
		c.RecallResults[source] = items
	}
	c.Candidates = append(c.Candidates, child.Candidates...)
	if len(child.Results) > 0 {
		c.Results = child.Results
	}
	c.TraceLog = append(c.TraceLog, child.TraceLog...)
}

// mergeLogs 只合并子上下文的日志
func (c *Context) mergeLogs(child *Context) {
	logs := child.Logs()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TraceLog = append(c.TraceLog, logs...)
}

// Node 定义工作流中的执行节点
type Node interface {
	Name() string
	Type() string // e.g., "recall", "filter", "rank", "parallel"
	Execute(ctx *Context) error
}
