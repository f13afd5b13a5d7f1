package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrPipelineNotFound 场景没有配置 pipeline
var ErrPipelineNotFound = errors.New("pipeline not found")

// PipelineConfig 单个 Pipeline 的配置
type PipelineConfig struct {
	Description string       `json:"description"`
	TimeoutMs   int          `json:"timeout_ms"`
	Nodes       []NodeConfig `json:"nodes"`
}

// NodeConfig 节点的配置片段
type NodeConfig struct {
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
	Nodes  []NodeConfig           `json:"nodes,omitempty"` // 用于组合节点 (如 parallel)
}

// IntOption 读取数值配置，JSON 解码后数字为 float64
func (c NodeConfig) IntOption(key string, def int) int {
	if v, ok := c.Config[key].(float64); ok {
		return int(v)
	}
	if v, ok := c.Config[key].(int); ok {
		return v
	}
	return def
}

// GlobalConfig 整个配置文件的结构
type GlobalConfig struct {
	Pipelines map[string]PipelineConfig `json:"pipelines"`
}

// NodeFactory 创建 Node 的函数签名
type NodeFactory func(config NodeConfig) (Node, error)

// Registry 节点注册表
type Registry struct {
	factories map[string]NodeFactory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]NodeFactory),
	}
}

// Register 注册一个新的节点类型
func (r *Registry) Register(nodeType string, factory NodeFactory) {
	r.factories[nodeType] = factory
}

// CreateNode 根据配置创建节点实例
func (r *Registry) CreateNode(cfg NodeConfig) (Node, error) {
	// parallel 属于框架层面的能力
	if cfg.Type == "parallel" {
		var children []Node
		for _, childCfg := range cfg.Nodes {
			childNode, err := r.CreateNode(childCfg)
			if err != nil {
				return nil, err
			}
			children = append(children, childNode)
		}
		return NewParallelNode(cfg.Name, children), nil
	}

	factory, ok := r.factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", cfg.Type)
	}
	return factory(cfg)
}

type pipeline struct {
	timeout time.Duration
	nodes   []Node
}

// Engine 流程引擎
type Engine struct {
	pipelines map[string]pipeline // scene -> pipeline
}

// NewEngine 从文件加载配置并创建引擎
func NewEngine(configPath string, registry *Registry) (*Engine, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}

	var globalCfg GlobalConfig
	if err := json.Unmarshal(data, &globalCfg); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline config: %w", err)
	}
	return NewEngineFromConfig(globalCfg, registry)
}

// NewEngineFromConfig 根据已解析的配置创建引擎
func NewEngineFromConfig(globalCfg GlobalConfig, registry *Registry) (*Engine, error) {
	engine := &Engine{
		pipelines: make(map[string]pipeline),
	}

	for scene, pipeCfg := range globalCfg.Pipelines {
		var nodes []Node
		for _, nodeCfg := range pipeCfg.Nodes {
			node, err := registry.CreateNode(nodeCfg)
			if err != nil {
				return nil, fmt.Errorf("failed to create node '%s' in pipeline '%s': %w", nodeCfg.Name, scene, err)
			}
			nodes = append(nodes, node)
		}
		engine.pipelines[scene] = pipeline{
			timeout: time.Duration(pipeCfg.TimeoutMs) * time.Millisecond,
			nodes:   nodes,
		}
	}

	return engine, nil
}

// HasScene 场景是否已配置
func (e *Engine) HasScene(scene string) bool {
	_, ok := e.pipelines[scene]
	return ok
}

// Run 执行指定场景的流程，超时或任一节点失败都会返回错误
func (e *Engine) Run(ctx *Context, scene string) error {
	p, ok := e.pipelines[scene]
	if !ok {
		return fmt.Errorf("%w for scene: %s", ErrPipelineNotFound, scene)
	}

	if p.timeout > 0 {
		parent := ctx.Ctx
		runCtx, cancel := context.WithTimeout(parent, p.timeout)
		defer func() {
			cancel()
			ctx.Ctx = parent
		}()
		ctx.Ctx = runCtx
	}

	ctx.AddLog(fmt.Sprintf("Starting pipeline execution for scene: %s", scene))

	for _, node := range p.nodes {
		if err := ctx.Ctx.Err(); err != nil {
			ctx.AddLog(fmt.Sprintf("Pipeline aborted before node %s: %v", node.Name(), err))
			return fmt.Errorf("pipeline %s aborted: %w", scene, err)
		}

		ctx.AddLog(fmt.Sprintf("Executing node: %s (%s)", node.Name(), node.Type()))
		if err := node.Execute(ctx); err != nil {
			ctx.AddLog(fmt.Sprintf("Node execution failed: %v", err))
			return fmt.Errorf("node %s: %w", node.Name(), err)
		}
	}

	ctx.AddLog("Pipeline execution completed")
	return nil
}
