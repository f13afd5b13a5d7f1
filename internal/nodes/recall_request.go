package nodes

import (
	"fmt"

	"portfolio_engine/internal/model"
	"portfolio_engine/internal/workflow"
)

// RequestRecallNode 使用请求中注入的候选集
// 请求方给出的候选视为可展示项目，发布状态只约束目录中的项目
type RequestRecallNode struct {
	name string
}

func NewRequestRecallNode(cfg workflow.NodeConfig) (workflow.Node, error) {
	return &RequestRecallNode{name: cfg.Name}, nil
}

func (n *RequestRecallNode) Name() string { return n.name }
func (n *RequestRecallNode) Type() string { return "recall" }

func (n *RequestRecallNode) Execute(ctx *workflow.Context) error {
	if len(ctx.RequestPool) == 0 {
		ctx.AddLog(fmt.Sprintf("Request recall (%s): request carries no pool, skipping", n.name))
		return nil
	}

	// 复制后再标记，不修改调用方的数据
	items := make([]*model.Project, 0, len(ctx.RequestPool))
	for _, p := range ctx.RequestPool {
		if p == nil {
			continue
		}
		cp := *p
		cp.Published = true
		items = append(items, &cp)
	}

	ctx.SetRecallResult(n.name, items)
	ctx.AddLog(fmt.Sprintf("Request recall (%s) returned %d items", n.name, len(items)))
	return nil
}
