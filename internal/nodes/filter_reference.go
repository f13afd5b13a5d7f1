package nodes

import (
	"fmt"

	"portfolio_engine/internal/model"
	"portfolio_engine/internal/workflow"
)

// ReferenceFilterNode 去掉参考项目本身，并按 ID 去重
// 多路召回合并后同一个项目可能出现多次，保留第一次出现的位置
type ReferenceFilterNode struct {
	name string
}

func NewReferenceFilterNode(cfg workflow.NodeConfig) (workflow.Node, error) {
	return &ReferenceFilterNode{name: cfg.Name}, nil
}

func (n *ReferenceFilterNode) Name() string { return n.name }
func (n *ReferenceFilterNode) Type() string { return "filter" }

func (n *ReferenceFilterNode) Execute(ctx *workflow.Context) error {
	candidates := ctx.GetCandidates()
	if len(candidates) == 0 {
		return nil
	}

	var refID int64
	if ctx.Reference != nil {
		refID = ctx.Reference.ID
	}

	seen := make(map[int64]struct{}, len(candidates))
	kept := make([]*model.Project, 0, len(candidates))
	for _, item := range candidates {
		if item == nil || item.ID == refID {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		kept = append(kept, item)
	}

	ctx.UpdateCandidates(kept)
	ctx.AddLog(fmt.Sprintf("Reference filter (%s) removed %d items, kept %d", n.name, len(candidates)-len(kept), len(kept)))
	return nil
}
