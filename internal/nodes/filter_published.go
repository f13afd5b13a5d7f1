package nodes

import (
	"fmt"

	"portfolio_engine/internal/model"
	"portfolio_engine/internal/workflow"
)

type PublishedFilterNode struct {
	name string
}

func NewPublishedFilterNode(cfg workflow.NodeConfig) (workflow.Node, error) {
	return &PublishedFilterNode{name: cfg.Name}, nil
}

func (n *PublishedFilterNode) Name() string { return n.name }
func (n *PublishedFilterNode) Type() string { return "filter" }

func (n *PublishedFilterNode) Execute(ctx *workflow.Context) error {
	candidates := ctx.GetCandidates()

	var kept []*model.Project
	for _, item := range candidates {
		if item.Published {
			kept = append(kept, item)
		}
	}

	ctx.UpdateCandidates(kept)
	ctx.AddLog(fmt.Sprintf("Published filter (%s) removed %d items, kept %d", n.name, len(candidates)-len(kept), len(kept)))
	return nil
}
