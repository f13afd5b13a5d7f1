package nodes

import (
	"fmt"

	"portfolio_engine/internal/similarity"
	"portfolio_engine/internal/workflow"
)

// ContentRankNode 按标签比例、类别和描述文本重合度排序
type ContentRankNode struct {
	name  string
	limit int
}

func NewContentRankNode(cfg workflow.NodeConfig) (workflow.Node, error) {
	return &ContentRankNode{
		name:  cfg.Name,
		limit: cfg.IntOption("limit", 0),
	}, nil
}

func (n *ContentRankNode) Name() string { return n.name }
func (n *ContentRankNode) Type() string { return "rank" }

func (n *ContentRankNode) Execute(ctx *workflow.Context) error {
	limit := resolveLimit(n.limit, ctx.Limit)
	results := similarity.RankContent(ctx.Reference, ctx.GetCandidates(), limit)

	ctx.SetResults(results)
	ctx.AddLog(fmt.Sprintf("Rank (%s) completed. Strategy: content, Result count: %d", n.name, len(results)))
	return nil
}
