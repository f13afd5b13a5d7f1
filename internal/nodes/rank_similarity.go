package nodes

import (
	"fmt"

	"portfolio_engine/internal/similarity"
	"portfolio_engine/internal/workflow"
)

// SimilarityRankNode 按标签/类别/关键词加权分排序
type SimilarityRankNode struct {
	name  string
	limit int
}

// NewSimilarityRankNode limit 未配置时使用请求中的 limit
func NewSimilarityRankNode(cfg workflow.NodeConfig) (workflow.Node, error) {
	return &SimilarityRankNode{
		name:  cfg.Name,
		limit: cfg.IntOption("limit", 0),
	}, nil
}

func (n *SimilarityRankNode) Name() string { return n.name }
func (n *SimilarityRankNode) Type() string { return "rank" }

func (n *SimilarityRankNode) Execute(ctx *workflow.Context) error {
	limit := resolveLimit(n.limit, ctx.Limit)
	results := similarity.Rank(ctx.Reference, ctx.GetCandidates(), limit)

	ctx.SetResults(results)
	ctx.AddLog(fmt.Sprintf("Rank (%s) completed. Strategy: similarity, Result count: %d", n.name, len(results)))
	return nil
}

// resolveLimit 节点配置与请求 limit 取较小的非零值
func resolveLimit(configured, requested int) int {
	switch {
	case configured <= 0:
		return requested
	case requested <= 0:
		return configured
	default:
		return min(configured, requested)
	}
}
