package main

import (
	"portfolio_engine/internal/catalog"
	"portfolio_engine/internal/nodes"
	"portfolio_engine/internal/workflow"
)

// RegisterNodes 注册所有可用的 Workflow 节点
func RegisterNodes(store catalog.Store) *workflow.Registry {
	registry := workflow.NewRegistry()

	// 注册 Catalog Recall (使用闭包注入 store)
	registry.Register("recall_catalog", func(cfg workflow.NodeConfig) (workflow.Node, error) {
		return nodes.NewCatalogRecallNode(cfg, store)
	})
	registry.Register("recall_request", nodes.NewRequestRecallNode)

	registry.Register("filter_reference", nodes.NewReferenceFilterNode)
	registry.Register("filter_published", nodes.NewPublishedFilterNode)

	registry.Register("rank_similarity", nodes.NewSimilarityRankNode)
	registry.Register("rank_content", nodes.NewContentRankNode)

	return registry
}
