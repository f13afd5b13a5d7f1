package nodes

import (
	"fmt"

	"portfolio_engine/internal/catalog"
	"portfolio_engine/internal/workflow"
)

// CatalogRecallNode 从目录存储召回项目
type CatalogRecallNode struct {
	name          string
	store         catalog.Store
	publishedOnly bool
}

// NewCatalogRecallNode 工厂函数，store 由外部注入
func NewCatalogRecallNode(cfg workflow.NodeConfig, store catalog.Store) (workflow.Node, error) {
	if store == nil {
		return nil, fmt.Errorf("recall_catalog node '%s' requires a catalog store", cfg.Name)
	}
	publishedOnly := true
	if v, ok := cfg.Config["published_only"].(bool); ok {
		publishedOnly = v
	}
	return &CatalogRecallNode{
		name:          cfg.Name,
		store:         store,
		publishedOnly: publishedOnly,
	}, nil
}

func (n *CatalogRecallNode) Name() string { return n.name }
func (n *CatalogRecallNode) Type() string { return "recall" }

func (n *CatalogRecallNode) Execute(ctx *workflow.Context) error {
	projects, err := n.store.ListProjects(ctx.Ctx, n.publishedOnly)
	if err != nil {
		return fmt.Errorf("catalog recall failed: %w", err)
	}

	ctx.SetRecallResult(n.name, projects)
	ctx.AddLog(fmt.Sprintf("Catalog recall (%s) returned %d items", n.name, len(projects)))
	return nil
}
