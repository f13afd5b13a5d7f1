package workflow

import (
	"errors"
	"fmt"
	"sync"
)

// ParallelNode 并发执行多个子节点
type ParallelNode struct {
	nodeName string
	children []Node
}

// NewParallelNode 创建一个新的并行节点
func NewParallelNode(name string, children []Node) *ParallelNode {
	return &ParallelNode{
		nodeName: name,
		children: children,
	}
}

func (n *ParallelNode) Name() string {
	return n.nodeName
}

func (n *ParallelNode) Type() string {
	return "parallel"
}

// Execute 并发执行所有子节点
// 每个子节点写入自己的上下文，全部结束后按配置顺序合并，合并结果与完成先后无关。
// 只要有一个子节点成功就视为成功，全部失败时返回聚合错误
func (n *ParallelNode) Execute(ctx *Context) error {
	ctx.AddLog(fmt.Sprintf("Start ParallelNode: %s", n.nodeName))

	forks := make([]*Context, len(n.children))
	errs := make([]error, len(n.children))

	var wg sync.WaitGroup
	for i, child := range n.children {
		forks[i] = ctx.fork()
		wg.Add(1)
		go func(i int, node Node) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("node %s panic: %v", node.Name(), r)
				}
			}()

			forks[i].AddLog(fmt.Sprintf("  -> Start child node: %s", node.Name()))
			if err := node.Execute(forks[i]); err != nil {
				errs[i] = fmt.Errorf("node %s: %w", node.Name(), err)
			}
		}(i, child)
	}

	wg.Wait()

	var failed []error
	for i, child := range n.children {
		// 失败的子节点只合并日志
		if errs[i] != nil {
			forks[i].AddLog(fmt.Sprintf("  -> Node %s failed: %v", child.Name(), errs[i]))
			failed = append(failed, errs[i])
			ctx.mergeLogs(forks[i])
			continue
		}
		forks[i].AddLog(fmt.Sprintf("  -> Node %s completed", child.Name()))
		ctx.merge(forks[i])
	}

	if len(failed) > 0 && len(failed) == len(n.children) {
		return fmt.Errorf("all parallel nodes failed: %w", errors.Join(failed...))
	}

	if len(failed) > 0 {
		ctx.AddLog(fmt.Sprintf("ParallelNode completed with %d errors (ignored due to partial success): %v", len(failed), errors.Join(failed...)))
	} else {
		ctx.AddLog(fmt.Sprintf("End ParallelNode: %s (All success)", n.nodeName))
	}
	return nil
}
