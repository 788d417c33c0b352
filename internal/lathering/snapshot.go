package lathering

import (
	"maps"
	"time"

	"github.com/voltbid/voltbid/internal/models"
)

// Snapshot renders the chain under rootNodeID as a nested tree with
// aggregate counts. includeMetrics embeds the root's chain metrics.
func (e *Engine) Snapshot(rootNodeID string, includeMetrics bool) (*models.ChainSnapshot, error) {
	root, err := e.db.GetNode(rootNodeID)
	if err != nil {
		return nil, err
	}

	descendants, err := e.db.DescendantsOf(rootNodeID)
	if err != nil {
		return nil, err
	}

	maxDepth := root.Depth
	if len(descendants) > 0 {
		ids := make([]string, len(descendants))
		for i, edge := range descendants {
			ids[i] = edge.DescendantNodeID
		}
		nodes, err := e.db.NodesByIDs(ids)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			maxDepth = max(maxDepth, n.Depth)
		}
	}

	tree, err := e.buildTree(root)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	snapshot := &models.ChainSnapshot{
		SnapshotID:  "SNAP-" + now.Format("20060102150405"),
		RootNode:    rootNodeID,
		TotalNodes:  len(descendants) + 1,
		MaxDepth:    maxDepth,
		NodeTree:    tree,
		GeneratedAt: now,
	}
	if includeMetrics {
		metrics, err := e.AnalyzeChainMetrics(rootNodeID)
		if err != nil {
			return nil, err
		}
		snapshot.Metrics = metrics
	}
	return snapshot, nil
}

// treeFrame is one pending expansion in the iterative tree build. Each
// frame carries its own root-to-node path set so that a node repeated
// on the current path is marked as a cycle instead of expanded again,
// while legitimate diamond reconvergence still renders under every
// branch.
type treeFrame struct {
	tree *models.TreeNode
	path map[string]struct{}
}

// buildTree constructs the nested tree with an explicit worklist
// rather than recursion, so arbitrarily deep chains cannot exhaust
// the call stack. The cycle guard is defensive: registration already
// rejects cycles, so the marker branch should be unreachable.
func (e *Engine) buildTree(root *models.ChainNode) (*models.TreeNode, error) {
	rootTree := &models.TreeNode{
		NodeID:   root.NodeID,
		NodeType: root.NodeType,
		Depth:    root.Depth,
		Metadata: root.Metadata,
		Children: []*models.TreeNode{},
	}

	stack := []treeFrame{{
		tree: rootTree,
		path: map[string]struct{}{root.NodeID: {}},
	}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := e.db.DirectChildrenOf(frame.tree.NodeID)
		if err != nil {
			return nil, err
		}
		for _, edge := range children {
			childID := edge.DescendantNodeID
			if _, onPath := frame.path[childID]; onPath {
				frame.tree.Children = append(frame.tree.Children, &models.TreeNode{
					NodeID:        childID,
					CycleDetected: true,
				})
				continue
			}
			child, err := e.db.GetNode(childID)
			if err != nil {
				return nil, err
			}
			childTree := &models.TreeNode{
				NodeID:   child.NodeID,
				NodeType: child.NodeType,
				Depth:    child.Depth,
				Metadata: child.Metadata,
				Children: []*models.TreeNode{},
			}
			frame.tree.Children = append(frame.tree.Children, childTree)

			childPath := maps.Clone(frame.path)
			childPath[childID] = struct{}{}
			stack = append(stack, treeFrame{tree: childTree, path: childPath})
		}
	}
	return rootTree, nil
}
