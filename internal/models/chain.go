// Package models defines the domain types for Voltbid.
package models

import "time"

// ChainNode is a vertex in the provenance DAG. Nodes are created once
// and never mutated; parent edges are fixed at registration time.
type ChainNode struct {
	NodeID      string         `json:"node_id"`
	NodeType    string         `json:"node_type"`
	ParentNodes []string       `json:"parent_nodes"`
	Metadata    map[string]any `json:"metadata"`
	Depth       int            `json:"lathering_depth"`
	CreatedAt   time.Time      `json:"created_at"`
}

// LineageEdge is one row of the materialized transitive closure:
// ancestor reaches descendant in Distance hops.
type LineageEdge struct {
	AncestorNodeID   string `json:"ancestor_node_id"`
	DescendantNodeID string `json:"descendant_node_id"`
	Distance         int    `json:"distance"`
}

// ChainMetrics summarizes a node's position in the chain.
type ChainMetrics struct {
	NodeID               string         `json:"node_id"`
	NodeType             string         `json:"node_type"`
	LatheringDepth       int            `json:"lathering_depth"`
	TotalAncestors       int            `json:"total_ancestors"`
	TotalDescendants     int            `json:"total_descendants"`
	NodeTypeDistribution map[string]int `json:"node_type_distribution"`
	ParentNodes          []string       `json:"parent_nodes"`
	IsRoot               bool           `json:"is_root"`
	IsLeaf               bool           `json:"is_leaf"`
	CreatedAt            time.Time      `json:"created_at"`
}

// TreeNode is one level of a snapshot's nested tree rendering.
type TreeNode struct {
	NodeID        string         `json:"node_id"`
	NodeType      string         `json:"node_type,omitempty"`
	Depth         int            `json:"depth"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Children      []*TreeNode    `json:"children"`
	CycleDetected bool           `json:"cycle_detected,omitempty"`
}

// ChainSnapshot is a point-in-time rendering of a node and all its
// descendants.
type ChainSnapshot struct {
	SnapshotID  string        `json:"snapshot_id"`
	RootNode    string        `json:"root_node"`
	TotalNodes  int           `json:"total_nodes"`
	MaxDepth    int           `json:"max_depth"`
	NodeTree    *TreeNode     `json:"node_tree"`
	GeneratedAt time.Time     `json:"generated_at"`
	Metrics     *ChainMetrics `json:"metrics,omitempty"`
}
