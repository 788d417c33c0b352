package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/voltbid/voltbid/internal/apperr"
	"github.com/voltbid/voltbid/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "voltbid-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func node(id string, parents []string, depth int) models.ChainNode {
	return models.ChainNode{
		NodeID:      id,
		NodeType:    "analysis",
		ParentNodes: parents,
		Depth:       depth,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	for _, table := range []string{"chain_nodes", "heritage_lineage", "cost_codes", "bids"} {
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestInsertAndGetNode(t *testing.T) {
	db := testDB(t)
	n := node("root-1", nil, 0)
	n.Metadata = map[string]any{"site": "lot-b"}
	if err := db.InsertNode(n); err != nil {
		t.Fatalf("InsertNode: %v", err)
	}

	got, err := db.GetNode("root-1")
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if got.NodeType != "analysis" {
		t.Errorf("node_type = %q", got.NodeType)
	}
	if len(got.ParentNodes) != 0 {
		t.Errorf("parents = %v, want empty", got.ParentNodes)
	}
	if got.Metadata["site"] != "lot-b" {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestGetNodeNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetNode("ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInsertNodeDuplicate(t *testing.T) {
	db := testDB(t)
	if err := db.InsertNode(node("dup", nil, 0)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.InsertNode(node("dup", nil, 0))
	if !errors.Is(err, apperr.ErrDuplicateNode) {
		t.Errorf("err = %v, want ErrDuplicateNode", err)
	}
}

func TestNodesByIDs(t *testing.T) {
	db := testDB(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := db.InsertNode(node(id, nil, 0)); err != nil {
			t.Fatal(err)
		}
	}

	nodes, err := db.NodesByIDs([]string{"a", "c", "missing"})
	if err != nil {
		t.Fatalf("NodesByIDs: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(nodes))
	}

	nodes, err = db.NodesByIDs(nil)
	if err != nil || nodes != nil {
		t.Errorf("empty query = %v, %v", nodes, err)
	}
}

func TestAncestorsOrdering(t *testing.T) {
	db := testDB(t)
	edges := []models.LineageEdge{
		{AncestorNodeID: "grandparent", DescendantNodeID: "child", Distance: 2},
		{AncestorNodeID: "parent-b", DescendantNodeID: "child", Distance: 1},
		{AncestorNodeID: "parent-a", DescendantNodeID: "child", Distance: 1},
	}
	if err := db.InsertEdges(edges); err != nil {
		t.Fatalf("InsertEdges: %v", err)
	}

	got, err := db.AncestorsOf("child")
	if err != nil {
		t.Fatalf("AncestorsOf: %v", err)
	}
	want := []string{"parent-a", "parent-b", "grandparent"}
	if len(got) != len(want) {
		t.Fatalf("got %d edges, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].AncestorNodeID != w {
			t.Errorf("ancestors[%d] = %s, want %s", i, got[i].AncestorNodeID, w)
		}
	}
}

func TestInsertEdgesDuplicate(t *testing.T) {
	db := testDB(t)
	edge := []models.LineageEdge{{AncestorNodeID: "a", DescendantNodeID: "b", Distance: 1}}
	if err := db.InsertEdges(edge); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.InsertEdges(edge)
	if !errors.Is(err, apperr.ErrDuplicateEdge) {
		t.Errorf("err = %v, want ErrDuplicateEdge", err)
	}
}

func TestDirectChildren(t *testing.T) {
	db := testDB(t)
	edges := []models.LineageEdge{
		{AncestorNodeID: "root", DescendantNodeID: "child-b", Distance: 1},
		{AncestorNodeID: "root", DescendantNodeID: "child-a", Distance: 1},
		{AncestorNodeID: "root", DescendantNodeID: "grandchild", Distance: 2},
	}
	if err := db.InsertEdges(edges); err != nil {
		t.Fatal(err)
	}

	got, err := db.DirectChildrenOf("root")
	if err != nil {
		t.Fatalf("DirectChildrenOf: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d children, want 2", len(got))
	}
	if got[0].DescendantNodeID != "child-a" || got[1].DescendantNodeID != "child-b" {
		t.Errorf("children = %s, %s", got[0].DescendantNodeID, got[1].DescendantNodeID)
	}
}

func TestHasLineage(t *testing.T) {
	db := testDB(t)
	if err := db.InsertEdges([]models.LineageEdge{
		{AncestorNodeID: "a", DescendantNodeID: "b", Distance: 1},
	}); err != nil {
		t.Fatal(err)
	}

	ok, err := db.HasLineage("a", "b")
	if err != nil || !ok {
		t.Errorf("HasLineage(a,b) = %v, %v, want true", ok, err)
	}
	ok, err = db.HasLineage("b", "a")
	if err != nil || ok {
		t.Errorf("HasLineage(b,a) = %v, %v, want false", ok, err)
	}
}

func TestCountDescendants(t *testing.T) {
	db := testDB(t)
	if err := db.InsertEdges([]models.LineageEdge{
		{AncestorNodeID: "root", DescendantNodeID: "x", Distance: 1},
		{AncestorNodeID: "root", DescendantNodeID: "y", Distance: 2},
	}); err != nil {
		t.Fatal(err)
	}
	count, err := db.CountDescendants("root")
	if err != nil {
		t.Fatalf("CountDescendants: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestRegisterChainAtomic(t *testing.T) {
	db := testDB(t)
	if err := db.InsertEdges([]models.LineageEdge{
		{AncestorNodeID: "root", DescendantNodeID: "child", Distance: 1},
	}); err != nil {
		t.Fatal(err)
	}

	// The duplicate closure row must roll back the node insert too.
	err := db.RegisterChain(node("child", []string{"root"}, 1), []models.LineageEdge{
		{AncestorNodeID: "root", DescendantNodeID: "child", Distance: 1},
	})
	if !errors.Is(err, apperr.ErrDuplicateEdge) {
		t.Fatalf("err = %v, want ErrDuplicateEdge", err)
	}
	if _, err := db.GetNode("child"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("node survived failed registration: %v", err)
	}
}

func TestRegisterChainCommits(t *testing.T) {
	db := testDB(t)
	err := db.RegisterChain(node("child", []string{"root"}, 1), []models.LineageEdge{
		{AncestorNodeID: "root", DescendantNodeID: "child", Distance: 1},
	})
	if err != nil {
		t.Fatalf("RegisterChain: %v", err)
	}
	if _, err := db.GetNode("child"); err != nil {
		t.Errorf("GetNode: %v", err)
	}
	edges, err := db.AncestorsOf("child")
	if err != nil || len(edges) != 1 {
		t.Errorf("ancestors = %v, %v", edges, err)
	}
}
