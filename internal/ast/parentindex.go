package ast

// ParentIndex is built once per tree when parent relationships are needed.
// Nodes never store back-pointers, so ownership stays strictly top-down.
type ParentIndex struct {
	parents map[Node]Node
}

func NewParentIndex(root Node) *ParentIndex {
	idx := &ParentIndex{parents: make(map[Node]Node)}
	idx.index(root)
	return idx
}

func (idx *ParentIndex) index(n Node) {
	for _, child := range n.Children() {
		idx.parents[child] = n
		idx.index(child)
	}
}

// Parent returns the direct parent, or nil for the root.
func (idx *ParentIndex) Parent(n Node) Node {
	return idx.parents[n]
}

// Ancestor walks upward to the nearest enclosing node of the given type.
func (idx *ParentIndex) Ancestor(n Node, t NodeType) Node {
	for cur := idx.parents[n]; cur != nil; cur = idx.parents[cur] {
		if cur.NodeType() == t {
			return cur
		}
	}
	return nil
}
