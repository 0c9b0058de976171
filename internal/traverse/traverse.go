package traverse

import "github.com/mesh-intelligence/familytree/pkg/types"

// Find returns the member with the given ID, or nil when no member of the
// tree carries it.
func Find(root *types.Member, id string) *types.Member {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return root
	}
	for _, child := range root.Children {
		if found := Find(child, id); found != nil {
			return found
		}
	}
	return nil
}

// FindParent returns the member whose direct children contain id. It returns
// nil when id is the root or is absent from the tree. The search is depth
// first and visits every descendant until it finds a match.
func FindParent(root *types.Member, id string) *types.Member {
	if root == nil {
		return nil
	}
	for _, child := range root.Children {
		if child.ID == id {
			return root
		}
		if found := FindParent(child, id); found != nil {
			return found
		}
	}
	return nil
}

// Transform produces the replacement for a member. It must not modify its
// argument; use ShallowCopy or WithFields to derive the result.
type Transform func(m *types.Member) *types.Member

// RebuildWith returns a tree in which the member with the given ID is
// replaced by transform(member). Every ancestor on the path to it is a new
// value; subtrees off the path are shared with root. When no member carries
// id, root itself is returned.
func RebuildWith(root *types.Member, id string, transform Transform) *types.Member {
	if root == nil {
		return nil
	}
	rebuilt, ok := rebuild(root, id, transform)
	if !ok {
		return root
	}
	return rebuilt
}

func rebuild(node *types.Member, id string, transform Transform) (*types.Member, bool) {
	if node.ID == id {
		return transform(node), true
	}
	for i, child := range node.Children {
		replaced, ok := rebuild(child, id, transform)
		if !ok {
			continue
		}
		cp := node.ShallowCopy()
		cp.Children[i] = replaced
		return cp, true
	}
	return node, false
}

// DeleteByID returns a tree without the member carrying id and without its
// whole subtree. At each member the direct children are scanned first; once
// a child list loses an entry the search stops descending on that branch.
// When id is the root or absent, root itself is returned.
func DeleteByID(root *types.Member, id string) *types.Member {
	if root == nil {
		return nil
	}
	pruned, _ := prune(root, id)
	return pruned
}

func prune(node *types.Member, id string) (*types.Member, bool) {
	if node.IsLeaf() {
		return node, false
	}

	kept := make([]*types.Member, 0, len(node.Children))
	for _, child := range node.Children {
		if child.ID != id {
			kept = append(kept, child)
		}
	}
	if len(kept) != len(node.Children) {
		cp := *node
		cp.Children = kept
		return &cp, true
	}

	for i, child := range node.Children {
		replaced, ok := prune(child, id)
		if !ok {
			continue
		}
		cp := node.ShallowCopy()
		cp.Children[i] = replaced
		return cp, true
	}
	return node, false
}

// Walk visits root and its descendants in pre-order, passing each member's
// depth (the root is 0). When fn returns false the member's children are
// skipped.
func Walk(root *types.Member, fn func(m *types.Member, depth int) bool) {
	if root == nil {
		return
	}
	walk(root, 0, fn)
}

func walk(node *types.Member, depth int, fn func(m *types.Member, depth int) bool) {
	if !fn(node, depth) {
		return
	}
	for _, child := range node.Children {
		walk(child, depth+1, fn)
	}
}
