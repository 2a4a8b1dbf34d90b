package frametree

import "github.com/arcflow/frametree/spatialmath"

// Frame is a read-only snapshot of one node in the graph: its id, its
// parent (if any), and its local transform relative to that parent. It
// is returned by value so callers cannot mutate graph state through it
// (spec §5: "Snapshots returned to callers are deep copies at the value
// level").
type Frame struct {
	ID        string
	ParentID  string
	HasParent bool
	Local     spatialmath.Pose
}

// frameNode is the internal, mutable record backing a Frame.
type frameNode struct {
	id        string
	parentID  string
	hasParent bool
	local     spatialmath.Pose
}

func (n *frameNode) snapshot() Frame {
	return Frame{ID: n.id, ParentID: n.parentID, HasParent: n.hasParent, Local: n.local}
}

// add inserts a new frame. parentID is ignored (treated as root) when
// hasParent is false. On success, add returns the stale-set (always
// {id} for a brand-new frame) and the caller is responsible for firing
// change notifications via Tree.Add, which wraps this.
func (t *Tree) add(id string, hasParent bool, parentID string, local spatialmath.Pose) ([]string, error) {
	if _, exists := t.frames[id]; exists {
		return nil, newDuplicateFrame(id)
	}
	if hasParent {
		if _, exists := t.frames[parentID]; !exists {
			return nil, newParentNotFound(id, parentID)
		}
		// Guard against a caller-declared cycle: walk the parent chain
		// looking for id itself. This can only trigger if the parent
		// chain is already corrupted, since id is brand new here, but
		// the check is cheap and the design note (§9) asks for it to be
		// present at add time regardless.
		if err := t.walkForCycle(parentID, id); err != nil {
			return nil, err
		}
	}

	node := &frameNode{id: id, parentID: parentID, hasParent: hasParent, local: local}
	t.frames[id] = node
	t.order = append(t.order, id)
	t.children[id] = nil
	if hasParent {
		t.children[parentID] = append(t.children[parentID], id)
	}

	t.markDirty(id)
	return []string{id}, nil
}

// walkForCycle walks the declared parent chain starting at start, failing
// CycleDetected(target) if it ever reaches target.
func (t *Tree) walkForCycle(start, target string) error {
	visited := make(map[string]struct{})
	current := start
	for {
		if current == target {
			return newCycleDetected(target)
		}
		if _, seen := visited[current]; seen {
			// The existing graph already contains a cycle unrelated to
			// target; report it at the frame where we detected the
			// repeat.
			return newCycleDetected(current)
		}
		visited[current] = struct{}{}
		node, ok := t.frames[current]
		if !ok || !node.hasParent {
			return nil
		}
		current = node.parentID
	}
}

// remove deletes a leaf frame and everything owned exclusively by it:
// its child-adjacency entry, listener set, cache entry, dirty entry, and
// buffer (if any). Fails HasChildren if id is not a leaf.
func (t *Tree) remove(id string) error {
	node, ok := t.frames[id]
	if !ok {
		return newFrameNotFound(id)
	}
	if len(t.children[id]) > 0 {
		return newHasChildren(id)
	}

	if node.hasParent {
		siblings := t.children[node.parentID]
		for i, c := range siblings {
			if c == id {
				t.children[node.parentID] = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}

	delete(t.frames, id)
	delete(t.children, id)
	delete(t.listeners, id)
	delete(t.worldCache, id)
	delete(t.dirty, id)
	if t.buffers != nil {
		delete(t.buffers, id)
	}

	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// setLocal replaces id's local transform and marks its entire subtree
// dirty, returning that subtree (including id itself) as the stale-set.
func (t *Tree) setLocal(id string, local spatialmath.Pose) ([]string, error) {
	node, ok := t.frames[id]
	if !ok {
		return nil, newFrameNotFound(id)
	}
	node.local = local
	return t.markDirty(id), nil
}

// batchSetLocal validates every id first (all-or-nothing), then applies
// every update and returns the ancestor-deduplicated union of dirtied
// subtrees (spec §4.B). If the same id appears twice in the input map
// that is impossible in Go (map keys are unique), so "last write wins"
// for duplicate ids is not a concern here; a duplicate key collapses at
// the call site before this function ever sees it.
func (t *Tree) batchSetLocal(updates map[string]spatialmath.Pose) ([]string, error) {
	for id := range updates {
		if _, ok := t.frames[id]; !ok {
			return nil, newFrameNotFound(id)
		}
	}

	for id, local := range updates {
		t.frames[id].local = local
	}

	roots := rootsOf(updates, t.frames)
	stale := make(map[string]struct{})
	for _, id := range roots {
		for _, d := range t.markDirty(id) {
			stale[d] = struct{}{}
		}
	}

	result := make([]string, 0, len(stale))
	for _, id := range t.order {
		if _, ok := stale[id]; ok {
			result = append(result, id)
		}
	}
	return result, nil
}

// rootsOf returns the subset of updates' keys that have no proper
// ancestor also present in updates: "include subtree(x) iff no ancestor
// of x is in the batch key-set" (spec §4.B).
func rootsOf(updates map[string]spatialmath.Pose, frames map[string]*frameNode) []string {
	roots := make([]string, 0, len(updates))
	for id := range updates {
		if hasAncestorIn(id, updates, frames) {
			continue
		}
		roots = append(roots, id)
	}
	return roots
}

func hasAncestorIn(id string, updates map[string]spatialmath.Pose, frames map[string]*frameNode) bool {
	node := frames[id]
	visited := map[string]struct{}{id: {}}
	for node.hasParent {
		parent := node.parentID
		if _, seen := visited[parent]; seen {
			return false // corrupted cycle; not this function's job to report it
		}
		visited[parent] = struct{}{}
		if _, inBatch := updates[parent]; inBatch {
			return true
		}
		node = frames[parent]
	}
	return false
}

// has reports whether id exists.
func (t *Tree) has(id string) bool {
	_, ok := t.frames[id]
	return ok
}

// ids returns every frame id in insertion order.
func (t *Tree) ids() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// childrenOf returns id's direct children in the order they were added.
func (t *Tree) childrenOf(id string) ([]string, error) {
	if _, ok := t.frames[id]; !ok {
		return nil, newFrameNotFound(id)
	}
	out := make([]string, len(t.children[id]))
	copy(out, t.children[id])
	return out, nil
}

// subtreeIDs collects id and every descendant of id, depth-first, using
// the live child adjacency (not t.order, so it works mid-mutation).
func (t *Tree) subtreeIDs(id string) []string {
	var out []string
	var walk func(string)
	walk = func(current string) {
		out = append(out, current)
		for _, child := range t.children[current] {
			walk(child)
		}
	}
	walk(id)
	return out
}
