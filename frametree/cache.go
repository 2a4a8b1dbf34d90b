package frametree

import "github.com/arcflow/frametree/spatialmath"

// markDirty marks id and every descendant of id dirty, evicting each from
// worldCache so the next worldOf call recomputes it, and returns the
// marked ids in depth-first pre-order. This is the cache-invalidation
// half of every mutator (spec §4.C: "mark the mutated id and, depth-
// first, every descendant").
func (t *Tree) markDirty(id string) []string {
	ids := t.subtreeIDs(id)
	for _, d := range ids {
		t.dirty[d] = struct{}{}
		delete(t.worldCache, d)
	}
	return ids
}

// worldOf returns the composed root-to-id transform, memoised in
// worldCache. A frame with no parent is its own world transform. Cycles
// introduced by external tampering with frame state are caught via an
// active-visit set and reported as CycleDetected rather than recursing
// forever (spec §4.C step 2, §9).
func (t *Tree) worldOf(id string) (spatialmath.Pose, error) {
	return t.worldOfVisiting(id, make(map[string]struct{}))
}

func (t *Tree) worldOfVisiting(id string, visiting map[string]struct{}) (spatialmath.Pose, error) {
	if _, isDirty := t.dirty[id]; !isDirty {
		if cached, ok := t.worldCache[id]; ok {
			return cached, nil
		}
	}

	node, ok := t.frames[id]
	if !ok {
		return spatialmath.Pose{}, newFrameNotFound(id)
	}

	if _, active := visiting[id]; active {
		return spatialmath.Pose{}, newCycleDetected(id)
	}
	visiting[id] = struct{}{}

	var world spatialmath.Pose
	if !node.hasParent {
		world = node.local
	} else {
		parentWorld, err := t.worldOfVisiting(node.parentID, visiting)
		if err != nil {
			return spatialmath.Pose{}, err
		}
		world = spatialmath.Compose(node.local, parentWorld)
	}

	delete(visiting, id)
	t.worldCache[id] = world
	delete(t.dirty, id)
	return world, nil
}
