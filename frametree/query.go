package frametree

import "github.com/arcflow/frametree/spatialmath"

// getTransform returns the transform mapping points expressed in from
// into to's coordinates. It fails FrameNotFound for an unknown endpoint,
// NotConnected if the two frames live in disjoint trees, and
// CycleDetected if either root-walk discovers a cycle (spec §4.D).
func (t *Tree) getTransform(from, to string) (spatialmath.Pose, error) {
	if _, ok := t.frames[from]; !ok {
		return spatialmath.Pose{}, newFrameNotFound(from)
	}
	if _, ok := t.frames[to]; !ok {
		return spatialmath.Pose{}, newFrameNotFound(to)
	}
	if from == to {
		return spatialmath.Identity, nil
	}

	fromChain, err := t.pathToRoot(from)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	toChain, err := t.pathToRoot(to)
	if err != nil {
		return spatialmath.Pose{}, err
	}

	if !shareRoot(fromChain, toChain) {
		return spatialmath.Pose{}, newNotConnected(from, to)
	}

	// The LCA search above is only needed to decide connectivity; the
	// actual composition goes through the cache and never needs the LCA
	// itself, since invert(worldOf(from)) cancels the shared prefix
	// numerically (spec §4.D: "the composition is the numerically
	// stable form that avoids walking from LCA twice").
	fromWorld, err := t.worldOf(from)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	toWorld, err := t.worldOf(to)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	return spatialmath.Compose(spatialmath.Invert(fromWorld), toWorld), nil
}

// pathToRoot walks id's parent chain, returning [id, ..., root]. A
// revisited id mid-walk means the graph has been tampered with into a
// cycle; that is reported as CycleDetected rather than looping forever.
func (t *Tree) pathToRoot(id string) ([]string, error) {
	var chain []string
	visited := make(map[string]struct{})
	current := id
	for {
		if _, seen := visited[current]; seen {
			return nil, newCycleDetected(current)
		}
		visited[current] = struct{}{}
		chain = append(chain, current)

		node, ok := t.frames[current]
		if !ok {
			return nil, newFrameNotFound(current)
		}
		if !node.hasParent {
			return chain, nil
		}
		current = node.parentID
	}
}

// shareRoot reports whether two root-ward chains meet anywhere, i.e.
// whether a lowest common ancestor exists.
func shareRoot(a, b []string) bool {
	inB := make(map[string]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	for _, id := range a {
		if _, ok := inB[id]; ok {
			return true
		}
	}
	return false
}

// isConnected is getTransform without the error-returning ceremony, for
// callers that want a boolean probe (SPEC_FULL §12). Any error, including
// FrameNotFound and CycleDetected, reports false.
func (t *Tree) isConnected(a, b string) bool {
	_, err := t.getTransform(a, b)
	return err == nil
}
