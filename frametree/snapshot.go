package frametree

import "github.com/arcflow/frametree/spatialmath"

// Snapshot is the wire shape of spec §6.2: frames ordered parents before
// children, each carrying its parent id (nil for a root) and its local
// transform as a flat translation + quaternion.
type Snapshot struct {
	Frames []SnapshotFrame `json:"frames"`
}

// SnapshotFrame is one record within a Snapshot.
type SnapshotFrame struct {
	ID        string            `json:"id"`
	ParentID  *string           `json:"parentId"`
	Transform SnapshotTransform `json:"transform"`
}

// SnapshotTransform is a rigid transform in the snapshot's flat-array
// wire shape.
type SnapshotTransform struct {
	Translation [3]float64 `json:"translation"`
	Rotation    [4]float64 `json:"rotation"`
}

func poseToSnapshotTransform(p spatialmath.Pose) SnapshotTransform {
	return SnapshotTransform{
		Translation: [3]float64{p.Translation.X, p.Translation.Y, p.Translation.Z},
		Rotation:    [4]float64{p.Rotation.X, p.Rotation.Y, p.Rotation.Z, p.Rotation.W},
	}
}

func snapshotTransformToPose(st SnapshotTransform) spatialmath.Pose {
	return spatialmath.NewPose(
		spatialmath.NewVector(st.Translation[0], st.Translation[1], st.Translation[2]),
		spatialmath.Quaternion{X: st.Rotation[0], Y: st.Rotation[1], Z: st.Rotation[2], W: st.Rotation[3]},
	)
}

// toSnapshot emits every frame in insertion order, which the graph's
// topological-order invariant (spec §3) guarantees lists every parent
// before its children.
func (t *Tree) toSnapshot() Snapshot {
	snap := Snapshot{Frames: make([]SnapshotFrame, 0, len(t.order))}
	for _, id := range t.order {
		node := t.frames[id]
		var parentID *string
		if node.hasParent {
			p := node.parentID
			parentID = &p
		}
		snap.Frames = append(snap.Frames, SnapshotFrame{
			ID:        node.id,
			ParentID:  parentID,
			Transform: poseToSnapshotTransform(node.local),
		})
	}
	return snap
}

// fromSnapshot builds a fresh tree by replaying snap's records through
// Add in order, propagating DuplicateFrame, ParentNotFound, or
// CycleDetected verbatim (spec §4.F) and sharing no state with the
// snapshot that produced it.
func fromSnapshot(snap Snapshot, opts ...TreeOption) (*Tree, error) {
	t := NewTree(opts...)
	for _, f := range snap.Frames {
		local := snapshotTransformToPose(f.Transform)
		if f.ParentID == nil {
			if err := t.Add(f.ID, "", local); err != nil {
				return nil, err
			}
			continue
		}
		if err := t.Add(f.ID, *f.ParentID, local); err != nil {
			return nil, err
		}
	}
	return t, nil
}
