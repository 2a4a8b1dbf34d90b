package frametree

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/arcflow/frametree/spatialmath"
)

// TestSnapshotRoundTrip is invariant 3 of spec §8: fromSnapshot(
// toSnapshot(tree)) yields a tree with identical IDs order and
// pairwise-equal GetTransform results.
func TestSnapshotRoundTrip(t *testing.T) {
	tr := buildThreeFrameTree(t)
	snap := tr.ToSnapshot()

	replayed, err := FromSnapshot(snap)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, replayed.IDs(), test.ShouldResemble, tr.IDs())

	ids := tr.IDs()
	for _, a := range ids {
		for _, b := range ids {
			want, err := tr.GetTransform(a, b)
			test.That(t, err, test.ShouldBeNil)
			got, err := replayed.GetTransform(a, b)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got.AlmostEqual(want, eps), test.ShouldBeTrue)
		}
	}
}

func TestSnapshotFrameOrderParentsBeforeChildren(t *testing.T) {
	tr := buildThreeFrameTree(t)
	snap := tr.ToSnapshot()

	seen := make(map[string]bool)
	for _, f := range snap.Frames {
		if f.ParentID != nil {
			test.That(t, seen[*f.ParentID], test.ShouldBeTrue)
		}
		seen[f.ID] = true
	}
}

func TestSnapshotRootHasNilParent(t *testing.T) {
	tr := NewTree()
	test.That(t, tr.Add("world", "", spatialmath.NewPoseFromOrientation(spatialmath.NewVector(1, 2, 3), spatialmath.R4AA{Theta: math.Pi / 3, RY: 1})), test.ShouldBeNil)
	snap := tr.ToSnapshot()
	test.That(t, len(snap.Frames), test.ShouldEqual, 1)
	test.That(t, snap.Frames[0].ParentID, test.ShouldBeNil)
}

func TestFromSnapshotPropagatesErrors(t *testing.T) {
	badParent := "missing"
	snap := Snapshot{Frames: []SnapshotFrame{
		{ID: "a", ParentID: &badParent},
	}}
	_, err := FromSnapshot(snap)
	test.That(t, err, test.ShouldNotBeNil)
}
