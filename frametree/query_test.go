package frametree

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/arcflow/frametree/spatialmath"
)

const eps = 1e-6

// TestGrandparentChainTranslations is scenario A of spec §8: world ->
// robot(1,0,0) -> camera(0,0,1); getTransform(world,camera).apply(0)
// == (1,0,1).
func TestGrandparentChainTranslations(t *testing.T) {
	tr := NewTree()
	test.That(t, tr.Add("world", "", spatialmath.Identity), test.ShouldBeNil)
	test.That(t, tr.Add("robot", "world", spatialmath.NewPoseFromPoint(spatialmath.NewVector(1, 0, 0))), test.ShouldBeNil)
	test.That(t, tr.Add("camera", "robot", spatialmath.NewPoseFromPoint(spatialmath.NewVector(0, 0, 1))), test.ShouldBeNil)

	xf, err := tr.GetTransform("world", "camera")
	test.That(t, err, test.ShouldBeNil)
	got := spatialmath.Apply(xf, spatialmath.ZeroVector)
	test.That(t, spatialmath.VectorAlmostEqual(got, spatialmath.NewVector(1, 0, 1), eps), test.ShouldBeTrue)
}

// TestSiblingCrossBranch is scenario B: arm(1,0,0) and leg(0,1,0) under
// world; getTransform(arm,leg).apply(0) == (-1,1,0).
func TestSiblingCrossBranch(t *testing.T) {
	tr := NewTree()
	test.That(t, tr.Add("world", "", spatialmath.Identity), test.ShouldBeNil)
	test.That(t, tr.Add("arm", "world", spatialmath.NewPoseFromPoint(spatialmath.NewVector(1, 0, 0))), test.ShouldBeNil)
	test.That(t, tr.Add("leg", "world", spatialmath.NewPoseFromPoint(spatialmath.NewVector(0, 1, 0))), test.ShouldBeNil)

	xf, err := tr.GetTransform("arm", "leg")
	test.That(t, err, test.ShouldBeNil)
	got := spatialmath.Apply(xf, spatialmath.ZeroVector)
	test.That(t, spatialmath.VectorAlmostEqual(got, spatialmath.NewVector(-1, 1, 0), eps), test.ShouldBeTrue)
}

// TestRotation90AboutZ is scenario C: rotated frame under world with
// axis-angle(Z, pi/2); getTransform(world,rotated).apply((1,0,0)) ~=
// (0,1,0) within 1e-5.
func TestRotation90AboutZ(t *testing.T) {
	tr := NewTree()
	test.That(t, tr.Add("world", "", spatialmath.Identity), test.ShouldBeNil)
	test.That(t, tr.Add("rotated", "world", spatialmath.NewPoseFromOrientation(spatialmath.ZeroVector, spatialmath.R4AA{Theta: math.Pi / 2, RZ: 1})), test.ShouldBeNil)

	xf, err := tr.GetTransform("world", "rotated")
	test.That(t, err, test.ShouldBeNil)
	got := spatialmath.Apply(xf, spatialmath.NewVector(1, 0, 0))
	test.That(t, spatialmath.VectorAlmostEqual(got, spatialmath.NewVector(0, 1, 0), 1e-5), test.ShouldBeTrue)
}

func TestGetTransformIdentity(t *testing.T) {
	tr := NewTree()
	test.That(t, tr.Add("world", "", spatialmath.Identity), test.ShouldBeNil)
	xf, err := tr.GetTransform("world", "world")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, xf.AlmostEqual(spatialmath.Identity, eps), test.ShouldBeTrue)
}

func TestGetTransformInverseProperty(t *testing.T) {
	tr := buildThreeFrameTree(t)
	ab, err := tr.GetTransform("a", "b")
	test.That(t, err, test.ShouldBeNil)
	ba, err := tr.GetTransform("b", "a")
	test.That(t, err, test.ShouldBeNil)

	result := spatialmath.Compose(ab, ba)
	test.That(t, result.AlmostEqual(spatialmath.Identity, eps), test.ShouldBeTrue)
}

func TestGetTransformCompositionProperty(t *testing.T) {
	tr := buildThreeFrameTree(t)
	ab, err := tr.GetTransform("a", "b")
	test.That(t, err, test.ShouldBeNil)
	bc, err := tr.GetTransform("b", "c")
	test.That(t, err, test.ShouldBeNil)
	ac, err := tr.GetTransform("a", "c")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, spatialmath.Compose(ab, bc).AlmostEqual(ac, eps), test.ShouldBeTrue)
}

func TestGetTransformNotConnected(t *testing.T) {
	tr := NewTree()
	test.That(t, tr.Add("rootA", "", spatialmath.Identity), test.ShouldBeNil)
	test.That(t, tr.Add("rootB", "", spatialmath.Identity), test.ShouldBeNil)

	_, err := tr.GetTransform("rootA", "rootB")
	test.That(t, errors.Is(err, ErrNotConnected), test.ShouldBeTrue)
	test.That(t, tr.IsConnected("rootA", "rootB"), test.ShouldBeFalse)
}

func TestGetTransformUnknownFrame(t *testing.T) {
	tr := NewTree()
	test.That(t, tr.Add("world", "", spatialmath.Identity), test.ShouldBeNil)
	_, err := tr.GetTransform("world", "ghost")
	test.That(t, errors.Is(err, ErrFrameNotFound), test.ShouldBeTrue)
}

func buildThreeFrameTree(t *testing.T) *Tree {
	t.Helper()
	tr := NewTree()
	test.That(t, tr.Add("world", "", spatialmath.Identity), test.ShouldBeNil)
	test.That(t, tr.Add("a", "world", spatialmath.NewPoseFromOrientation(spatialmath.NewVector(1, 2, 0), spatialmath.R4AA{Theta: 0.4, RZ: 1})), test.ShouldBeNil)
	test.That(t, tr.Add("b", "a", spatialmath.NewPoseFromPoint(spatialmath.NewVector(0, 3, 1))), test.ShouldBeNil)
	test.That(t, tr.Add("c", "b", spatialmath.NewPoseFromOrientation(spatialmath.NewVector(-1, 0, 2), spatialmath.R4AA{Theta: -0.9, RX: 1})), test.ShouldBeNil)
	return tr
}
