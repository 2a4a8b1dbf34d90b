package frametree

import (
	"errors"
	"testing"

	"go.viam.com/test"

	"github.com/arcflow/frametree/spatialmath"
)

func poseAtX(x float64) spatialmath.Pose {
	return spatialmath.NewPoseFromPoint(spatialmath.NewVector(x, 0, 0))
}

// TestBufferPruning is scenario E of spec §8.
func TestBufferPruning(t *testing.T) {
	const t0 = int64(1_000)
	buf := NewTemporalBuffer("robot", 100)
	buf.Push(t0, poseAtX(0))
	buf.Push(t0+50, poseAtX(1))
	buf.Push(t0+100, poseAtX(2))
	buf.Push(t0+200, poseAtX(3))

	test.That(t, buf.Len(), test.ShouldEqual, 2)

	_, err := buf.Interpolate(t0)
	test.That(t, errors.Is(err, ErrOutOfRange), test.ShouldBeTrue)

	_, err = buf.Interpolate(t0 + 50)
	test.That(t, errors.Is(err, ErrOutOfRange), test.ShouldBeTrue)

	got, err := buf.Interpolate(t0 + 100)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.VectorAlmostEqual(got.Translation, spatialmath.NewVector(2, 0, 0), eps), test.ShouldBeTrue)
}

func TestBufferEmptyInterpolate(t *testing.T) {
	buf := NewTemporalBuffer("robot", DefaultMaxBufferDuration)
	_, err := buf.Interpolate(0)
	test.That(t, errors.Is(err, ErrBufferEmpty), test.ShouldBeTrue)
}

func TestBufferClampsAtNewestNoExtrapolation(t *testing.T) {
	buf := NewTemporalBuffer("robot", DefaultMaxBufferDuration)
	buf.Push(0, poseAtX(0))
	buf.Push(100, poseAtX(10))

	got, err := buf.Interpolate(1_000_000)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.VectorAlmostEqual(got.Translation, spatialmath.NewVector(10, 0, 0), eps), test.ShouldBeTrue)
}

func TestBufferLerpMidpoint(t *testing.T) {
	buf := NewTemporalBuffer("robot", DefaultMaxBufferDuration)
	buf.Push(0, poseAtX(0))
	buf.Push(100, poseAtX(10))

	got, err := buf.Interpolate(50)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.VectorAlmostEqual(got.Translation, spatialmath.NewVector(5, 0, 0), eps), test.ShouldBeTrue)
}

func TestBufferTiesGoAfterExisting(t *testing.T) {
	buf := NewTemporalBuffer("robot", DefaultMaxBufferDuration)
	buf.Push(10, poseAtX(1))
	buf.Push(10, poseAtX(2))

	test.That(t, buf.Len(), test.ShouldEqual, 2)
	got, err := buf.Interpolate(10)
	test.That(t, err, test.ShouldBeNil)
	// ts equals the newest timestamp, so Interpolate clamps to the last
	// sample: the second push, placed after the first of the two ties.
	test.That(t, spatialmath.VectorAlmostEqual(got.Translation, spatialmath.NewVector(2, 0, 0), eps), test.ShouldBeTrue)
}

func TestBufferPruneBeforeExplicit(t *testing.T) {
	buf := NewTemporalBuffer("robot", DefaultMaxBufferDuration)
	buf.Push(0, poseAtX(0))
	buf.Push(10, poseAtX(1))
	buf.Push(20, poseAtX(2))

	buf.PruneBefore(15)
	test.That(t, buf.Len(), test.ShouldEqual, 1)
}
