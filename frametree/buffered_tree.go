package frametree

import "github.com/arcflow/frametree/spatialmath"

// BufferedTree extends Tree (spec §4.H) with a per-frame time-indexed
// sample buffer, so queries can ask not just "what is the transform"
// but "what was the transform at time ts". Non-temporal operations
// (Add, Remove, GetTransform, ...) behave exactly as on a plain Tree.
type BufferedTree struct {
	*Tree
}

// NewBufferedTree constructs an empty buffered frame tree. Without
// WithMaxBufferDuration, each frame's buffer retains
// DefaultMaxBufferDuration milliseconds behind its newest sample.
func NewBufferedTree(opts ...TreeOption) *BufferedTree {
	t := NewTree(opts...)
	if t.maxBufferDuration == 0 {
		t.maxBufferDuration = DefaultMaxBufferDuration
	}
	t.buffers = make(map[string]*TemporalBuffer)
	return &BufferedTree{Tree: t}
}

// SetTransform performs the ordinary (non-temporal) local-transform
// update — invalidating the world-transform cache and firing change
// listeners exactly as UpdateLocal does — and then appends (ts, local)
// to id's buffer, creating that buffer lazily on first write (spec
// §4.H, §3 "Buffers are created lazily on first time-stamped write").
//
// Errors: ErrFrameNotFound.
func (bt *BufferedTree) SetTransform(id string, local spatialmath.Pose, ts int64) error {
	if _, ok := bt.frames[id]; !ok {
		return newFrameNotFound(id)
	}
	// A listener panic is reported in the returned error but does not
	// keep the sample out of the buffer.
	fireErr := bt.UpdateLocal(id, local)
	buf, ok := bt.buffers[id]
	if !ok {
		buf = NewTemporalBuffer(id, bt.maxBufferDuration)
		bt.buffers[id] = buf
	}
	buf.Push(ts, local)
	return fireErr
}

// GetTransformAt returns the transform mapping points in from into to
// as of ts, recomputed from each frame's buffered (or, absent a buffer,
// static) local transform rather than the static world-transform cache.
//
// Errors: ErrFrameNotFound, ErrNotConnected, ErrCycleDetected,
// ErrOutOfRange, ErrBufferEmpty — any of these raised by a per-edge
// buffer surfaces verbatim (spec §4.H "Error propagation").
func (bt *BufferedTree) GetTransformAt(from, to string, ts int64) (spatialmath.Pose, error) {
	if _, ok := bt.frames[from]; !ok {
		return spatialmath.Pose{}, newFrameNotFound(from)
	}
	if _, ok := bt.frames[to]; !ok {
		return spatialmath.Pose{}, newFrameNotFound(to)
	}
	if from == to {
		return spatialmath.Identity, nil
	}
	if _, err := bt.getTransform(from, to); err != nil {
		return spatialmath.Pose{}, err
	}

	fromWorld, err := bt.worldAt(from, ts, make(map[string]struct{}))
	if err != nil {
		return spatialmath.Pose{}, err
	}
	toWorld, err := bt.worldAt(to, ts, make(map[string]struct{}))
	if err != nil {
		return spatialmath.Pose{}, err
	}
	return spatialmath.Compose(spatialmath.Invert(fromWorld), toWorld), nil
}

// worldAt recursively composes the parent's worldAt with id's local
// transform at ts, detecting cycles per-call via visiting (spec §4.H:
// "Cycles in the recursion are detected per-call with an active-visit
// set").
func (bt *BufferedTree) worldAt(id string, ts int64, visiting map[string]struct{}) (spatialmath.Pose, error) {
	if _, active := visiting[id]; active {
		return spatialmath.Pose{}, newCycleDetected(id)
	}
	visiting[id] = struct{}{}
	defer delete(visiting, id)

	node, ok := bt.frames[id]
	if !ok {
		return spatialmath.Pose{}, newFrameNotFound(id)
	}

	local, err := bt.localAtTime(id, ts)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	if !node.hasParent {
		return local, nil
	}

	parentWorld, err := bt.worldAt(node.parentID, ts, visiting)
	if err != nil {
		return spatialmath.Pose{}, err
	}
	return spatialmath.Compose(local, parentWorld), nil
}

// localAtTime returns id's local transform at ts: interpolated from its
// buffer if one exists, otherwise the frame's current static local
// transform (spec §4.H).
func (bt *BufferedTree) localAtTime(id string, ts int64) (spatialmath.Pose, error) {
	if buf, ok := bt.buffers[id]; ok {
		return buf.Interpolate(ts)
	}
	return bt.frames[id].local, nil
}
