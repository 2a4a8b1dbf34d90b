// Package frametree manages a forest of named spatial reference frames,
// each defined by a rigid-body transform relative to a parent frame. It
// answers "what transform maps frame A into frame B" in O(depth) via a
// lazily-recomputed world-transform cache, and reports exactly which
// frames became stale after a mutation.
//
// The core is single-threaded and holds no locks (spec §5): callers
// owning a Tree across goroutines must serialize their own access.
package frametree

import (
	"github.com/edaniels/golog"

	"github.com/arcflow/frametree/spatialmath"
)

// Tree is a forest of frames with a lazily-recomputed world-transform
// cache and change notification. The zero value is not usable; construct
// one with NewTree.
type Tree struct {
	order      []string
	frames     map[string]*frameNode
	children   map[string][]string
	dirty      map[string]struct{}
	worldCache map[string]spatialmath.Pose
	listeners  map[string][]*callbackEntry
	buffers    map[string]*TemporalBuffer

	logger            golog.Logger
	maxBufferDuration int64
}

// WithMaxBufferDuration sets a BufferedTree's temporal retention window
// in milliseconds. It has no effect on a plain Tree.
func WithMaxBufferDuration(ms int64) TreeOption {
	return func(t *Tree) { t.maxBufferDuration = ms }
}

// TreeOption configures a Tree at construction time.
type TreeOption func(*Tree)

// WithLogger attaches a logger that receives Debug-level mutation traces
// and Warn-level callback-panic reports. The default is
// golog.NewLogger("frametree"); WithLogger(nil) turns logging off.
func WithLogger(logger golog.Logger) TreeOption {
	return func(t *Tree) { t.logger = logger }
}

// NewTree constructs an empty frame tree.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		frames:     make(map[string]*frameNode),
		children:   make(map[string][]string),
		dirty:      make(map[string]struct{}),
		worldCache: make(map[string]spatialmath.Pose),
		listeners:  make(map[string][]*callbackEntry),
		logger:     golog.NewLogger("frametree"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add inserts a new frame. An empty parentID means id is a root (a tree
// may have multiple roots). Pass spatialmath.Identity for local when the
// frame has no offset from its parent.
//
// Errors: ErrDuplicateFrame, ErrParentNotFound, ErrCycleDetected.
func (t *Tree) Add(id string, parentID string, local spatialmath.Pose) error {
	hasParent := parentID != ""
	stale, err := t.add(id, hasParent, parentID, local)
	if err != nil {
		return err
	}
	t.debugw("frame added", "id", id, "stale", len(stale))
	return t.fire(stale)
}

// UpdateLocal replaces id's local transform, invalidating its entire
// subtree.
//
// Errors: ErrFrameNotFound.
func (t *Tree) UpdateLocal(id string, local spatialmath.Pose) error {
	stale, err := t.setLocal(id, local)
	if err != nil {
		return err
	}
	t.debugw("frame updated", "id", id, "stale", len(stale))
	return t.fire(stale)
}

// UpdateBatch applies every (id, local) pair atomically: every id is
// validated before any is applied. The stale-set fired is the ancestor-
// deduplicated union of the touched subtrees (spec §4.B).
//
// Errors: ErrFrameNotFound.
func (t *Tree) UpdateBatch(updates map[string]spatialmath.Pose) error {
	stale, err := t.batchSetLocal(updates)
	if err != nil {
		return err
	}
	t.debugw("batch update", "frames", len(updates), "stale", len(stale))
	return t.fire(stale)
}

// Remove deletes a leaf frame and releases everything owned exclusively
// by it (listeners, cache entry, buffer).
//
// Errors: ErrFrameNotFound, ErrHasChildren.
func (t *Tree) Remove(id string) error {
	if err := t.remove(id); err != nil {
		return err
	}
	t.debugw("frame removed", "id", id)
	return nil
}

// Has reports whether id exists in the tree.
func (t *Tree) Has(id string) bool {
	return t.has(id)
}

// IDs returns every frame id, in insertion order.
func (t *Tree) IDs() []string {
	return t.ids()
}

// Children returns id's direct children, in the order they were added
// (SPEC_FULL §12 convenience accessor).
func (t *Tree) Children(id string) ([]string, error) {
	return t.childrenOf(id)
}

// Parent returns id's parent id and whether id has one.
//
// Errors: ErrFrameNotFound.
func (t *Tree) Parent(id string) (parentID string, hasParent bool, err error) {
	node, ok := t.frames[id]
	if !ok {
		return "", false, newFrameNotFound(id)
	}
	return node.parentID, node.hasParent, nil
}

// Frame returns a snapshot of id's stored data.
//
// Errors: ErrFrameNotFound.
func (t *Tree) Frame(id string) (Frame, error) {
	node, ok := t.frames[id]
	if !ok {
		return Frame{}, newFrameNotFound(id)
	}
	return node.snapshot(), nil
}

// GetTransform returns the transform mapping points expressed in from
// into to. GetTransform(x, x) is always Identity.
//
// Errors: ErrFrameNotFound, ErrNotConnected, ErrCycleDetected.
func (t *Tree) GetTransform(from, to string) (spatialmath.Pose, error) {
	return t.getTransform(from, to)
}

// IsConnected is a non-erroring probe for whether from and to share a
// root (SPEC_FULL §12).
func (t *Tree) IsConnected(from, to string) bool {
	return t.isConnected(from, to)
}

// OnChange registers cb to run whenever id's world transform becomes
// stale. The returned Unsubscribe idempotently cancels the
// registration.
//
// Errors: ErrFrameNotFound.
func (t *Tree) OnChange(id string, cb ChangeCallback) (Unsubscribe, error) {
	return t.onChange(id, cb)
}

// ToSnapshot emits the tree's current state in the wire shape of spec
// §6.2, parents before children.
func (t *Tree) ToSnapshot() Snapshot {
	return t.toSnapshot()
}

// FromSnapshot builds a fresh tree by replaying snap through Add, in
// order.
//
// Errors: ErrDuplicateFrame, ErrParentNotFound, ErrCycleDetected.
func FromSnapshot(snap Snapshot, opts ...TreeOption) (*Tree, error) {
	return fromSnapshot(snap, opts...)
}

// Clone deep-copies the tree's frame data (not its listeners or buffers)
// into a fresh, independent Tree (SPEC_FULL §12).
func (t *Tree) Clone(opts ...TreeOption) *Tree {
	clone, err := fromSnapshot(t.toSnapshot(), opts...)
	if err != nil {
		// toSnapshot always produces a replayable snapshot of a tree
		// that was itself built through Add, so replay cannot fail.
		panic("frametree: Clone of a valid tree failed to replay: " + err.Error())
	}
	return clone
}

func (t *Tree) debugw(msg string, kv ...interface{}) {
	if t.logger != nil {
		t.logger.Debugw(msg, kv...)
	}
}
