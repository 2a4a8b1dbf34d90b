package frametree

import "fmt"

// Kind identifies the category of a frametree error, stable and
// comparable across library versions so callers can branch on it.
type Kind int

const (
	// DuplicateFrame is returned by Add when the id is already present.
	DuplicateFrame Kind = iota
	// ParentNotFound is returned by Add and snapshot replay when the
	// declared parent does not exist.
	ParentNotFound
	// FrameNotFound is returned by any operation given an unknown id.
	FrameNotFound
	// HasChildren is returned by Remove on a non-leaf frame.
	HasChildren
	// CycleDetected is returned when a parent chain would make (or does
	// make) a frame its own ancestor. Carries the offending id.
	CycleDetected
	// NotConnected is returned by GetTransform across disjoint roots.
	NotConnected
	// OutOfRange is returned by a temporal query older than the oldest
	// retained sample.
	OutOfRange
	// BufferEmpty is returned by a temporal query against an empty
	// buffer.
	BufferEmpty
)

func (k Kind) String() string {
	switch k {
	case DuplicateFrame:
		return "DuplicateFrame"
	case ParentNotFound:
		return "ParentNotFound"
	case FrameNotFound:
		return "FrameNotFound"
	case HasChildren:
		return "HasChildren"
	case CycleDetected:
		return "CycleDetected"
	case NotConnected:
		return "NotConnected"
	case OutOfRange:
		return "OutOfRange"
	case BufferEmpty:
		return "BufferEmpty"
	default:
		return "Unknown"
	}
}

// Error is the single error type frametree returns. It is comparable via
// errors.Is against the Err* sentinels below on Kind alone, but also
// carries the offending id(s) for a precise message and for callers that
// want to inspect it directly.
type Error struct {
	Kind Kind
	ID   string
	// Other, when set, is a second id involved in the failure (e.g. the
	// unknown parent named by Add, or the "to" endpoint of a
	// NotConnected query).
	Other string
	msg   string
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.Kind.String()
}

// Is makes errors.Is(err, ErrFrameNotFound) (and friends) match any Error
// of the same Kind, regardless of which id it names.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.ID != "" && t.ID != e.ID {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons that only care about the kind.
var (
	ErrDuplicateFrame = &Error{Kind: DuplicateFrame}
	ErrParentNotFound = &Error{Kind: ParentNotFound}
	ErrFrameNotFound  = &Error{Kind: FrameNotFound}
	ErrHasChildren    = &Error{Kind: HasChildren}
	ErrCycleDetected  = &Error{Kind: CycleDetected}
	ErrNotConnected   = &Error{Kind: NotConnected}
	ErrOutOfRange     = &Error{Kind: OutOfRange}
	ErrBufferEmpty    = &Error{Kind: BufferEmpty}
)

func newDuplicateFrame(id string) *Error {
	return &Error{Kind: DuplicateFrame, ID: id, msg: fmt.Sprintf("frame with id %q already exists", id)}
}

func newParentNotFound(id, parent string) *Error {
	return &Error{
		Kind: ParentNotFound, ID: id, Other: parent,
		msg: fmt.Sprintf("parent frame with id %q not found for frame %q", parent, id),
	}
}

func newFrameNotFound(id string) *Error {
	return &Error{Kind: FrameNotFound, ID: id, msg: fmt.Sprintf("frame with id %q not found", id)}
}

func newHasChildren(id string) *Error {
	return &Error{Kind: HasChildren, ID: id, msg: fmt.Sprintf("frame with id %q has children and cannot be removed", id)}
}

func newCycleDetected(id string) *Error {
	return &Error{Kind: CycleDetected, ID: id, msg: fmt.Sprintf("cycle detected at frame %q", id)}
}

func newNotConnected(from, to string) *Error {
	return &Error{
		Kind: NotConnected, ID: from, Other: to,
		msg: fmt.Sprintf("frame %q and frame %q are not connected", from, to),
	}
}

func newOutOfRange(id string, ts int64, oldest int64) *Error {
	return &Error{
		Kind: OutOfRange, ID: id,
		msg: fmt.Sprintf("timestamp %d for frame %q is older than the oldest retained sample %d", ts, id, oldest),
	}
}

func newBufferEmpty(id string) *Error {
	return &Error{Kind: BufferEmpty, ID: id, msg: fmt.Sprintf("no samples buffered for frame %q", id)}
}
