package frametree

import (
	"fmt"

	"go.uber.org/multierr"
)

// ChangeCallback is invoked with the id of a frame whose world transform
// just became stale.
type ChangeCallback func(id string)

// Unsubscribe idempotently removes the callback it was returned for.
type Unsubscribe func()

type callbackEntry struct {
	cb      ChangeCallback
	removed bool
}

// onChange registers cb against id, firing whenever id appears in a
// mutator's stale-set. Callbacks for the same id fire in registration
// order (spec §5).
func (t *Tree) onChange(id string, cb ChangeCallback) (Unsubscribe, error) {
	if _, ok := t.frames[id]; !ok {
		return nil, newFrameNotFound(id)
	}
	entry := &callbackEntry{cb: cb}
	t.listeners[id] = append(t.listeners[id], entry)
	return func() { entry.removed = true }, nil
}

// fire dispatches every listener registered against each id in staleIDs,
// in the order staleIDs is given. A callback panic is recovered and
// aggregated rather than left to corrupt graph state or block sibling
// callbacks (spec §5, §7): "Callback exceptions: isolated; do not poison
// graph state."
func (t *Tree) fire(staleIDs []string) error {
	var errs error
	for _, id := range staleIDs {
		for _, entry := range t.listeners[id] {
			if entry.removed {
				continue
			}
			if err := invokeSafely(id, entry.cb); err != nil {
				errs = multierr.Append(errs, err)
				if t.logger != nil {
					t.logger.Warnw("change callback panicked", "frame", id, "error", err)
				}
			}
		}
	}
	return errs
}

func invokeSafely(id string, cb ChangeCallback) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("change callback for frame %q panicked: %v", id, r)
		}
	}()
	cb(id)
	return nil
}
