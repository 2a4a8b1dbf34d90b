package frametree

import (
	"sort"

	"github.com/arcflow/frametree/spatialmath"
)

// DefaultMaxBufferDuration is the default temporal retention window in
// milliseconds (spec §3: "maxDuration_ms: ... default 10,000").
const DefaultMaxBufferDuration = int64(10_000)

type sample struct {
	ts    int64
	local spatialmath.Pose
}

// TemporalBuffer holds one frame's time-stamped local-transform history,
// sorted strictly by timestamp ascending, pruned to maxDuration_ms of
// retention behind the newest sample (spec §4.G).
type TemporalBuffer struct {
	id          string
	samples     []sample
	maxDuration int64
}

// NewTemporalBuffer constructs an empty buffer for the given owning
// frame id and retention window.
func NewTemporalBuffer(id string, maxDuration int64) *TemporalBuffer {
	return &TemporalBuffer{id: id, maxDuration: maxDuration}
}

// Push inserts (ts, local) at the position given by the upper bound of
// ts — ties go after existing samples at the same timestamp — then
// prunes every sample older than newest-maxDuration from the front.
func (b *TemporalBuffer) Push(ts int64, local spatialmath.Pose) {
	idx := sort.Search(len(b.samples), func(i int) bool { return b.samples[i].ts > ts })
	b.samples = append(b.samples, sample{})
	copy(b.samples[idx+1:], b.samples[idx:])
	b.samples[idx] = sample{ts: ts, local: local}

	newest := b.samples[len(b.samples)-1].ts
	cutoff := newest - b.maxDuration
	prune := 0
	for prune < len(b.samples) && b.samples[prune].ts < cutoff {
		prune++
	}
	if prune > 0 {
		b.samples = b.samples[prune:]
	}
}

// PruneBefore discards every sample with timestamp strictly before ts,
// independent of the next Push (SPEC_FULL §12 explicit-pruning hook).
// ts need not lie outside the retention window: samples it drops are
// gone, and a later Interpolate older than the new oldest sample fails
// with ErrOutOfRange.
func (b *TemporalBuffer) PruneBefore(ts int64) {
	prune := 0
	for prune < len(b.samples) && b.samples[prune].ts < ts {
		prune++
	}
	b.samples = b.samples[prune:]
}

// Len returns the number of retained samples.
func (b *TemporalBuffer) Len() int { return len(b.samples) }

// Interpolate returns the local transform at ts: exact on a hit, LERP/
// SLERP between straddling samples otherwise, clamped (never
// extrapolated) at the newest sample (spec §4.G).
//
// Errors: ErrBufferEmpty, ErrOutOfRange.
func (b *TemporalBuffer) Interpolate(ts int64) (spatialmath.Pose, error) {
	if len(b.samples) == 0 {
		return spatialmath.Pose{}, newBufferEmpty(b.id)
	}

	oldest := b.samples[0]
	newest := b.samples[len(b.samples)-1]

	if ts < oldest.ts {
		return spatialmath.Pose{}, newOutOfRange(b.id, ts, oldest.ts)
	}
	if ts >= newest.ts {
		return newest.local, nil
	}

	// Lower-bound index: first sample whose timestamp is >= ts.
	h := sort.Search(len(b.samples), func(i int) bool { return b.samples[i].ts >= ts })
	if b.samples[h].ts == ts {
		return b.samples[h].local, nil
	}

	lo, hi := b.samples[h-1], b.samples[h]
	alpha := float64(ts-lo.ts) / float64(hi.ts-lo.ts)
	return spatialmath.Pose{
		Translation: spatialmath.LerpVector(lo.local.Translation, hi.local.Translation, alpha),
		Rotation:    spatialmath.Slerp(lo.local.Rotation, hi.local.Rotation, alpha),
	}, nil
}
