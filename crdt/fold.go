package crdt

import (
	"math"

	"crdtdoc/internal/crdtlog"
)

var foldLogger = crdtlog.Named("crdt")

// FoldIssue is a single recorded, non-fatal failure observed during a
// fold: a patch that failed to apply. It is purely diagnostic — the
// fold always continues past it.
type FoldIssue struct {
	Kind      Kind
	Timestamp uint64
	Err       error
}

// Diagnostics is a bounded, append-only record of FoldIssues produced
// while materializing a document. It is never required for
// correctness; callers that don't care can fold without one.
type Diagnostics struct {
	issues []FoldIssue
	cap    int
}

// NewDiagnostics returns a diagnostics sink that keeps at most
// capacity issues, dropping the oldest once full. capacity <= 0 means
// unbounded.
func NewDiagnostics(capacity int) *Diagnostics {
	return &Diagnostics{cap: capacity}
}

// Issues returns the recorded issues, oldest first.
func (d *Diagnostics) Issues() []FoldIssue {
	if d == nil {
		return nil
	}
	out := make([]FoldIssue, len(d.issues))
	copy(out, d.issues)
	return out
}

// Record appends issue to d, evicting the oldest entry if d is at
// capacity. Exported so collaborators outside this package can record
// into the same ring as the fold engine.
func (d *Diagnostics) Record(issue FoldIssue) {
	if d == nil {
		return
	}
	d.issues = append(d.issues, issue)
	if d.cap > 0 && len(d.issues) > d.cap {
		d.issues = d.issues[len(d.issues)-d.cap:]
	}
}

// Document materializes the document from s's effective set, applying
// every effective operation in Compare order. It is shorthand for
// DocumentAt(math.MaxUint64).
func (s *OperationSet) Document() *Json {
	return s.DocumentAt(math.MaxUint64)
}

// DocumentAt materializes the document considering only effective
// operations with Timestamp() <= tsLimit, applied in Compare order.
// Equivalent to FoldWithDiagnostics(tsLimit, nil).
func (s *OperationSet) DocumentAt(tsLimit uint64) *Json {
	return s.FoldWithDiagnostics(tsLimit, nil)
}

// FoldWithDiagnostics is DocumentAt, additionally recording any
// PatchApplyError encountered into diag (which may be nil).
//
// Algorithm: walk the effective set in Compare order; CREATE
// sets the document only if it is still absent (the first CREATE in
// order wins); UPDATE applies only if the document is present,
// otherwise it is dropped; READ has no effect; DELETE seals the fold —
// the document becomes absent and every later-timestamped operation in
// this window is ignored, regardless of tsLimit.
func (s *OperationSet) FoldWithDiagnostics(tsLimit uint64, diag *Diagnostics) *Json {
	var doc *Json
	for _, op := range s.Effective() {
		if op.Timestamp() > tsLimit {
			break
		}
		if op.IsDeleted() {
			foldLogger.Debugw("fold sealed by delete", "ts", op.Timestamp())
			return nil
		}

		next, err := op.Process(doc)
		if err != nil {
			foldLogger.Warnw("operation failed to apply during fold", "kind", op.Kind().String(), "ts", op.Timestamp(), "err", err)
			diag.Record(FoldIssue{Kind: op.Kind(), Timestamp: op.Timestamp(), Err: err})
			continue
		}
		doc = next
	}
	return doc
}
