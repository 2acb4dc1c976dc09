package crdt

import (
	"strings"

	"crdtdoc/patchio"
)

// Compare implements the total order: timestamp ascending,
// then kind rank (CREATE < READ < UPDATE < DELETE) at equal timestamp,
// then a deterministic comparison of the patch's canonical textual
// form. It returns -1, 0, or 1, matching sort.Slice/sort.Search
// conventions, and is the sole source of determinism across replicas —
// every container in this package orders through it.
func Compare(a, b Operation) int {
	if a.timestamp != b.timestamp {
		if a.timestamp < b.timestamp {
			return -1
		}
		return 1
	}
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	return strings.Compare(patchText(a.patch), patchText(b.patch))
}

// Less reports whether a sorts strictly before b under Compare.
func Less(a, b Operation) bool { return Compare(a, b) < 0 }

// patchText renders a patch through the shared canonical encoder; a
// nil patch (READ/DELETE) contributes the empty string.
func patchText(p Patch) string {
	if len(p) == 0 {
		return ""
	}
	b, err := patchio.Canonical(p)
	if err != nil {
		return ""
	}
	return string(b)
}
