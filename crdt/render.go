package crdt

import (
	"bytes"
	"fmt"

	"crdtdoc/patchio"
)

// Render produces the canonical textual rendering of s used for
// equality checks and diagnostics: a JSON-like object with
// stable key order — add_set, rem_set, op_set — each an ordered array
// in Compare order. Two stores with the same add-set and remove-set
// render identically regardless of insertion history.
func (s *OperationSet) Render() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	buf.WriteString(`"add_set":`)
	writeOpArray(&buf, s.add)
	buf.WriteString(`,"rem_set":`)
	writeOpArray(&buf, s.rem)
	buf.WriteString(`,"op_set":`)
	writeOpArray(&buf, s.Effective())
	buf.WriteString("}")
	return buf.String()
}

func writeOpArray(buf *bytes.Buffer, ops []Operation) {
	buf.WriteString("[")
	for i, op := range ops {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(renderOperation(op))
	}
	buf.WriteString("]")
}

func renderOperation(op Operation) string {
	patchText := "null"
	if len(op.patch) > 0 {
		if b, err := patchio.Canonical(op.patch); err == nil {
			patchText = string(b)
		}
	}
	return fmt.Sprintf(`{"kind":%q,"ts":%d,"patch":%s}`, op.Kind().String(), op.Timestamp(), patchText)
}
