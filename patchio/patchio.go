// Package patchio is the patch-application and structural-diff
// collaborator the CRDT engine folds through. It is deliberately kept
// outside package crdt: the engine only needs to apply a patch to a
// document and occasionally compare two documents, never to know how.
package patchio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
)

// Json is a JSON value as produced by encoding/json: nil, bool,
// float64, string, []any, or map[string]any.
type Json = any

// Entry is a single RFC-6902 patch operation.
type Entry struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
	From  string `json:"from,omitempty"`
}

// Patch is an ordered sequence of RFC-6902 entries.
type Patch []Entry

// Apply applies patch to doc and returns the resulting document. A nil
// doc is treated as an empty object, matching CREATE's "seed from the
// empty value" contract.
func Apply(doc Json, patch Patch) (Json, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	if len(patch) == 0 {
		return doc, nil
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("patchio: marshal document: %w", err)
	}
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("patchio: marshal patch: %w", err)
	}

	decoded, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("patchio: decode patch: %w", err)
	}
	applied, err := decoded.Apply(docJSON)
	if err != nil {
		return nil, fmt.Errorf("patchio: apply patch: %w", err)
	}

	var result Json
	if err := json.Unmarshal(applied, &result); err != nil {
		return nil, fmt.Errorf("patchio: unmarshal result: %w", err)
	}
	return result, nil
}

// Diff produces an RFC-6902 patch that turns before into after. before
// may be nil, in which case the whole of after is emitted as a single
// "add" at the root.
func Diff(before Json, after Json) Patch {
	if before == nil {
		return Patch{{Op: "add", Path: "", Value: after}}
	}

	var patch Patch
	diffValues("", before, after, &patch)
	return patch
}

func diffValues(path string, before, after any, patch *Patch) {
	beforeMap, beforeIsMap := before.(map[string]any)
	afterMap, afterIsMap := after.(map[string]any)
	if beforeIsMap && afterIsMap {
		diffMaps(path, beforeMap, afterMap, patch)
		return
	}

	beforeSlice, beforeIsSlice := before.([]any)
	afterSlice, afterIsSlice := after.([]any)
	if beforeIsSlice && afterIsSlice {
		diffSlices(path, beforeSlice, afterSlice, patch)
		return
	}

	if !jsonEqual(before, after) {
		*patch = append(*patch, Entry{Op: "replace", Path: emptyRootPath(path), Value: after})
	}
}

func diffMaps(prefix string, before, after map[string]any, patch *Patch) {
	keys := make([]string, 0, len(before)+len(after))
	seen := make(map[string]bool, len(before)+len(after))
	for k := range before {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range after {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := prefix + "/" + escapePointerToken(key)
		beforeVal, existedBefore := before[key]
		afterVal, existsAfter := after[key]

		switch {
		case existedBefore && !existsAfter:
			*patch = append(*patch, Entry{Op: "remove", Path: path})
		case !existedBefore && existsAfter:
			*patch = append(*patch, Entry{Op: "add", Path: path, Value: afterVal})
		default:
			diffValues(path, beforeVal, afterVal, patch)
		}
	}
}

func diffSlices(path string, before, after []any, patch *Patch) {
	if len(before) != len(after) {
		if !jsonEqual(before, after) {
			*patch = append(*patch, Entry{Op: "replace", Path: emptyRootPath(path), Value: after})
		}
		return
	}
	for i := range before {
		diffValues(fmt.Sprintf("%s/%d", path, i), before[i], after[i], patch)
	}
}

func emptyRootPath(path string) string {
	if path == "" {
		return ""
	}
	return path
}

func escapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

func jsonEqual(a, b any) bool {
	aJSON, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aJSON, bJSON)
}

// Canonical renders v as JSON with map keys in stable sorted order, so
// the same logical document always produces the same bytes. It backs
// both the operation total order's patch tie-break and the
// serialization surface's textual rendering.
func Canonical(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// normalize rewrites v into a form encoding/json already renders with
// deterministic key order: map[string]any's keys are marshaled in
// sorted order by the standard library, so normalize only needs to
// recurse to apply that guarantee at every nesting level uniformly.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return t, nil
	}
}
