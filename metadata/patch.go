package metadata

import (
	"sort"

	"mbtilekit/mbtiles"
)

// PatchOp is one RFC-6902-shaped operation restricted to the three kinds
// MetadataModel ever produces: add, replace, remove, each targeting a
// single top-level metadata key ("/name"). A general-purpose patch
// library isn't wired here — see DESIGN.md for why.
type PatchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Patch is an ordered list of PatchOp, applied/emitted in key order for
// determinism.
type Patch []PatchOp

// Change is the result of diffing two JSON views: forward/reverse patches,
// the materialized post-merge data, and a flat list of per-key changes.
type Change struct {
	Forward Patch
	Reverse Patch
	Data    map[string]any
	Changes []ChangeFromTo
}

// ChangeFromTo is one observed key-level change between two metadata
// views. It is the same type as mbtiles.MetadataChangeFromTo, so a
// Change's Changes can be passed straight to NewDbChangeset.
type ChangeFromTo = mbtiles.MetadataChangeFromTo

// Diff compares from against to and produces a Change describing how to
// go from `from`'s state to `to`'s state (forward) and back (reverse).
// When merge is true, keys present in `from` but absent from `to` are
// kept in Data (a merge); when false, they're treated as removed.
func Diff(from, to JSON, merge bool) Change {
	keys := unionKeys(from, to)

	change := Change{Data: make(map[string]any, len(keys))}

	for _, k := range keys {
		fromVal, fromOK := from.Get(k)
		toVal, toOK := to.Get(k)

		switch {
		case !fromOK && toOK:
			change.Forward = append(change.Forward, PatchOp{Op: "add", Path: "/" + k, Value: toVal})
			change.Reverse = append(change.Reverse, PatchOp{Op: "remove", Path: "/" + k})
			change.Data[k] = toVal
			toStr := rawValue(toVal)
			change.Changes = append(change.Changes, ChangeFromTo{Name: k, From: nil, To: &toStr})

		case fromOK && !toOK:
			if merge {
				change.Data[k] = fromVal
				continue
			}
			change.Forward = append(change.Forward, PatchOp{Op: "remove", Path: "/" + k})
			change.Reverse = append(change.Reverse, PatchOp{Op: "add", Path: "/" + k, Value: fromVal})
			fromStr := rawValue(fromVal)
			change.Changes = append(change.Changes, ChangeFromTo{Name: k, From: &fromStr, To: nil})

		case fromOK && toOK:
			if rawValue(fromVal) == rawValue(toVal) {
				change.Data[k] = toVal
				continue
			}
			change.Forward = append(change.Forward, PatchOp{Op: "replace", Path: "/" + k, Value: toVal})
			change.Reverse = append(change.Reverse, PatchOp{Op: "replace", Path: "/" + k, Value: fromVal})
			change.Data[k] = toVal
			fromStr, toStr := rawValue(fromVal), rawValue(toVal)
			change.Changes = append(change.Changes, ChangeFromTo{Name: k, From: &fromStr, To: &toStr})
		}
	}

	return change
}

// IsEmpty reports whether the diff produced no patch operations.
func (c Change) IsEmpty() bool {
	return len(c.Forward) == 0 && len(c.Reverse) == 0
}

func unionKeys(from, to JSON) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, k := range from.Keys() {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, k := range to.Keys() {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
