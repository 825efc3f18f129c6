// Package metadata implements MetadataModel: a JSON view over MBTiles
// metadata rows, JSON-patch-style diffing between two views, and
// SQL-generating changesets built from that diff.
package metadata

import (
	"encoding/json"
	"sort"

	"mbtilekit/mbtiles"
)

// JSON is a view over MbtMetadataRow rows. Object form requires unique
// names; array form preserves duplicates as they were read from the
// store. Values that parse as JSON are kept parsed; anything else stays a
// plain string, exactly like the reference's MetadataJson coercion.
type JSON struct {
	object map[string]any
	array  []mbtiles.MetadataRow
	isObj  bool
}

// FromRows builds a JSON view from rows, preferring object form when
// every name is unique.
func FromRows(rows []mbtiles.MetadataRow) JSON {
	seen := make(map[string]bool, len(rows))
	unique := true
	for _, r := range rows {
		if seen[r.Name] {
			unique = false
			break
		}
		seen[r.Name] = true
	}
	if !unique {
		return JSON{array: rows, isObj: false}
	}

	obj := make(map[string]any, len(rows))
	for _, r := range rows {
		obj[r.Name] = coerce(r.Value)
	}
	return JSON{object: obj, isObj: true}
}

// coerce parses value as JSON when it's syntactically valid, otherwise
// keeps it as a plain string.
func coerce(value string) any {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err == nil {
		return v
	}
	return value
}

// IsObject reports whether this view is in object (deduped) form.
func (j JSON) IsObject() bool { return j.isObj }

// Keys returns the sorted set of distinct names in the view.
func (j JSON) Keys() []string {
	var keys []string
	if j.isObj {
		for k := range j.object {
			keys = append(keys, k)
		}
	} else {
		seen := make(map[string]bool)
		for _, r := range j.array {
			if !seen[r.Name] {
				seen[r.Name] = true
				keys = append(keys, r.Name)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Get returns the coerced value for name in object form (array form
// returns the first matching row's coerced value), and whether it was
// present at all.
func (j JSON) Get(name string) (any, bool) {
	if j.isObj {
		v, ok := j.object[name]
		return v, ok
	}
	for _, r := range j.array {
		if r.Name == name {
			return coerce(r.Value), true
		}
	}
	return nil, false
}

// rawValue re-serializes a coerced value back to the string form a
// metadata row stores, matching how mbtiles persists non-string JSON.
func rawValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
