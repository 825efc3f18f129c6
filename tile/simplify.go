package tile

import "sort"

// Simplify reduces a tile set to a minimal covering set: it repeatedly
// collapses a present quartet of siblings into their shared parent, then
// drops any tile whose ancestor is already present, until a fixed point
// is reached. The result is idempotent and prefers coarser (parent)
// tiles over their children.
func Simplify(tiles []Tile) []Tile {
	set := make(map[Tile]struct{}, len(tiles))
	for _, t := range tiles {
		set[t] = struct{}{}
	}

	for {
		byParent := make(map[Tile][]Tile)
		for t := range set {
			if t.Z == 0 {
				continue
			}
			p, _ := t.Parent(0)
			byParent[p] = append(byParent[p], t)
		}
		changed := false
		for p, kids := range byParent {
			if len(kids) != 4 {
				continue
			}
			present := make(map[Tile]struct{}, 4)
			for _, k := range kids {
				present[k] = struct{}{}
			}
			if len(present) != 4 {
				continue
			}
			for k := range present {
				delete(set, k)
			}
			set[p] = struct{}{}
			changed = true
		}
		if !changed {
			break
		}
	}

	result := make([]Tile, 0, len(set))
	for t := range set {
		if !hasAncestorIn(t, set) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

func hasAncestorIn(t Tile, set map[Tile]struct{}) bool {
	anc := t
	for anc.Z > 0 {
		p, _ := anc.Parent(0)
		if _, ok := set[p]; ok {
			return true
		}
		anc = p
	}
	return false
}
