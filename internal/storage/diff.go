package storage

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/coko7/vegapull/internal/catalog"
)

func packKey(pack catalog.Pack) string {
	// encoding a struct of strings never fails
	data, _ := json.Marshal(pack)
	return string(data)
}

func packSet(packs []catalog.Pack) map[string]catalog.Pack {
	out := make(map[string]catalog.Pack, len(packs))
	for _, pack := range packs {
		out[packKey(pack)] = pack
	}
	return out
}

// DiffPacks returns the packs that are in exactly one of the two lists,
// compared by their full value. A pack renamed between the lists shows up
// twice, once per version, the older one first.
func DiffPacks(before, after []catalog.Pack) []catalog.Pack {
	oldSet := packSet(before)
	newSet := packSet(after)

	var out []catalog.Pack
	for key, pack := range oldSet {
		if _, ok := newSet[key]; !ok {
			out = append(out, pack)
		}
	}
	removed := len(out)
	for key, pack := range newSet {
		if _, ok := oldSet[key]; !ok {
			out = append(out, pack)
		}
	}

	slices.SortFunc(out[:removed], comparePacks)
	slices.SortFunc(out[removed:], comparePacks)
	slices.SortStableFunc(out, func(a, b catalog.Pack) int {
		return strings.Compare(a.ID, b.ID)
	})

	if out == nil {
		return []catalog.Pack{}
	}
	return out
}

func comparePacks(a, b catalog.Pack) int {
	if c := strings.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return strings.Compare(packKey(a), packKey(b))
}
