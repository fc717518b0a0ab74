package engagement

import (
	"errors"
	"sort"

	"github.com/pmedv/folio/content"
)

// RankedSet is the per-request split of a listing: the most-viewed published
// item, up to two runner-ups, and the rest ordered by recency. It is derived
// from one counter snapshot and never persisted.
type RankedSet struct {
	Featured  *content.Item
	RunnerUps []*content.Item // always length 2; nil entries mean the slot is empty
	Remainder []content.Item
}

// ErrTooFewPublished is returned by Rank when fewer than three published
// items exist. The blog listing treats this as a hard precondition instead of
// indexing past the end of the ranked slice.
var ErrTooFewPublished = errors.New("fewer than three published items")

// Rank selects featured and runner-up items from a view-count snapshot.
// It requires at least three published items; use RankPartial for collections
// that may be smaller.
//
// Featured is the published item with the most views; runner-ups are the next
// two. Ties keep the input order (stable sort). The remainder is sorted by
// date descending, with undated items first.
func Rank(items []content.Item, views map[string]int64) (RankedSet, error) {
	set := rank(items, views)
	if set.Featured == nil || set.RunnerUps[0] == nil || set.RunnerUps[1] == nil {
		return RankedSet{}, ErrTooFewPublished
	}
	return set, nil
}

// RankPartial is the tolerant variant of Rank: with fewer than three
// published items the missing slots stay nil and callers skip them when
// rendering. An empty collection yields a fully empty set.
func RankPartial(items []content.Item, views map[string]int64) RankedSet {
	return rank(items, views)
}

func rank(items []content.Item, views map[string]int64) RankedSet {
	var published []content.Item
	for _, it := range items {
		if it.Published {
			published = append(published, it)
		}
	}

	byViews := make([]content.Item, len(published))
	copy(byViews, published)
	sort.SliceStable(byViews, func(i, j int) bool {
		return views[byViews[i].Slug] > views[byViews[j].Slug]
	})

	set := RankedSet{RunnerUps: make([]*content.Item, 2)}
	top := make(map[string]struct{}, 3)
	for i := 0; i < 3 && i < len(byViews); i++ {
		it := byViews[i]
		top[it.Slug] = struct{}{}
		if i == 0 {
			set.Featured = &it
		} else {
			set.RunnerUps[i-1] = &it
		}
	}

	for _, it := range published {
		if _, ok := top[it.Slug]; ok {
			continue
		}
		set.Remainder = append(set.Remainder, it)
	}
	sortByRecency(set.Remainder)
	return set
}

// sortByRecency orders items by date descending. An item with no date sorts
// as if its date were infinitely far in the future, so it comes first. Ties
// keep their relative order.
func sortByRecency(items []content.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].Date, items[j].Date
		if (di == "") != (dj == "") {
			return di == ""
		}
		return di > dj
	})
}
