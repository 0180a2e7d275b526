package usecase

import (
	"sort"
	"strconv"

	"secondhand/internal/domain/entity"
)

type SortMode string

const (
	SortPopular   SortMode = "popular"
	SortLatest    SortMode = "latest"
	SortAvailable SortMode = "available"
)

// ParseSortMode accepts the mode names and their on-screen labels.
func ParseSortMode(s string) (SortMode, bool) {
	switch s {
	case string(SortPopular), "인기순":
		return SortPopular, true
	case string(SortLatest), "최신순":
		return SortLatest, true
	case string(SortAvailable), "거래 가능":
		return SortAvailable, true
	}
	return SortPopular, false
}

// ApplySort returns a sorted copy: popular by likes, latest by id (newest
// first), available keeps only products on sale.
func ApplySort(items []entity.Product, mode SortMode) []entity.Product {
	out := make([]entity.Product, 0, len(items))
	for _, p := range items {
		if mode == SortAvailable && !p.Available() {
			continue
		}
		out = append(out, p)
	}

	switch mode {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].LikeCount > out[j].LikeCount
		})
	case SortLatest:
		sort.SliceStable(out, func(i, j int) bool {
			return idAfter(out[i].ID, out[j].ID)
		})
	}
	return out
}

func idAfter(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return na > nb
	}
	return a > b
}
