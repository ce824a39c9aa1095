// Package join provides relational joins on slices of records.
package join

// Pair holds the partners of one joined record.
// Left or Right is nil if the record has no partner on that side.
type Pair[L, R any] struct {
	Left  *L
	Right *R
}

// Outer performs a full outer join of left and right on the keys computed by
// lk and rk.
//
// The result contains each left record combined with every matching right
// record (in right order), left records without partner combined with nil,
// followed by all right records which were not matched by any left record.
// Records for which the key func returns ok=false never match.
func Outer[L, R any, K comparable](
	left []L,
	right []R,
	lk func(*L) (K, bool),
	rk func(*R) (K, bool),
) []Pair[L, R] {
	byKey := make(map[K][]int)
	for i := range right {
		if k, ok := rk(&right[i]); ok {
			byKey[k] = append(byKey[k], i)
		}
	}
	matched := make([]bool, len(right))
	ret := make([]Pair[L, R], 0, max(len(left), len(right)))
	for i := range left {
		k, ok := lk(&left[i])
		idx := byKey[k]
		if !ok || len(idx) == 0 {
			ret = append(ret, Pair[L, R]{Left: &left[i]})
			continue
		}
		for _, j := range idx {
			matched[j] = true
			ret = append(ret, Pair[L, R]{Left: &left[i], Right: &right[j]})
		}
	}
	for j := range right {
		if !matched[j] {
			ret = append(ret, Pair[L, R]{Right: &right[j]})
		}
	}
	return ret
}
