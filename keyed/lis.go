package keyed

// stablePositions marks the entries of prev (old positions, -1 for new
// items) that lie on a longest increasing subsequence. Those items already
// sit in the right relative order and never have to move.
func stablePositions(prev []int) []bool {
	keep := make([]bool, len(prev))
	back := make([]int, len(prev))
	tails := make([]int, 0, len(prev))

	for i, v := range prev {
		if v < 0 {
			continue
		}
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if prev[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			back[i] = tails[lo-1]
		} else {
			back[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	if len(tails) == 0 {
		return keep
	}
	for i := tails[len(tails)-1]; i >= 0; i = back[i] {
		keep[i] = true
	}
	return keep
}
