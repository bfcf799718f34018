package kitti2yolo

import "sort"

// Splits assigns sample IDs to the output datasets. The train and val sets
// partition the training-eligible pool; the test set is the separate
// testing-eligible pool and is never split.
type Splits struct {
	Train []string
	Val   []string
	Test  []string
}

// Partition deterministically splits the training-eligible IDs into train and
// val subsets.
//
// The IDs are sorted lexicographically before splitting so that repeated runs
// on the same source tree produce identical subsets. The split index is
// floor(ratio * len(ids)); a ratio near 0 or 1 may leave one subset empty.
// Ratio bounds are a command-surface concern and are not enforced here.
func Partition(ids []string, ratio float64) (train, val []string) {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	splitIdx := int(ratio * float64(len(sorted)))
	return sorted[:splitIdx], sorted[splitIdx:]
}
