package kitti2yolo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionDeterministicAndExhaustive(t *testing.T) {
	// Unsorted on purpose; Partition must sort before splitting.
	ids := []string{"000003", "000001", "000004", "000000", "000002"}

	train, val := Partition(ids, 0.8)
	require.Equal(t, []string{"000000", "000001", "000002", "000003"}, train)
	require.Equal(t, []string{"000004"}, val)

	// Identical result on a second run and with a different input order.
	train2, val2 := Partition([]string{"000004", "000000", "000002", "000003", "000001"}, 0.8)
	assert.Equal(t, train, train2)
	assert.Equal(t, val, val2)
}

func TestPartitionSplitIndexIsFloor(t *testing.T) {
	ids := make([]string, 7481)
	for i := range ids {
		ids[i] = fmt.Sprintf("%06d", i)
	}

	train, val := Partition(ids, 0.8)
	assert.Len(t, train, 5984)
	assert.Len(t, val, 1497)
	assert.Equal(t, len(ids), len(train)+len(val))
}

func TestPartitionExtremeRatios(t *testing.T) {
	ids := []string{"a", "b", "c"}

	train, val := Partition(ids, 0.1)
	assert.Empty(t, train)
	assert.Len(t, val, 3)

	train, val = Partition(ids, 0.9)
	assert.Len(t, train, 2)
	assert.Len(t, val, 1)
}

func TestPartitionEmptyInput(t *testing.T) {
	train, val := Partition(nil, 0.8)
	assert.Empty(t, train)
	assert.Empty(t, val)
}

func TestPartitionDoesNotMutateInput(t *testing.T) {
	ids := []string{"b", "a"}
	Partition(ids, 0.5)
	assert.Equal(t, []string{"b", "a"}, ids)
}
