package kitti2yolo

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManifest(dir)
	require.NoError(t, err)
	require.NoError(t, m.Write(dir))

	enc, err := ioutil.ReadFile(filepath.Join(dir, "dataset.yaml"))
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, yaml.Unmarshal(enc, &got))

	assert.True(t, filepath.IsAbs(got.Path))
	assert.Equal(t, "train/images", got.Train)
	assert.Equal(t, "val/images", got.Val)
	assert.Equal(t, "test/images", got.Test)
	assert.Equal(t, 3, got.ClassCount)
	assert.Equal(t, map[int]string{0: "Car", 1: "Pedestrian", 2: "Cyclist"}, got.Names)
}

func TestManifestExcludesIgnoreClass(t *testing.T) {
	m, err := NewManifest(t.TempDir())
	require.NoError(t, err)

	// The ignore sentinel denotes absence of scoring, not a nameable class.
	_, found := m.Names[IgnoreClass]
	assert.False(t, found)
	assert.Len(t, m.Names, m.ClassCount)
}
