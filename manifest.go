package kitti2yolo

// Dataset manifest emission.

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// manifestFileName is the manifest file written at the dataset root.
const manifestFileName = "dataset.yaml"

// Manifest describes the converted dataset for training frameworks that
// consume the YOLO layout. Names lists the scored classes only; ignored
// annotations carry class ID -1, which denotes absence of scoring rather
// than a nameable class, and are deliberately not part of the class table.
type Manifest struct {
	Path       string         `yaml:"path"`  // Absolute dataset root.
	Train      string         `yaml:"train"` // Train images, relative to Path.
	Val        string         `yaml:"val"`   // Val images, relative to Path.
	Test       string         `yaml:"test"`  // Test images, relative to Path.
	Names      map[int]string `yaml:"names"`
	ClassCount int            `yaml:"nc"`
}

// NewManifest builds the manifest for a converted dataset rooted at yoloRoot.
func NewManifest(yoloRoot string) (Manifest, error) {
	absRoot, err := filepath.Abs(yoloRoot)
	if err != nil {
		return Manifest{}, fmt.Errorf("cannot resolve dataset root %q: %v", yoloRoot, err)
	}

	names := make(map[int]string, len(ScoredClassNames))
	for id, name := range ScoredClassNames {
		names[id] = name
	}

	return Manifest{
		Path:       absRoot,
		Train:      "train/images",
		Val:        "val/images",
		Test:       "test/images",
		Names:      names,
		ClassCount: len(ScoredClassNames),
	}, nil
}

// Write serialises the manifest to dataset.yaml under yoloRoot, overwriting
// any existing file.
func (m Manifest) Write(yoloRoot string) (err error) {
	file, err := os.Create(filepath.Join(yoloRoot, manifestFileName))
	if err != nil {
		return err
	}
	defer closeWithErrCheck(file, &err)

	enc := yaml.NewEncoder(file)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write the dataset manifest: %v", err)
	}

	return enc.Close()
}
