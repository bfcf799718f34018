package kitti2yolo

// KITTI specific functionality.

import (
	"fmt"
	"strconv"
	"strings"
)

// The KITTI source tree layout, relative to the dataset root.
const (
	kittiTrainingImageDir = "training/image_2"
	kittiTrainingLabelDir = "training/label"
	kittiTestingImageDir  = "testing/image_2"
	kittiImageExt         = ".png"
)

// kittiNumFields is the minimum number of whitespace-separated fields in a
// well-formed KITTI label line: class truncated occluded alpha x1 y1 x2 y2
// h w l x y z rotation_y. Lines with fewer fields are malformed.
const kittiNumFields = 15

// KITTIAnnotation is a single annotation within a KITTI label file. Only the
// class label and the 2-D bounding box are retained; the truncation,
// occlusion, alpha and 3-D pose fields are read past but not propagated.
type KITTIAnnotation struct {
	Coords [4]float64 // x1, y1, x2, y2 in pixel coordinates.
	Label  string
}

// parseKittiAnnotation parses the line of values for a single annotation.
func parseKittiAnnotation(line string) (KITTIAnnotation, error) {
	a := KITTIAnnotation{}

	tokens := strings.Fields(line)
	if len(tokens) < kittiNumFields {
		return a, fmt.Errorf("insufficient fields in %q", line)
	}

	a.Label = tokens[0]
	var err error
	for i := 4; i < 8 && err == nil; i++ {
		a.Coords[i-4], err = strconv.ParseFloat(tokens[i], 64)
	}
	if err != nil {
		return a, fmt.Errorf("unexpected values in %q: %v", line, err)
	}

	return a, nil
}
