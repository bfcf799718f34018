package kitti2yolo

// YOLO specific functionality: benchmark class remapping and normalized
// center-box geometry.

import (
	"fmt"
	"strings"
)

// IgnoreClass marks annotations that are excluded from loss and scoring during
// training but kept for spatial context. It shares the integer domain with the
// scored class IDs; downstream consumers expect a concrete numeric field, not
// an absent one.
const IgnoreClass = -1

// ScoredClassNames lists the scored benchmark classes, indexed by class ID.
// Van is merged into Car and Person_sitting into Pedestrian.
var ScoredClassNames = []string{"Car", "Pedestrian", "Cyclist"}

// Remap maps a KITTI class label to its benchmark class ID.
//
// Every label resolves: unrecognized labels map to IgnoreClass rather than
// failing, the same as the explicitly unscored labels (Truck, Tram, Misc,
// DontCare). An unscored-but-present object should suppress loss in its
// region, not be treated as missing data.
func Remap(label string) int {
	switch label {
	case "Car", "Van":
		return 0
	case "Pedestrian", "Person_sitting":
		return 1
	case "Cyclist":
		return 2
	}
	return IgnoreClass
}

// YOLOBox is a bounding box as center offsets and extents, normalized to
// [0, 1] by the image dimensions.
type YOLOBox struct {
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
}

// Normalize converts corner coordinates (x1, y1, x2, y2) in pixel space to a
// normalized center box.
//
// Each component is clamped to [0, 1] independently. Boxes that exceed the
// image bounds are truncated by the clamp, and an inverted box (x1 > x2 or
// y1 > y2) collapses toward zero area rather than being reordered or
// rejected.
func Normalize(coords [4]float64, imgWidth, imgHeight int) YOLOBox {
	w := float64(imgWidth)
	h := float64(imgHeight)

	return YOLOBox{
		CenterX: clamp01((coords[0] + coords[2]) / 2 / w),
		CenterY: clamp01((coords[1] + coords[3]) / 2 / h),
		Width:   clamp01((coords[2] - coords[0]) / w),
		Height:  clamp01((coords[3] - coords[1]) / h),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// YOLOAnnotation is a single annotation in YOLO format.
type YOLOAnnotation struct {
	ClassID int
	Box     YOLOBox
}

// Line renders the annotation in the YOLO label line format.
func (a YOLOAnnotation) Line() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f",
		a.ClassID, a.Box.CenterX, a.Box.CenterY, a.Box.Width, a.Box.Height)
}

// TranscodeAnnotations converts raw KITTI label lines to YOLO annotations for
// an image of the given dimensions.
//
// Malformed lines (fewer than 15 fields or non-numeric coordinates) are
// skipped; well-formed lines convert one to one, in order, including ignored
// (class ID -1) annotations.
func TranscodeAnnotations(lines []string, imgWidth, imgHeight int) []YOLOAnnotation {
	annotations := make([]YOLOAnnotation, 0, len(lines))
	for _, line := range lines {
		a, err := parseKittiAnnotation(line)
		if err != nil {
			continue
		}

		annotations = append(annotations, YOLOAnnotation{
			ClassID: Remap(a.Label),
			Box:     Normalize(a.Coords, imgWidth, imgHeight),
		})
	}

	return annotations
}

// Transcode converts raw KITTI label lines to YOLO label lines.
func Transcode(lines []string, imgWidth, imgHeight int) []string {
	annotations := TranscodeAnnotations(lines, imgWidth, imgHeight)
	out := make([]string, len(annotations))
	for i, a := range annotations {
		out[i] = a.Line()
	}
	return out
}

// FormatLabelFile renders the annotations as the content of a YOLO label
// file, one annotation per line.
func FormatLabelFile(annotations []YOLOAnnotation) string {
	lines := make([]string, len(annotations))
	for i, a := range annotations {
		lines[i] = a.Line()
	}
	return strings.Join(lines, "\n")
}
