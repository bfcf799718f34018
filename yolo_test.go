package kitti2yolo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemap(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"Car", 0},
		{"Van", 0},
		{"Pedestrian", 1},
		{"Person_sitting", 1},
		{"Cyclist", 2},
		{"Truck", IgnoreClass},
		{"Tram", IgnoreClass},
		{"Misc", IgnoreClass},
		{"DontCare", IgnoreClass},
		{"", IgnoreClass},
		{"car", IgnoreClass}, // Case sensitive.
		{"Bicycle", IgnoreClass},
		{"some arbitrary string", IgnoreClass},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Remap(tc.label), "label %q", tc.label)
	}
}

func TestNormalize(t *testing.T) {
	box := Normalize([4]float64{50, 25, 150, 75}, 200, 100)
	assert.InDelta(t, 0.5, box.CenterX, 1e-9)
	assert.InDelta(t, 0.5, box.CenterY, 1e-9)
	assert.InDelta(t, 0.5, box.Width, 1e-9)
	assert.InDelta(t, 0.5, box.Height, 1e-9)
}

func TestNormalizeClampsToUnitInterval(t *testing.T) {
	// The box exceeds the image on all sides.
	box := Normalize([4]float64{-50, -10, 1500, 400}, 1242, 375)
	for _, v := range []float64{box.CenterX, box.CenterY, box.Width, box.Height} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, 1.0, box.Width)
	assert.Equal(t, 1.0, box.Height)

	// An inverted box collapses to zero width, it is not reordered.
	inverted := Normalize([4]float64{150, 75, 50, 25}, 200, 100)
	assert.Equal(t, 0.0, inverted.Width)
	assert.Equal(t, 0.0, inverted.Height)
	assert.InDelta(t, 0.5, inverted.CenterX, 1e-9)

	// Clamping is idempotent.
	assert.Equal(t, box, Normalize([4]float64{-50, -10, 1500, 400}, 1242, 375))
}

func TestNormalizeScaleCovariant(t *testing.T) {
	a := Normalize([4]float64{10, 20, 110, 70}, 200, 100)
	b := Normalize([4]float64{20, 40, 220, 140}, 400, 200)

	assert.InDelta(t, a.CenterX, b.CenterX, 1e-12)
	assert.InDelta(t, a.CenterY, b.CenterY, 1e-12)
	assert.InDelta(t, a.Width, b.Width, 1e-12)
	assert.InDelta(t, a.Height, b.Height, 1e-12)
}

func TestTranscodeCarLine(t *testing.T) {
	lines := []string{
		"Car 0.00 0 -1.57 599.41 156.40 629.75 189.25 2.00 1.83 4.60 1.00 1.75 13.22 -1.62",
	}

	out := Transcode(lines, 1242, 375)
	require.Len(t, out, 1)
	assert.Equal(t, "0 0.494831 0.460867 0.024428 0.087600", out[0])
}

func TestTranscodeDontCareKeepsGeometry(t *testing.T) {
	lines := []string{
		"DontCare -1 -1 -10 503.89 169.71 590.61 190.13 -1 -1 -1 -1000 -1000 -1000 -10",
	}

	out := Transcode(lines, 1242, 375)
	require.Len(t, out, 1)
	// Ignored boxes still carry real geometry, not zeros.
	assert.Equal(t, "-1 0.440620 0.479787 0.069823 0.054453", out[0])
}

func TestTranscodePreservesOrderAndSkipsMalformed(t *testing.T) {
	lines := []string{
		"Car 0.00 0 -1.57 0 0 100 100 2.00 1.83 4.60 1.00 1.75 13.22 -1.62",
		"too few fields",
		"Pedestrian 0.00 0 -1.57 100 100 200 200 1.80 0.60 0.90 1.00 1.75 13.22 -1.62",
		"Cyclist 0.00 0 -1.57 200 200 300 300 1.70 0.60 1.80 1.00 1.75 13.22 -1.62",
		"Truck bad 0 -1.57 zero zero bad bad 2.00 1.83 4.60 1.00 1.75 13.22 -1.62",
		"Tram 0.00 0 -1.57 300 300 400 400 3.50 2.50 18.00 1.00 1.75 13.22 -1.62",
	}

	annotations := TranscodeAnnotations(lines, 1000, 1000)
	require.Len(t, annotations, 4)
	assert.Equal(t, 0, annotations[0].ClassID)
	assert.Equal(t, 1, annotations[1].ClassID)
	assert.Equal(t, 2, annotations[2].ClassID)
	assert.Equal(t, IgnoreClass, annotations[3].ClassID)
}

func TestTranscodeEmptyInput(t *testing.T) {
	assert.Empty(t, Transcode(nil, 1242, 375))
}

func TestFormatLabelFile(t *testing.T) {
	annotations := []YOLOAnnotation{
		{ClassID: 0, Box: YOLOBox{CenterX: 0.5, CenterY: 0.5, Width: 0.25, Height: 0.125}},
		{ClassID: IgnoreClass, Box: YOLOBox{CenterX: 1, CenterY: 1, Width: 0, Height: 0}},
	}

	want := "0 0.500000 0.500000 0.250000 0.125000\n" +
			"-1 1.000000 1.000000 0.000000 0.000000"
	assert.Equal(t, want, FormatLabelFile(annotations))
	assert.Equal(t, "", FormatLabelFile(nil))
}
