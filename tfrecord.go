package kitti2yolo

// TFRecord object detection export.

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"math"
	"os"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
)

// TFRecordSample is one converted sample queued for TFRecord export.
type TFRecordSample struct {
	ImagePath   string
	Annotations []YOLOAnnotation
}

// toTFFeatures converts a sample to the TensorFlow object detection feature
// map. Bounding boxes are stored as normalized corner coordinates; ignored
// annotations are excluded, since the TFRecord convention has no ignore
// sentinel, and scored class IDs are shifted to the 1-based label map IDs.
func toTFFeatures(sample TFRecordSample) (map[string]interface{}, error) {
	config, format, err := decodeImageConfig(sample.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %v", err)
	}

	imgData, err := ioutil.ReadFile(sample.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %v", err)
	}

	f := make(map[string]interface{}, 16)
	f["image/height"] = config.Height
	f["image/width"] = config.Width
	f["image/filename"] = sample.ImagePath
	f["image/source_id"] = sample.ImagePath
	f["image/encoded"] = imgData
	f["image/format"] = format

	numScored := 0
	for _, a := range sample.Annotations {
		if a.ClassID != IgnoreClass {
			numScored++
		}
	}

	xmins := make([]float32, 0, numScored)
	ymins := make([]float32, 0, numScored)
	xmaxs := make([]float32, 0, numScored)
	ymaxs := make([]float32, 0, numScored)
	classes := make([]string, 0, numScored)
	classIDs := make([]int64, 0, numScored)
	for _, a := range sample.Annotations {
		if a.ClassID == IgnoreClass {
			continue
		}

		xmins = append(xmins, float32(clamp01(a.Box.CenterX-a.Box.Width/2)))
		ymins = append(ymins, float32(clamp01(a.Box.CenterY-a.Box.Height/2)))
		xmaxs = append(xmaxs, float32(clamp01(a.Box.CenterX+a.Box.Width/2)))
		ymaxs = append(ymaxs, float32(clamp01(a.Box.CenterY+a.Box.Height/2)))
		classes = append(classes, ScoredClassNames[a.ClassID])
		classIDs = append(classIDs, int64(a.ClassID)+1)
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// WriteTFRecord does a streaming conversion, serialisation and file write for
// the samples to one or more TFRecord files stored under recordFilePath (with
// suffixes added when numShards > 1).
//
// A label map for the scored classes is written next to the record files.
func WriteTFRecord(recordFilePath string, samples []TFRecordSample, numShards int) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if numShards <= 0 {
		numShards = 1
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile *os.File
	shardSize := int(math.Ceil(float64(len(samples)) / float64(numShards)))
	shardIdx := -1

	// Convert and serialise one sample at a time.
	for i, sample := range samples {
		// Check if a new shard file needs to be opened for writing.
		if shardSize > 0 && i%shardSize == 0 {
			shardIdx++

			if shardFile != nil {
				_ = shardFile.Close()
				shardFile = nil
			}

			shardPath := recordFilePath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return fmt.Errorf("failed to create shard at %q: %v", shardPath, err)
			}
			shardFile = f
		}

		features, err := toTFFeatures(sample)
		if err != nil {
			log.Printf("Failed to convert %q: %v", sample.ImagePath, err)
			continue
		}

		if err := writeTFRecordExample(shardFile, features); err != nil {
			return fmt.Errorf("failed to write example: %v", err)
		}
	}

	if shardFile != nil {
		_ = shardFile.Close()
	}

	return writeTFRecordLabelMap(recordFilePath + ".pbtxt")
}

// writeTFRecordExample serialises the feature map as a tensorflow.Example and
// writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, features map[string]interface{}) error {
	enc, err := proto.Marshal(example.New(features))
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// writeTFRecordLabelMap writes the prototxt label map for the scored classes
// to path. Label map IDs are 1-based.
func writeTFRecordLabelMap(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create the label map file %q: %v", path, err)
	}
	defer closeWithErrCheck(file, &err)

	for id, name := range ScoredClassNames {
		_, err := fmt.Fprintf(file, "item {\n  id: %d\n  name: %q\n}\n", id+1, name)
		if err != nil {
			return err
		}
	}

	return nil
}
