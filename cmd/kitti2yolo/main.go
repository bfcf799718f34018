// Converts a KITTI object detection dataset to the YOLO layout, remapping the
// KITTI taxonomy onto the three scored benchmark classes (Car, Pedestrian,
// Cyclist) and marking all other labels as ignored.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sensorable/kitti2yolo"
)

var converter kitti2yolo.Converter

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr,
			"  Converts <kitti-root>/{training,testing} into <yolo-root>/{train,val,test}")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	flag.StringVar(&converter.KittiRoot, "kitti-root", "./data/kitti",
		"The `path` to the KITTI dataset root directory")
	flag.StringVar(&converter.YoloRoot, "yolo-root", "./data/yolo_kitti",
		"The `path` where the YOLO dataset will be created")
	flag.Float64Var(&converter.TrainSplit, "train-split", 0.8,
		"The `fraction` of training data assigned to the train split, rest goes"+
				" to validation; range [0.1, 0.9]")

	flag.StringVar(&converter.ImageEncoding, "image-enc", "jpg",
		"The `encoding` for output images {jpg, png}")
	flag.IntVar(&converter.JPEGQuality, "jpeg-quality", kitti2yolo.DefaultJPEGQuality,
		"The quality to use when encoding JPEGs [1, 100]")
	flag.IntVar(&converter.Workers, "workers", 0,
		"The `number` of concurrent sample conversions (0 selects 2x the CPU count)")
	flag.BoolVar(&converter.Verbose, "v", false,
		"Log every converted sample instead of every 100th")

	flag.StringVar(&converter.TFRecordPath, "tfrecord", "",
		"Also export the train split as TFRecords to this file `path` (empty disables)")
	flag.IntVar(&converter.TFRecordShards, "num-shards", 1,
		"The number of TFRecord shard files to create")

	flag.Parse()

	// Validate before any conversion work begins.
	if converter.TrainSplit < kitti2yolo.MinTrainSplit ||
			converter.TrainSplit > kitti2yolo.MaxTrainSplit {
		printUsageAndExit("Invalid -train-split, must be in [0.1, 0.9]: ",
			converter.TrainSplit)
	}
	if converter.ImageEncoding != "jpg" && converter.ImageEncoding != "png" {
		printUsageAndExit("Unsupported image encoding: ", converter.ImageEncoding)
	}
	if converter.JPEGQuality < 1 || converter.JPEGQuality > 100 {
		printUsageAndExit("Invalid -jpeg-quality, must be in [1, 100]: ",
			converter.JPEGQuality)
	}
	if converter.TFRecordShards < 1 {
		printUsageAndExit("Invalid -num-shards: ", converter.TFRecordShards)
	}

	converter.KittiRoot = filepath.Clean(converter.KittiRoot)
	converter.YoloRoot = filepath.Clean(converter.YoloRoot)
	if converter.KittiRoot == converter.YoloRoot {
		printUsageAndExit("The input and output paths cannot be identical")
	}
}

func main() {
	if err := converter.Convert(); err != nil {
		log.Fatal("Conversion failed: ", err)
	}
}
