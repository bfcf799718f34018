package kitti2yolo

// Dataset assembly: enumerates the source tree, converts each sample and
// writes the YOLO directory layout.

import (
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// DefaultJPEGQuality is the encoder quality used for re-encoded images when
// the caller does not override it.
const DefaultJPEGQuality = 95

// Ratio bounds for the train/val split accepted by Converter.
const (
	MinTrainSplit = 0.1
	MaxTrainSplit = 0.9
)

// Converter converts a KITTI object detection dataset into the YOLO layout.
// The source tree is read-only; destination files are overwritten without
// warning.
type Converter struct {
	KittiRoot  string  // Source dataset root.
	YoloRoot   string  // Destination dataset root.
	TrainSplit float64 // Fraction of training samples assigned to train.

	ImageEncoding string // Output image encoding, "jpg" or "png".
	JPEGQuality   int    // Quality for JPEG output; defaults to DefaultJPEGQuality.
	Workers       int    // Worker pool size; 0 selects 2*NumCPU.
	Verbose       bool   // Log every sample instead of every 100th.

	TFRecordPath   string // When non-empty, export the train split as TFRecords.
	TFRecordShards int    // Number of TFRecord shard files; 0 means 1.
}

// Convert runs the full conversion. Configuration errors are reported before
// any output is created; a filesystem write failure aborts the run.
func (c *Converter) Convert() error {
	if info, err := os.Stat(c.KittiRoot); err != nil || !info.IsDir() {
		return errors.Errorf("KITTI dataset directory not found: %s", c.KittiRoot)
	}
	if c.TrainSplit < MinTrainSplit || c.TrainSplit > MaxTrainSplit {
		return errors.Errorf("train split must be between %v and %v, got %v",
			MinTrainSplit, MaxTrainSplit, c.TrainSplit)
	}
	if c.ImageEncoding == "" {
		c.ImageEncoding = "jpg"
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = DefaultJPEGQuality
	}

	log.Print("Starting KITTI to YOLO conversion with benchmark class remapping")
	log.Printf("Train/validation split ratio: %.0f%% train, %.0f%% validation",
		c.TrainSplit*100, (1-c.TrainSplit)*100)

	splits, err := c.createSplits()
	if err != nil {
		return err
	}

	if err := c.createLayout(); err != nil {
		return err
	}

	var tfSamples []TFRecordSample
	for _, split := range []struct {
		name   string
		ids    []string
		isTest bool
	}{
		{"train", splits.Train, false},
		{"val", splits.Val, false},
		{"test", splits.Test, true},
	} {
		if len(split.ids) == 0 {
			continue
		}

		wantTF := c.TFRecordPath != "" && split.name == "train"
		samples, err := c.convertSplit(split.name, split.ids, split.isTest, wantTF)
		if err != nil {
			return err
		}
		if wantTF {
			tfSamples = samples
		}
	}

	manifest, err := NewManifest(c.YoloRoot)
	if err != nil {
		return err
	}
	if err := manifest.Write(c.YoloRoot); err != nil {
		return errors.Wrap(err, "failed to write the dataset manifest")
	}
	log.Printf("Created dataset manifest: %s", filepath.Join(c.YoloRoot, manifestFileName))

	if c.TFRecordPath != "" {
		if err := WriteTFRecord(c.TFRecordPath, tfSamples, c.TFRecordShards); err != nil {
			return errors.Wrap(err, "TFRecord export failed")
		}
	}

	log.Print("KITTI to YOLO conversion completed successfully")
	return nil
}

// createSplits enumerates the sample IDs from the source tree and assigns
// them to the output datasets. A missing training or testing directory is
// logged and yields an empty split, not an error.
func (c *Converter) createSplits() (Splits, error) {
	var splits Splits

	trainingIDs, err := fileStemsInDir(filepath.Join(c.KittiRoot, kittiTrainingImageDir), kittiImageExt)
	if err != nil {
		log.Printf("Training images not found: %v", err)
	} else {
		splits.Train, splits.Val = Partition(trainingIDs, c.TrainSplit)
		log.Printf("Training data split: %d train, %d validation", len(splits.Train), len(splits.Val))
	}

	testingIDs, err := fileStemsInDir(filepath.Join(c.KittiRoot, kittiTestingImageDir), kittiImageExt)
	if err != nil {
		log.Printf("Testing images not found: %v", err)
	} else {
		splits.Test = testingIDs
		log.Printf("Testing data: %d samples", len(splits.Test))
	}

	return splits, nil
}

// createLayout creates the YOLO destination directory tree. Test labels are
// never written, so no label directory is created for the test split.
func (c *Converter) createLayout() error {
	for _, split := range []string{"train", "val", "test"} {
		if err := os.MkdirAll(filepath.Join(c.YoloRoot, split, "images"), 0755); err != nil {
			return errors.Wrap(err, "failed to create the output directory tree")
		}
		if split == "test" {
			continue
		}
		if err := os.MkdirAll(filepath.Join(c.YoloRoot, split, "labels"), 0755); err != nil {
			return errors.Wrap(err, "failed to create the output directory tree")
		}
	}

	log.Printf("Created YOLO directory structure at %s", c.YoloRoot)
	return nil
}

// convertSplit converts all samples of one split through a bounded worker
// pool. Samples are independent and write to disjoint destination paths, so
// the pool changes throughput only, never output.
//
// When wantTF is true the converted samples are also collected for TFRecord
// export.
func (c *Converter) convertSplit(name string, ids []string, isTest, wantTF bool) (
		[]TFRecordSample, error) {

	log.Printf("Converting %s split with %d samples", name, len(ids))

	imageSrcDir := kittiTrainingImageDir
	if isTest {
		imageSrcDir = kittiTestingImageDir
	}
	imagesSrc := filepath.Join(c.KittiRoot, imageSrcDir)
	labelsSrc := filepath.Join(c.KittiRoot, kittiTrainingLabelDir)
	imagesDst := filepath.Join(c.YoloRoot, name, "images")
	labelsDst := filepath.Join(c.YoloRoot, name, "labels")

	numWorkers := c.Workers
	if numWorkers <= 0 {
		numWorkers = 2 * runtime.NumCPU()
	}
	if len(ids) < numWorkers {
		numWorkers = len(ids)
	}

	workQueue := make(chan string, 2*numWorkers)
	errs := make(chan error, 1)
	trySendError := func(err error) {
		select {
		case errs <- err:
		default:
		}
	}

	var tfSamples []TFRecordSample
	var tfCh chan TFRecordSample
	var wgAppend sync.WaitGroup
	if wantTF {
		tfSamples = make([]TFRecordSample, 0, len(ids))
		tfCh = make(chan TFRecordSample, 2*numWorkers)
		wgAppend.Add(1)
		go func() {
			defer wgAppend.Done()
			for s := range tfCh {
				tfSamples = append(tfSamples, s)
			}
		}()
	}

	var converted, skipped int64
	var failed int32
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for id := range workQueue {
				// Drain the queue without converting once a sample has failed.
				if atomic.LoadInt32(&failed) != 0 {
					continue
				}

				sample, skip, err := c.convertSample(id, imagesSrc, labelsSrc,
					imagesDst, labelsDst, isTest, wantTF)
				if err != nil {
					trySendError(err)
					atomic.StoreInt32(&failed, 1)
					continue
				}
				if skip {
					atomic.AddInt64(&skipped, 1)
					continue
				}
				if wantTF {
					tfCh <- sample
				}

				n := atomic.AddInt64(&converted, 1)
				if c.Verbose {
					log.Printf("Converted sample %s (%d/%d)", id, n, len(ids))
				} else if n%100 == 0 {
					log.Printf("Converted %d/%d samples", n, len(ids))
				}
			}
		}()
	}

	for _, id := range ids {
		workQueue <- id
	}
	close(workQueue)
	wg.Wait()

	if wantTF {
		close(tfCh)
		wgAppend.Wait()
	}

	close(errs)
	if err := <-errs; err != nil {
		return nil, err
	}

	log.Printf("Completed %s split: %d samples converted, %d skipped",
		name, converted, skipped)
	return tfSamples, nil
}

// convertSample converts a single sample: the image is re-encoded into the
// destination tree and, for train/val samples, the label file is transcoded.
//
// A missing source image skips the sample (skip=true). An undecodable image
// degrades to the default KITTI dimensions and a byte-identical copy with the
// original file extension. Filesystem write failures are returned and abort
// the run.
func (c *Converter) convertSample(id, imagesSrc, labelsSrc, imagesDst, labelsDst string,
		isTest, wantTF bool) (sample TFRecordSample, skip bool, err error) {

	srcImage := filepath.Join(imagesSrc, id+kittiImageExt)
	if _, err := os.Stat(srcImage); err != nil {
		log.Printf("Image not found, skipping: %s", srcImage)
		return TFRecordSample{}, true, nil
	}

	width, height, dimErr := imageDimensions(srcImage)
	rawCopy := dimErr != nil
	if rawCopy {
		log.Printf("Cannot decode %s, using default dimensions %dx%d: %v",
			srcImage, defaultImageWidth, defaultImageHeight, dimErr)
		width, height = defaultImageWidth, defaultImageHeight
	}

	dstImage := filepath.Join(imagesDst, id+"."+c.ImageEncoding)
	if !rawCopy {
		if encErr := reencodeImage(srcImage, dstImage, c.JPEGQuality); encErr != nil {
			log.Printf("Cannot re-encode %s, falling back to copy: %v", srcImage, encErr)
			rawCopy = true
		}
	}
	if rawCopy {
		// Keep the original extension when the image bytes pass through as is.
		dstImage = filepath.Join(imagesDst, id+kittiImageExt)
		if err := copyFile(srcImage, dstImage); err != nil {
			return TFRecordSample{}, false, errors.Wrapf(err, "failed to copy image %s", srcImage)
		}
	}

	var annotations []YOLOAnnotation
	if !isTest {
		lines, err := readLines(filepath.Join(labelsSrc, id+".txt"))
		if err != nil && !os.IsNotExist(err) {
			return TFRecordSample{}, false, errors.Wrapf(err, "failed to read labels for %s", id)
		}

		annotations = TranscodeAnnotations(lines, width, height)
		labelPath := filepath.Join(labelsDst, id+".txt")
		if err := ioutil.WriteFile(labelPath, []byte(FormatLabelFile(annotations)), 0644); err != nil {
			return TFRecordSample{}, false, errors.Wrapf(err, "failed to write labels for %s", id)
		}
	}

	if wantTF {
		sample = TFRecordSample{ImagePath: dstImage, Annotations: annotations}
	}
	return sample, false, nil
}
