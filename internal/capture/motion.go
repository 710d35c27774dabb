package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Frame differencing parameters. Frames are shrunk to motionWidth pixels wide
// before comparison; the blur kernel is sized for that width.
const (
	motionWidth = 160
	blurKernel  = 7
	// pixelDelta is the grey-level change that marks a pixel as moved.
	pixelDelta = 25
)

// MotionDetector decides whether anything moved between consecutive frames.
// The pipeline only classifies frames while there is motion.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	baseline  gocv.Mat
	hasBase   bool
}

// NewMotionDetector creates a detector that reports motion when more than
// threshold percent of pixels change.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		baseline:  gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and returns whether it moved
// along with the percentage of changed pixels. The first frame after
// creation or Reset only sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	if frame == nil || frame.Empty() {
		return false, 0
	}

	small := shrink(frame)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasBase || m.baseline.Rows() != small.Rows() || m.baseline.Cols() != small.Cols() {
		m.swapBaseline(small)
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(small, m.baseline, &diff)
	gocv.Threshold(diff, &diff, pixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100
	m.swapBaseline(small)
	return changed > m.threshold, changed
}

// shrink converts frame to a small blurred greyscale image.
func shrink(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	if gray.Cols() > motionWidth {
		h := gray.Rows() * motionWidth / gray.Cols()
		gocv.Resize(gray, &resized, image.Point{X: motionWidth, Y: max(h, 1)}, 0, 0, gocv.InterpolationArea)
	} else {
		gray.CopyTo(&resized)
	}

	out := gocv.NewMat()
	gocv.GaussianBlur(resized, &out, image.Point{X: blurKernel, Y: blurKernel}, 0, 0, gocv.BorderDefault)
	return out
}

// swapBaseline takes ownership of next. Callers hold m.mu.
func (m *MotionDetector) swapBaseline(next gocv.Mat) {
	m.baseline.Close()
	m.baseline = next
	m.hasBase = true
}

// Reset forgets the baseline so the next frame starts a fresh comparison.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.baseline.Close()
	m.baseline = gocv.NewMat()
	m.hasBase = false
}

// Close releases the baseline. The detector can still be used; it behaves
// as if Reset.
func (m *MotionDetector) Close() {
	m.Reset()
}

// Threshold returns the changed-pixel percentage above which Detect reports motion.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// SetThreshold changes the threshold. Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}
