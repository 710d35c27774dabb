package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockClassifier is a Classifier whose results are set by the caller.
type MockClassifier struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockClassifier creates a new MockClassifier instance.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// SetHands sets the hands that will be returned by Classify.
func (m *MockClassifier) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Classify.
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many frames were classified.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Classify returns the pre-configured hands or error.
func (m *MockClassifier) Classify(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]HandLandmarks, len(m.hands))
	copy(out, m.hands)
	return out, nil
}

// Close is a no-op for the mock classifier.
func (m *MockClassifier) Close() error {
	return nil
}

// pose builds a right hand from the wrist and four joints per finger,
// listed base to tip in thumb, index, middle, ring, pinky order.
func pose(label string, wrist Point3D, fingers [5][4]Point3D) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95, Label: label, Confidence: 0.9}
	h.Points[Wrist] = wrist
	for f, joints := range fingers {
		copy(h.Points[1+4*f:5+4*f], joints[:])
	}
	return h
}

// LikeLandmarks returns a preset "like" pose: thumb up, other fingers curled
// toward the palm.
func LikeLandmarks() HandLandmarks {
	return pose("like", Point3D{X: 0.5, Y: 0.8}, [5][4]Point3D{
		{{X: 0.55, Y: 0.75}, {X: 0.58, Y: 0.65}, {X: 0.58, Y: 0.50}, {X: 0.58, Y: 0.35}},
		{{X: 0.55, Y: 0.70, Z: -0.02}, {X: 0.55, Y: 0.68, Z: -0.05}, {X: 0.52, Y: 0.70, Z: -0.04}, {X: 0.50, Y: 0.72, Z: -0.02}},
		{{X: 0.50, Y: 0.68, Z: -0.02}, {X: 0.50, Y: 0.66, Z: -0.05}, {X: 0.47, Y: 0.68, Z: -0.04}, {X: 0.45, Y: 0.70, Z: -0.02}},
		{{X: 0.45, Y: 0.70, Z: -0.02}, {X: 0.45, Y: 0.68, Z: -0.05}, {X: 0.42, Y: 0.70, Z: -0.04}, {X: 0.40, Y: 0.72, Z: -0.02}},
		{{X: 0.40, Y: 0.72, Z: -0.02}, {X: 0.40, Y: 0.70, Z: -0.05}, {X: 0.37, Y: 0.72, Z: -0.04}, {X: 0.35, Y: 0.74, Z: -0.02}},
	})
}

// PalmLandmarks returns a preset "palm" pose with every finger extended.
func PalmLandmarks() HandLandmarks {
	return pose("palm", Point3D{X: 0.5, Y: 0.8}, [5][4]Point3D{
		{{X: 0.55, Y: 0.75, Z: 0.02}, {X: 0.62, Y: 0.70, Z: 0.03}, {X: 0.68, Y: 0.65, Z: 0.03}, {X: 0.73, Y: 0.60, Z: 0.03}},
		{{X: 0.55, Y: 0.68}, {X: 0.57, Y: 0.55}, {X: 0.58, Y: 0.45}, {X: 0.58, Y: 0.35}},
		{{X: 0.50, Y: 0.66}, {X: 0.50, Y: 0.52}, {X: 0.50, Y: 0.40}, {X: 0.50, Y: 0.28}},
		{{X: 0.45, Y: 0.68}, {X: 0.43, Y: 0.55}, {X: 0.42, Y: 0.45}, {X: 0.42, Y: 0.35}},
		{{X: 0.40, Y: 0.70}, {X: 0.37, Y: 0.60}, {X: 0.35, Y: 0.50}, {X: 0.34, Y: 0.42}},
	})
}
