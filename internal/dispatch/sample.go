// Package dispatch converts a stream of classified hand samples into ordered,
// debounced device actions.
package dispatch

import "fmt"

// Point is a screen-space position in pixels.
type Point struct {
	X, Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Sample is one frame's classification result.
type Sample struct {
	// Label is the recognized gesture. Meaningful only when HandDetected.
	Label string
	// Confidence is the classifier's score in [0, 1].
	Confidence float64
	// Fingertip is the index fingertip mapped to screen coordinates, or nil.
	Fingertip *Point
	// HandDetected is false when no hand was found in the frame.
	HandDetected bool
}

// NoHand returns a sample for a frame without a hand.
func NoHand() Sample {
	return Sample{}
}

// Lost reports whether s carries no hand data: no hand was detected, or the
// hand has neither a label nor a fingertip.
func (s Sample) Lost() bool {
	return !s.HandDetected || (s.Label == "" && s.Fingertip == nil)
}

// Hand returns a sample for a detected hand. fingertip may be nil.
func Hand(label string, confidence float64, fingertip *Point) Sample {
	return Sample{
		Label:        label,
		Confidence:   confidence,
		Fingertip:    fingertip,
		HandDetected: true,
	}
}

// At is shorthand for a fingertip pointer.
func At(x, y int) *Point {
	return &Point{X: x, Y: y}
}
