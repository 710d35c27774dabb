// Package detector provides hand classification interfaces and types.
package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Classifier turns a camera frame into classified hands.
type Classifier interface {
	// Classify analyzes a video frame and returns detected hands.
	// Returns an empty slice if no hands are detected.
	Classify(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the classifier.
	Close() error
}

// Config holds configuration options for the model service.
type Config struct {
	// Script is the model service script. Empty searches the default locations.
	Script string

	// Python is the interpreter used to run Script. Empty searches for a venv.
	Python string

	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// IdleTimeout stops the service after this long without a frame.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:      1,
		MinConfidence: 0.5,
		IdleTimeout:   30 * time.Second,
	}
}
