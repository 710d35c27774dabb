package gesture

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// TemplateClassifier labels hands the upstream classifier left unlabeled.
// Confidence is the match score; unmatched hands stay unlabeled.
type TemplateClassifier struct {
	inner   detector.Classifier
	matcher *Matcher
}

// NewTemplateClassifier wraps inner with template matching.
func NewTemplateClassifier(inner detector.Classifier, matcher *Matcher) *TemplateClassifier {
	return &TemplateClassifier{inner: inner, matcher: matcher}
}

// Classify implements detector.Classifier.
func (c *TemplateClassifier) Classify(frame *gocv.Mat) ([]detector.HandLandmarks, error) {
	hands, err := c.inner.Classify(frame)
	if err != nil {
		return nil, err
	}
	for i := range hands {
		c.Label(&hands[i])
	}
	return hands, nil
}

// Label fills in hand's label from the best matching template when it has none.
func (c *TemplateClassifier) Label(hand *detector.HandLandmarks) {
	if hand.Label != "" {
		return
	}
	matches := c.matcher.Match(hand)
	if len(matches) == 0 {
		return
	}
	hand.Label = matches[0].Template.Label
	hand.Confidence = matches[0].Score
}

// Close implements detector.Classifier.
func (c *TemplateClassifier) Close() error {
	return c.inner.Close()
}
