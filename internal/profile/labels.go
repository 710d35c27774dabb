package profile

// Labels is the gesture vocabulary produced by the hand classifier.
var Labels = []string{
	"two_fingers_near",
	"one",
	"two",
	"three",
	"four",
	"five",
	"ok",
	"c",
	"heavy",
	"hang",
	"palm",
	"l",
	"like",
	"dislike",
}

// DefaultMotionLabels are the gestures that editors offer pointer actions for.
// Any label may be bound to a pointer action; this only drives UI hints.
var DefaultMotionLabels = []string{"two_fingers_near", "one", "l"}

// IsKnownLabel reports whether label is in the classifier vocabulary.
func IsKnownLabel(label string) bool {
	for _, l := range Labels {
		if l == label {
			return true
		}
	}
	return false
}
