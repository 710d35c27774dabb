package detector

import "math"

// Landmark indices in the 21-point hand model used by the model service.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a landmark position. X and Y are normalized to the image; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand: 21 normalized landmarks plus the
// gesture label and its confidence. Label is empty when the model did not
// classify the pose.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
	Label      string                `json:"label"`
	Confidence float64               `json:"confidence"`
}

// Fingertip returns the index fingertip in normalized image coordinates.
func (h *HandLandmarks) Fingertip() Point3D {
	return h.Points[IndexTip]
}

func (p Point3D) sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

func (p Point3D) norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Normalize returns a copy of h translated so the wrist is at the origin and
// scaled so the wrist to middle-finger MCP distance is 1. A degenerate hand
// with that distance near zero is only translated.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil {
		return nil
	}

	out := *h
	wrist := h.Points[Wrist]
	for i := range out.Points {
		out.Points[i] = h.Points[i].sub(wrist)
	}

	scale := out.Points[MiddleMCP].norm()
	if scale < 1e-10 {
		return &out
	}
	for i := range out.Points {
		out.Points[i].X /= scale
		out.Points[i].Y /= scale
		out.Points[i].Z /= scale
	}
	return &out
}
