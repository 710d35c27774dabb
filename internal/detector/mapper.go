package detector

// DefaultActiveArea is the share of the camera frame that spans the whole screen.
const DefaultActiveArea = 0.8

// ScreenMapper converts normalized fingertip positions into screen pixels.
// Only the top-left ActiveArea share of the frame is used, so the screen edge
// is reachable without the fingertip leaving the camera's view.
type ScreenMapper struct {
	CameraWidth  int
	CameraHeight int
	ScreenWidth  int
	ScreenHeight int
	ActiveArea   float64
}

// NewScreenMapper creates a mapper with the default active area.
func NewScreenMapper(cameraWidth, cameraHeight, screenWidth, screenHeight int) *ScreenMapper {
	return &ScreenMapper{
		CameraWidth:  cameraWidth,
		CameraHeight: cameraHeight,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		ActiveArea:   DefaultActiveArea,
	}
}

// Map returns the screen position for a normalized point.
func (m *ScreenMapper) Map(p Point3D) (x, y int) {
	area := m.ActiveArea
	if area <= 0 || area > 1 {
		area = DefaultActiveArea
	}
	x = scaleAxis(p.X, m.CameraWidth, m.ScreenWidth, area)
	y = scaleAxis(p.Y, m.CameraHeight, m.ScreenHeight, area)
	return x, y
}

func scaleAxis(v float64, camera, screen int, area float64) int {
	if camera <= 0 || screen <= 0 {
		return 0
	}

	px := int(v * float64(camera))
	if px > camera-1 {
		px = camera - 1
	}
	if px < 0 {
		px = 0
	}

	percent := float64(px) / (float64(camera) * area)
	if percent > 1 {
		percent = 1
	}
	return int(float64(screen) * percent)
}
