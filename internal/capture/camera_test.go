package capture

import (
	"errors"
	"testing"
)

func TestNewCamera_Config(t *testing.T) {
	tests := []struct {
		name       string
		config     CameraConfig
		wantWidth  int
		wantHeight int
		wantFPS    int
	}{
		{"zero config", CameraConfig{}, DefaultWidth, DefaultHeight, DefaultIdleFPS},
		{"defaults", DefaultCameraConfig(), DefaultWidth, DefaultHeight, DefaultIdleFPS},
		{"negative width", CameraConfig{Width: -1, Height: 360}, DefaultWidth, 360, DefaultIdleFPS},
		{"custom", CameraConfig{DeviceID: 2, Width: 1280, Height: 720, FPS: 30}, 1280, 720, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config)
			if w, h := cam.FrameSize(); w != tt.wantWidth || h != tt.wantHeight {
				t.Errorf("FrameSize() = %dx%d, want %dx%d", w, h, tt.wantWidth, tt.wantHeight)
			}
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera open before Open()")
			}
		})
	}
}

func TestDefaultCameraConfig_Mirrors(t *testing.T) {
	if !DefaultCameraConfig().Mirror {
		t.Error("default config should mirror frames")
	}
}

func TestCamera_SetFPSIgnoresNonPositive(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig())

	steps := []struct{ set, want int }{
		{15, 15},
		{0, 15},
		{-3, 15},
		{1, 1},
	}
	for _, s := range steps {
		cam.SetFPS(s.set)
		if got := cam.FPS(); got != s.want {
			t.Errorf("after SetFPS(%d) FPS() = %d, want %d", s.set, got, s.want)
		}
	}
}

func TestCamera_Unopened(t *testing.T) {
	cam := NewCamera(DefaultCameraConfig())

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v", err)
	}
}

func TestCamera_Device(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping device test in short mode")
	}

	cam := NewCamera(DefaultCameraConfig())
	if err := cam.Open(); err != nil {
		t.Skipf("no camera available: %v", err)
	}
	defer cam.Close()

	if !cam.IsOpen() {
		t.Fatal("IsOpen() = false after Open()")
	}
	// A second Open is a no-op.
	if err := cam.Open(); err != nil {
		t.Errorf("second Open() = %v", err)
	}

	frame, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer frame.Close()

	w, h := cam.FrameSize()
	if frame.Cols() != w || frame.Rows() != h {
		t.Logf("frame is %dx%d, device reported %dx%d", frame.Cols(), frame.Rows(), w, h)
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() = true after Close()")
	}
}
