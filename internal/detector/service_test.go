package detector

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

// fakeService answers each length-prefixed frame with one line from replies.
func fakeService(t *testing.T, replies ...string) (*ServiceClassifier, <-chan []byte) {
	t.Helper()

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	frames := make(chan []byte, len(replies))

	go func() {
		defer respW.Close()
		for _, reply := range replies {
			var length [4]byte
			if _, err := io.ReadFull(reqR, length[:]); err != nil {
				return
			}
			data := make([]byte, binary.BigEndian.Uint32(length[:]))
			if _, err := io.ReadFull(reqR, data); err != nil {
				return
			}
			frames <- data
			fmt.Fprintln(respW, reply)
		}
		io.Copy(io.Discard, reqR)
	}()

	c := &ServiceClassifier{
		logger:  slog.Default(),
		stdin:   reqW,
		stdout:  bufio.NewReader(respR),
		started: true,
	}
	t.Cleanup(func() { c.Close() })
	return c, frames
}

func TestServiceClassifier_Protocol(t *testing.T) {
	c, frames := fakeService(t,
		`{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Left","score":0.97,"gesture":"ok","confidence":0.83}]}`,
		`{"hands":[]}`,
	)

	hands, err := c.classifyBytes([]byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("classifyBytes() error = %v", err)
	}
	if got := <-frames; string(got) != "jpeg-bytes" {
		t.Errorf("service received %q", got)
	}
	if len(hands) != 1 {
		t.Fatalf("expected 1 hand, got %d", len(hands))
	}
	h := hands[0]
	if h.Label != "ok" || h.Confidence != 0.83 || h.Handedness != "Left" {
		t.Errorf("unexpected hand %+v", h)
	}
	if h.Points[Wrist] != (Point3D{X: 0.1, Y: 0.2}) {
		t.Errorf("wrist = %+v", h.Points[Wrist])
	}

	hands, err = c.classifyBytes([]byte("next"))
	if err != nil {
		t.Fatalf("classifyBytes() error = %v", err)
	}
	if len(hands) != 0 {
		t.Errorf("expected no hands, got %d", len(hands))
	}
}

func TestServiceClassifier_ServiceError(t *testing.T) {
	c, _ := fakeService(t, `{"error":"model not loaded"}`)

	if _, err := c.classifyBytes([]byte("x")); err == nil {
		t.Fatal("expected error from service")
	}
}

func TestServiceClassifier_BrokenPipeRestarts(t *testing.T) {
	c, _ := fakeService(t)

	if _, err := c.classifyBytes([]byte("x")); err == nil {
		t.Fatal("expected error when the service has exited")
	}
	if c.started {
		t.Error("broken service should be marked stopped")
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	if _, err := parseResponse([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestNewServiceClassifier_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Script = filepath.Join(t.TempDir(), "missing.py")

	_, err := NewServiceClassifier(cfg, nil)
	if err == nil {
		t.Fatal("expected error for missing script")
	}
	if errors.Is(err, ErrServiceNotFound) {
		t.Error("explicit script path should report the stat error")
	}
}
