package app

import (
	"context"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
)

// produce is the capture loop. It reads frames at the controller's rate,
// and while motion keeps the pipeline active it classifies each frame and
// queues one sample per frame. Idle frames are not classified and produce no
// samples, so the dispatch state (including a held button) is unchanged
// while the hand is still.
func (a *App) produce(ctx context.Context, queue *dispatch.Queue, mapper *detector.ScreenMapper) error {
	ticker := time.NewTicker(a.rate.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.logger.Debug("frame read failed", "error", err)
				continue
			}

			motion, _ := a.motion.Detect(frame)
			active, changed := a.rate.Observe(motion, now)
			if changed {
				a.camera.SetFPS(a.rate.FPS())
				ticker.Reset(a.rate.Interval())
				a.logger.Debug("capture rate changed", "active", active, "fps", a.rate.FPS())
			}
			if !active {
				frame.Close()
				continue
			}

			hands, err := a.classifier.Classify(frame)
			frame.Close()
			if err != nil {
				a.logger.Warn("classification failed", "error", err)
				continue
			}

			s := sampleFor(hands, mapper)
			a.metrics.ObserveSample(len(hands), s)
			if err := queue.Push(ctx, s); err != nil {
				if errors.Is(err, dispatch.ErrQueueClosed) || ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// sampleFor converts the classifier output for one frame into a dispatch
// sample. Only the first hand is used; an unlabeled hand counts as lost.
func sampleFor(hands []detector.HandLandmarks, mapper *detector.ScreenMapper) dispatch.Sample {
	if len(hands) == 0 || hands[0].Label == "" {
		return dispatch.NoHand()
	}
	hand := hands[0]

	x, y := mapper.Map(hand.Fingertip())
	return dispatch.Hand(hand.Label, hand.Confidence, dispatch.At(x, y))
}
