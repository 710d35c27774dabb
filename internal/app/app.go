// Package app wires the camera, classifier and dispatch engine into a running
// gesture pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/profile"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultMotionThreshold is the percentage of changed pixels that counts as motion.
const DefaultMotionThreshold = 1.0

// Config holds the components and settings of the pipeline.
type Config struct {
	Camera     capture.Camera
	Classifier detector.Classifier
	Actuator   actuator.Actuator
	Profiles   *profile.Store
	// Store, if set, supplies gesture templates.
	Store *store.Store

	Engine          dispatch.Config
	QueueCapacity   int
	MotionThreshold float64
	// Rate switches the camera between idle and active frame rates.
	// Nil uses the defaults.
	Rate *capture.RateController

	ScreenWidth  int
	ScreenHeight int
	// ActiveArea is the fraction of the frame mapped onto the full screen.
	ActiveArea float64

	Metrics *Metrics
	Logger  *slog.Logger
}

// App is the gesture pipeline. The producer goroutine reads frames, gates
// them on motion, classifies them and queues samples; the dispatch runner
// consumes the queue and drives the actuator.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	rate       *capture.RateController
	classifier detector.Classifier
	matcher    *gesture.Matcher
	engine     *dispatch.Engine
	metrics    *Metrics
	logger     *slog.Logger

	mu      sync.RWMutex
	ctx     context.Context
	mapper  *detector.ScreenMapper
	queue   *dispatch.Queue
	enabled bool
	cancel  context.CancelFunc
	done    chan struct{}
	dropped uint64
}

// New creates an App. The camera is not opened until Start.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	threshold := config.MotionThreshold
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	rate := config.Rate
	if rate == nil {
		rate = capture.NewRateController()
	}
	if config.QueueCapacity <= 0 {
		config.QueueCapacity = dispatch.DefaultQueueCapacity
	}
	if config.ActiveArea <= 0 {
		config.ActiveArea = detector.DefaultActiveArea
	}

	matcher := gesture.NewMatcher()
	a := &App{
		config:     config,
		camera:     config.Camera,
		motion:     capture.NewMotionDetector(threshold),
		rate:       rate,
		classifier: gesture.NewTemplateClassifier(config.Classifier, matcher),
		matcher:    matcher,
		metrics:    config.Metrics,
		logger:     logger,
	}
	a.engine = dispatch.NewEngine(config.Engine, config.Profiles, config.Actuator, logger.With("component", "dispatch"))
	if a.metrics != nil {
		a.engine.OnEffect(a.metrics.ObserveEffect)
	}
	return a
}

// Engine returns the dispatch engine.
func (a *App) Engine() *dispatch.Engine {
	return a.engine
}

// OnEffect registers fn to receive every dispatch effect. See
// dispatch.Engine.OnEffect for the constraints on fn.
func (a *App) OnEffect(fn func(dispatch.Effect)) {
	a.engine.OnEffect(fn)
}

// LoadTemplates loads gesture templates from the store into the matcher.
func (a *App) LoadTemplates() error {
	if a.config.Store == nil {
		return nil
	}
	templates, err := a.config.Store.Templates().List()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	a.matcher.SetTemplates(gesture.FromStore(templates))
	a.logger.Info("loaded gesture templates", "count", len(templates))
	return nil
}

// Start opens the camera and starts the pipeline. The pipeline runs until
// Stop is called or ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.ctx != nil {
		a.mu.Unlock()
		return nil
	}

	if err := a.camera.Open(); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("open camera: %w", err)
	}
	cw, ch := a.camera.FrameSize()
	a.mapper = detector.NewScreenMapper(cw, ch, a.config.ScreenWidth, a.config.ScreenHeight)
	a.mapper.ActiveArea = a.config.ActiveArea
	a.ctx = ctx
	a.enabled = true
	a.mu.Unlock()

	a.logger.Info("camera opened", "width", cw, "height", ch)
	a.startPipeline()
	return nil
}

// Stop halts the pipeline, releases any held button and closes the camera
// and classifier.
func (a *App) Stop() error {
	a.stopPipeline()

	a.mu.Lock()
	started := a.ctx != nil
	a.ctx = nil
	a.enabled = false
	a.mu.Unlock()

	if !started {
		return nil
	}

	var errs []error
	if err := a.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	a.motion.Close()
	if err := a.classifier.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close classifier: %w", err))
	}
	a.logger.Info("pipeline stopped")
	return errors.Join(errs...)
}

// SetEnabled pauses or resumes gesture dispatch. Pausing releases any held
// button; the camera stays open.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	if a.enabled == enabled {
		a.mu.Unlock()
		return
	}
	a.enabled = enabled
	started := a.ctx != nil
	a.mu.Unlock()

	if !started {
		return
	}
	if enabled {
		a.startPipeline()
		a.logger.Info("gesture dispatch enabled")
	} else {
		a.stopPipeline()
		a.logger.Info("gesture dispatch paused")
	}
}

// IsEnabled reports whether gesture dispatch is running.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Done returns a channel closed when the current pipeline run ends, or nil
// if no pipeline is running.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.done
}

func (a *App) startPipeline() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil || a.ctx == nil {
		return
	}

	ctx, cancel := context.WithCancel(a.ctx)
	queue := dispatch.NewQueue(a.config.QueueCapacity, a.engine.Threshold())
	runner := dispatch.NewRunner(queue, a.engine, a.logger.With("component", "runner"))
	mapper := a.mapper
	done := make(chan struct{})

	// A fresh run starts idle with no previous gesture.
	a.motion.Reset()
	a.rate.Reset()
	if err := a.engine.Reset(); err != nil {
		a.logger.Warn("failed to reset dispatch", "error", err)
	}
	a.camera.SetFPS(a.rate.FPS())

	a.queue = queue
	a.cancel = cancel
	a.done = done

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		err := a.produce(gctx, queue, mapper)
		// The runner only stops on its own when the queue is closed.
		queue.Close()
		return err
	})

	go func() {
		defer close(done)
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("pipeline failed", "error", err)
		}
	}()
}

func (a *App) stopPipeline() {
	a.mu.Lock()
	cancel, done, queue := a.cancel, a.done, a.queue
	a.cancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	a.mu.Lock()
	a.dropped += queue.Dropped()
	a.queue = nil
	a.done = nil
	a.mu.Unlock()
}

// Status is a snapshot of the pipeline state.
type Status struct {
	Enabled       bool     `json:"enabled"`
	PreviousLabel string   `json:"previous_label,omitempty"`
	Held          []string `json:"held"`
	QueueDepth    int      `json:"queue_depth"`
	Dropped       uint64   `json:"dropped"`
	Active        bool     `json:"active"`
	Templates     int      `json:"templates"`
}

// Status returns the current pipeline state.
func (a *App) Status() Status {
	a.mu.RLock()
	st := Status{
		Enabled:   a.enabled,
		Dropped:   a.dropped,
		Templates: a.matcher.Len(),
	}
	if a.queue != nil {
		st.QueueDepth = a.queue.Len()
		st.Dropped += a.queue.Dropped()
	}
	a.mu.RUnlock()

	if label, ok := a.engine.PreviousLabel(); ok {
		st.PreviousLabel = label
	}
	st.Active = a.camera.FPS() > a.rate.IdleFPS
	st.Held = make([]string, 0, 1)
	for _, b := range a.engine.Held() {
		st.Held = append(st.Held, b.String())
	}
	return st
}
