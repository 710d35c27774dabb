package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/actuator"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/profile"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

const version = "0.3.0"

// The tray must run on the main thread on macOS.
func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath   = flag.String("config", "", "Path to YAML config file")
		logLevel     = flag.String("log-level", "", "Log level: error, warn, info, debug")
		keymap       = flag.String("keymap", "", "Path to the keymap JSON file")
		addr         = flag.String("addr", "", "HTTP API listen address")
		actuatorKind = flag.String("actuator", "", `Actuator: "native", "dry-run" or "plugin:<name>"`)
		noTray       = flag.Bool("no-tray", false, "Run without the system tray")
		noServer     = flag.Bool("no-server", false, "Run without the HTTP API")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("mudra v%s\n", version)
		return
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	} else {
		cfg.ExpandPaths()
	}

	// Only flags given on the command line override the config file.
	var overrides config.FlagOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			overrides.LogLevel = logLevel
		case "keymap":
			overrides.Keymap = keymap
		case "addr":
			overrides.Addr = addr
		case "actuator":
			overrides.Actuator = actuatorKind
		case "no-tray":
			overrides.NoTray = noTray
		case "no-server":
			overrides.NoServer = noServer
		}
	})
	overrides.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.New(level, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("mudra exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	profiles, err := profile.LoadFile(cfg.Keymap)
	if err != nil {
		// The store is still usable; keep running with an empty mapping.
		logger.Warn("keymap not loaded, starting with empty profile", "error", err)
	}
	persister := &app.Persister{
		KeymapPath: cfg.Keymap,
		Profiles:   profiles,
		Settings:   st.Settings(),
		Logger:     logger,
	}
	if err := persister.RestoreActive(); err != nil {
		logger.Warn("active profile not restored", "error", err)
	}
	logger.Info("keymap loaded", "path", cfg.Keymap, "profiles", len(profiles.Names()), "active", profiles.Active())

	act, err := newActuator(ctx, cfg, logger)
	if err != nil {
		return err
	}
	classifier, err := newClassifier(cfg, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := app.NewMetrics(reg)

	application := app.New(app.Config{
		Camera:          capture.NewCamera(cfg.CameraDevice()),
		Classifier:      classifier,
		Actuator:        act,
		Profiles:        profiles,
		Store:           st,
		Engine:          cfg.DispatchEngine(),
		QueueCapacity:   cfg.Dispatch.QueueCapacity,
		MotionThreshold: cfg.Camera.MotionThreshold,
		Rate:            cfg.RateController(),
		ScreenWidth:     cfg.Screen.Width,
		ScreenHeight:    cfg.Screen.Height,
		ActiveArea:      cfg.Screen.ActiveArea,
		Metrics:         metrics,
		Logger:          logger,
	})
	metrics.RegisterQueue(reg, application)
	if err := application.LoadTemplates(); err != nil {
		logger.Warn("gesture templates not loaded", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Activity.Keep > 0 {
		activity := app.NewActivityLog(st.Activity(), cfg.Activity.Keep, logger.With("component", "activity"))
		application.OnEffect(activity.Observe)
		g.Go(func() error { return activity.Run(gctx) })
	}

	hub := server.NewHub(logger.With("component", "events"), server.HubConfig{
		Snapshot: func() interface{} { return application.Status() },
	})
	application.OnEffect(hub.Publish)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	var tr *tray.Tray
	if cfg.Tray.Enabled {
		tr = newTray(cfg, application, profiles, persister, stop, logger)
		application.OnEffect(func(ef dispatch.Effect) {
			if ef.Kind != dispatch.EffectMove {
				tr.SetLastAction(ef)
			}
		})
	}

	onProfilesChange := func() {
		if tr != nil {
			tr.SetProfiles(profiles.Names(), profiles.Active())
		}
	}
	watcher := profile.NewWatcher(cfg.Keymap, profiles, logger.With("component", "keymap"), onProfilesChange)
	g.Go(func() error { return watcher.Run(gctx) })

	if cfg.Server.Enabled {
		srv := server.New(server.Config{
			Pipeline: &trayedPipeline{App: application, tray: tr},
			Profiles: profiles,
			Store:    st,
			Events:   hub,
			Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			OnProfilesChange: func() error {
				onProfilesChange()
				return persister.Save()
			},
			OnTemplatesChange: application.LoadTemplates,
			Logger:            logger.With("component", "http"),
		})
		g.Go(func() error { return srv.Run(gctx, cfg.Server.Addr) })
	}

	if err := application.Start(gctx); err != nil {
		stop()
		g.Wait()
		return err
	}
	logger.Info("mudra started", "version", version, "actuator", cfg.Actuator)

	if tr != nil {
		go func() {
			<-gctx.Done()
			tr.Quit()
		}()
		tr.SetProfiles(profiles.Names(), profiles.Active())
		// Blocks until quit from the menu or gctx ends.
		tr.Run()
		stop()
	}

	err = g.Wait()
	if stopErr := application.Stop(); stopErr != nil {
		logger.Warn("pipeline shutdown incomplete", "error", stopErr)
	}
	logger.Info("mudra stopped")
	return err
}

// newActuator builds the actuator named by cfg.Actuator.
func newActuator(ctx context.Context, cfg config.Config, logger *slog.Logger) (actuator.Actuator, error) {
	name, err := cfg.PluginName()
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.Actuator == config.ActuatorDryRun:
		return actuator.NewLogger(logger.With("component", "dry-run")), nil
	case name != "":
		manager := plugin.NewManager(cfg.PluginDir, logger)
		if err := manager.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins: %w", err)
		}
		p, err := manager.Get(name)
		if err != nil {
			var available []string
			for _, p := range manager.List() {
				available = append(available, p.Manifest.Name)
			}
			logger.Error("actuator plugin not found", "plugin", name, "dir", manager.PluginDir(), "available", available)
			return nil, fmt.Errorf("actuator %q: %w", cfg.Actuator, err)
		}
		logger.Info("using actuator plugin", "plugin", name, "version", p.Manifest.Version)
		return actuator.NewPlugin(ctx, plugin.NewExecutor(plugin.DefaultTimeout), p), nil
	default:
		return actuator.NewNative(input.NewInjector()), nil
	}
}

// newClassifier starts the model service, falling back to a classifier that
// never sees a hand when the service is not installed.
func newClassifier(cfg config.Config, logger *slog.Logger) (detector.Classifier, error) {
	if cfg.Model.Mock {
		return detector.NewMockClassifier(), nil
	}
	c, err := detector.NewServiceClassifier(cfg.ModelService(), logger.With("component", "model"))
	if errors.Is(err, detector.ErrServiceNotFound) {
		logger.Warn("hand model service not found, gestures will not be detected")
		return detector.NewMockClassifier(), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newTray(cfg config.Config, a *app.App, profiles *profile.Store, persister *app.Persister, quit func(), logger *slog.Logger) *tray.Tray {
	tr := tray.New()
	tr.OnToggle(a.SetEnabled)
	tr.OnProfile(func(name string) {
		profiles.Switch(name)
		tr.SetProfiles(profiles.Names(), profiles.Active())
		if err := persister.Save(); err != nil {
			logger.Error("failed to save profile switch", "error", err)
		}
		logger.Info("switched profile", "profile", name)
	})
	tr.OnSettings(func() {
		if !cfg.Server.Enabled {
			return
		}
		if err := openBrowser("http://" + cfg.Server.Addr + "/api/status"); err != nil {
			logger.Warn("failed to open browser", "error", err)
		}
	})
	tr.OnQuit(quit)
	return tr
}

// trayedPipeline keeps the tray toggle in step with pauses made over HTTP.
type trayedPipeline struct {
	*app.App
	tray *tray.Tray
}

func (p *trayedPipeline) SetEnabled(enabled bool) {
	p.App.SetEnabled(enabled)
	if p.tray != nil {
		p.tray.SetEnabled(enabled)
	}
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
