package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/maskcmd/config"
	"github.com/lixenwraith/maskcmd/core"
	"github.com/lixenwraith/maskcmd/engine"
	"github.com/lixenwraith/maskcmd/logging"
	"github.com/lixenwraith/maskcmd/manifest"
	"github.com/lixenwraith/maskcmd/mask"
	"github.com/lixenwraith/maskcmd/observability"
	"github.com/lixenwraith/maskcmd/render"
	"github.com/lixenwraith/maskcmd/service"
	"github.com/lixenwraith/maskcmd/status"
)

var (
	configPath = flag.String("config", "", "Config file, .toml or .yaml; watched for changes")
	debugFlag  = flag.Bool("debug", false, "Write debug logs to the log directory")
	traceFlag  = flag.Bool("trace", false, "Export rebuild and submit spans to the trace file")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "maskdemo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *traceFlag {
		cfg.Trace = true
	}

	log, closeLog, err := logging.New(logging.Options{Debug: cfg.Debug, Dir: cfg.LogDir})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, log, observability.TraceConfig{
		Enabled: cfg.Trace,
		File:    cfg.TraceFile,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	core.SetCrashFinalizer(screen.Fini)

	screen.SetStyle(tcell.StyleDefault.Background(render.RgbBackground))
	screen.Clear()

	// Last row is reserved for the status line
	viewport := func() image.Rectangle {
		w, h := screen.Size()
		return image.Rect(0, 0, w, max(h-1, 0))
	}

	reg := status.NewRegistry()
	loop := engine.NewFrameLoop(cfg.FrameInterval(), nil, reg, log)
	device := render.NewTerminalDevice(screen, log)
	device.SetViewport(viewport())

	mode := mask.HostRuntime
	if cfg.DesignTime {
		mode = mask.HostDesignTime
	}
	agg := mask.New(loop, device,
		mask.WithLogger(log),
		mask.WithStatus(reg),
		mask.WithHostMode(mode),
	)

	manifest.RegisterSources()

	ctx, quit := context.WithCancel(ctx)
	defer quit()

	d := newDemo(screen, loop, agg, device, viewport, cfg, log, quit)

	hub := service.NewHub(log)
	services := []service.Service{
		loop,
		mask.NewService(agg, loop, engine.LoopServiceName),
	}
	if *configPath != "" {
		services = append(services, config.NewWatchService(*configPath, log, d.reload, mask.ServiceName))
	}
	for _, svc := range services {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}

	if err := hub.InitAll(); err != nil {
		return err
	}

	// Loop is not running yet, so the layout can be applied inline
	d.applyLayout(cfg.Sources)
	loop.Subscribe(newStatusLine(screen, reg), mask.ScopeSession)

	if err := hub.StartAll(); err != nil {
		return err
	}
	log.Info("maskdemo started",
		zap.Strings("services", hub.Names()),
		zap.Duration("frame", cfg.FrameInterval()),
		zap.Bool("design_time", cfg.DesignTime),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.pollInput(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		// Wake PollEvent so the input goroutine can observe cancellation
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	err = g.Wait()
	hub.StopAll()
	log.Info("maskdemo stopped", zap.Uint64("frames", loop.Frame()))
	return err
}
