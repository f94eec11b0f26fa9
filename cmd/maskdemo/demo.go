package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/maskcmd/config"
	"github.com/lixenwraith/maskcmd/engine"
	"github.com/lixenwraith/maskcmd/mask"
	"github.com/lixenwraith/maskcmd/masks"
	"github.com/lixenwraith/maskcmd/render"
	"github.com/lixenwraith/maskcmd/status"
)

var randomLayers = []mask.Layer{mask.LayerClip, mask.LayerOverlay, mask.LayerInvert}

// demo owns interactive sources; every method touching the aggregator runs on the loop goroutine
type demo struct {
	screen   tcell.Screen
	loop     *engine.FrameLoop
	agg      *mask.Aggregator
	device   *render.TerminalDevice
	viewport masks.ViewportFunc
	log      *zap.Logger
	quit     context.CancelFunc

	cfg    *config.Config
	layout *masks.Layout
	added  []mask.CommandSource
	rng    *rand.Rand
}

func newDemo(screen tcell.Screen, loop *engine.FrameLoop, agg *mask.Aggregator, device *render.TerminalDevice,
	viewport masks.ViewportFunc, cfg *config.Config, log *zap.Logger, quit context.CancelFunc) *demo {
	return &demo{
		screen:   screen,
		loop:     loop,
		agg:      agg,
		device:   device,
		viewport: viewport,
		log:      log.Named("demo"),
		quit:     quit,
		cfg:      cfg,
		layout:   masks.NewLayout(agg, viewport, log),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// pollInput translates terminal events into loop jobs until ctx is done
func (d *demo) pollInput(ctx context.Context) error {
	for {
		ev := d.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			d.loop.Post(d.resize)
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				d.quit()
				continue
			}
			if ev.Key() != tcell.KeyRune {
				continue
			}
			switch ev.Rune() {
			case 'q':
				d.quit()
			case 'a':
				d.loop.Post(func() { d.addRandom(false) })
			case 'x':
				d.loop.Post(func() { d.addRandom(true) })
			case 'g':
				d.loop.Post(d.addGroup)
			case 'd':
				d.loop.Post(d.removeLast)
			case 'r':
				d.loop.Post(d.refresh)
			case 's':
				d.loop.Post(d.transitionScene)
			}
		}
	}
}

func (d *demo) randomArea() masks.Area {
	w := 0.1 + d.rng.Float32()*0.3
	h := 0.1 + d.rng.Float32()*0.3
	return masks.Area{
		X: d.rng.Float32() * (1 - w),
		Y: d.rng.Float32() * (1 - h),
		W: w,
		H: h,
	}
}

func (d *demo) addRandom(cutout bool) {
	var src mask.CommandSource
	if cutout {
		src = masks.NewCutout("", d.randomArea(), mask.LayerClip|mask.LayerOverlay, d.viewport)
	} else {
		layer := randomLayers[d.rng.IntN(len(randomLayers))]
		src = masks.NewRect("", d.randomArea(), layer, d.viewport)
	}
	d.add(src)
}

func (d *demo) addGroup() {
	area := d.randomArea()
	d.add(masks.NewGroup("",
		masks.NewRect("", area, mask.LayerClip, d.viewport),
		masks.NewOutline("", area, mask.LayerDebug, 1, d.viewport),
	))
}

func (d *demo) add(src mask.CommandSource) {
	d.added = append(d.added, src)
	d.report("add", d.agg.AddSource(src))
}

func (d *demo) removeLast() {
	if len(d.added) == 0 {
		return
	}
	src := d.added[len(d.added)-1]
	d.added = d.added[:len(d.added)-1]
	d.report("remove", d.agg.RemoveSource(src))
	d.clearIfEmpty()
}

func (d *demo) refresh() {
	d.report("refresh", d.agg.ForceRefresh())
}

func (d *demo) resize() {
	d.screen.Clear()
	d.device.SetViewport(d.viewport())
	d.refresh()
}

// transitionScene drops scene scoped handlers; in design-time mode that resets the
// aggregator, so configured sources are registered again like a freshly loaded scene
func (d *demo) transitionScene() {
	dropped := d.loop.TransitionScene()
	d.log.Info("scene transition", zap.Int("dropped", dropped))
	if d.agg.Initialized() {
		return
	}
	d.added = nil
	d.layout = masks.NewLayout(d.agg, d.viewport, d.log)
	d.applyLayout(d.cfg.Sources)
	d.clearIfEmpty()
}

// reload is called by the config watcher goroutine
func (d *demo) reload(cfg *config.Config) {
	d.loop.Post(func() {
		if cfg.FrameRate != d.cfg.FrameRate {
			d.log.Info("frame rate change applies on restart", zap.Int("frame_rate", cfg.FrameRate))
		}
		d.cfg = cfg
		d.applyLayout(cfg.Sources)
		d.clearIfEmpty()
	})
}

func (d *demo) applyLayout(cfgs []config.SourceConfig) {
	d.report("layout", d.layout.Apply(cfgs))
}

// clearIfEmpty wipes mask cells left by the last submission when nothing is registered
func (d *demo) clearIfEmpty() {
	if d.agg.Len() == 0 {
		d.screen.Clear()
	}
}

func (d *demo) report(action string, err error) {
	if err != nil {
		d.log.Warn(action+" failed", zap.Error(err))
		return
	}
	d.log.Debug(action, zap.Int("sources", d.agg.Len()))
}

// statusLine draws metrics on the last row each frame
type statusLine struct {
	screen tcell.Screen
	reg    *status.Registry
	style  tcell.Style
}

func newStatusLine(screen tcell.Screen, reg *status.Registry) *statusLine {
	return &statusLine{
		screen: screen,
		reg:    reg,
		style:  tcell.StyleDefault.Background(render.RgbStatusBar).Foreground(render.RgbStatusText),
	}
}

func (s *statusLine) Name() string {
	return "status-line"
}

func (s *statusLine) OnTick(frame uint64) {
	w, h := s.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	text := fmt.Sprintf(" #%d  %s  [a]dd [x]cut [g]roup [d]el [r]efresh [s]cene [q]uit",
		frame, strings.Join(s.reg.Lines("mask.", "engine.frames"), " "))

	runes := []rune(text)
	y := h - 1
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		s.screen.SetContent(x, y, r, nil, s.style)
	}
	s.screen.Show()
}
