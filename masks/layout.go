package masks

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lixenwraith/maskcmd/config"
	"github.com/lixenwraith/maskcmd/mask"
	"github.com/lixenwraith/maskcmd/registry"
)

// Registrar is the membership half of the aggregator
type Registrar interface {
	AddSource(src mask.CommandSource) error
	RemoveSource(src mask.CommandSource) error
}

type entry struct {
	cfg config.SourceConfig
	src mask.CommandSource
}

// Layout keeps the registered sources in step with configured source lists
// Sources are built through the factories in the registry, keyed by kind
//
// Apply must run on the frame driver goroutine, like the aggregator itself
type Layout struct {
	reg      Registrar
	viewport ViewportFunc
	log      *zap.Logger
	entries  []entry
}

// NewLayout creates an empty layout registering into reg
func NewLayout(reg Registrar, vp ViewportFunc, log *zap.Logger) *Layout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Layout{reg: reg, viewport: vp, log: log.Named("layout")}
}

// Apply reconciles registered sources with cfgs
// The longest unchanged prefix stays registered; everything after it is
// removed and re-added in configuration order so draw order follows cfgs.
// Entries that cannot be built are skipped and reported in the joined error
func (l *Layout) Apply(cfgs []config.SourceConfig) error {
	keep := 0
	for keep < len(l.entries) && keep < len(cfgs) && l.entries[keep].cfg == cfgs[keep] {
		keep++
	}
	if keep == len(l.entries) && keep == len(cfgs) {
		return nil
	}

	var errs []error
	removed := len(l.entries) - keep
	for i := len(l.entries) - 1; i >= keep; i-- {
		if err := l.reg.RemoveSource(l.entries[i].src); err != nil {
			errs = append(errs, err)
		}
	}
	clear(l.entries[keep:])
	l.entries = l.entries[:keep]

	added := 0
	for _, cfg := range cfgs[keep:] {
		src, err := l.build(cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("source %q: %w", cfg.Name, err))
			continue
		}
		if err := l.reg.AddSource(src); err != nil {
			errs = append(errs, err)
			// A failed rebuild still registers the source
			if !errors.Is(err, mask.ErrSourceFailed) {
				continue
			}
		}
		l.entries = append(l.entries, entry{cfg: cfg, src: src})
		added++
	}

	l.log.Debug("layout applied",
		zap.Int("kept", keep),
		zap.Int("removed", removed),
		zap.Int("added", added),
	)
	return errors.Join(errs...)
}

// Clear removes every source the layout registered
func (l *Layout) Clear() error {
	return l.Apply(nil)
}

// Len returns the number of sources the layout registered
func (l *Layout) Len() int {
	return len(l.entries)
}

// Sources returns the registered sources in configuration order
func (l *Layout) Sources() []mask.CommandSource {
	out := make([]mask.CommandSource, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.src
	}
	return out
}

func (l *Layout) build(cfg config.SourceConfig) (mask.CommandSource, error) {
	factory, ok := registry.GetSource(cfg.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
	v, err := factory(Spec{Config: cfg, Viewport: l.viewport})
	if err != nil {
		return nil, err
	}
	src, ok := v.(mask.CommandSource)
	if !ok {
		return nil, fmt.Errorf("factory for %q returned %T, not a command source", cfg.Kind, v)
	}
	return src, nil
}
