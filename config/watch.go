package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lixenwraith/maskcmd/core"
)

// WatchServiceName is the hub name of the config watcher
const WatchServiceName = "config-watch"

// Watch reloads path whenever it changes and passes valid configs to onChange
// The parent directory is watched so editors that replace the file are seen
// Invalid reloads are logged and skipped. Watching stops when ctx is done
func Watch(ctx context.Context, path string, log *zap.Logger, onChange func(*Config)) error {
	if log == nil {
		log = zap.NewNop()
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	core.Go(func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				cfg, err := Load(target)
				if err != nil {
					log.Warn("config reload rejected", zap.String("path", target), zap.Error(err))
					continue
				}
				log.Info("config reloaded", zap.String("path", target), zap.Int("sources", len(cfg.Sources)))
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", zap.Error(err))
			}
		}
	})
	return nil
}

// WatchService runs Watch for the lifetime of the hub
type WatchService struct {
	path     string
	log      *zap.Logger
	onChange func(*Config)
	deps     []string
	cancel   context.CancelFunc
}

// NewWatchService creates a watcher service; deps are started first
func NewWatchService(path string, log *zap.Logger, onChange func(*Config), deps ...string) *WatchService {
	return &WatchService{path: path, log: log, onChange: onChange, deps: deps}
}

func (s *WatchService) Name() string {
	return WatchServiceName
}

func (s *WatchService) Dependencies() []string {
	return s.deps
}

func (s *WatchService) Init(args ...any) error {
	if s.path == "" {
		return fmt.Errorf("config watcher needs a file path")
	}
	return nil
}

func (s *WatchService) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	if err := Watch(ctx, s.path, s.log, s.onChange); err != nil {
		cancel()
		return err
	}
	s.cancel = cancel
	return nil
}

func (s *WatchService) Stop() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}
