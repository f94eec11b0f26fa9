package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultDir  = "logs"
	DefaultFile = "maskdemo.log"

	// MaxFileSize is the size past which the previous log is moved aside on startup
	MaxFileSize = 10 * 1024 * 1024
)

// Options selects where and whether to log
type Options struct {
	Debug bool
	Dir   string
	File  string
}

// New builds the process logger
// Without Debug it returns a no-op logger; the terminal belongs to the renderer,
// so nothing is ever written to stdout or stderr. The returned func syncs and
// closes the file
func New(opts Options) (*zap.Logger, func(), error) {
	if !opts.Debug {
		return zap.NewNop(), func() {}, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	file := opts.File
	if file == "" {
		file = DefaultFile
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, file)
	if err := rotate(path); err != nil {
		return nil, nil, fmt.Errorf("rotate log: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.DebugLevel)
	log := zap.New(core, zap.AddCaller())

	closeFn := func() {
		_ = log.Sync()
		_ = f.Close()
	}
	return log, closeFn, nil
}

// rotate keeps a single previous generation at path.old
func rotate(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() <= MaxFileSize {
		return nil
	}
	return os.Rename(path, path+".old")
}
