package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu        sync.Mutex
	crashFinalizer func()
	crashOutput    io.Writer = os.Stderr
	crashExit                = os.Exit
)

// SetCrashFinalizer registers the cleanup run before a crash report
// Hosts register screen teardown here so the report lands on a sane terminal
func SetCrashFinalizer(fn func()) {
	crashMu.Lock()
	defer crashMu.Unlock()
	crashFinalizer = fn
}

// HandleCrash is the unified panic handler: finalize, print stack trace, exit
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	fin := crashFinalizer
	out := crashOutput
	exit := crashExit
	crashMu.Unlock()

	if fin != nil {
		fin()
	}

	fmt.Fprintf(out, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(out, "Stack Trace:\n%s\n", debug.Stack())

	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use instead of the go keyword so a crash restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
