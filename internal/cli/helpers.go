package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/circuitlab/internal/logging"
)

// SignalContext is a context cancelled by SIGINT or SIGTERM that remembers which signal
// arrived, so shutdown messages can name it.
type SignalContext struct {
	context.Context
	Cancel func()

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext starts listening for SIGINT and SIGTERM until parent is done or
// Cancel is called.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// NewLogger configures the application logger on Stderr, keeping Stdout for command
// output. Debug mode overrides the configured level.
func NewLogger(debug bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}

// PrintSystemMessage prints a standardized system message.
func PrintSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
