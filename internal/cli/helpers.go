package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/chomsky/internal/logging"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/ports"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// NewLogger configures the application logger from the --log-level flag.
// Logs always go to Stderr so Stdout stays clean for grammars and JSON-RPC.
func NewLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// ReadSource reads grammar text from path, or from stdin when path is empty or "-".
func ReadSource(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read grammar: %w", err)
	}
	return string(data), nil
}

// ResolveSource returns the grammar named in the library when name is set,
// and reads path (or stdin) otherwise. The start symbol is the library
// entry's declared start, if any.
func ResolveSource(ctx context.Context, lib ports.GrammarLibrary, name, path string, stdin io.Reader) (string, domain.Symbol, error) {
	if name == "" {
		src, err := ReadSource(path, stdin)
		return src, "", err
	}
	if path != "" {
		return "", "", errors.New("a grammar file and --from-library are mutually exclusive")
	}
	if lib == nil {
		return "", "", errors.New("no grammar library available")
	}
	entry, err := lib.Get(ctx, name)
	if err != nil {
		return "", "", err
	}
	return entry.Source, entry.Start, nil
}

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders v as JSON or YAML, or writes plain when format is text.
func Write(w io.Writer, format string, v any, plain string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		if plain != "" && !strings.HasSuffix(plain, "\n") {
			plain += "\n"
		}
		_, err := io.WriteString(w, plain)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
