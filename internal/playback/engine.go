package playback

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cine/internal/shared"
)

// Engine plays a stream URL. Attach starts playback of the given stream;
// Release stops it and frees whatever the engine holds.
type Engine interface {
	Attach(ctx context.Context, streamURL string) error
	Release() error
}

// PlayerEngine shells out to an external HLS-capable player (mpv by default).
//
// The player runs as a child process; Release kills it if it is still up.
type PlayerEngine struct {
	command string
	args    []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	logger *log.Logger
}

// NewPlayerEngine creates an engine for the configured player command.
func NewPlayerEngine(config shared.PlayerConfig, logger *log.Logger) *PlayerEngine {
	command := config.Command
	if command == "" {
		command = "mpv"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlayerEngine{command: command, args: config.Args, logger: logger}
}

// Attach launches the player against the stream URL.
func (e *PlayerEngine) Attach(ctx context.Context, streamURL string) error {
	if streamURL == "" {
		return fmt.Errorf("empty stream url")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return fmt.Errorf("player already attached")
	}

	if _, err := exec.LookPath(e.command); err != nil {
		return fmt.Errorf("player %q not found: %w", e.command, err)
	}

	args := append(append([]string{}, e.args...), streamURL)
	cmd := exec.CommandContext(ctx, e.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", e.command, err)
	}

	e.logger.Debugf("started %s (pid %d)", e.command, cmd.Process.Pid)
	e.cmd = cmd
	return nil
}

// Release stops the player process if it is still running.
func (e *PlayerEngine) Release() error {
	e.mu.Lock()
	cmd := e.cmd
	e.cmd = nil
	e.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to stop %s: %w", e.command, err)
	}
	// Reap the child; the exit error from a kill is expected.
	_ = cmd.Wait()
	return nil
}

// Wait blocks until the player process exits on its own (user closed the
// window). Returns immediately when nothing is attached.
func (e *PlayerEngine) Wait() error {
	e.mu.Lock()
	cmd := e.cmd
	e.mu.Unlock()

	if cmd == nil {
		return nil
	}
	err := cmd.Wait()

	e.mu.Lock()
	if e.cmd == cmd {
		e.cmd = nil
	}
	e.mu.Unlock()
	return err
}

// BrowserEngine opens the stream URL in the default browser. Fallback for
// setups without a local player installed.
type BrowserEngine struct{}

func (BrowserEngine) Attach(ctx context.Context, streamURL string) error {
	return shared.OpenBrowser(streamURL)
}

func (BrowserEngine) Release() error { return nil }

// NullEngine plays nothing. Used by the TUI, which tracks playback state
// without driving an external process per toggle.
type NullEngine struct{}

func (NullEngine) Attach(ctx context.Context, streamURL string) error { return nil }

func (NullEngine) Release() error { return nil }

// NewEngine picks an engine for the configured player command. The special
// command "browser" opens streams in the default browser.
func NewEngine(config shared.PlayerConfig, logger *log.Logger) Engine {
	if config.Command == "browser" {
		return BrowserEngine{}
	}
	return NewPlayerEngine(config, logger)
}
