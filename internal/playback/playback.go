// package playback binds one video to a playback engine and tracks minimal
// watch state.
//
// A Session walks Loading → Ready → {Playing ⇄ Paused} → Released, with
// NotFound terminal when the id does not resolve and Failed terminal when
// the engine cannot attach. The first transition into Playing records a
// watch event against the backend exactly once per Session; the guard is
// the transition itself, not a UI lifetime flag.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cine/internal/models"
	"github.com/desertthunder/cine/internal/services"
	"github.com/desertthunder/cine/internal/shared"
)

// State enumerates the playback session states.
type State int

const (
	Loading State = iota
	Ready
	Playing
	Paused
	NotFound
	Failed
	Released
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	case Released:
		return "released"
	default:
		return ""
	}
}

// WatchRecorder is the slice of the account API playback needs.
type WatchRecorder interface {
	RecordWatch(ctx context.Context, token, videoID string) error
}

// Session is one video bound to one engine instance.
//
// Sessions are single-use: after Release (or a terminal state) construct a
// new one. The engine never outlives the session.
type Session struct {
	mu       sync.Mutex
	state    State
	video    *models.Video
	catalog  services.Catalog
	recorder WatchRecorder
	engine   Engine
	token    string
	watched  bool
	released sync.Once
	logger   *log.Logger
}

// SessionOpts contains the dependencies for a playback session.
type SessionOpts struct {
	Catalog  services.Catalog
	Recorder WatchRecorder // optional; nil disables watch recording
	Engine   Engine
	Token    string // bearer token captured at session start; "" when anonymous
	Logger   *log.Logger
}

// NewSession creates a session in the Loading state.
func NewSession(opts SessionOpts) *Session {
	if opts.Engine == nil {
		opts.Engine = NullEngine{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Session{
		state:    Loading,
		catalog:  opts.Catalog,
		recorder: opts.Recorder,
		engine:   opts.Engine,
		token:    opts.Token,
		logger:   opts.Logger,
	}
}

// State returns the current session state.
func (p *Session) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Video returns the loaded descriptor, nil before Ready.
func (p *Session) Video() *models.Video {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.video
}

// Load fetches the video descriptor and attaches the engine to its stream.
//
// An unresolvable id moves the session to NotFound (terminal, user-visible,
// not a retry candidate); an engine attachment error moves it to Failed.
func (p *Session) Load(ctx context.Context, id string) error {
	p.mu.Lock()
	if p.state != Loading {
		p.mu.Unlock()
		return fmt.Errorf("cannot load in state %s", p.state)
	}
	p.mu.Unlock()

	video, err := p.catalog.FetchVideoByID(ctx, id)
	if err != nil {
		p.setState(NotFound)
		if errors.Is(err, shared.ErrVideoNotFound) {
			return fmt.Errorf("%w: %s", shared.ErrVideoNotFound, id)
		}
		return err
	}

	if err := p.engine.Attach(ctx, video.VideoURL); err != nil {
		p.setState(Failed)
		return fmt.Errorf("%w: %v", shared.ErrPlayerFailed, err)
	}

	p.mu.Lock()
	p.video = video
	p.state = Ready
	p.mu.Unlock()
	return nil
}

// Toggle flips between Playing and Paused.
//
// Ready and Paused transition to Playing; Playing transitions to Paused.
// The first entry into Playing records the watch, best-effort: a record
// failure is logged and never surfaces to the caller.
func (p *Session) Toggle(ctx context.Context) (State, error) {
	p.mu.Lock()

	var record bool
	switch p.state {
	case Ready, Paused:
		p.state = Playing
		if !p.watched {
			p.watched = true
			record = true
		}
	case Playing:
		p.state = Paused
	default:
		state := p.state
		p.mu.Unlock()
		return state, fmt.Errorf("cannot toggle playback in state %s", state)
	}

	state := p.state
	video := p.video
	p.mu.Unlock()

	if record {
		p.recordWatch(ctx, video)
	}

	return state, nil
}

// Release tears the engine down. Idempotent; the session is terminal after.
func (p *Session) Release() {
	p.released.Do(func() {
		if err := p.engine.Release(); err != nil {
			p.logger.Warnf("engine release failed: %v", err)
		}
		p.setState(Released)
	})
}

func (p *Session) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Session) recordWatch(ctx context.Context, video *models.Video) {
	if p.recorder == nil || p.token == "" || video == nil {
		return
	}
	if err := p.recorder.RecordWatch(ctx, p.token, video.ID); err != nil {
		p.logger.Warnf("failed to record watch for %s: %v", video.ID, err)
		return
	}
	p.logger.Debugf("recorded watch for %s", video.ID)
}
