// Package core runs the launcher daemon: one goroutine owns the loaded
// configuration and serializes reloads, activations and control requests.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/config"
	"github.com/chess10kp/buttonlauncher/internal/dispatch"
	"github.com/chess10kp/buttonlauncher/internal/history"
	"github.com/chess10kp/buttonlauncher/internal/logging"
	"github.com/chess10kp/buttonlauncher/internal/search"
	"github.com/chess10kp/buttonlauncher/internal/watcher"
)

var (
	ErrAppAlreadyRunning = errors.New("app is already running")
	ErrAppNotRunning     = errors.New("app is not running")
	ErrHistoryDisabled   = errors.New("activation history is disabled")
)

const (
	StatusNoButtons = "No buttons found in configuration."
	statusLoaded    = "Configuration loaded (%s) at %s"
)

// Options wires the collaborators of an App. Dispatcher is required;
// History and Prompt may be nil. Prompt is told about failed loads.
type Options struct {
	Config     *config.Config
	Logger     *logging.Logger
	Dispatcher *dispatch.Dispatcher
	History    *history.Store
	Prompt     dispatch.UserPrompt
}

// Status summarizes the daemon state.
type Status struct {
	Message     string            `json:"message" yaml:"message"`
	ButtonsPath string            `json:"buttons_path" yaml:"buttons_path"`
	Version     string            `json:"version" yaml:"version"`
	GridColumns int               `json:"grid_columns" yaml:"grid_columns"`
	Buttons     int               `json:"buttons" yaml:"buttons"`
	Dropped     int               `json:"dropped" yaml:"dropped"`
	LoadedAt    time.Time         `json:"loaded_at" yaml:"loaded_at"`
	LastError   string            `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	Watching    bool              `json:"watching" yaml:"watching"`
	Activations dispatch.Stats    `json:"activations" yaml:"activations"`
	Search      search.CacheStats `json:"search" yaml:"search"`
}

type request struct {
	fn   func()
	done chan struct{}
}

type App struct {
	config     *config.Config
	logger     *logging.Logger
	dispatcher *dispatch.Dispatcher
	history    *history.Store
	prompt     dispatch.UserPrompt
	index      *search.Index
	watcher    *watcher.Watcher

	// Owned by the loop goroutine.
	current   *buttons.Configuration
	message   string
	loadedAt  time.Time
	lastError error

	requests chan request
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}

	mu      sync.Mutex
	running bool
	sigChan chan os.Signal
	now     func() time.Time
}

func NewApp(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	index, err := search.NewIndex(opts.Config.Search.CacheSize, opts.Config.Search.MaxResults)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:     opts.Config,
		logger:     logger,
		dispatcher: opts.Dispatcher,
		history:    opts.History,
		prompt:     opts.Prompt,
		index:      index,
		current:    buttons.Default(),
		message:    StatusNoButtons,
		requests:   make(chan request),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		sigChan:    make(chan os.Signal, 1),
		now:        time.Now,
	}

	if opts.Config.Watch.Enabled {
		delay := time.Duration(opts.Config.Watch.DebounceMs) * time.Millisecond
		w, err := watcher.New(opts.Config.ButtonsPath, delay, logger)
		if err != nil {
			return nil, err
		}
		a.watcher = w
	}

	return a, nil
}

// Run loads the configuration, starts watching it and processes requests
// until ctx is cancelled, Quit is called or the process is signalled.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAppAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()
	defer close(a.done)

	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.sigChan)

	a.logger.Info("[CORE] starting with %s", a.config.ButtonsPath)
	a.reload()
	a.refreshBoost()

	var reloads <-chan struct{}
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			a.logger.Error("[CORE] failed to watch configuration", err)
		} else {
			reloads = a.watcher.Reloads()
			defer a.watcher.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("[CORE] shutting down: %v", ctx.Err())
			return nil
		case <-a.quit:
			a.logger.Info("[CORE] quit requested")
			return nil
		case sig := <-a.sigChan:
			a.logger.Info("[CORE] received signal: %v", sig)
			return nil
		case <-reloads:
			a.reload()
		case req := <-a.requests:
			a.execute(req)
		}
	}
}

func (a *App) execute(req request) {
	defer close(req.done)
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("[CORE] request failed", fmt.Errorf("panic: %v", r))
		}
	}()
	req.fn()
}

// do runs fn on the loop goroutine and waits for it. Calls made before Run
// starts block until it does.
func (a *App) do(fn func()) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case a.requests <- req:
		<-req.done
		return nil
	case <-a.done:
		return ErrAppNotRunning
	}
}

// Quit stops the loop.
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// Done is closed once Run has returned.
func (a *App) Done() <-chan struct{} {
	return a.done
}

func (a *App) reload() error {
	cfg, err := buttons.Load(a.config.ButtonsPath)
	if err == nil {
		err = buttons.Validate(cfg, a.config.Strict)
	}
	if err != nil {
		a.lastError = err
		a.message = err.Error()
		a.logger.Error("failed to load configuration", err)
		a.notifyError(err)
		return err
	}

	a.current = cfg
	a.loadedAt = a.now()
	a.lastError = nil
	if cfg.IsEmpty() {
		a.message = StatusNoButtons
	} else {
		a.message = fmt.Sprintf(statusLoaded, cfg.Meta.Version, a.loadedAt.Format("15:04:05"))
	}
	if cfg.Dropped > 0 {
		a.logger.Info("[CORE] skipped %d buttons without a label", cfg.Dropped)
	}
	a.logger.Info("%s", a.message)
	return nil
}

func (a *App) notifyError(err error) {
	if a.prompt == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("error notification failed", fmt.Errorf("panic: %v", r))
		}
	}()
	a.prompt.NotifyError(err.Error())
}

// Reload re-reads the configuration file. On failure the previous
// configuration stays active.
func (a *App) Reload() error {
	var err error
	if doErr := a.do(func() { err = a.reload() }); doErr != nil {
		return doErr
	}
	return err
}

// Buttons returns a copy of the active entries.
func (a *App) Buttons() ([]buttons.Entry, error) {
	var out []buttons.Entry
	err := a.do(func() {
		out = make([]buttons.Entry, len(a.current.Buttons))
		copy(out, a.current.Buttons)
	})
	return out, err
}

// Activate dispatches the first active entry with the given id.
func (a *App) Activate(id string) (dispatch.Outcome, error) {
	var outcome dispatch.Outcome
	var err error
	doErr := a.do(func() {
		entry, _, ok := a.current.Find(id)
		if !ok {
			err = &buttons.UnknownButtonError{ID: id}
			return
		}
		outcome = a.dispatcher.Dispatch(entry)
		a.afterDispatch(outcome)
	})
	if doErr != nil {
		return outcome, doErr
	}
	return outcome, err
}

// ActivateIndex dispatches the entry at position i of the active list.
func (a *App) ActivateIndex(i int) (dispatch.Outcome, error) {
	var outcome dispatch.Outcome
	var err error
	doErr := a.do(func() {
		if i < 0 || i >= len(a.current.Buttons) {
			err = fmt.Errorf("button index %d out of range (have %d)", i, len(a.current.Buttons))
			return
		}
		outcome = a.dispatcher.Dispatch(a.current.Buttons[i])
		a.afterDispatch(outcome)
	})
	if doErr != nil {
		return outcome, doErr
	}
	return outcome, err
}

func (a *App) afterDispatch(outcome dispatch.Outcome) {
	if outcome.Status == dispatch.StatusCompleted {
		a.refreshBoost()
	}
}

// refreshBoost ranks search ties by how often and how recently each button
// was used.
func (a *App) refreshBoost() {
	if a.history == nil {
		return
	}
	scores, err := a.history.Frecency(history.DefaultHalfLife)
	if err != nil {
		a.logger.Error("[CORE] failed to read usage scores", err)
		return
	}
	a.index.SetBoost(scores)
}

func (a *App) Find(query string) ([]search.Match, error) {
	var matches []search.Match
	err := a.do(func() {
		matches = a.index.Search(query, a.current.Buttons)
	})
	return matches, err
}

func (a *App) Status() (Status, error) {
	var st Status
	err := a.do(func() {
		st = Status{
			Message:     a.message,
			ButtonsPath: a.config.ButtonsPath,
			Version:     a.current.Meta.Version,
			GridColumns: a.current.Meta.GridColumns,
			Buttons:     a.current.Len(),
			Dropped:     a.current.Dropped,
			LoadedAt:    a.loadedAt,
			Watching:    a.watcher != nil && a.watcher.Running(),
			Activations: a.dispatcher.Stats(),
			Search:      a.index.Stats(),
		}
		if a.lastError != nil {
			st.LastError = a.lastError.Error()
		}
	})
	return st, err
}

func (a *App) History(limit int) ([]history.Record, error) {
	if a.history == nil {
		return nil, ErrHistoryDisabled
	}
	var records []history.Record
	var err error
	if doErr := a.do(func() { records, err = a.history.Recent(limit) }); doErr != nil {
		return nil, doErr
	}
	return records, err
}
