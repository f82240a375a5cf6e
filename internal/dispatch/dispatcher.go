// Package dispatch executes button activations: it asks for confirmation
// where required, validates the target and performs the OS effect. Every
// failure is contained in the returned Outcome.
package dispatch

import (
	"fmt"
	"time"

	"github.com/chess10kp/buttonlauncher/internal/buttons"
	"github.com/chess10kp/buttonlauncher/internal/logging"
)

type Status int

const (
	StatusCompleted Status = iota
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "completed"
	}
}

// Outcome is the result of one activation.
type Outcome struct {
	EntryID  string
	Kind     buttons.ActionKind
	Status   Status
	Err      error
	Duration time.Duration
}

// UserPrompt is the interaction surface the dispatcher needs.
type UserPrompt interface {
	// Confirm returns true only on explicit approval.
	Confirm(question string) bool
	NotifyError(message string)
}

// Recorder receives every outcome, e.g. for activation history.
type Recorder interface {
	Record(entry buttons.Entry, outcome Outcome) error
}

type DisabledError struct {
	ID string
}

func (e *DisabledError) Error() string {
	return fmt.Sprintf("button '%s' is disabled", e.ID)
}

// ConfirmQuestion is the text shown before running a guarded action.
func ConfirmQuestion(entry buttons.Entry) string {
	return fmt.Sprintf("Run action '%s'?", entry.Label)
}

type Dispatcher struct {
	env      Env
	effector Effector
	prompt   UserPrompt
	logger   *logging.Logger
	recorder Recorder
	stats    *Stats
}

type Option func(*Dispatcher)

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

func New(env Env, effector Effector, prompt UserPrompt, logger *logging.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	d := &Dispatcher{
		env:      env,
		effector: effector,
		prompt:   prompt,
		logger:   logger,
		stats:    NewStats(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Stats() Stats {
	return d.stats.Snapshot()
}

// Dispatch runs one activation to completion. It never panics and never
// returns an error; the outcome carries the failure instead.
func (d *Dispatcher) Dispatch(entry buttons.Entry) (outcome Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			outcome = d.fail(entry, fmt.Errorf("panic during action: %v", r))
		}
		outcome.EntryID = entry.ID
		outcome.Kind = entry.Kind()
		outcome.Duration = time.Since(start)
		d.stats.Record(outcome)
		d.record(entry, outcome)
	}()

	if !entry.Enabled {
		return d.fail(entry, &DisabledError{ID: entry.ID})
	}

	if entry.RequiresConfirmation() && !d.prompt.Confirm(ConfirmQuestion(entry)) {
		d.logger.Info("action '%s' cancelled by user", entry.ID)
		return Outcome{Status: StatusCancelled}
	}

	effect, err := Plan(entry, d.env)
	if err != nil {
		return d.fail(entry, err)
	}
	if err := Perform(effect, d.effector); err != nil {
		return d.fail(entry, err)
	}

	d.logger.Info("action '%s' completed", entry.ID)
	return Outcome{Status: StatusCompleted}
}

func (d *Dispatcher) fail(entry buttons.Entry, err error) Outcome {
	d.logger.Error(fmt.Sprintf("failed to execute action '%s'", entry.ID), err)
	d.notify(err.Error())
	return Outcome{Status: StatusFailed, Err: err}
}

func (d *Dispatcher) notify(message string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Info("[DISPATCH] panic while reporting error: %v", r)
		}
	}()
	d.prompt.NotifyError(message)
}

func (d *Dispatcher) record(entry buttons.Entry, outcome Outcome) {
	if d.recorder == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Info("[DISPATCH] panic while recording '%s': %v", entry.ID, r)
		}
	}()
	if err := d.recorder.Record(entry, outcome); err != nil {
		d.logger.Error(fmt.Sprintf("[DISPATCH] failed to record activation of '%s'", entry.ID), err)
	}
}
