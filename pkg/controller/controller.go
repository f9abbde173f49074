package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-postgen/pkg/client"
	"github.com/goliatone/go-postgen/pkg/content"
)

// ErrDescriptionRequired is returned by Submit when the description is empty.
var ErrDescriptionRequired = errors.New("controller: description is required")

// Listener observes result transitions. It runs synchronously on the
// goroutine that performed the transition and must not call back into the
// controller's Submit.
type Listener func(content.Result)

// Observer receives submission outcomes, typically for metrics.
type Observer interface {
	ObserveSubmission(outcome content.State, elapsed time.Duration)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitialForm seeds the form state instead of the defaults.
func WithInitialForm(form content.FormState) Option {
	return func(c *Controller) {
		c.form = form
	}
}

// WithObserver registers a submission observer.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithClock overrides the time source used for submission durations.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns the form state and the single Result the results panel
// renders. Result is Loading exactly while a submission is in flight.
type Controller struct {
	generator client.Generator
	logger    *zap.Logger
	observer  Observer
	now       func() time.Time

	mu        sync.Mutex
	form      content.FormState
	result    content.Result
	inFlight  int
	listeners []subscription
	nextID    int
}

type subscription struct {
	id       int
	listener Listener
}

// New constructs a Controller in the Idle state with the default form.
func New(generator client.Generator, options ...Option) (*Controller, error) {
	if generator == nil {
		return nil, errors.New("controller: generator is required")
	}
	c := &Controller{
		generator: generator,
		logger:    zap.NewNop(),
		now:       time.Now,
		form:      content.DefaultFormState(),
		result:    content.Idle(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Form returns a snapshot of the current field values.
func (c *Controller) Form() content.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetDescription replaces the description field.
func (c *Controller) SetDescription(description string) {
	c.mu.Lock()
	c.form.Description = description
	c.mu.Unlock()
}

// SetTone replaces the tone field.
func (c *Controller) SetTone(tone content.Tone) {
	c.mu.Lock()
	c.form.Tone = tone
	c.mu.Unlock()
}

// SetStyle replaces the style field.
func (c *Controller) SetStyle(style content.Style) {
	c.mu.Lock()
	c.form.Style = style
	c.mu.Unlock()
}

// SetForm replaces every field at once.
func (c *Controller) SetForm(form content.FormState) {
	c.mu.Lock()
	c.form = form
	c.mu.Unlock()
}

// Result returns the current result snapshot.
func (c *Controller) Result() content.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Busy reports whether a submission is in flight. Surfaces disable their
// submit control while it is true.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.IsLoading()
}

// Subscribe registers a listener for every subsequent transition and returns
// a function that removes it.
func (c *Controller) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, subscription{id: id, listener: listener})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, sub := range c.listeners {
				if sub.id == id {
					c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Submit sends the current form to the generation API and returns the
// terminal result. It moves the result to Loading, issues exactly one request
// and replaces the result with Success or Error once the response arrives.
//
// Submissions are not de-duplicated: when two overlap, whichever response
// lands last decides the final result.
func (c *Controller) Submit(ctx context.Context) (content.Result, error) {
	if ctx == nil {
		return content.Result{}, errors.New("controller: context is required")
	}

	c.mu.Lock()
	form := c.form
	if !form.HasDescription() {
		c.mu.Unlock()
		return c.Result(), ErrDescriptionRequired
	}
	c.inFlight++
	c.setResultLocked(content.Loading())
	listeners := c.snapshotListenersLocked()
	c.mu.Unlock()
	notify(listeners, content.Loading())

	started := c.now()
	c.logger.Info("submitting form",
		zap.String("tone", string(form.Tone)),
		zap.String("style", string(form.Style)),
	)

	resp, err := c.generator.Generate(ctx, form.Request())

	var result content.Result
	if err != nil {
		result = content.Failed(client.Message(err))
		c.logger.Warn("submission failed", zap.Error(err), zap.String("message", result.Message))
	} else {
		result = content.Succeeded(resp)
		c.logger.Info("submission succeeded", zap.Int("content_len", len(resp.Content)))
	}

	c.mu.Lock()
	c.inFlight--
	published := c.settleLocked(result)
	listeners = c.snapshotListenersLocked()
	c.mu.Unlock()
	if published {
		notify(listeners, result)
	}

	if c.observer != nil {
		c.observer.ObserveSubmission(result.State, c.now().Sub(started))
	}
	return result, nil
}

// Reset restores the default form and, when nothing is in flight, the Idle
// result.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.form = content.DefaultFormState()
	if c.inFlight > 0 {
		c.mu.Unlock()
		return
	}
	c.setResultLocked(content.Idle())
	listeners := c.snapshotListenersLocked()
	c.mu.Unlock()
	notify(listeners, content.Idle())
}

func (c *Controller) setResultLocked(result content.Result) {
	c.result = result
}

// settleLocked records a terminal result. While other submissions are still
// in flight the result stays Loading; the last one to settle is published.
func (c *Controller) settleLocked(result content.Result) bool {
	if c.inFlight > 0 {
		return false
	}
	c.result = result
	return true
}

func (c *Controller) snapshotListenersLocked() []Listener {
	if len(c.listeners) == 0 {
		return nil
	}
	out := make([]Listener, 0, len(c.listeners))
	for _, sub := range c.listeners {
		out = append(out, sub.listener)
	}
	return out
}

func notify(listeners []Listener, result content.Result) {
	for _, listener := range listeners {
		listener(result)
	}
}
