// Package state provides the thread-safe chart request controller that
// owns the birth form, its validation errors and the request lifecycle.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/form"
	"github.com/litescript/ls-natal/internal/logging"
)

// Status is the phase of the chart request.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// RequestState is exactly one of Idle, Loading, Success(Data) or
// Error(Message). Use the constructors; Data and Message are only set for
// their own status.
type RequestState struct {
	Status  Status
	Data    *chart.Payload
	Message string
}

// Idle is the state before any submission.
func Idle() RequestState { return RequestState{Status: StatusIdle} }

// Loading is the state while a request is in flight.
func Loading() RequestState { return RequestState{Status: StatusLoading} }

// Succeeded holds the chart exactly as received.
func Succeeded(p *chart.Payload) RequestState {
	return RequestState{Status: StatusSuccess, Data: p}
}

// Failed holds a user-facing message.
func Failed(msg string) RequestState {
	return RequestState{Status: StatusError, Message: msg}
}

var (
	// ErrInvalidInput means the form failed validation; see Snapshot().Errors.
	ErrInvalidInput = errors.New("birth details are invalid")

	// ErrInFlight means a request is already loading.
	ErrInFlight = errors.New("a chart request is already in progress")
)

// TransportMessage is shown for network failures of any kind.
const TransportMessage = "Could not reach the chart service. Check your connection and try again."

// Ticket identifies one submission. Results for a stale ticket (after a
// Reset or a newer submission) are dropped.
type Ticket struct {
	Seq     uint64
	Request ephem.ChartRequest
}

// Attempt records one finished submission.
type Attempt struct {
	Request  ephem.ChartRequest `json:"request"`
	Started  time.Time          `json:"started"`
	Duration time.Duration      `json:"duration"`
	Status   Status             `json:"status"`
	Message  string             `json:"message,omitempty"`
}

// Config holds configuration for the controller.
type Config struct {
	MaxHistory int
	// Now supplies "today" for validation and timing. Defaults to time.Now.
	Now    func() time.Time
	Logger *logging.Logger
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistory: 20,
		Now:        time.Now,
	}
}

// Controller drives Idle -> Loading -> Success|Error. All methods are safe
// for concurrent use.
type Controller struct {
	mu sync.RWMutex

	provider ephem.Provider
	now      func() time.Time
	log      *logging.Logger

	input   form.Input
	errs    form.Errors
	state   RequestState
	request ephem.ChartRequest
	seq     uint64
	started time.Time

	// finished attempts (ring buffer)
	history    []Attempt
	maxHistory int
	writeAt    int
}

// NewController creates a controller that fetches charts from p.
func NewController(p ephem.Provider, cfg Config) *Controller {
	maxHistory := cfg.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 20
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{
		provider:   p,
		now:        now,
		log:        log.WithComponent("controller"),
		errs:       form.Errors{},
		state:      Idle(),
		maxHistory: maxHistory,
		history:    make([]Attempt, 0, maxHistory),
	}
}

// SetField edits one input and clears that field's error.
func (c *Controller) SetField(f form.Field, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = c.input.Set(f, v)
	delete(c.errs, f)
}

// SetInput replaces the whole form and clears all field errors.
func (c *Controller) SetInput(in form.Input) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
	c.errs = form.Errors{}
}

// Begin validates the form and, if valid, enters Loading. On
// ErrInvalidInput the error map is populated and the request state is left
// unchanged. A second Begin while Loading returns ErrInFlight.
func (c *Controller) Begin() (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status == StatusLoading {
		return Ticket{}, ErrInFlight
	}

	c.errs = form.Validate(c.input, c.now())
	if len(c.errs) > 0 {
		c.log.Debug("submission rejected: %d invalid fields", len(c.errs))
		return Ticket{}, ErrInvalidInput
	}

	c.seq++
	c.request = ephem.NewChartRequest(c.input)
	c.started = c.now()
	c.state = Loading()
	c.log.Info("requesting chart for %s %s, %s, %s",
		c.request.Date, c.request.Time, c.request.City, c.request.Country)

	return Ticket{Seq: c.seq, Request: c.request}, nil
}

// Execute calls the provider for t and resolves it. It always leaves the
// ticket's submission in Success or Error.
func (c *Controller) Execute(ctx context.Context, t Ticket) RequestState {
	p, err := c.provider.GenerateChart(ctx, t.Request)
	return c.Resolve(t, p, err)
}

// Resolve settles a submission with the provider's result. Results for a
// stale ticket are ignored and the current state is returned.
func (c *Controller) Resolve(t Ticket, p *chart.Payload, err error) RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.Seq != c.seq || c.state.Status != StatusLoading {
		c.log.Debug("dropping stale result for submission %d", t.Seq)
		return c.state
	}

	switch {
	case err != nil:
		c.state = Failed(ErrorMessage(err))
		c.log.Warn("chart request failed: %v", err)
	case p == nil:
		c.state = Failed(TransportMessage)
		c.log.Warn("chart request returned no data")
	default:
		c.state = Succeeded(p)
		c.log.Info("chart received: %d planets, %d houses", len(p.Planets), len(p.Houses))
	}

	c.addAttempt(Attempt{
		Request:  t.Request,
		Started:  c.started,
		Duration: c.now().Sub(c.started),
		Status:   c.state.Status,
		Message:  c.state.Message,
	})
	return c.state
}

// Submit is Begin followed by Execute.
func (c *Controller) Submit(ctx context.Context) (RequestState, error) {
	t, err := c.Begin()
	if err != nil {
		return c.State(), err
	}
	return c.Execute(ctx, t), nil
}

// Reset returns to Idle. The form and its errors are kept; an in-flight
// result arriving later is dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = Idle()
}

// Clear resets the state and empties the form.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = Idle()
	c.input = form.Input{}
	c.errs = form.Errors{}
}

// State returns the current request state.
func (c *Controller) State() RequestState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) addAttempt(a Attempt) {
	if len(c.history) < c.maxHistory {
		c.history = append(c.history, a)
	} else {
		c.history[c.writeAt] = a
		c.writeAt = (c.writeAt + 1) % c.maxHistory
	}
}

// historyOrdered returns attempts oldest first.
func (c *Controller) historyOrdered() []Attempt {
	if len(c.history) == 0 {
		return nil
	}
	if len(c.history) < c.maxHistory {
		out := make([]Attempt, len(c.history))
		copy(out, c.history)
		return out
	}
	out := make([]Attempt, c.maxHistory)
	for i := 0; i < c.maxHistory; i++ {
		out[i] = c.history[(c.writeAt+i)%c.maxHistory]
	}
	return out
}

// Snapshot is a consistent copy of the controller for rendering.
type Snapshot struct {
	Input   form.Input
	Errors  form.Errors
	State   RequestState
	Request ephem.ChartRequest
	History []Attempt
}

// CanSubmit reports whether the submit action should be enabled.
func (s Snapshot) CanSubmit() bool {
	return s.State.Status != StatusLoading
}

// Snapshot returns a consistent snapshot of current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	errs := make(form.Errors, len(c.errs))
	for k, v := range c.errs {
		errs[k] = v
	}

	return Snapshot{
		Input:   c.input,
		Errors:  errs,
		State:   c.state,
		Request: c.request,
		History: c.historyOrdered(),
	}
}

// ErrorMessage turns a provider error into user-facing text. Service
// rejections are shown verbatim; network failures get one generic message.
func ErrorMessage(err error) string {
	var se *ephem.ServiceError
	if errors.As(err, &se) {
		return se.Detail
	}
	var st *ephem.StatusError
	if errors.As(err, &st) {
		return st.Error()
	}
	return TransportMessage
}
