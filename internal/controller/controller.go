package controller

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"sync"

	"github.com/neexbeast/travel-search/internal/travel"
)

// AlertMessage is the only failure text ever shown to the user.
const AlertMessage = "Something went wrong. Please try again."

var (
	// ErrSearchInProgress is returned when a submission arrives while one is still loading.
	ErrSearchInProgress = errors.New("search already in progress")

	// ErrUnexpectedFailure wraps any fetch or render failure.
	ErrUnexpectedFailure = errors.New("unexpected failure")
)

// State is the controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "idle"
}

// View is what the page shows for one session.
type View struct {
	Query       travel.SearchQuery
	Busy        bool
	ShowResults bool
	HotelCards  template.HTML
	FlightCards template.HTML
	Alert       string

	// Hotels and Flights count the offers behind the rendered cards.
	Hotels  int
	Flights int
}

// searcher is the interface satisfied by travel.Searcher.
type searcher interface {
	Search(ctx context.Context, q travel.SearchQuery) (*travel.Results, error)
}

// cardRenderer is the interface satisfied by render.Templates.
type cardRenderer interface {
	HotelCards(hotels []travel.HotelResult) (template.HTML, error)
	FlightCards(flights []travel.FlightResult) (template.HTML, error)
}

// Guard prevents the same key from loading twice, possibly across processes.
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Controller runs submissions for a single session.
type Controller struct {
	key      string
	searcher searcher
	renderer cardRenderer
	guard    Guard
	log      *slog.Logger

	mu    sync.Mutex
	state State
	view  View
}

// New constructs an idle Controller. guard may be nil.
func New(key string, s searcher, r cardRenderer, guard Guard, log *slog.Logger) *Controller {
	return &Controller{
		key:      key,
		searcher: s,
		renderer: r,
		guard:    guard,
		log:      log,
	}
}

// State reports whether a submission is currently loading.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the view to display. A pending alert is delivered once.
func (c *Controller) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.view
	c.view.Alert = ""
	return v
}

// Submit moves Idle → Loading, joins the hotel and flight fetches, renders
// the cards and moves back to Idle. On any failure the view carries the alert
// and no results. The busy flag is cleared on every exit path.
func (c *Controller) Submit(ctx context.Context, q travel.SearchQuery) (View, error) {
	if err := c.begin(ctx, q); err != nil {
		return c.snapshot(), err
	}
	defer c.finish(ctx)

	v, err := c.load(ctx, q)
	if err != nil {
		c.log.Error("search failed", "session", c.key, "destination", q.Destination, "err", err)
		return c.fail(q), fmt.Errorf("%w: %w", ErrUnexpectedFailure, err)
	}

	return c.succeed(v), nil
}

// begin performs the Idle → Loading transition and clears the previous results.
// The guard is consulted after the local claim, outside the lock; a refusal
// rolls the claim back and restores the previous view.
func (c *Controller) begin(ctx context.Context, q travel.SearchQuery) error {
	c.mu.Lock()
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrSearchInProgress
	}
	prev := c.view
	c.state = StateLoading
	c.view = View{Query: q, Busy: true}
	c.mu.Unlock()

	if c.guard == nil {
		return nil
	}

	ok, err := c.guard.Acquire(ctx, c.key)
	if err != nil {
		c.log.Warn("in-flight guard acquire failed", "session", c.key, "err", err)
		return nil
	}
	if !ok {
		c.mu.Lock()
		c.state = StateIdle
		c.view = prev
		c.mu.Unlock()
		return ErrSearchInProgress
	}
	return nil
}

// finish returns to Idle; runs on success and failure alike.
func (c *Controller) finish(ctx context.Context) {
	c.mu.Lock()
	c.state = StateIdle
	c.view.Busy = false
	c.mu.Unlock()

	if c.guard != nil {
		if err := c.guard.Release(context.WithoutCancel(ctx), c.key); err != nil {
			c.log.Warn("in-flight guard release failed", "session", c.key, "err", err)
		}
	}
}

// load runs the fork-join and renders both card lists into a result view.
func (c *Controller) load(ctx context.Context, q travel.SearchQuery) (v View, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rendering panicked: %v", r)
		}
	}()

	res, err := c.searcher.Search(ctx, q)
	if err != nil {
		return View{}, err
	}

	hotels, err := c.renderer.HotelCards(res.Hotels)
	if err != nil {
		return View{}, err
	}

	flights, err := c.renderer.FlightCards(res.Flights)
	if err != nil {
		return View{}, err
	}

	return View{
		Query:       q,
		ShowResults: true,
		HotelCards:  hotels,
		FlightCards: flights,
		Hotels:      len(res.Hotels),
		Flights:     len(res.Flights),
	}, nil
}

func (c *Controller) succeed(v View) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v.Busy = true
	c.view = v
	return c.idleCopy()
}

func (c *Controller) fail(q travel.SearchQuery) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view = View{Query: q, Busy: true, Alert: AlertMessage}
	v := c.idleCopy()
	// The caller renders this alert directly; don't show it again.
	c.view.Alert = ""
	return v
}

func (c *Controller) snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// idleCopy is the view as it will look once finish has run (lock held).
func (c *Controller) idleCopy() View {
	v := c.view
	v.Busy = false
	return v
}
