package animation

import (
	"sort"
	"sync"
	"time"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"go.uber.org/zap"
)

// RevealState is the lifecycle of an observed element.
type RevealState int

const (
	// Hidden is the initial state, styled with reduced opacity and an offset.
	Hidden RevealState = iota
	// Revealed is terminal.
	Revealed
)

func (s RevealState) String() string {
	if s == Revealed {
		return "revealed"
	}
	return "hidden"
}

// Counter is a numeric display inside a count-up container.
type Counter struct {
	ID     string `json:"id"`
	Target int    `json:"target"`
}

// Element is an element registered with the reveal controller. Elements
// with counters are count-up containers and stop being observed after
// they first reveal.
type Element struct {
	ID       string
	Counters []Counter
}

// Bounds is an element's position relative to the top of the viewport.
type Bounds struct {
	Top    float64
	Height float64
}

// RevealEvent describes one element crossing into view.
type RevealEvent struct {
	ID       string
	CountUps map[string]*CountUp
}

// RevealOptions configures a RevealController.
type RevealOptions struct {
	Threshold       float64
	BottomMargin    float64
	CountUpDuration time.Duration
}

// DefaultRevealOptions returns the landing page settings.
func DefaultRevealOptions() RevealOptions {
	return RevealOptions{
		Threshold:       constants.RevealThreshold,
		BottomMargin:    constants.RevealBottomMargin,
		CountUpDuration: constants.DefaultCountUpDuration,
	}
}

type tracked struct {
	element Element
	state   RevealState
}

// RevealController tracks observed elements and reveals them once enough
// of each is inside the viewport.
type RevealController struct {
	logger *zap.Logger
	opts   RevealOptions

	mu       sync.Mutex
	elements map[string]*tracked
	states   map[string]RevealState
}

// NewRevealController returns an empty controller.
func NewRevealController(logger *zap.Logger, opts RevealOptions) *RevealController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevealController{
		logger:   logger,
		opts:     opts,
		elements: make(map[string]*tracked),
		states:   make(map[string]RevealState),
	}
}

// Observe starts tracking el. Elements that already revealed and were
// unobserved are not tracked again.
func (r *RevealController) Observe(el Element) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.states[el.ID] == Revealed {
		return
	}
	r.elements[el.ID] = &tracked{element: el}
	r.states[el.ID] = Hidden
}

// Unobserve stops tracking the element with the given ID.
func (r *RevealController) Unobserve(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.elements, id)
}

// Observed reports whether the element is still tracked.
func (r *RevealController) Observed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.elements[id]
	return ok
}

// State returns the element's reveal state. Unknown elements are Hidden.
func (r *RevealController) State(id string) RevealState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[id]
}

// VisibleFraction returns how much of b lies inside a viewport of the given
// height once its bottom edge is pulled up by margin.
func VisibleFraction(b Bounds, viewportHeight, margin float64) float64 {
	bottom := viewportHeight - margin
	if b.Height <= 0 {
		if b.Top >= 0 && b.Top <= bottom {
			return 1
		}
		return 0
	}
	overlap := min(b.Top+b.Height, bottom) - max(b.Top, 0)
	if overlap <= 0 {
		return 0
	}
	return overlap / b.Height
}

// Check evaluates every tracked element against the viewport. Elements
// without an entry in positions are skipped. Newly revealed elements are
// returned in ID order; count-up containers get one started CountUp per
// counter and are unobserved.
func (r *RevealController) Check(viewportHeight float64, positions map[string]Bounds, now time.Time) []RevealEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.elements))
	for id := range r.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var events []RevealEvent
	for _, id := range ids {
		t := r.elements[id]
		b, ok := positions[id]
		if !ok {
			continue
		}
		if VisibleFraction(b, viewportHeight, r.opts.BottomMargin) < r.opts.Threshold {
			continue
		}

		if t.state == Revealed {
			continue
		}
		t.state = Revealed
		r.states[id] = Revealed

		event := RevealEvent{ID: id}
		if len(t.element.Counters) > 0 {
			event.CountUps = make(map[string]*CountUp, len(t.element.Counters))
			for _, c := range t.element.Counters {
				event.CountUps[c.ID] = NewCountUp(c.Target, r.opts.CountUpDuration, now)
			}
			delete(r.elements, id)
		}

		r.logger.Debug("element revealed",
			zap.String("op", "animation.Check"),
			zap.String("id", id),
			zap.Int("counters", len(event.CountUps)),
		)
		events = append(events, event)
	}
	return events
}
