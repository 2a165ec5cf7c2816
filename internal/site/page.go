// Package site holds the landing page controller: the state behind the
// calculator sliders, scroll effects, reveal animations, plan gallery and
// contact form of a single open page.
package site

import (
	"fmt"
	"sync"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/animation"
	"github.com/eightweeks/fujimi-forecast/internal/gallery"
	"github.com/eightweeks/fujimi-forecast/internal/projection"
	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"github.com/eightweeks/fujimi-forecast/pkg/format"
	"github.com/eightweeks/fujimi-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Display element IDs written by the calculator.
const (
	DisplayTotalRevenue  = "total-revenue"
	DisplayTotalProfit   = "total-profit"
	DisplayPaybackPeriod = "payback-period"
	DisplayPropertyCount = "property-count-value"
	DisplayOccupancyRate = "occupancy-rate-value"
)

const heroStatsElement = "hero-stats"

// Update is the result of a slider change.
type Update struct {
	Projection projection.Projection `json:"projection"`
	Values     map[string]string     `json:"values"`
}

// Options configures a Page.
type Options struct {
	Gallery        []gallery.Item
	RevealElements []animation.Element
	Reveal         animation.RevealOptions
	ResizeDelay    time.Duration
	// OnLayout receives the masonry placements after each debounced layout pass.
	OnLayout func([]gallery.Placement)
}

// DefaultOptions returns the landing page setup: the default gallery, the
// hero statistics and the fade-in sections.
func DefaultOptions() Options {
	return Options{
		Gallery: gallery.DefaultItems(),
		RevealElements: []animation.Element{
			{ID: heroStatsElement, Counters: []animation.Counter{
				{ID: "stat-properties", Target: constants.MaxPropertyCount},
				{ID: "stat-occupancy", Target: constants.DefaultOccupancyPercent},
				{ID: "stat-payback", Target: 6},
			}},
			{ID: "about"},
			{ID: "business-model"},
			{ID: "calculator"},
			{ID: "gallery"},
			{ID: "contact"},
		},
		Reveal:      animation.DefaultRevealOptions(),
		ResizeDelay: constants.ResizeDebounce,
	}
}

// Page is the controller of one open landing page. Methods are safe for
// concurrent use; the debounced layout pass runs on its own goroutine.
type Page struct {
	logger *zap.Logger
	calc   *projection.Calculator

	mu               sync.Mutex
	propertyCount    int
	occupancyPercent float64
	current          projection.Projection
	scroll           animation.ScrollState
	reveal           *animation.RevealController
	gallery          *gallery.Gallery
	layout           *animation.Debouncer
	onLayout         func([]gallery.Placement)
	form             ContactForm
}

// NewPage builds a page and runs the initial calculation at the default
// slider positions.
func NewPage(logger *zap.Logger, calc *projection.Calculator, opts Options) (*Page, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Page{
		logger:   logger,
		calc:     calc,
		reveal:   animation.NewRevealController(logger, opts.Reveal),
		gallery:  gallery.New(logger, opts.Gallery),
		onLayout: opts.OnLayout,
	}
	for _, el := range opts.RevealElements {
		p.reveal.Observe(el)
	}
	p.layout = animation.NewDebouncer(opts.ResizeDelay, p.runLayout)

	if _, err := p.SetSliders(constants.DefaultPropertyCount, constants.DefaultOccupancyPercent); err != nil {
		return nil, fmt.Errorf("initial calculation: %w", err)
	}
	return p, nil
}

// SetSliders recomputes the projection for new slider positions and returns
// the text of every display element.
func (p *Page) SetSliders(propertyCount int, occupancyPercent float64) (Update, error) {
	if err := validation.ValidatePropertyCount(propertyCount); err != nil {
		return Update{}, err
	}
	if err := validation.ValidateOccupancyPercent(occupancyPercent); err != nil {
		return Update{}, err
	}

	proj, err := p.calc.ComputePercent(propertyCount, occupancyPercent)
	if err != nil {
		return Update{}, err
	}

	p.mu.Lock()
	p.propertyCount = propertyCount
	p.occupancyPercent = occupancyPercent
	p.current = proj
	p.mu.Unlock()

	return newUpdate(proj), nil
}

func newUpdate(proj projection.Projection) Update {
	display := proj.Display()
	return Update{
		Projection: proj,
		Values: map[string]string{
			DisplayTotalRevenue:  display.Revenue,
			DisplayTotalProfit:   display.Profit,
			DisplayPaybackPeriod: display.Payback,
			DisplayPropertyCount: fmt.Sprintf("%d件", proj.PropertyCount),
			DisplayOccupancyRate: format.Rate(proj.OccupancyRate),
		},
	}
}

// Current returns the last computed update.
func (p *Page) Current() Update {
	p.mu.Lock()
	defer p.mu.Unlock()
	return newUpdate(p.current)
}

// Sliders returns the current slider positions.
func (p *Page) Sliders() (int, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.propertyCount, p.occupancyPercent
}

// Scroll applies a scroll event.
func (p *Page) Scroll(offset float64) animation.ScrollFrame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scroll.Update(offset)
}

// Reveal checks the observed elements against the viewport.
func (p *Page) Reveal(viewportHeight float64, positions map[string]animation.Bounds, now time.Time) []animation.RevealEvent {
	return p.reveal.Check(viewportHeight, positions, now)
}

// RevealState returns the reveal state of an element.
func (p *Page) RevealState(id string) animation.RevealState {
	return p.reveal.State(id)
}

// FilterGallery applies a gallery filter and schedules the layout pass.
func (p *Page) FilterGallery(token string) gallery.FilterResult {
	p.mu.Lock()
	result := p.gallery.Filter(token)
	p.mu.Unlock()

	p.layout.Trigger()
	return result
}

// LoadMore reveals the next gallery batch.
func (p *Page) LoadMore() gallery.LoadMoreResult {
	p.mu.Lock()
	result := p.gallery.LoadMore()
	p.mu.Unlock()

	p.layout.Trigger()
	return result
}

// Resize schedules a layout pass, collapsing bursts of resize events.
func (p *Page) Resize() {
	p.layout.Trigger()
}

func (p *Page) runLayout() {
	p.mu.Lock()
	placements := p.gallery.Layout()
	onLayout := p.onLayout
	p.mu.Unlock()

	p.logger.Debug("gallery layout",
		zap.String("op", "site.runLayout"),
		zap.Int("items", len(placements)),
	)
	if onLayout != nil {
		onLayout(placements)
	}
}

// SubmitContact validates the form, resets it and returns the confirmation.
func (p *Page) SubmitContact(form ContactForm) (ContactConfirmation, error) {
	confirmation, err := AcceptContact(p.logger, form)
	if err != nil {
		return ContactConfirmation{}, err
	}

	p.mu.Lock()
	p.form = ContactForm{}
	p.mu.Unlock()
	return confirmation, nil
}

// Draft stores a partially filled form.
func (p *Page) Draft(form ContactForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = form
}

// Form returns the form as currently filled.
func (p *Page) Form() ContactForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

// Close cancels a pending layout pass.
func (p *Page) Close() {
	p.layout.Stop()
}
