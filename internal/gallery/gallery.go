// Package gallery implements the plan gallery: category filtering with
// fade transitions, batched load-more, and the masonry layout pass.
package gallery

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
	"go.uber.org/zap"
)

// Masonry grid metrics (px).
const (
	rowHeight = 10.0
	rowGap    = 20.0
)

// ErrUnknownItem is returned when an item ID is not part of the gallery.
var ErrUnknownItem = errors.New("unknown gallery item")

// Item is one card of the masonry grid.
type Item struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Title    string  `json:"title"`
	Height   float64 `json:"height"`
}

// Style is the inline style applied to an item.
type Style struct {
	Display   string  `json:"display,omitempty"`
	Opacity   float64 `json:"opacity"`
	Transform string  `json:"transform,omitempty"`
}

// Step applies Style After the transition starts.
type Step struct {
	After time.Duration `json:"after"`
	Style Style         `json:"style"`
}

// Transition is the sequence of styles that shows or hides an item.
type Transition struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	Steps   []Step `json:"steps"`
}

// FilterResult is returned by Filter.
type FilterResult struct {
	Filter      string       `json:"filter"`
	Visible     []string     `json:"visible"`
	Transitions []Transition `json:"transitions"`
	// LayoutAfter is when the masonry layout should be recomputed.
	LayoutAfter   time.Duration `json:"layoutAfter"`
	HideLoadMore  bool          `json:"hideLoadMore"`
	UnknownFilter bool          `json:"unknownFilter,omitempty"`
}

// LoadMoreResult is returned by LoadMore.
type LoadMoreResult struct {
	Revealed     []string     `json:"revealed"`
	Transitions  []Transition `json:"transitions"`
	HideLoadMore bool         `json:"hideLoadMore"`
}

// Placement is an item's span in the masonry grid.
type Placement struct {
	ID      string `json:"id"`
	RowSpan int    `json:"rowSpan"`
}

// Gallery holds the items and which of them are displayed.
type Gallery struct {
	logger  *zap.Logger
	items   []Item
	visible map[string]bool
	filter  string
}

// New returns a gallery showing the first items up to the initial batch.
func New(logger *zap.Logger, items []Item) *Gallery {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gallery{
		logger:  logger,
		items:   items,
		visible: make(map[string]bool, len(items)),
		filter:  constants.GalleryFilterAll,
	}
	for i, item := range items {
		g.visible[item.ID] = i < constants.GalleryInitialVisible
	}
	return g
}

// Items returns every item in display order.
func (g *Gallery) Items() []Item {
	return g.items
}

// ActiveFilter returns the active filter token.
func (g *Gallery) ActiveFilter() string {
	return g.filter
}

// Visible returns the IDs of displayed items in display order.
func (g *Gallery) Visible() []string {
	ids := make([]string, 0, len(g.items))
	for _, item := range g.items {
		if g.visible[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// Categories returns the distinct categories in first-seen order.
func (g *Gallery) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range g.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}

// SetVisible replaces the displayed set, as when restoring a client's state.
func (g *Gallery) SetVisible(filter string, ids []string) error {
	index := make(map[string]bool, len(g.items))
	for _, item := range g.items {
		index[item.ID] = true
	}
	for _, id := range ids {
		if !index[id] {
			return fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
	}

	for id := range g.visible {
		g.visible[id] = false
	}
	for _, id := range ids {
		g.visible[id] = true
	}
	if filter == "" {
		filter = constants.GalleryFilterAll
	}
	g.filter = filter
	return nil
}

func matches(filter string, item Item) bool {
	return filter == constants.GalleryFilterAll || item.Category == filter
}

// Filter shows exactly the items in the category named by token, or every
// item for "all". An unknown category hides everything.
func (g *Gallery) Filter(token string) FilterResult {
	if token == "" {
		token = constants.GalleryFilterAll
	}
	g.filter = token

	result := FilterResult{Filter: token, LayoutAfter: constants.GalleryHideDelay}
	known := token == constants.GalleryFilterAll
	for _, item := range g.items {
		show := matches(token, item)
		known = known || show
		g.visible[item.ID] = show
		if show {
			result.Visible = append(result.Visible, item.ID)
			result.Transitions = append(result.Transitions, showTransition(item.ID, 0))
		} else {
			result.Transitions = append(result.Transitions, hideTransition(item.ID))
		}
	}
	result.UnknownFilter = !known
	result.HideLoadMore = !g.hasHidden()

	g.logger.Debug("gallery filtered",
		zap.String("op", "gallery.Filter"),
		zap.String("filter", token),
		zap.Int("visible", len(result.Visible)),
	)
	return result
}

// LoadMore reveals the next batch of hidden items that match the active
// filter, staggering each reveal.
func (g *Gallery) LoadMore() LoadMoreResult {
	var result LoadMoreResult
	for _, item := range g.items {
		if len(result.Revealed) == constants.GalleryLoadMoreBatch {
			break
		}
		if g.visible[item.ID] || !matches(g.filter, item) {
			continue
		}
		delay := time.Duration(len(result.Revealed)) * constants.GalleryStaggerStep
		g.visible[item.ID] = true
		result.Revealed = append(result.Revealed, item.ID)
		result.Transitions = append(result.Transitions, showTransition(item.ID, delay))
	}
	result.HideLoadMore = !g.hasHidden()

	g.logger.Debug("gallery batch loaded",
		zap.String("op", "gallery.LoadMore"),
		zap.Int("revealed", len(result.Revealed)),
		zap.Bool("hideLoadMore", result.HideLoadMore),
	)
	return result
}

func (g *Gallery) hasHidden() bool {
	for _, item := range g.items {
		if !g.visible[item.ID] && matches(g.filter, item) {
			return true
		}
	}
	return false
}

// Layout computes the masonry row span of every displayed item.
func (g *Gallery) Layout() []Placement {
	placements := make([]Placement, 0, len(g.items))
	for _, item := range g.items {
		if !g.visible[item.ID] {
			continue
		}
		span := int(math.Ceil((item.Height + rowGap) / (rowHeight + rowGap)))
		placements = append(placements, Placement{ID: item.ID, RowSpan: max(span, 1)})
	}
	return placements
}

func showTransition(id string, delay time.Duration) Transition {
	return Transition{
		ID:      id,
		Visible: true,
		Steps: []Step{
			{After: delay, Style: Style{Display: "block", Opacity: 0, Transform: "translateY(20px)"}},
			{After: delay, Style: Style{Display: "block", Opacity: 1, Transform: "translateY(0)"}},
		},
	}
}

func hideTransition(id string) Transition {
	return Transition{
		ID: id,
		Steps: []Step{
			{After: 0, Style: Style{Opacity: 0, Transform: "translateY(20px)"}},
			{After: constants.GalleryHideDelay, Style: Style{Display: "none", Opacity: 0, Transform: "translateY(20px)"}},
		},
	}
}
