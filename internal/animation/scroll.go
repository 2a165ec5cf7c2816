package animation

import (
	"fmt"

	"github.com/eightweeks/fujimi-forecast/pkg/constants"
)

// NavVisible reports whether the navigation bar is shown at the given
// vertical scroll offset.
func NavVisible(offset float64) bool {
	return offset > constants.NavVisibilityOffset
}

// ParallaxOffset is the vertical shift applied to the hero banner.
func ParallaxOffset(offset float64) float64 {
	return offset * constants.ParallaxFactor
}

// ParallaxTransform renders the hero shift as a CSS transform.
func ParallaxTransform(offset float64) string {
	return fmt.Sprintf("translateY(%gpx)", ParallaxOffset(offset))
}

// ScrollFrame is the result of one scroll event. NavChanged is set when the
// navigation visibility differs from the previous event.
type ScrollFrame struct {
	Offset     float64 `json:"offset"`
	NavVisible bool    `json:"navVisible"`
	NavChanged bool    `json:"navChanged"`
	Parallax   float64 `json:"parallax"`
	Transform  string  `json:"transform"`
}

// ScrollState tracks the last scroll offset of a page.
type ScrollState struct {
	offset     float64
	navVisible bool
}

// Offset returns the last observed scroll offset.
func (s *ScrollState) Offset() float64 {
	return s.offset
}

// Update records a scroll event and returns the styles to apply.
func (s *ScrollState) Update(offset float64) ScrollFrame {
	visible := NavVisible(offset)
	frame := ScrollFrame{
		Offset:     offset,
		NavVisible: visible,
		NavChanged: visible != s.navVisible,
		Parallax:   ParallaxOffset(offset),
		Transform:  ParallaxTransform(offset),
	}
	s.offset = offset
	s.navVisible = visible
	return frame
}
