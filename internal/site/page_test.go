package site

import (
	"errors"
	"testing"
	"time"

	"github.com/eightweeks/fujimi-forecast/internal/animation"
	"github.com/eightweeks/fujimi-forecast/internal/config"
	"github.com/eightweeks/fujimi-forecast/internal/gallery"
	"github.com/eightweeks/fujimi-forecast/internal/projection"
	"go.uber.org/zap"
)

func newTestPage(t *testing.T, opts Options) *Page {
	t.Helper()
	calc, err := projection.NewCalculator(zap.NewNop(), config.DefaultConfiguration().Calculator)
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}
	page, err := NewPage(zap.NewNop(), calc, opts)
	if err != nil {
		t.Fatalf("NewPage() error = %v", err)
	}
	t.Cleanup(page.Close)
	return page
}

func TestNewPageComputesDefaults(t *testing.T) {
	page := newTestPage(t, DefaultOptions())

	count, percent := page.Sliders()
	if count != 10 || percent != 33 {
		t.Fatalf("expected default sliders 10 / 33, got %d / %v", count, percent)
	}

	values := page.Current().Values
	expected := map[string]string{
		DisplayTotalRevenue:  "3,000万円",
		DisplayTotalProfit:   "1,933万円",
		DisplayPaybackPeriod: "6.3年",
		DisplayPropertyCount: "10件",
		DisplayOccupancyRate: "33%",
	}
	for id, want := range expected {
		if values[id] != want {
			t.Errorf("%s = %q, expected %q", id, values[id], want)
		}
	}
}

func TestSetSliders(t *testing.T) {
	page := newTestPage(t, DefaultOptions())

	tests := []struct {
		name      string
		count     int
		percent   float64
		expectErr bool
	}{
		{"Minimum", 1, 10, false},
		{"Maximum", 50, 80, false},
		{"Count below range", 0, 33, true},
		{"Count above range", 51, 33, true},
		{"Occupancy below range", 10, 5, true},
		{"Occupancy above range", 10, 81, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := page.SetSliders(tt.count, tt.percent)
			if (err != nil) != tt.expectErr {
				t.Fatalf("SetSliders() error = %v, expectErr %v", err, tt.expectErr)
			}
			if tt.expectErr {
				return
			}
			if update.Projection.PropertyCount != tt.count {
				t.Errorf("projection count = %d", update.Projection.PropertyCount)
			}
			if len(update.Values) != 5 {
				t.Errorf("expected 5 display values, got %d", len(update.Values))
			}
		})
	}

	count, percent := page.Sliders()
	if count != 50 || percent != 80 {
		t.Errorf("rejected input changed sliders to %d / %v", count, percent)
	}
}

func TestScroll(t *testing.T) {
	page := newTestPage(t, DefaultOptions())

	frame := page.Scroll(400)
	if !frame.NavVisible || frame.Transform != "translateY(200px)" {
		t.Errorf("unexpected frame %+v", frame)
	}
	if page.Scroll(20).NavVisible {
		t.Error("navigation visible near the top")
	}
}

func TestRevealHeroStats(t *testing.T) {
	page := newTestPage(t, DefaultOptions())
	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	events := page.Reveal(800, map[string]animation.Bounds{
		heroStatsElement: {Top: 300, Height: 120},
		"contact":        {Top: 2400, Height: 500},
	}, now)

	if len(events) != 1 || events[0].ID != heroStatsElement {
		t.Fatalf("expected only hero stats to reveal, got %+v", events)
	}
	if len(events[0].CountUps) != 3 {
		t.Errorf("expected 3 counters, got %d", len(events[0].CountUps))
	}
	if page.RevealState("contact") != animation.Hidden {
		t.Error("contact section revealed while off screen")
	}
}

func TestGalleryLayoutIsDebounced(t *testing.T) {
	layouts := make(chan []gallery.Placement, 4)
	opts := DefaultOptions()
	opts.ResizeDelay = 20 * time.Millisecond
	opts.OnLayout = func(p []gallery.Placement) { layouts <- p }
	page := newTestPage(t, opts)

	result := page.FilterGallery(gallery.CategoryNature)
	if len(result.Visible) != 4 {
		t.Fatalf("expected 4 nature items, got %d", len(result.Visible))
	}
	page.Resize()
	page.Resize()

	select {
	case placements := <-layouts:
		if len(placements) != 4 {
			t.Errorf("expected layout of 4 items, got %d", len(placements))
		}
	case <-time.After(time.Second):
		t.Fatal("layout pass never ran")
	}

	select {
	case extra := <-layouts:
		t.Errorf("unexpected second layout pass %v", extra)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestLoadMore(t *testing.T) {
	page := newTestPage(t, DefaultOptions())

	if got := len(page.LoadMore().Revealed); got != 6 {
		t.Errorf("expected 6 revealed items, got %d", got)
	}
	if !page.LoadMore().HideLoadMore {
		t.Error("expected load-more hidden after the second batch")
	}
}

func TestSubmitContact(t *testing.T) {
	page := newTestPage(t, DefaultOptions())
	form := ContactForm{Name: "山田 太郎", Email: "taro@example.jp", Message: "投資プランについて伺いたいです。"}
	page.Draft(form)

	confirmation, err := page.SubmitContact(form)
	if err != nil {
		t.Fatalf("SubmitContact() error = %v", err)
	}
	if confirmation.Message != ConfirmationMessage {
		t.Errorf("unexpected confirmation %q", confirmation.Message)
	}
	if !confirmation.Form.IsZero() || !page.Form().IsZero() {
		t.Error("expected the form to be reset")
	}
}

func TestSubmitContactValidation(t *testing.T) {
	page := newTestPage(t, DefaultOptions())

	tests := []struct {
		name     string
		form     ContactForm
		expected error
	}{
		{"Missing name", ContactForm{Email: "a@example.jp", Message: "hi"}, ErrMissingField},
		{"Blank message", ContactForm{Name: "A", Email: "a@example.jp", Message: "  "}, ErrMissingField},
		{"Bad email", ContactForm{Name: "A", Email: "not-an-email", Message: "hi"}, ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page.Draft(tt.form)
			if _, err := page.SubmitContact(tt.form); !errors.Is(err, tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
			if page.Form() != tt.form {
				t.Error("rejected form must be kept")
			}
		})
	}
}
