package animation

import (
	"context"
	"errors"
	"testing"
	"time"
)

var epoch = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func TestCountUpValues(t *testing.T) {
	c := NewCountUp(100, 2000*time.Millisecond, epoch)

	tests := []struct {
		elapsed  time.Duration
		expected int
	}{
		{0, 0},
		{10 * time.Millisecond, 0},
		{500 * time.Millisecond, 25},
		{1000 * time.Millisecond, 50},
		{1999 * time.Millisecond, 99},
		{2000 * time.Millisecond, 100},
		{5000 * time.Millisecond, 100},
	}

	for _, tt := range tests {
		got := c.Value(epoch.Add(tt.elapsed))
		if got != tt.expected {
			t.Errorf("Value(+%v) = %d, expected %d", tt.elapsed, got, tt.expected)
		}
	}
	if !c.Done() {
		t.Error("expected count-up to be done")
	}
}

func TestCountUpMonotoneWithUnevenFrames(t *testing.T) {
	c := NewCountUp(100, 2000*time.Millisecond, epoch)
	offsets := []int{0, 16, 17, 50, 49, 300, 301, 1200, 900, 1999, 2100}

	prev := -1
	for _, ms := range offsets {
		v := c.Value(epoch.Add(time.Duration(ms) * time.Millisecond))
		if v < prev {
			t.Fatalf("value decreased from %d to %d at %dms", prev, v, ms)
		}
		if v > 100 {
			t.Fatalf("value %d exceeds end", v)
		}
		prev = v
	}
	if prev != 100 {
		t.Errorf("expected final value 100, got %d", prev)
	}
}

func TestCountUpDoneLatches(t *testing.T) {
	c := NewCountUp(40, time.Second, epoch)
	c.Value(epoch.Add(2 * time.Second))

	if got := c.Value(epoch); got != 40 {
		t.Errorf("expected latched end value, got %d", got)
	}
}

func TestCountUpZeroDuration(t *testing.T) {
	c := NewCountUp(7, 0, epoch)
	if got := c.Value(epoch); got != 7 || !c.Done() {
		t.Errorf("expected immediate completion, got %d done=%v", got, c.Done())
	}
}

func TestCountUpRun(t *testing.T) {
	c := NewCountUp(100, 2000*time.Millisecond, epoch)
	frames := make(chan time.Time, 8)
	for _, ms := range []int{0, 700, 1400, 2100, 2800} {
		frames <- epoch.Add(time.Duration(ms) * time.Millisecond)
	}

	var rendered []int
	if err := c.Run(context.Background(), frames, func(v int) { rendered = append(rendered, v) }); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	expected := []int{0, 35, 70, 100}
	if len(rendered) != len(expected) {
		t.Fatalf("rendered %v, expected %v", rendered, expected)
	}
	for i := range expected {
		if rendered[i] != expected[i] {
			t.Errorf("frame %d rendered %d, expected %d", i, rendered[i], expected[i])
		}
	}
	if len(frames) != 1 {
		t.Errorf("expected Run to stop after completion, %d frames left", len(frames))
	}
}

func TestCountUpRunCancelled(t *testing.T) {
	c := NewCountUp(100, time.Second, epoch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Run(ctx, make(chan time.Time), func(int) {})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCountUpRunClosedFrames(t *testing.T) {
	c := NewCountUp(100, time.Second, epoch)
	frames := make(chan time.Time)
	close(frames)

	if err := c.Run(context.Background(), frames, func(int) {}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if c.Done() {
		t.Error("expected unfinished count-up after frames closed")
	}
}
