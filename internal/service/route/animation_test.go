package route

import (
	"testing"
	"time"
)

func TestAnimationProgress(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewAnimation(start, 800*time.Millisecond)

	if got := a.Progress(start); got != 0 {
		t.Fatalf("progress at start = %f, want 0", got)
	}
	if got := a.Progress(start.Add(400 * time.Millisecond)); got != 0.5 {
		t.Fatalf("progress at half = %f, want 0.5", got)
	}
	if got := a.Progress(start.Add(2 * time.Second)); got != 1 {
		t.Fatalf("progress past end = %f, want 1", got)
	}
	if got := a.Progress(start.Add(-time.Second)); got != 0 {
		t.Fatalf("progress before start = %f, want 0", got)
	}
}

func TestAnimationDone(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewAnimation(start, 800*time.Millisecond)

	if a.Done(start.Add(799 * time.Millisecond)) {
		t.Fatal("animation finished early")
	}
	if !a.Done(start.Add(800 * time.Millisecond)) {
		t.Fatal("animation must be done at the duration mark")
	}
}

func TestAnimationZeroValue(t *testing.T) {
	var a Animation
	if got := a.Progress(time.Now()); got != 0 {
		t.Fatalf("zero animation progress = %f, want 0", got)
	}
}

func TestAnimationZeroDuration(t *testing.T) {
	a := NewAnimation(time.Now(), 0)
	if got := a.Progress(time.Now()); got != 1 {
		t.Fatalf("zero duration must snap to 1, got %f", got)
	}
}
