package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/echotone/internal/domain/model"
)

func testTargets() []model.Target {
	return []model.Target{
		{Index: 0, X: 100, Y: 300, Color: "#ff5964", Frequency: 261.63, TimeOffsetMs: 0},
		{Index: 1, X: 400, Y: 200, Color: "#ffb347", Frequency: 392.00, TimeOffsetMs: 500},
		{Index: 2, X: 700, Y: 100, Color: "#47d7ac", Frequency: 523.25, TimeOffsetMs: 1250},
	}
}

func TestBuildSchedule(t *testing.T) {
	s := BuildSchedule(7, testTargets())

	if s.Generation != 7 {
		t.Fatalf("generation = %d, want 7", s.Generation)
	}
	if len(s.Steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(s.Steps))
	}

	wantDelays := []float64{500, 750, 0}
	for i, step := range s.Steps {
		if step.Index != i {
			t.Errorf("step %d index = %d", i, step.Index)
		}
		if step.DelayToNextMs != wantDelays[i] {
			t.Errorf("step %d delay = %v, want %v", i, step.DelayToNextMs, wantDelays[i])
		}
	}

	if s.Steps[1].X != 400 || s.Steps[1].Frequency != 392.00 || s.Steps[1].Color != "#ffb347" {
		t.Errorf("step 1 did not carry target fields: %+v", s.Steps[1])
	}
}

func TestBuildScheduleEmpty(t *testing.T) {
	s := BuildSchedule(1, nil)
	if len(s.Steps) != 0 {
		t.Fatalf("expected no steps, got %d", len(s.Steps))
	}
}

func TestConductorPresentsAllSteps(t *testing.T) {
	var presented []int
	var slept []time.Duration

	c := NewConductor(
		WithPresenter(func(s Step) { presented = append(presented, s.Index) }),
		WithSleeper(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}),
	)

	if err := c.Play(context.Background(), BuildSchedule(1, testTargets())); err != nil {
		t.Fatalf("Play() error: %v", err)
	}

	if len(presented) != 3 || presented[0] != 0 || presented[1] != 1 || presented[2] != 2 {
		t.Fatalf("presented = %v, want [0 1 2]", presented)
	}
	// No hold after the final step.
	if len(slept) != 2 || slept[0] != 500*time.Millisecond || slept[1] != 750*time.Millisecond {
		t.Fatalf("slept = %v, want [500ms 750ms]", slept)
	}
}

func TestConductorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var presented []int
	c := NewConductor(
		WithPresenter(func(s Step) { presented = append(presented, s.Index) }),
		WithSleeper(func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	err := c.Play(ctx, BuildSchedule(1, testTargets()))
	if err == nil {
		t.Fatal("Play() should report the interruption")
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error should wrap context.Canceled, got %v", err)
	}
	if len(presented) != 1 {
		t.Fatalf("presented %d steps after cancel, want 1", len(presented))
	}
}

func TestConductorRefusesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	presented := 0
	c := NewConductor(WithPresenter(func(Step) { presented++ }))

	err := c.Play(ctx, BuildSchedule(1, testTargets()))
	if err == nil {
		t.Fatal("Play() should fail on a cancelled context")
	}
	if presented != 0 {
		t.Fatalf("presented %d steps on a cancelled context", presented)
	}
}

func TestConductorSingleStepNeverSleeps(t *testing.T) {
	slept := 0
	c := NewConductor(WithSleeper(func(context.Context, time.Duration) error {
		slept++
		return nil
	}))

	targets := testTargets()[:1]
	if err := c.Play(context.Background(), BuildSchedule(1, targets)); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if slept != 0 {
		t.Fatalf("slept %d times for a single step", slept)
	}
}

func TestDefaultSleeperHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleepWithContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("sleepWithContext on cancelled ctx = %v", err)
	}

	start := time.Now()
	if err := sleepWithContext(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("sleepWithContext error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("sleepWithContext took %v for 1ms", elapsed)
	}
}
