package buildsim

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is advanced manually; the simulator is driven by explicit Tick
// calls (TickEvery < 0 disables the background runner).
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func manualSim(cfg Config, clk *fakeClock) *Simulator {
	cfg.Clock = clk.now
	cfg.TickEvery = -1
	return New(cfg)
}

func TestStart_UnknownTarget(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	s := manualSim(Config{}, clk)
	if _, err := s.Start(Target("playstation")); !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
	if s.Snapshot().State != StateIdle {
		t.Fatal("refused start must not transition")
	}
}

func TestStart_ChargeRefusalKeepsIdle(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	refused := errors.New("no credits")
	s := manualSim(Config{Charge: func(n int) error {
		if n != Cost {
			t.Fatalf("charge amount = %d, want %d", n, Cost)
		}
		return refused
	}}, clk)
	if _, err := s.Start(TargetAndroid); !errors.Is(err, refused) {
		t.Fatalf("expected charge error, got %v", err)
	}
	if s.Snapshot().State != StateIdle {
		t.Fatal("refused charge must not transition")
	}
}

func TestStart_BusyRefusal(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	s := manualSim(Config{}, clk)
	if _, err := s.Start(TargetIOS); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := s.Start(TargetAndroid); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestRun_MonotonicProgressAndCompletion(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	var done []Target
	s := manualSim(Config{OnDone: func(tg Target) { done = append(done, tg) }}, clk)

	snap, err := s.Start(TargetAndroid)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if snap.State != StateRunning || snap.Progress != 0 || snap.StageIndex != 0 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if snap.StageMessage != "Starting transpilation for ANDROID..." {
		t.Fatalf("unexpected first stage message: %q", snap.StageMessage)
	}

	prev := 0.0
	total := 700 + 1100 + 900 + 1600 + 1000 + 500 // ms
	for elapsed := 0; elapsed < total; elapsed += 100 {
		clk.advance(100 * time.Millisecond)
		if st := s.Tick(); st != StateRunning {
			t.Fatalf("machine left Running at %dms", elapsed+100)
		}
		got := s.Snapshot().Progress
		if got < prev {
			t.Fatalf("progress regressed: %f -> %f", prev, got)
		}
		prev = got
	}

	// Past the final stage the progress pins at 100 through the hold.
	clk.advance(100 * time.Millisecond)
	if st := s.Tick(); st != StateRunning {
		t.Fatal("hold phase should still report Running")
	}
	if got := s.Snapshot().Progress; got != 100 {
		t.Fatalf("progress = %f, want 100 during hold", got)
	}
	if len(done) != 0 {
		t.Fatal("OnDone fired before the hold elapsed")
	}

	clk.advance(700 * time.Millisecond)
	if st := s.Tick(); st != StateIdle {
		t.Fatal("expected Idle after the completion hold")
	}
	if len(done) != 1 || done[0] != TargetAndroid {
		t.Fatalf("OnDone calls = %v", done)
	}
}

func TestRun_AdvancesStagesByElapsedTime(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	s := manualSim(Config{}, clk)
	if _, err := s.Start(TargetWindows); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 700ms finishes stage 0 exactly; one big jump covers it whole.
	clk.advance(750 * time.Millisecond)
	s.Tick()
	snap := s.Snapshot()
	if snap.StageIndex != 1 {
		t.Fatalf("stage index = %d, want 1", snap.StageIndex)
	}
	if snap.StageMessage != "Converting web structures to native UI..." {
		t.Fatalf("unexpected stage message: %q", snap.StageMessage)
	}
	// Six stages split 100 evenly; stage 1 starts at 16.66.
	if snap.Progress < 100.0/6 {
		t.Fatalf("progress = %f, want >= %f", snap.Progress, 100.0/6)
	}
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	s := manualSim(Config{}, clk)
	ch, cancel := s.Subscribe()
	defer cancel()

	if _, err := s.Start(TargetIOS); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case snap := <-ch:
		if snap.State != StateRunning || snap.Target != TargetIOS {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	default:
		t.Fatal("expected a snapshot after Start")
	}

	cancel()
	if _, ok := <-ch; ok {
		t.Fatal("cancel should close the feed")
	}
}

func TestTargetExtension(t *testing.T) {
	cases := map[Target]string{TargetAndroid: "apk", TargetIOS: "ipa", TargetWindows: "exe"}
	for target, want := range cases {
		if got := target.Extension(); got != want {
			t.Fatalf("%s extension = %q, want %q", target, got, want)
		}
	}
}
