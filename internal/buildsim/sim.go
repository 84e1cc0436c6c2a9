// Package buildsim runs the cosmetic platform-export animation: a timed,
// staged progress state machine with no artifact output. The "build output"
// shown afterwards is the same blueprint JSON and icon already in memory.
// This is a deliberate simulation, reproduced as designed — not a stub for a
// future compiler.
package buildsim

import (
	"errors"
	"sync"
	"time"
)

const (
	// Cost charges 3 credits per build, refused builds never transition.
	Cost = 3

	defaultTickEvery = 50 * time.Millisecond
	completionHold   = 600 * time.Millisecond
)

var (
	ErrBusy          = errors.New("buildsim: build already running")
	ErrUnknownTarget = errors.New("buildsim: unknown target")
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Snapshot is the externally visible progress of the machine at one tick.
// Progress is monotonically non-decreasing from 0 to 100 within a run.
type Snapshot struct {
	State        State   `json:"state"`
	Target       Target  `json:"target,omitempty"`
	StageIndex   int     `json:"stageIndex"`
	StageMessage string  `json:"stageMessage,omitempty"`
	Progress     float64 `json:"progress"`
}

// Config wires the simulator's effects. Clock and TickEvery exist so tests
// can simulate elapsed time instead of waiting on real timers.
type Config struct {
	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time
	// TickEvery is the cooperative tick period; 0 means the default, a
	// negative value disables the background runner entirely (the caller
	// drives Tick itself).
	TickEvery time.Duration
	// Charge consumes credits before a run starts; a returned error refuses
	// the run with no state transition. Nil means no charge.
	Charge func(n int) error
	// OnDone fires after the completion hold, once the machine is Idle
	// again. The shell uses it to switch to the build-output view.
	OnDone func(Target)
}

type Simulator struct {
	mu sync.Mutex

	clock     func() time.Time
	tickEvery time.Duration
	charge    func(int) error
	onDone    func(Target)

	state      State
	target     Target
	stages     []stage
	stageIdx   int
	stageStart time.Time
	progress   float64
	holdUntil  time.Time

	subs map[chan Snapshot]struct{}
}

func New(cfg Config) *Simulator {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	tick := cfg.TickEvery
	if tick == 0 {
		tick = defaultTickEvery
	}
	return &Simulator{
		clock:     clock,
		tickEvery: tick,
		charge:    cfg.Charge,
		onDone:    cfg.OnDone,
		state:     StateIdle,
		subs:      make(map[chan Snapshot]struct{}),
	}
}

// Start begins a simulated build for target. Refused outright while a build
// is running or when the credits charge is refused; neither case transitions
// the machine.
func (s *Simulator) Start(target Target) (Snapshot, error) {
	if !target.Valid() {
		return s.Snapshot(), ErrUnknownTarget
	}
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return s.Snapshot(), ErrBusy
	}
	if s.charge != nil {
		if err := s.charge(Cost); err != nil {
			s.mu.Unlock()
			return s.Snapshot(), err
		}
	}
	s.state = StateRunning
	s.target = target
	s.stages = buildStages(target)
	s.stageIdx = 0
	s.stageStart = s.clock()
	s.progress = 0
	s.holdUntil = time.Time{}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	if s.tickEvery > 0 {
		go s.run()
	}
	return snap, nil
}

// run is the cooperative per-frame loop. It never blocks anything but itself.
func (s *Simulator) run() {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for range ticker.C {
		if s.Tick() == StateIdle {
			return
		}
	}
}

// Tick advances the machine against the injected clock and returns the state
// after the step. Progress within a stage interpolates linearly from the
// stage's start percentage to its end percentage over elapsed time.
func (s *Simulator) Tick() State {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return StateIdle
	}
	now := s.clock()

	// Completion hold: progress stays pinned at 100 before returning Idle.
	if !s.holdUntil.IsZero() {
		if now.Before(s.holdUntil) {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			s.notify(snap)
			return StateRunning
		}
		target := s.target
		s.state = StateIdle
		s.target = ""
		snap := s.snapshotLocked()
		done := s.onDone
		s.mu.Unlock()
		s.notify(snap)
		if done != nil {
			done(target)
		}
		return StateIdle
	}

	// Advance whole stages the elapsed time has fully covered.
	for s.stageIdx < len(s.stages) && !now.Before(s.stageStart.Add(s.stages[s.stageIdx].duration)) {
		s.stageStart = s.stageStart.Add(s.stages[s.stageIdx].duration)
		s.stageIdx++
	}
	if s.stageIdx >= len(s.stages) {
		s.progress = 100
		s.holdUntil = now.Add(completionHold)
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
		return StateRunning
	}

	span := 100 / float64(len(s.stages))
	startP := float64(s.stageIdx) * span
	frac := float64(now.Sub(s.stageStart)) / float64(s.stages[s.stageIdx].duration)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	if p := startP + frac*span; p > s.progress {
		s.progress = p
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return StateRunning
}

// Snapshot returns the current externally visible state.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulator) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      s.state,
		Target:     s.target,
		StageIndex: s.stageIdx,
		Progress:   s.progress,
	}
	if s.state == StateRunning && s.stageIdx < len(s.stages) {
		snap.StageMessage = s.stages[s.stageIdx].message
	}
	return snap
}

// Subscribe registers a snapshot feed. The returned cancel must be called;
// slow subscribers drop snapshots rather than stall the tick loop.
func (s *Simulator) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 32)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Simulator) notify(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
