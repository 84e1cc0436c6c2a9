// Package credits tracks the consumable daily-resetting counter gating paid
// actions. The ledger is process-wide state: loaded at startup, mutated on
// every credit-consuming action and on day rollover, persisted after every
// mutation.
package credits

import (
	"errors"
	"sync"
	"time"
)

// ErrInsufficientCredits signals a refused consumption. It is surfaced as a
// paywall prompt, not a terminal failure.
var ErrInsufficientCredits = errors.New("credits: insufficient credits")

const dateLayout = "2006-01-02"

type Plan string

const (
	PlanFree  Plan = "free"
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPro:
		return true
	}
	return false
}

// Ceiling is the daily reset amount for the plan. The pro ceiling is not a
// real cap — it is large enough that the balance effectively never binds.
func (p Plan) Ceiling() int {
	switch p {
	case PlanBasic:
		return 50
	case PlanPro:
		return 999
	default:
		return 10
	}
}

// Record is the persisted credits state.
type Record struct {
	Available int    `json:"available"`
	LastReset string `json:"lastReset"`
	Plan      Plan   `json:"plan"`
}

// Store persists the single credits record.
type Store interface {
	// Load returns the record and whether one existed.
	Load() (Record, bool, error)
	Save(Record) error
}

// Ledger is the credits state machine. The clock is injected so day rollover
// is testable without waiting for midnight.
//
// Consumption is only blocked on the free plan; paid plans can be driven to
// the zero floor but never refused. That asymmetry is deliberate product
// behavior, preserved as observed.
type Ledger struct {
	mu    sync.Mutex
	rec   Record
	store Store
	now   func() time.Time
}

// NewLedger loads the persisted record, defaulting to a fresh free plan when
// none exists. A nil clock means time.Now.
func NewLedger(store Store, now func() time.Time) (*Ledger, error) {
	if now == nil {
		now = time.Now
	}
	l := &Ledger{store: store, now: now}
	rec, ok, err := store.Load()
	if err != nil {
		return nil, err
	}
	if !ok || !rec.Plan.Valid() {
		rec = Record{
			Available: PlanFree.Ceiling(),
			LastReset: now().Format(dateLayout),
			Plan:      PlanFree,
		}
		if err := store.Save(rec); err != nil {
			return nil, err
		}
	}
	l.rec = rec
	return l, nil
}

// Rollover applies the daily reset guard and returns the current record. It
// is idempotent within a calendar day and safe to invoke on every read.
func (l *Ledger) Rollover() (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rolloverLocked()
}

func (l *Ledger) rolloverLocked() (Record, error) {
	today := l.now().Format(dateLayout)
	if l.rec.LastReset == today {
		return l.rec, nil
	}
	l.rec.Available = l.rec.Plan.Ceiling()
	l.rec.LastReset = today
	if err := l.store.Save(l.rec); err != nil {
		return l.rec, err
	}
	return l.rec, nil
}

// Consume charges n credits. On the free plan an insufficient balance refuses
// the charge and leaves the record unchanged; other plans proceed and floor
// at zero. The rollover guard runs first.
func (l *Ledger) Consume(n int) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.rolloverLocked(); err != nil {
		return l.rec, err
	}
	if l.rec.Plan == PlanFree && l.rec.Available < n {
		return l.rec, ErrInsufficientCredits
	}
	l.rec.Available -= n
	if l.rec.Available < 0 {
		l.rec.Available = 0
	}
	if err := l.store.Save(l.rec); err != nil {
		return l.rec, err
	}
	return l.rec, nil
}

// SetPlan switches the plan and resets the balance to the new ceiling, the
// way an upgrade takes effect immediately.
func (l *Ledger) SetPlan(p Plan) (Record, error) {
	if !p.Valid() {
		return l.Record(), errors.New("credits: unknown plan")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rec.Plan = p
	l.rec.Available = p.Ceiling()
	l.rec.LastReset = l.now().Format(dateLayout)
	if err := l.store.Save(l.rec); err != nil {
		return l.rec, err
	}
	return l.rec, nil
}

// Record returns the current state after applying the rollover guard.
func (l *Ledger) Record() Record {
	rec, _ := l.Rollover()
	return rec
}
