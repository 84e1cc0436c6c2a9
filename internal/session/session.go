// Package session owns the single active studio session: the current
// prototype, its icon and concepts, attachments, the generation status flag
// and the runtime log ring. The prototype is replaced wholesale on each
// successful generation; a failed generation leaves the previous one
// untouched.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"protostudio/internal/attachment"
	"protostudio/internal/credits"
	"protostudio/internal/generate"
	"protostudio/internal/prototype"
)

const (
	// GenerateCost covers one prototype generation including the first icon.
	GenerateCost = 2
	// IconCost covers one icon re-generation from a chosen concept.
	IconCost = 1

	logCap = 9
)

// ErrBusy is returned while a generation is already in flight. The status
// flag is the reentrancy guard: at most one generation runs at a time, which
// also rules out a stale result overwriting a newer one.
var ErrBusy = errors.New("session: generation in flight")

// Status mirrors the original shell's generation phases.
type Status string

const (
	StatusIdle             Status = "idle"
	StatusAnalyzingContext Status = "analyzing_context"
	StatusThinking         Status = "thinking"
	StatusGeneratingAssets Status = "generating_assets"
	StatusSuccess          Status = "success"
	StatusError            Status = "error"
)

func (s Status) inFlight() bool {
	switch s {
	case StatusAnalyzingContext, StatusThinking, StatusGeneratingAssets:
		return true
	}
	return false
}

// GenerateInput is the user-facing half of a generation request; attachments
// come from the session's own registry.
type GenerateInput struct {
	Prompt      string
	SourceURL   string
	WithBackend bool
}

// Result is everything one successful generation produces.
type Result struct {
	Prototype *prototype.Prototype   `json:"prototype"`
	Icon      string                 `json:"icon"`
	Concepts  []generate.IconConcept `json:"concepts"`
	ShareLink string                 `json:"shareLink"`
}

type Session struct {
	gen         *generate.Service
	ledger      *credits.Ledger
	attachments *attachment.Registry
	now         func() time.Time

	mu        sync.Mutex
	status    Status
	proto     *prototype.Prototype
	icon      string
	concepts  []generate.IconConcept
	shareLink string
	logs      []string
}

func New(gen *generate.Service, ledger *credits.Ledger, attachments *attachment.Registry, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		gen:         gen,
		ledger:      ledger,
		attachments: attachments,
		now:         now,
		status:      StatusIdle,
	}
}

// Generate runs the full flow: charge credits, compose and send the prompt,
// store the prototype, fetch icon concepts, render the first icon, derive the
// share link. Attachments are consumed (cleared) on completion.
func (s *Session) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	atts := s.attachments.List()
	if in.Prompt == "" && in.SourceURL == "" && len(atts) == 0 {
		return nil, generate.ErrEmptyInput
	}

	s.mu.Lock()
	if s.status.inFlight() {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if _, err := s.ledger.Consume(GenerateCost); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.status = StatusAnalyzingContext
	s.addLogLocked(fmt.Sprintf("Processing input: %s", describeInput(in, atts)))
	s.mu.Unlock()

	s.setStatus(StatusThinking)
	proto, err := s.gen.Generate(ctx, generate.GenerateRequest{
		Prompt:      in.Prompt,
		SourceURL:   in.SourceURL,
		Attachments: atts,
		WithBackend: in.WithBackend,
	})
	if err != nil {
		s.fail("input analysis failed", err)
		return nil, err
	}

	// Commit the prototype before asset generation: a later asset failure
	// keeps the generated app.
	s.mu.Lock()
	s.proto = proto
	s.shareLink = s.gen.ShareLink(proto)
	s.status = StatusGeneratingAssets
	s.mu.Unlock()

	concepts, err := s.gen.IconConcepts(ctx, proto.Name, proto.Description)
	if err != nil {
		s.fail("icon concepts failed", err)
		return nil, err
	}
	icon, err := s.gen.AppIcon(ctx, concepts[0].Prompt)
	if err != nil {
		s.fail("icon generation failed", err)
		return nil, err
	}

	s.mu.Lock()
	s.concepts = concepts
	s.icon = icon
	s.status = StatusSuccess
	s.addLogLocked("Preliminary compilation finished.")
	res := &Result{Prototype: s.proto, Icon: s.icon, Concepts: s.concepts, ShareLink: s.shareLink}
	s.mu.Unlock()

	s.attachments.Clear()
	return res, nil
}

// RegenerateIcon renders a fresh icon from one of the stored concepts.
func (s *Session) RegenerateIcon(ctx context.Context, conceptID string) (string, error) {
	s.mu.Lock()
	if s.status.inFlight() {
		s.mu.Unlock()
		return "", ErrBusy
	}
	var concept *generate.IconConcept
	for i := range s.concepts {
		if s.concepts[i].ID == conceptID {
			concept = &s.concepts[i]
			break
		}
	}
	if concept == nil {
		s.mu.Unlock()
		return "", fmt.Errorf("session: unknown icon concept %q", conceptID)
	}
	if _, err := s.ledger.Consume(IconCost); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.status = StatusGeneratingAssets
	s.addLogLocked(fmt.Sprintf("Rebuilding visual identity: %s...", concept.Style))
	prompt := concept.Prompt
	s.mu.Unlock()

	icon, err := s.gen.AppIcon(ctx, prompt)
	if err != nil {
		s.fail("icon generation failed", err)
		return "", err
	}
	s.mu.Lock()
	s.icon = icon
	s.status = StatusSuccess
	s.addLogLocked("Visual assets synchronized.")
	s.mu.Unlock()
	return icon, nil
}

// Prototype returns the current prototype, if any.
func (s *Session) Prototype() (*prototype.Prototype, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proto, s.proto != nil
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Icon() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.icon
}

func (s *Session) Concepts() []generate.IconConcept {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]generate.IconConcept, len(s.concepts))
	copy(out, s.concepts)
	return out
}

func (s *Session) ShareLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shareLink
}

// Logs returns the runtime log ring, oldest first.
func (s *Session) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out
}

// AddLog appends a timestamped line to the log ring.
func (s *Session) AddLog(msg string) {
	s.mu.Lock()
	s.addLogLocked(msg)
	s.mu.Unlock()
}

func (s *Session) addLogLocked(msg string) {
	line := fmt.Sprintf("[%s] %s", s.now().Format("15:04:05"), msg)
	s.logs = append(s.logs, line)
	if len(s.logs) > logCap {
		s.logs = s.logs[len(s.logs)-logCap:]
	}
}

func (s *Session) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Session) fail(msg string, err error) {
	log.Printf("session: %s: %v", msg, err)
	s.mu.Lock()
	s.status = StatusError
	s.addLogLocked("Critical error: " + msg)
	s.mu.Unlock()
}

func describeInput(in GenerateInput, atts []attachment.Attachment) string {
	switch {
	case in.SourceURL != "":
		return "URL"
	default:
		for _, a := range atts {
			if a.Kind == attachment.KindImage {
				return "mockups"
			}
		}
		if len(atts) > 0 {
			return "archive"
		}
		return "text"
	}
}
