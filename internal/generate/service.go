// Package generate composes generation prompts from user input and session
// context, calls the external content service, and validates what comes back
// against the prototype model.
package generate

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"protostudio/internal/attachment"
	"protostudio/internal/llm"
	"protostudio/internal/prototype"
	"protostudio/internal/util/jsonutil"
)

const (
	iconConceptCount = 4
	iconCacheSize    = 128
)

// ErrEmptyInput is returned when neither prompt, source URL nor attachments
// were provided. Callers are expected to pre-check and treat this as a no-op.
var ErrEmptyInput = errors.New("generate: prompt, source URL or attachments required")

// GenerationError is the terminal failure of a generation call: transport
// error, empty payload, or a payload that fails parsing/validation. There is
// no retry at this layer; the user re-initiates the whole action.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate: %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// GenerateRequest is one user-initiated prototype generation.
type GenerateRequest struct {
	Prompt      string
	SourceURL   string
	Attachments []attachment.Attachment
	WithBackend bool
}

// IconConcept is one proposed icon art direction offered to the user before
// committing to image generation.
type IconConcept struct {
	ID          string `json:"id"`
	Style       string `json:"style"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// Service is stateless with respect to the rest of the system apart from the
// icon cache: identical icon prompts reuse the previously generated image
// instead of paying for another service call.
type Service struct {
	gen       llm.ContentGenerator
	iconCache *lru.Cache[string, string]
}

func New(gen llm.ContentGenerator) (*Service, error) {
	cache, err := lru.New[string, string](iconCacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{gen: gen, iconCache: cache}, nil
}

// Generate builds the structured prompt and returns a validated Prototype.
// DatabaseSchema is present only when req.WithBackend was set.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*prototype.Prototype, error) {
	if req.Prompt == "" && req.SourceURL == "" && len(req.Attachments) == 0 {
		return nil, ErrEmptyInput
	}
	prompt := buildPrompt(promptSpec{
		UserPrompt:  req.Prompt,
		SourceURL:   req.SourceURL,
		Attachments: req.Attachments,
		WithBackend: req.WithBackend,
	})
	raw, err := s.gen.GenerateJSON(ctx, prompt, prototypeSchema())
	if err != nil {
		return nil, &GenerationError{Stage: "call", Err: err}
	}
	if len(raw) == 0 {
		return nil, &GenerationError{Stage: "call", Err: llm.ErrInvalidJSON}
	}
	var p prototype.Prototype
	if err := jsonutil.UnmarshalRaw(raw, &p); err != nil {
		return nil, &GenerationError{Stage: "parse", Err: err}
	}
	if err := p.Validate(); err != nil {
		return nil, &GenerationError{Stage: "validate", Err: err}
	}
	if !req.WithBackend {
		p.DatabaseSchema = nil
	}
	return &p, nil
}

// IconConcepts asks the service for a small fixed-size list of icon art
// directions for the generated app.
func (s *Service) IconConcepts(ctx context.Context, appName, appDescription string) ([]IconConcept, error) {
	raw, err := s.gen.GenerateJSON(ctx, iconConceptsPrompt(appName, appDescription), iconConceptsSchema())
	if err != nil {
		return nil, &GenerationError{Stage: "call", Err: err}
	}
	var out struct {
		Concepts []IconConcept `json:"concepts"`
	}
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return nil, &GenerationError{Stage: "parse", Err: err}
	}
	if len(out.Concepts) == 0 {
		return nil, &GenerationError{Stage: "parse", Err: errors.New("no concepts returned")}
	}
	if len(out.Concepts) > iconConceptCount {
		out.Concepts = out.Concepts[:iconConceptCount]
	}
	return out.Concepts, nil
}

// AppIcon requests a 1:1 generated image and returns it as a data URI. When
// the service responds without image data the placeholder URL is substituted;
// that path is a soft failure, not an error.
func (s *Service) AppIcon(ctx context.Context, conceptPrompt string) (string, error) {
	prompt := iconImagePrompt(conceptPrompt)
	if cached, ok := s.iconCache.Get(prompt); ok {
		return cached, nil
	}
	data, mime, err := s.gen.GenerateImage(ctx, prompt, "1:1")
	if err != nil {
		if errors.Is(err, llm.ErrNoImage) {
			log.Printf("icon generation returned no image, using placeholder")
			return prototype.PlaceholderIconURL, nil
		}
		return "", &GenerationError{Stage: "image", Err: err}
	}
	uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	s.iconCache.Add(prompt, uri)
	return uri, nil
}

// ShareLink derives the cosmetic share URL for a prototype. Purely local.
func (s *Service) ShareLink(p *prototype.Prototype) string {
	return p.ShareLink()
}
