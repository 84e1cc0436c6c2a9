// Package llm is the boundary to the external generative content service.
// The rest of the system depends only on ContentGenerator; the concrete
// provider is an implementation detail behind it.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

var (
	// ErrInvalidJSON is returned when the model produced no usable JSON part.
	ErrInvalidJSON = errors.New("llm: invalid JSON from model")
	// ErrNoImage is returned when an image request yielded no inline image
	// data. Callers are expected to substitute a placeholder rather than
	// surface this to the user.
	ErrNoImage = errors.New("llm: no image data in response")
)

// ContentGenerator produces structured JSON and images from natural-language
// prompts. Both calls block until the service responds; there is no
// cancellation beyond ctx.
type ContentGenerator interface {
	// GenerateJSON sends the prompt requesting application/json constrained
	// to schema and returns the raw JSON payload.
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error)
	// GenerateImage requests a single image at the given aspect ratio
	// (e.g. "1:1") and returns the image bytes with their MIME type.
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, string, error)
	Name() string
	Close() error
}
