// Package attachment tracks metadata of user-supplied files for the active
// session. Only the name, kind and a display size are kept; file content is
// never parsed, stored or uploaded — attachments reach the generation service
// as descriptive text only.
package attachment

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("attachment: not found")

// Kind classifies an attachment by how it was picked, not by its content.
type Kind string

const (
	KindImage  Kind = "image"
	KindZip    Kind = "zip"
	KindFolder Kind = "folder"
)

func (k Kind) Valid() bool {
	switch k {
	case KindImage, KindZip, KindFolder:
		return true
	}
	return false
}

// Attachment is the session-scoped record of one picked file.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	Size string `json:"size"`
}

// Describe renders the attachment as the one-line description embedded in
// generation prompts.
func (a Attachment) Describe() string {
	return fmt.Sprintf("%s named '%s'", a.Kind, a.Name)
}

// Registry holds the session's attachments in insertion order. It lives only
// for the session; entries vanish on Remove, Clear or process exit.
type Registry struct {
	mu    sync.RWMutex
	items []Attachment
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a picked file from its metadata and returns the stored record.
func (r *Registry) Add(name string, kind Kind, sizeBytes int64) (Attachment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Attachment{}, errors.New("attachment: name is required")
	}
	if !kind.Valid() {
		return Attachment{}, fmt.Errorf("attachment: unknown kind %q", kind)
	}
	att := Attachment{
		ID:   uuid.NewString(),
		Name: name,
		Kind: kind,
		Size: formatSize(sizeBytes),
	}
	r.mu.Lock()
	r.items = append(r.items, att)
	r.mu.Unlock()
	return att, nil
}

func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.items {
		if a.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// List returns the attachments in insertion order.
func (r *Registry) List() []Attachment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Attachment, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Clear drops every attachment. Called after a generation completes:
// attachments are not reused across requests.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

func formatSize(bytes int64) string {
	return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
}
