package prototype

import (
	"encoding/base64"
	"strings"
)

const shareBaseURL = "https://protostudio.app/p/"

// ShareLink derives a short cosmetic URL for the prototype: base64 of
// name+id, truncated to 12 characters and lowercased. Deterministic for the
// same prototype; collisions across different prototypes are acceptable for a
// share link that resolves nowhere.
func (p *Prototype) ShareLink() string {
	slug := base64.StdEncoding.EncodeToString([]byte(p.Name + p.ID))
	if len(slug) > 12 {
		slug = slug[:12]
	}
	return shareBaseURL + strings.ToLower(slug)
}
