// Package prototype defines the generated-app data model: a named app with a
// color theme, an ordered set of screens composed of typed components, and an
// optional database schema. Instances are produced by the generation service
// and replaced wholesale; nothing mutates a prototype in place.
package prototype

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoScreens   = errors.New("prototype: screens must be non-empty")
	ErrBadTheme    = errors.New("prototype: theme requires three colors")
	ErrDuplicateID = errors.New("prototype: duplicate id")
)

// Theme holds the color parameters applied uniformly across a prototype's
// rendering. Colors are opaque hex/CSS color strings used directly as paint
// values.
type Theme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	IsDark    bool   `json:"isDark"`
}

// Navigation carries optional per-screen navigation hints.
type Navigation struct {
	OnBack string `json:"onBack,omitempty"` // id of the screen to return to
}

// AppScreen is one screen of the prototype. Component order is rendering
// order, top to bottom.
type AppScreen struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Components []ScreenComponent `json:"components"`
	Navigation *Navigation       `json:"navigation,omitempty"`
}

// Column is one column of a generated database table. Type is a free-form
// SQL-ish type name as emitted by the generation service.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsNullable bool   `json:"isNullable"`
}

// DatabaseTable is one table of the optional generated schema.
type DatabaseTable struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Prototype is the root entity. Screens order is meaningful: it defines the
// navigation / carousel order. DatabaseSchema is present only when a backend
// integration was requested.
type Prototype struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Screens        []AppScreen     `json:"screens"`
	DatabaseSchema []DatabaseTable `json:"databaseSchema,omitempty"`
	Theme          Theme           `json:"theme"`
}

// Validate checks structural conformance: non-empty screens, unique screen
// ids, unique component ids within each screen, known component kinds and a
// complete theme. Semantic quality of the generated content is out of scope.
func (p *Prototype) Validate() error {
	if p == nil {
		return errors.New("prototype: nil")
	}
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return errors.New("prototype: id and name are required")
	}
	if len(p.Screens) == 0 {
		return ErrNoScreens
	}
	if strings.TrimSpace(p.Theme.Primary) == "" ||
		strings.TrimSpace(p.Theme.Secondary) == "" ||
		strings.TrimSpace(p.Theme.Accent) == "" {
		return ErrBadTheme
	}
	screenIDs := make(map[string]struct{}, len(p.Screens))
	for _, s := range p.Screens {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("prototype: screen %q has empty id", s.Name)
		}
		if _, dup := screenIDs[s.ID]; dup {
			return fmt.Errorf("%w: screen %s", ErrDuplicateID, s.ID)
		}
		screenIDs[s.ID] = struct{}{}

		compIDs := make(map[string]struct{}, len(s.Components))
		for _, c := range s.Components {
			if strings.TrimSpace(c.ID) == "" {
				return fmt.Errorf("prototype: screen %s has component with empty id", s.ID)
			}
			if _, dup := compIDs[c.ID]; dup {
				return fmt.Errorf("%w: component %s in screen %s", ErrDuplicateID, c.ID, s.ID)
			}
			compIDs[c.ID] = struct{}{}
			if !c.Kind.Valid() {
				return fmt.Errorf("prototype: component %s has unknown kind %q", c.ID, c.Kind)
			}
		}
	}
	return nil
}

// ScreenIndex resolves a screen id to its position, for navigation by id.
func (p *Prototype) ScreenIndex(screenID string) (int, bool) {
	for i, s := range p.Screens {
		if s.ID == screenID {
			return i, true
		}
	}
	return 0, false
}
