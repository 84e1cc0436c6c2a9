// Package preview maps a prototype screen to the node tree the simulated
// device frame displays. Rendering is a pure function of (prototype, screen
// index); navigation state lives with the caller.
package preview

import (
	"errors"
	"fmt"

	"protostudio/internal/prototype"
)

var ErrNoPrototype = errors.New("preview: no prototype")

// Node is the resolved visual template for one component. Paint fields carry
// theme colors already applied; text fields carry fallbacks already resolved.
type Node struct {
	ComponentID string         `json:"componentId"`
	Kind        prototype.Kind `json:"kind"`
	Label       string         `json:"label,omitempty"`
	Content     string         `json:"content,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Src         string         `json:"src,omitempty"`
	Fill        string         `json:"fill,omitempty"`
	TextColor   string         `json:"textColor,omitempty"`
	BorderColor string         `json:"borderColor,omitempty"`
	Children    []Node         `json:"children,omitempty"`
}

// KindSkeleton marks the synthetic rows rendered inside list components.
const KindSkeleton prototype.Kind = "skeleton"

const listSkeletonRows = 3

// Frame is one rendered screen inside the device frame, plus the navigation
// facts (index, count) the dot strip needs.
type Frame struct {
	ScreenID   string `json:"screenId"`
	ScreenName string `json:"screenName"`
	Index      int    `json:"index"`
	Count      int    `json:"count"`
	Dark       bool   `json:"dark"`
	Nodes      []Node `json:"nodes"`
}

// Render produces the frame for the screen at index. An out-of-range index is
// clamped into the valid range, never an error: swiping past the last screen
// stays on it.
func Render(p *prototype.Prototype, index int) (*Frame, error) {
	if p == nil || len(p.Screens) == 0 {
		return nil, ErrNoPrototype
	}
	if index < 0 {
		index = 0
	}
	if index > len(p.Screens)-1 {
		index = len(p.Screens) - 1
	}
	screen := p.Screens[index]
	frame := &Frame{
		ScreenID:   screen.ID,
		ScreenName: screen.Name,
		Index:      index,
		Count:      len(p.Screens),
		Dark:       p.Theme.IsDark,
		Nodes:      make([]Node, 0, len(screen.Components)),
	}
	for _, comp := range screen.Components {
		frame.Nodes = append(frame.Nodes, renderComponent(comp, p.Theme))
	}
	return frame, nil
}

// RenderByID renders the screen with the given id. Unknown ids are an error;
// navigation by id has no sensible clamp target.
func RenderByID(p *prototype.Prototype, screenID string) (*Frame, error) {
	if p == nil || len(p.Screens) == 0 {
		return nil, ErrNoPrototype
	}
	idx, ok := p.ScreenIndex(screenID)
	if !ok {
		return nil, fmt.Errorf("preview: unknown screen %q", screenID)
	}
	return Render(p, idx)
}

func renderComponent(comp prototype.ScreenComponent, theme prototype.Theme) Node {
	node := Node{ComponentID: comp.ID, Kind: comp.Kind}
	switch s := comp.Spec.(type) {
	case prototype.HeaderSpec:
		node.Label = s.Label
		if node.Label == "" {
			node.Label = s.Content
		}
		node.Fill = theme.Primary
	case prototype.TextSpec:
		node.Content = s.Content
	case prototype.ButtonSpec:
		node.Label = s.Label
		node.Fill = theme.Accent
		if theme.IsDark {
			node.TextColor = "#fff"
		} else {
			node.TextColor = "#000"
		}
	case prototype.InputSpec:
		node.Placeholder = s.Placeholder
		node.BorderColor = theme.Secondary
	case prototype.CardSpec:
		node.Label = s.Label
		node.Content = s.Content
	case prototype.ImageSpec:
		node.Src = s.Src
		if node.Src == "" {
			node.Src = prototype.PlaceholderImageURL(comp.ID)
		}
	case prototype.ListSpec:
		// Lists always render synthetic skeleton rows, regardless of any
		// real data behind them.
		for i := 0; i < listSkeletonRows; i++ {
			node.Children = append(node.Children, Node{
				ComponentID: fmt.Sprintf("%s-row-%d", comp.ID, i+1),
				Kind:        KindSkeleton,
			})
		}
	}
	return node
}
