package prototype

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed enumeration of component kinds a screen may contain.
type Kind string

const (
	KindHeader Kind = "header"
	KindText   Kind = "text"
	KindButton Kind = "button"
	KindInput  Kind = "input"
	KindCard   Kind = "card"
	KindImage  Kind = "image"
	KindList   Kind = "list"
)

// Kinds lists every valid component kind in a stable order. The generation
// response schema enumerates exactly this set.
func Kinds() []Kind {
	return []Kind{KindButton, KindText, KindInput, KindImage, KindCard, KindList, KindHeader}
}

func (k Kind) Valid() bool {
	switch k {
	case KindHeader, KindText, KindButton, KindInput, KindCard, KindImage, KindList:
		return true
	}
	return false
}

// Spec is the per-kind payload of a component. Each kind carries only the
// fields it actually renders; the generation service's loose props bag is
// narrowed at decode time.
type Spec interface {
	kind() Kind
}

type HeaderSpec struct {
	Label   string
	Content string
}

type TextSpec struct {
	Content string
}

type ButtonSpec struct {
	Label string
}

type InputSpec struct {
	Placeholder string
}

type CardSpec struct {
	Label   string
	Content string
}

type ImageSpec struct {
	Src string
}

// ListSpec has no fields: the preview always renders synthetic skeleton rows
// for list components regardless of any real data.
type ListSpec struct{}

func (HeaderSpec) kind() Kind { return KindHeader }
func (TextSpec) kind() Kind   { return KindText }
func (ButtonSpec) kind() Kind { return KindButton }
func (InputSpec) kind() Kind  { return KindInput }
func (CardSpec) kind() Kind   { return KindCard }
func (ImageSpec) kind() Kind  { return KindImage }
func (ListSpec) kind() Kind   { return KindList }

// ScreenComponent is one typed UI element within a screen. On the wire it is
// the generation service's `{id, type, props{...}}` shape; in memory the props
// bag is a tagged union over Spec.
type ScreenComponent struct {
	ID   string
	Kind Kind
	Spec Spec
}

// wireProps is the loose props bag of the generation response schema. Fields
// the active kind does not use are ignored on decode and omitted on encode.
type wireProps struct {
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Content     string `json:"content,omitempty"`
	Src         string `json:"src,omitempty"`
	Color       string `json:"color,omitempty"`
	Style       string `json:"style,omitempty"`
}

type wireComponent struct {
	ID    string    `json:"id"`
	Type  Kind      `json:"type"`
	Props wireProps `json:"props"`
}

func (c *ScreenComponent) UnmarshalJSON(data []byte) error {
	var w wireComponent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.ID = w.ID
	c.Kind = w.Type
	switch w.Type {
	case KindHeader:
		c.Spec = HeaderSpec{Label: w.Props.Label, Content: w.Props.Content}
	case KindText:
		c.Spec = TextSpec{Content: w.Props.Content}
	case KindButton:
		c.Spec = ButtonSpec{Label: w.Props.Label}
	case KindInput:
		c.Spec = InputSpec{Placeholder: w.Props.Placeholder}
	case KindCard:
		c.Spec = CardSpec{Label: w.Props.Label, Content: w.Props.Content}
	case KindImage:
		c.Spec = ImageSpec{Src: w.Props.Src}
	case KindList:
		c.Spec = ListSpec{}
	default:
		return fmt.Errorf("prototype: unknown component type %q", w.Type)
	}
	return nil
}

func (c ScreenComponent) MarshalJSON() ([]byte, error) {
	w := wireComponent{ID: c.ID, Type: c.Kind}
	switch s := c.Spec.(type) {
	case HeaderSpec:
		w.Props.Label = s.Label
		w.Props.Content = s.Content
	case TextSpec:
		w.Props.Content = s.Content
	case ButtonSpec:
		w.Props.Label = s.Label
	case InputSpec:
		w.Props.Placeholder = s.Placeholder
	case CardSpec:
		w.Props.Label = s.Label
		w.Props.Content = s.Content
	case ImageSpec:
		w.Props.Src = s.Src
	case ListSpec:
		// no props
	case nil:
		// kind set but spec absent; emit empty props
	default:
		return nil, fmt.Errorf("prototype: cannot marshal spec %T", c.Spec)
	}
	return json.Marshal(w)
}

// PlaceholderImageURL is the fallback art for image components without a
// source, keyed by component id so the same component always resolves to the
// same picture.
func PlaceholderImageURL(componentID string) string {
	return "https://picsum.photos/seed/" + componentID + "/400/200"
}

// PlaceholderIconURL is the fallback app icon used when the image service
// returns no usable payload.
const PlaceholderIconURL = "https://picsum.photos/512/512"
