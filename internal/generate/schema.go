package generate

import (
	genai "google.golang.org/genai"

	"protostudio/internal/prototype"
)

// prototypeSchema constrains the generation response to the Prototype wire
// shape: field names, types and the closed component-kind enumeration. Only
// structural conformance is enforced here; semantic quality is the service's
// problem.
func prototypeSchema() *genai.Schema {
	kindEnum := make([]string, 0, 7)
	for _, k := range prototype.Kinds() {
		kindEnum = append(kindEnum, string(k))
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":          {Type: genai.TypeString},
			"name":        {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"theme": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"primary":   {Type: genai.TypeString},
					"secondary": {Type: genai.TypeString},
					"accent":    {Type: genai.TypeString},
					"isDark":    {Type: genai.TypeBoolean},
				},
				Required: []string{"primary", "secondary", "accent", "isDark"},
			},
			"screens": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":   {Type: genai.TypeString},
						"name": {Type: genai.TypeString},
						"components": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"id":   {Type: genai.TypeString},
									"type": {Type: genai.TypeString, Enum: kindEnum},
									"props": {
										Type: genai.TypeObject,
										Properties: map[string]*genai.Schema{
											"label":       {Type: genai.TypeString},
											"placeholder": {Type: genai.TypeString},
											"content":     {Type: genai.TypeString},
											"src":         {Type: genai.TypeString},
											"color":       {Type: genai.TypeString},
											"style":       {Type: genai.TypeString},
										},
									},
								},
								Required: []string{"id", "type", "props"},
							},
						},
					},
					Required: []string{"id", "name", "components"},
				},
			},
			"databaseSchema": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {Type: genai.TypeString},
						"columns": {
							Type: genai.TypeArray,
							Items: &genai.Schema{
								Type: genai.TypeObject,
								Properties: map[string]*genai.Schema{
									"name":       {Type: genai.TypeString},
									"type":       {Type: genai.TypeString},
									"isNullable": {Type: genai.TypeBoolean},
								},
								Required: []string{"name", "type", "isNullable"},
							},
						},
					},
					Required: []string{"name", "columns"},
				},
			},
		},
		Required: []string{"id", "name", "description", "screens", "theme"},
	}
}

// iconConceptsSchema constrains the icon art-direction response to a list of
// concepts the user can pick from before committing to image generation.
func iconConceptsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"concepts": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":          {Type: genai.TypeString},
						"style":       {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"prompt":      {Type: genai.TypeString},
					},
					Required: []string{"id", "style", "description", "prompt"},
				},
			},
		},
		Required: []string{"concepts"},
	}
}
