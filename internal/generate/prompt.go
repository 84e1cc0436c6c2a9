package generate

import (
	"bytes"
	"fmt"
	"strings"

	"protostudio/internal/attachment"
)

const systemFraming = `You are the studio's AI Architect. Your goal is to generate ` +
	`high-fidelity mobile app prototypes that strictly adhere to Material 3 design ` +
	`principles while providing full-stack readiness for Android, iOS and Windows targets.`

var outputRequirements = []string{
	"Generate a cohesive multi-screen prototype.",
	"Use Material 3 color tokens (Primary, Secondary, Tertiary).",
	"Ensure a logical app structure with a clear navigation order.",
	"Provide detailed props for each component (Material 3 style).",
}

// promptSpec gathers the sections of one generation instruction.
type promptSpec struct {
	UserPrompt  string
	SourceURL   string
	Attachments []attachment.Attachment
	WithBackend bool
}

// buildPrompt renders the structured natural-language instruction sent to the
// generation service. Attachments contribute descriptive metadata lines only,
// never content.
func buildPrompt(spec promptSpec) string {
	var buf bytes.Buffer
	writeSection(&buf, "SYSTEM", systemFraming)
	if strings.TrimSpace(spec.UserPrompt) != "" {
		writeSection(&buf, "USER_PROMPT", fmt.Sprintf("%q", spec.UserPrompt))
	}
	if strings.TrimSpace(spec.SourceURL) != "" {
		writeSection(&buf, "SOURCE_URL",
			fmt.Sprintf("Target project link: %s. Use this as the primary reference for existing UI structure and navigation logic.", spec.SourceURL))
	}
	if len(spec.Attachments) > 0 {
		descs := make([]string, 0, len(spec.Attachments))
		for _, a := range spec.Attachments {
			descs = append(descs, a.Describe())
		}
		writeSection(&buf, "CONTEXT_ANALYSIS",
			fmt.Sprintf("The user has attached existing project files (%d items). These include: %s. Analyze the implied structure, components, and logic from these attachments to ensure continuity.",
				len(spec.Attachments), strings.Join(descs, ", ")))
	}
	if spec.WithBackend {
		writeSection(&buf, "BACKEND",
			"The project uses a hosted SQL backend. Generate a schema manifest in 'databaseSchema' that perfectly maps to the UI requirements.")
	}
	writeSection(&buf, "OUTPUT_REQUIREMENTS", formatList(outputRequirements))
	return strings.TrimSpace(buf.String()) + "\n"
}

// iconConceptsPrompt asks for a small set of icon art directions for the app.
func iconConceptsPrompt(appName, appDescription string) string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE",
		fmt.Sprintf("Propose %d distinct app icon art directions for the app %q.", iconConceptCount, appName))
	writeSection(&buf, "BACKGROUND", appDescription)
	writeSection(&buf, "RULES", formatList([]string{
		"Each concept needs a short style name, a one-sentence description, and a full image-generation prompt.",
		"Styles must be visually distinct from each other.",
		"Prompts must describe flat, geometric, vibrant Material 3 iconography.",
	}))
	writeSection(&buf, "OUTPUT_FORMAT", "JSON only.")
	return strings.TrimSpace(buf.String()) + "\n"
}

// iconImagePrompt wraps a concept prompt with the fixed icon styling framing.
func iconImagePrompt(conceptPrompt string) string {
	return fmt.Sprintf("App icon. %s Style: Material 3 iconography. Flat, geometric, vibrant, 3D shadows. Vector-like precision.",
		strings.TrimSpace(conceptPrompt)+".")
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
