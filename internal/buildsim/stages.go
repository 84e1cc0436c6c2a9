package buildsim

import (
	"fmt"
	"strings"
	"time"
)

// Target is a platform export destination. Builds are simulated: no binary
// for any target is ever produced.
type Target string

const (
	TargetAndroid Target = "android"
	TargetIOS     Target = "ios"
	TargetWindows Target = "windows"
)

func (t Target) Valid() bool {
	switch t {
	case TargetAndroid, TargetIOS, TargetWindows:
		return true
	}
	return false
}

// Extension is the artifact suffix shown in stage messages.
func (t Target) Extension() string {
	switch t {
	case TargetIOS:
		return "ipa"
	case TargetWindows:
		return "exe"
	default:
		return "apk"
	}
}

type stage struct {
	message  string
	duration time.Duration
}

// buildStages is the fixed staged sequence every simulated build walks
// through. Messages with a %s take the target name or artifact extension.
func buildStages(t Target) []stage {
	return []stage{
		{fmt.Sprintf("Starting transpilation for %s...", strings.ToUpper(string(t))), 700 * time.Millisecond},
		{"Converting web structures to native UI...", 1100 * time.Millisecond},
		{"Embedding runtime engine...", 900 * time.Millisecond},
		{fmt.Sprintf("Compiling .%s binary...", t.Extension()), 1600 * time.Millisecond},
		{"Optimizing runtime performance...", 1000 * time.Millisecond},
		{"Build process finished.", 500 * time.Millisecond},
	}
}
