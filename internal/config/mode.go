package config

import (
	"sync"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Mode selects how much detail error diagnostics expose.
type Mode int

const (
	// ModeDevelopment renders verbose diagnostics (field path, expected
	// shape, rejected value).
	ModeDevelopment Mode = iota

	// ModeProduction renders terse single-line messages that never echo
	// the rejected value.
	ModeProduction
)

func (m Mode) String() string {
	if m == ModeProduction {
		return "production"
	}
	return "development"
}

// IsProduction reports whether m is ModeProduction.
func (m Mode) IsProduction() bool {
	return m == ModeProduction
}

const (
	// PrimaryModeVar is read first when resolving the Mode.
	PrimaryModeVar = "APP_ENV"

	// FallbackModeVar is read when PrimaryModeVar is unset.
	FallbackModeVar = "ENV"
)

// ResolveMode reads APP_ENV, falling back to ENV, and returns
// ModeProduction only when the value is exactly "production".
func ResolveMode() Mode {
	k := koanf.New(".")

	// Only the two mode variables are kept; keys stay as-is.
	err := k.Load(env.Provider("", ".", func(s string) string {
		if s == PrimaryModeVar || s == FallbackModeVar {
			return s
		}
		return ""
	}), nil)
	if err != nil {
		return ModeDevelopment
	}

	value := k.String(PrimaryModeVar)
	if !k.Exists(PrimaryModeVar) {
		value = k.String(FallbackModeVar)
	}

	if value == "production" {
		return ModeProduction
	}
	return ModeDevelopment
}

var currentMode = sync.OnceValue(ResolveMode)

// CurrentMode returns the Mode resolved the first time it is called. The
// environment is not read again for the lifetime of the process.
func CurrentMode() Mode {
	return currentMode()
}
