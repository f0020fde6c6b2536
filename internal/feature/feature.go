// Package feature wraps the Unleash client behind a total, fail-safe
// evaluation API. Reads never panic: evaluation sits on request hot paths, so
// a flag-service outage degrades to "disabled" instead of cascading into
// request failures.
package feature

import (
	"github.com/Unleash/unleash-client-go/v4/api"
	ucontext "github.com/Unleash/unleash-client-go/v4/context"
)

// Mode is the flag backend variant, selected once at initialization.
type Mode int

const (
	// ModeUninitialized means NewService has not run; all reads are closed.
	ModeUninitialized Mode = iota
	// ModeMock is the offline development client: everything is enabled and
	// a fixed definition list is served without network access.
	ModeMock
	// ModeRemote wraps a live Unleash client with a periodically refreshed
	// local snapshot.
	ModeRemote
	// ModeDegraded is the fail-safe-closed fallback entered when the remote
	// source is unreachable or misconfigured.
	ModeDegraded
)

func (m Mode) String() string {
	switch m {
	case ModeMock:
		return "mock"
	case ModeRemote:
		return "remote"
	case ModeDegraded:
		return "degraded"
	default:
		return "uninitialized"
	}
}

// FeatureFlag is a flag definition merged with its current enabled state.
type FeatureFlag struct {
	Name        string                `json:"name"`
	Enabled     bool                  `json:"enabled"`
	Description string                `json:"description,omitempty"`
	Type        string                `json:"type,omitempty"`
	Strategies  []api.Strategy        `json:"strategies,omitempty"`
	Variants    []api.VariantInternal `json:"variants,omitempty"`
}

// Variant is the experimentation variant a flag resolves to.
type Variant struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// DisabledVariant is the sentinel returned on any failure or uninitialized
// state.
func DisabledVariant() Variant {
	return Variant{Name: "disabled", Enabled: false}
}

// Context carries optional evaluation attributes. A nil Context is the
// context-free default evaluation.
type Context struct {
	UserID      string
	Environment string
}

func (c *Context) toUnleash() ucontext.Context {
	if c == nil {
		return ucontext.Context{}
	}
	return ucontext.Context{
		UserId:      c.UserID,
		Environment: c.Environment,
	}
}

// Evaluator is the read surface consumed by the gate and the inspection
// handlers. Every method is total.
type Evaluator interface {
	IsEnabled(name string, ctx *Context) bool
	GetVariant(name string, ctx *Context) Variant
	GetAllFeatures(ctx *Context) []FeatureFlag
	Refresh()
	IsReady() bool
	Mode() Mode
}
