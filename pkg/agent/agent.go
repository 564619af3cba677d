package agent

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrEmptyTrigger is returned when an agent has a blank trigger phrase.
var ErrEmptyTrigger = errors.New("empty trigger")

// Priority is the ranking weight of an agent. Higher values are preferred.
// No range is enforced; only the relative order matters.
type Priority int

// Agent is a technology agent profile.
type Agent struct {
	id     string
	folded []string // Case folded copies of Triggers, same order.

	// Description is a short human readable summary of the agent.
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
	// Icon is shown next to the agent in suggestions.
	Icon string `json:"icon,omitempty" jsonschema:"title=Icon"`
	// Triggers are phrases that suggest this agent when found in a prompt.
	// Matching is case-insensitive substring containment.
	Triggers []string `json:"triggers,omitempty" jsonschema:"title=Triggers" yaml:"triggers,flow,omitempty"`
	// Priority is the ranking weight. Higher values win.
	Priority Priority `json:"priority" jsonschema:"title=Priority"`
}

// AgentOpt is a functional option for configuring an [Agent].
type AgentOpt func(*Agent)

// New creates a new agent with the given priority and options.
func New(priority Priority, opts ...AgentOpt) (*Agent, error) {
	a := &Agent{
		Priority: priority,
	}
	for _, opt := range opts {
		opt(a)
	}

	err := a.Build()
	if err != nil {
		return nil, err
	}

	return a, nil
}

// MustNew creates a new agent and panics if there's an error.
func MustNew(priority Priority, opts ...AgentOpt) *Agent {
	a, err := New(priority, opts...)
	if err != nil {
		panic(err)
	}

	return a
}

// WithTriggers sets the trigger phrases for the agent.
func WithTriggers(triggers ...string) AgentOpt {
	return func(a *Agent) {
		a.Triggers = triggers
	}
}

// WithIcon sets the display icon for the agent.
func WithIcon(icon string) AgentOpt {
	return func(a *Agent) {
		a.Icon = icon
	}
}

// WithDescription sets the description for the agent.
func WithDescription(desc string) AgentOpt {
	return func(a *Agent) {
		a.Description = desc
	}
}

// Build validates the trigger phrases and prepares them for matching.
// It is safe to call Build more than once.
func (a *Agent) Build() error {
	folded := make([]string, 0, len(a.Triggers))
	for i, trigger := range a.Triggers {
		if strings.TrimSpace(trigger) == "" {
			return fmt.Errorf("trigger %d: %w", i, ErrEmptyTrigger)
		}

		folded = append(folded, Fold(trigger))
	}

	a.folded = folded

	return nil
}

// ID returns the registry key of the agent, once it has been registered.
func (a *Agent) ID() string {
	return a.id
}

// SetID sets the registry key of the agent.
func (a *Agent) SetID(id string) {
	a.id = id
}

// Match reports the first trigger phrase contained in text. The text must
// already be case folded with [Fold].
func (a *Agent) Match(foldedText string) (string, bool) {
	if a.folded == nil && len(a.Triggers) > 0 {
		panic(fmt.Errorf("agent %q was not built", a.id))
	}

	for i, trigger := range a.folded {
		if strings.Contains(foldedText, trigger) {
			return a.Triggers[i], true
		}
	}

	return "", false
}

func (a *Agent) String() string {
	if a.Icon == "" {
		return a.id
	}

	return a.Icon + " " + a.id
}

// Fold returns the case folded form of s, used for case-insensitive matching.
func Fold(s string) string {
	// Casers hold state and must not be shared between goroutines.
	return cases.Fold().String(s)
}
