package suggest

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/log"
	"github.com/macropower/scout/pkg/registry"
)

const (
	// DefaultTextLimit is the number of text matches considered when merging.
	DefaultTextLimit = 3
	// DefaultFileLimit is the number of file matches considered when merging.
	DefaultFileLimit = 2
	// DefaultSecondaryLimit is the number of alternatives returned.
	DefaultSecondaryLimit = 2
	// DefaultFilePenalty is subtracted from the priority of agents that are
	// only implied by file rules.
	DefaultFilePenalty agent.Priority = 10
)

// Source describes which signal ranked a [Candidate].
type Source string

const (
	// SourceText means a trigger phrase matched the prompt.
	SourceText Source = "text"
	// SourceFile means a file rule matched one of the paths.
	SourceFile Source = "file"
	// SourceBoth means the agent matched both signals. The text priority is used.
	SourceBoth Source = "both"
)

// TextMatch is an agent whose trigger phrase was found in a prompt.
type TextMatch struct {
	Agent   *agent.Agent
	Trigger string
}

// Candidate is a ranked agent.
type Candidate struct {
	// Agent is the agent ID.
	Agent string `json:"agent"`
	// Icon is the agent's display icon.
	Icon string `json:"icon,omitempty"`
	// Trigger is the trigger phrase that matched, for text sourced candidates.
	Trigger string `json:"trigger,omitempty"`
	// Source is the signal that ranked the agent.
	Source Source `json:"source"`
	// Priority is the effective priority after merging.
	Priority agent.Priority `json:"priority"`
}

// Result is the outcome of [Suggester.Suggest].
type Result struct {
	// Primary is the best matching agent ID, or empty when nothing matched.
	Primary string `json:"primary,omitempty"`
	// Secondary lists the next best agent IDs.
	Secondary []string `json:"secondary"`
	// Reasoning explains the selection.
	Reasoning []string `json:"reasoning"`
	// Candidates are the primary and secondary agents, in rank order.
	Candidates []Candidate `json:"candidates"`
}

// Found reports whether a primary agent was selected.
func (r *Result) Found() bool {
	return r.Primary != ""
}

// Suggester matches prompts and file paths against a [registry.Registry].
// It holds no mutable state and is safe for concurrent use.
type Suggester struct {
	tracer         trace.Tracer
	registry       *registry.Registry
	textLimit      int
	fileLimit      int
	secondaryLimit int
	filePenalty    agent.Priority
}

// SuggesterOpt is a functional option for configuring a [Suggester].
type SuggesterOpt func(*Suggester)

// WithTextLimit sets how many text matches are merged.
func WithTextLimit(n int) SuggesterOpt {
	return func(s *Suggester) {
		s.textLimit = n
	}
}

// WithFileLimit sets how many file matches are merged.
func WithFileLimit(n int) SuggesterOpt {
	return func(s *Suggester) {
		s.fileLimit = n
	}
}

// WithSecondaryLimit sets how many alternatives are returned.
func WithSecondaryLimit(n int) SuggesterOpt {
	return func(s *Suggester) {
		s.secondaryLimit = n
	}
}

// WithFilePenalty sets the priority reduction for file-only matches.
func WithFilePenalty(p agent.Priority) SuggesterOpt {
	return func(s *Suggester) {
		s.filePenalty = p
	}
}

// New creates a new [Suggester]. The registry must already be validated.
// Negative limits are treated as zero.
func New(reg *registry.Registry, opts ...SuggesterOpt) *Suggester {
	s := &Suggester{
		tracer:         otel.Tracer("suggester"),
		registry:       reg,
		textLimit:      DefaultTextLimit,
		fileLimit:      DefaultFileLimit,
		secondaryLimit: DefaultSecondaryLimit,
		filePenalty:    DefaultFilePenalty,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.textLimit = max(0, s.textLimit)
	s.fileLimit = max(0, s.fileLimit)
	s.secondaryLimit = max(0, s.secondaryLimit)

	return s
}

// Registry returns the registry the suggester matches against.
func (s *Suggester) Registry() *registry.Registry {
	return s.registry
}

// MatchText returns every agent with a trigger phrase contained in text,
// ignoring case. Matches are ordered by descending priority, then by ID.
func (s *Suggester) MatchText(text string) []TextMatch {
	if text == "" {
		return nil
	}

	folded := agent.Fold(text)

	var matches []TextMatch

	for _, id := range s.registry.IDs() {
		a, _ := s.registry.Get(id)

		trigger, ok := a.Match(folded)
		if ok {
			matches = append(matches, TextMatch{Agent: a, Trigger: trigger})
		}
	}

	slices.SortFunc(matches, func(a, b TextMatch) int {
		return byRank(a.Agent.Priority, a.Agent.ID(), b.Agent.Priority, b.Agent.ID())
	})

	return matches
}

// MatchFiles returns the agents implied by any rule that matches any of the
// given paths, without duplicates and ordered by ID.
func (s *Suggester) MatchFiles(files []string) []*agent.Agent {
	if len(files) == 0 {
		return nil
	}

	seen := map[string]*agent.Agent{}

	for _, r := range s.registry.Rules {
		if !r.MatchFiles(files) {
			continue
		}

		for _, a := range r.GetAgents() {
			seen[a.ID()] = a
		}
	}

	agents := make([]*agent.Agent, 0, len(seen))
	for _, a := range seen {
		agents = append(agents, a)
	}

	slices.SortFunc(agents, func(a, b *agent.Agent) int {
		return strings.Compare(a.ID(), b.ID())
	})

	return agents
}

// Suggest ranks agents for the given prompt and file paths.
func (s *Suggester) Suggest(ctx context.Context, text string, files []string) *Result {
	_, span := s.tracer.Start(ctx, "suggest", trace.WithAttributes(
		attribute.Int("text.length", len(text)),
		attribute.Int("files.count", len(files)),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	textMatches := s.MatchText(text)
	fileMatches := s.MatchFiles(files)

	logger.DebugContext(ctx, "matched agents",
		slog.Int("text", len(textMatches)),
		slog.Int("files", len(fileMatches)),
	)

	merged := map[string]*Candidate{}

	for _, m := range textMatches[:min(len(textMatches), s.textLimit)] {
		merged[m.Agent.ID()] = &Candidate{
			Agent:    m.Agent.ID(),
			Icon:     m.Agent.Icon,
			Trigger:  m.Trigger,
			Source:   SourceText,
			Priority: m.Agent.Priority,
		}
	}

	for _, a := range fileMatches[:min(len(fileMatches), s.fileLimit)] {
		if c, ok := merged[a.ID()]; ok {
			c.Source = SourceBoth

			continue
		}

		merged[a.ID()] = &Candidate{
			Agent:    a.ID(),
			Icon:     a.Icon,
			Source:   SourceFile,
			Priority: a.Priority - s.filePenalty,
		}
	}

	ranked := make([]*Candidate, 0, len(merged))
	for _, c := range merged {
		ranked = append(ranked, c)
	}

	slices.SortFunc(ranked, func(a, b *Candidate) int {
		return byRank(a.Priority, a.Agent, b.Priority, b.Agent)
	})

	result := &Result{
		Secondary:  []string{},
		Reasoning:  []string{},
		Candidates: []Candidate{},
	}

	if len(ranked) == 0 {
		span.SetAttributes(attribute.Bool("found", false))

		return result
	}

	ranked = ranked[:min(len(ranked), s.secondaryLimit+1)]
	for _, c := range ranked {
		result.Candidates = append(result.Candidates, *c)
	}

	result.Primary = ranked[0].Agent
	for _, c := range ranked[1:] {
		result.Secondary = append(result.Secondary, c.Agent)
	}

	result.Reasoning = append(result.Reasoning,
		fmt.Sprintf("Primary: %s - Best match for the context", result.Primary))
	if len(result.Secondary) > 0 {
		result.Reasoning = append(result.Reasoning,
			fmt.Sprintf("Alternative: %s", strings.Join(result.Secondary, ", ")))
	}

	span.SetAttributes(
		attribute.Bool("found", true),
		attribute.String("agent.primary", result.Primary),
	)

	return result
}

// byRank orders by descending priority, then ascending ID.
func byRank(pa agent.Priority, ida string, pb agent.Priority, idb string) int {
	if c := cmp.Compare(pb, pa); c != 0 {
		return c
	}

	return strings.Compare(ida, idb)
}
