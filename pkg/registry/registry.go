package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/rule"
	"github.com/macropower/scout/pkg/yaml"
)

var (
	// ErrUnknownAgent is returned when a rule references an agent that is not
	// in the registry.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrNilAgent is returned when an agent entry has no body.
	ErrNilAgent = errors.New("agent has no definition")
)

// Registry holds the agents and the file rules that imply them.
type Registry struct {
	ids []string // Sorted agent IDs.

	// Agents maps agent IDs to agent definitions.
	Agents map[string]*agent.Agent `json:"agents,omitempty" jsonschema:"title=Agents"`
	// Rules are evaluated against file paths, in order.
	Rules []*rule.Rule `json:"rules,omitempty" jsonschema:"title=Rules"`
}

// New creates a new validated [Registry].
func New(agents map[string]*agent.Agent, rules []*rule.Rule) (*Registry, error) {
	r := &Registry{
		Agents: agents,
		Rules:  rules,
	}

	err := r.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate registry: %w", err)
	}

	return r, nil
}

// MustNew creates a new [Registry] and panics if there's an error.
func MustNew(agents map[string]*agent.Agent, rules []*rule.Rule) *Registry {
	r, err := New(agents, rules)
	if err != nil {
		panic(err)
	}

	return r
}

// Default returns a new registry holding the built-in agents and rules.
func Default() *Registry {
	return MustNew(DefaultAgents(), DefaultRules())
}

// EnsureDefaults fills missing sections with the built-in agents and rules.
func (r *Registry) EnsureDefaults() {
	if r.Agents == nil {
		r.Agents = DefaultAgents()
	}
	if r.Rules == nil {
		r.Rules = DefaultRules()
	}
}

// Compile builds every agent and compiles every rule without resolving the
// agent references of rules. It is used for partial registries that are
// later merged with [Registry.Merge].
func (r *Registry) Compile() error {
	pb := yaml.NewPathBuilder()

	for _, id := range slices.Sorted(maps.Keys(r.Agents)) {
		a := r.Agents[id]
		if a == nil {
			return yaml.NewError(
				fmt.Errorf("agent %q: %w", id, ErrNilAgent),
				yaml.WithPath(pb.Root().Child("agents").Child(id).Build()),
			)
		}

		a.SetID(id)

		err := a.Build()
		if err != nil {
			return yaml.NewError(
				fmt.Errorf("invalid agent %q: %w", id, err),
				yaml.WithPath(pb.Root().Child("agents").Child(id).Child("triggers").Build()),
			)
		}
	}

	for i, rl := range r.Rules {
		err := rl.Compile()
		if err != nil {
			path := pb.Root().Child("rules").Index(uint(i)) //nolint:gosec // G115: integer overflow conversion int -> uint.

			switch {
			case errors.Is(err, rule.ErrNoAgents):
				path = path.Child("agents")
			case errors.Is(err, rule.ErrNoMatcher), errors.Is(err, rule.ErrMultipleMatchers):
				// Point at the rule itself.
			case rl.Pattern != "":
				path = path.Child("pattern")
			default:
				path = path.Child("match")
			}

			return yaml.NewError(fmt.Errorf("invalid rule: %w", err), yaml.WithPath(path.Build()))
		}
	}

	return nil
}

// Validate compiles the registry and resolves the agent references of every
// rule. Errors carry the YAML path of the offending node.
func (r *Registry) Validate() error {
	err := r.Compile()
	if err != nil {
		return err
	}

	pb := yaml.NewPathBuilder()
	ids := slices.Sorted(maps.Keys(r.Agents))

	for i, rl := range r.Rules {
		uIdx := uint(i) //nolint:gosec // G115: integer overflow conversion int -> uint.

		resolved := make([]*agent.Agent, 0, len(rl.Agents))

		for j, id := range rl.Agents {
			a, ok := r.Agents[id]
			if !ok {
				uJdx := uint(j) //nolint:gosec // G115: integer overflow conversion int -> uint.

				return yaml.NewError(
					fmt.Errorf("%w %q%s", ErrUnknownAgent, id, didYouMean(closest(id, ids))),
					yaml.WithPath(pb.Root().Child("rules").Index(uIdx).Child("agents").Index(uJdx).Build()),
				)
			}

			resolved = append(resolved, a)
		}

		rl.SetAgents(resolved)
	}

	r.ids = ids

	return nil
}

// Get returns the agent with the given ID.
func (r *Registry) Get(id string) (*agent.Agent, bool) {
	a, ok := r.Agents[id]

	return a, ok
}

// IDs returns all agent IDs in ascending order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.ids)
}

// RulesFor returns the rules that imply the agent with the given ID.
func (r *Registry) RulesFor(id string) []*rule.Rule {
	var rules []*rule.Rule

	for _, rl := range r.Rules {
		if slices.Contains(rl.Agents, id) {
			rules = append(rules, rl)
		}
	}

	return rules
}

// Suggest returns the agent ID closest to id, or an empty string.
func (r *Registry) Suggest(id string) string {
	return closest(id, r.ids)
}

// Merge returns a new, unvalidated registry with the agents and rules of
// overlay layered over r. Overlay agents replace agents with the same ID, and
// overlay rules are evaluated before the rules of r.
func (r *Registry) Merge(overlay *Registry) *Registry {
	merged := &Registry{
		Agents: make(map[string]*agent.Agent, len(r.Agents)),
		Rules:  make([]*rule.Rule, 0, len(r.Rules)),
	}

	maps.Copy(merged.Agents, r.Agents)

	if overlay != nil {
		maps.Copy(merged.Agents, overlay.Agents)

		for _, rl := range overlay.Rules {
			merged.Rules = append(merged.Rules, rl.Clone())
		}
	}

	for _, rl := range r.Rules {
		merged.Rules = append(merged.Rules, rl.Clone())
	}

	return merged
}

func closest(id string, ids []string) string {
	matches := fuzzy.Find(id, ids)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

func didYouMean(id string) string {
	if id == "" {
		return ""
	}

	return fmt.Sprintf(" (did you mean %q?)", id)
}
