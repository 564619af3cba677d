package rule

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/expr"
)

var (
	// ErrNoMatcher is returned when a rule has neither a pattern nor a match expression.
	ErrNoMatcher = errors.New("one of pattern or match is required")

	// ErrMultipleMatchers is returned when a rule has both a pattern and a match expression.
	ErrMultipleMatchers = errors.New("pattern and match are mutually exclusive")

	// ErrNoAgents is returned when a rule does not imply any agent.
	ErrNoAgents = errors.New("no agents")
)

// Rule implies one or more agents when it matches a set of file paths.
//
// Pattern is a regular expression matched from the start of each path, but
// not required to consume the whole path:
//   - `.*\.tsx$` - any TSX file
//   - `.*/app/.*\.tsx$` - TSX files below an "app" directory
//   - `.*(Dockerfile|docker-compose.*\.yml)$` - Docker build and compose files
//
// Match is a CEL expression evaluated against all paths at once, which must
// return a boolean. It has access to `files` (list<string>) and the path
// functions pathBase, pathDir and pathExt:
//   - files.exists(f, pathExt(f) in [".cypher", ".cql"])
//   - files.exists(f, pathBase(f) == "schema.prisma")
//   - files.size() > 3 && files.all(f, pathExt(f) == ".css")
type Rule struct {
	pattern *regexp.Regexp // Compiled and start-anchored Pattern.
	match   *expr.FilesMatch // Compiled Match.
	agents  []*agent.Agent // Resolved Agents.

	// Pattern is a regular expression matched against each file path.
	Pattern string `json:"pattern,omitempty" jsonschema:"title=Pattern,format=regex"`
	// Match is a CEL expression evaluated against the list of file paths.
	Match string `json:"match,omitempty" jsonschema:"title=Match Expression"`
	// Agents are the IDs of the agents implied when the rule matches.
	Agents []string `json:"agents" jsonschema:"title=Agents,minItems=1" yaml:"agents,flow"`
}

// New creates a new rule that matches paths against a regular expression.
func New(pattern string, agents ...string) (*Rule, error) {
	r := &Rule{
		Pattern: pattern,
		Agents:  agents,
	}

	err := r.Compile()
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", pattern, err)
	}

	return r, nil
}

// MustNew creates a new pattern rule and panics if there's an error.
func MustNew(pattern string, agents ...string) *Rule {
	r, err := New(pattern, agents...)
	if err != nil {
		panic(err)
	}

	return r
}

// NewMatch creates a new rule that evaluates a CEL expression against the
// file list.
func NewMatch(match string, agents ...string) (*Rule, error) {
	r := &Rule{
		Match:  match,
		Agents: agents,
	}

	err := r.Compile()
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", match, err)
	}

	return r, nil
}

// MustNewMatch creates a new CEL rule and panics if there's an error.
func MustNewMatch(match string, agents ...string) *Rule {
	r, err := NewMatch(match, agents...)
	if err != nil {
		panic(err)
	}

	return r
}

// Compile compiles the rule's pattern or match expression.
// Calling Compile on an already compiled rule is a no-op.
func (r *Rule) Compile() error {
	if len(r.Agents) == 0 {
		return ErrNoAgents
	}

	switch {
	case r.Pattern != "" && r.Match != "":
		return ErrMultipleMatchers

	case r.Pattern != "":
		if r.pattern != nil {
			return nil
		}

		re, err := regexp.Compile(`^(?:` + r.Pattern + `)`)
		if err != nil {
			return fmt.Errorf("compile pattern: %w", err)
		}

		r.pattern = re

	case r.Match != "":
		if r.match != nil {
			return nil
		}

		m, err := expr.CompileFilesMatch(r.Match)
		if err != nil {
			return fmt.Errorf("compile match expression: %w", err)
		}

		r.match = m

	default:
		return ErrNoMatcher
	}

	return nil
}

// MatchFiles reports whether the rule matches the given file paths.
// A pattern rule matches when any single path matches.
func (r *Rule) MatchFiles(files []string) bool {
	if r.pattern == nil && r.match == nil {
		panic(errors.New("rule was not compiled"))
	}

	if r.pattern != nil {
		for _, f := range files {
			if r.pattern.MatchString(f) {
				return true
			}
		}

		return false
	}

	ok, err := r.match.Eval(files)
	if err != nil {
		slog.Debug("file rule did not evaluate", slog.Any("error", err))

		return false
	}

	return ok
}

// GetAgents returns the resolved agents implied by the rule.
func (r *Rule) GetAgents() []*agent.Agent {
	if len(r.agents) != len(r.Agents) {
		panic(errors.New("rule agents were not resolved"))
	}

	return r.agents
}

// SetAgents sets the resolved agents, in the same order as Agents.
func (r *Rule) SetAgents(agents []*agent.Agent) {
	r.agents = agents
}

// Clone returns a copy of the rule that shares its compiled matcher but has
// its own agent references.
func (r *Rule) Clone() *Rule {
	c := *r
	c.Agents = slices.Clone(r.Agents)
	c.agents = nil

	return &c
}

func (r *Rule) String() string {
	m := r.Pattern
	if m == "" {
		m = r.Match
	}

	return fmt.Sprintf("%s: %s", m, strings.Join(r.Agents, ", "))
}
