package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/rule"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr    error
		pattern    string
		wantErrMsg string
		agents     []string
	}{
		"valid pattern": {
			pattern: `.*\.tsx$`,
			agents:  []string{"react-component-engineer", "typescript-guardian"},
		},
		"invalid pattern": {
			pattern:    `.*\.(tsx$`,
			agents:     []string{"react-component-engineer"},
			wantErrMsg: "compile pattern",
		},
		"empty pattern": {
			pattern: "",
			agents:  []string{"react-component-engineer"},
			wantErr: rule.ErrNoMatcher,
		},
		"no agents": {
			pattern: `.*\.css$`,
			wantErr: rule.ErrNoAgents,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := rule.New(tc.pattern, tc.agents...)

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, r)

			case tc.wantErrMsg != "":
				require.ErrorContains(t, err, tc.wantErrMsg)
				assert.Nil(t, r)

			default:
				require.NoError(t, err)
				assert.Equal(t, tc.pattern, r.Pattern)
				assert.Equal(t, tc.agents, r.Agents)
			}
		})
	}
}

func TestNewMatch(t *testing.T) {
	t.Parallel()

	r, err := rule.NewMatch(`files.exists(f, pathExt(f) == ".cypher")`, "neo4j-graph-specialist")
	require.NoError(t, err)
	assert.True(t, r.MatchFiles([]string{"db/seed.cypher"}))
	assert.False(t, r.MatchFiles([]string{"db/seed.sql"}))

	_, err = rule.NewMatch(`files.exists(f, bogus(f))`, "neo4j-graph-specialist")
	require.ErrorContains(t, err, "compile match expression")
}

func TestMustNew(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		rule.MustNew(`(`, "a")
	})
	assert.Panics(t, func() {
		rule.MustNewMatch(`1 + 1`, "a")
	})
	assert.NotPanics(t, func() {
		rule.MustNew(`.*\.css$`, "tailwind-css-designer")
	})
}

func TestRule_Compile(t *testing.T) {
	t.Parallel()

	r := &rule.Rule{
		Pattern: `.*\.css$`,
		Match:   `true`,
		Agents:  []string{"tailwind-css-designer"},
	}
	require.ErrorIs(t, r.Compile(), rule.ErrMultipleMatchers)

	r = &rule.Rule{
		Pattern: `.*\.css$`,
		Agents:  []string{"tailwind-css-designer"},
	}
	require.NoError(t, r.Compile())
	// Compiling again should not cause an error.
	require.NoError(t, r.Compile())
}

func TestRule_MatchFiles(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		pattern string
		files   []string
		want    bool
	}{
		"tsx anywhere": {
			pattern: `.*\.tsx$`,
			files:   []string{"app/components/Button.tsx"},
			want:    true,
		},
		"app dir requires a leading separator": {
			pattern: `.*/app/.*\.tsx$`,
			files:   []string{"app/components/Button.tsx"},
			want:    false,
		},
		"app dir nested": {
			pattern: `.*/app/.*\.tsx$`,
			files:   []string{"src/app/page.tsx"},
			want:    true,
		},
		"anchored at start only": {
			pattern: `src`,
			files:   []string{"src/index.ts"},
			want:    true,
		},
		"not a search": {
			pattern: `index`,
			files:   []string{"src/index.ts"},
			want:    false,
		},
		"any of several paths": {
			pattern: `.*(Dockerfile|docker-compose.*\.yml)$`,
			files:   []string{"README.md", "deploy/docker-compose.prod.yml"},
			want:    true,
		},
		"test files": {
			pattern: `.*\.(spec|test)\.(ts|tsx)$`,
			files:   []string{"src/button.test.tsx"},
			want:    true,
		},
		"no files": {
			pattern: `.*\.css$`,
			files:   nil,
			want:    false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := rule.MustNew(tc.pattern, "some-agent")
			assert.Equal(t, tc.want, r.MatchFiles(tc.files))
		})
	}
}

func TestRule_Agents(t *testing.T) {
	t.Parallel()

	r := rule.MustNew(`.*\.css$`, "tailwind-css-designer")
	assert.Panics(t, func() {
		r.GetAgents()
	})

	a := agent.MustNew(75)
	r.SetAgents([]*agent.Agent{a})
	assert.Equal(t, []*agent.Agent{a}, r.GetAgents())
	assert.Equal(t, `.*\.css$: tailwind-css-designer`, r.String())
}

func TestRule_Clone(t *testing.T) {
	t.Parallel()

	r := rule.MustNew(`.*\.cypher$`, "neo4j-graph-specialist")
	r.SetAgents([]*agent.Agent{agent.MustNew(80)})

	c := r.Clone()
	assert.Equal(t, r.Pattern, c.Pattern)
	assert.True(t, c.MatchFiles([]string{"db/seed.cypher"}))
	assert.Panics(t, func() {
		c.GetAgents()
	})

	c.Agents[0] = "other"
	assert.Equal(t, []string{"neo4j-graph-specialist"}, r.Agents)
}
