package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/scout/pkg/expr"
)

func TestPathFunctions(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		files      []string
		want       bool
	}{
		"pathBase exact": {
			expression: `files.exists(f, pathBase(f) == "Dockerfile")`,
			files:      []string{"deploy/Dockerfile", "main.go"},
			want:       true,
		},
		"pathBase no match": {
			expression: `files.exists(f, pathBase(f) == "Dockerfile")`,
			files:      []string{"deploy/compose.yml"},
			want:       false,
		},
		"pathExt in list": {
			expression: `files.exists(f, pathExt(f) in [".cypher", ".cql"])`,
			files:      []string{"graph/seed.cql"},
			want:       true,
		},
		"pathDir suffix": {
			expression: `files.exists(f, pathDir(f).endsWith("/migrations"))`,
			files:      []string{"prisma/migrations/001.sql"},
			want:       true,
		},
		"windows separators": {
			expression: `files.exists(f, pathBase(f) == "schema.prisma")`,
			files:      []string{`prisma\schema.prisma`},
			want:       true,
		},
		"empty file list": {
			expression: `files.exists(f, pathExt(f) == ".tsx")`,
			files:      []string{},
			want:       false,
		},
		"all files": {
			expression: `files.size() > 0 && files.all(f, pathExt(f) == ".css")`,
			files:      []string{"a.css", "b/c.css"},
			want:       true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m, err := expr.CompileFilesMatch(tc.expression)
			require.NoError(t, err)

			got, err := m.Eval(tc.files)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		wantErr    string
	}{
		"boolean literal": {
			expression: `true`,
		},
		"undeclared function": {
			expression: `files.exists(f, nope(f))`,
			wantErr:    "compile expression",
		},
		"non-boolean result": {
			expression: `files.filter(f, pathExt(f) == ".ts")`,
			wantErr:    expr.ErrNotBool.Error(),
		},
		"empty": {
			expression: ``,
			wantErr:    "compile expression",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m, err := expr.CompileFilesMatch(tc.expression)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				assert.Nil(t, m)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expression, m.String())
		})
	}
}

func TestFilesMatch_Eval(t *testing.T) {
	t.Parallel()

	m, err := expr.CompileFilesMatch(`files.size() == 0 || files[0] != ""`)
	require.NoError(t, err)

	got, err := m.Eval(nil)
	require.NoError(t, err)
	assert.True(t, got)

	// Indexing past the end is a runtime error.
	m, err = expr.CompileFilesMatch(`files[1] == "b"`)
	require.NoError(t, err)

	_, err = m.Eval([]string{"a"})
	require.Error(t, err)
}
