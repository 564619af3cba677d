package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// VarFiles is the name of the CEL variable holding the supplied file paths.
const VarFiles = "files"

// ErrNotBool is returned for expressions that do not evaluate to a boolean.
var ErrNotBool = errors.New("expression must return bool")

var (
	// Compilation shares one environment; checking is serialized.
	compileMu sync.Mutex

	filesEnv = sync.OnceValues(func() (*cel.Env, error) {
		env, err := cel.NewEnv(
			cel.Variable(VarFiles, cel.ListType(cel.StringType)),
			cel.Lib(pathLib{}),
		)
		if err != nil {
			return nil, fmt.Errorf("create CEL environment: %w", err)
		}

		return env, nil
	})
)

// FilesMatch is a compiled boolean expression over a list of file paths.
// It is safe for concurrent use.
type FilesMatch struct {
	program    cel.Program
	expression string
}

// CompileFilesMatch type checks expression against the `files` variable and
// the path functions, and prepares it for evaluation.
func CompileFilesMatch(expression string) (*FilesMatch, error) {
	env, err := filesEnv()
	if err != nil {
		return nil, err
	}

	compileMu.Lock()
	defer compileMu.Unlock()

	ast, issues := env.Compile(expression)
	if issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("compile expression: %w, got %s", ErrNotBool, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return &FilesMatch{program: program, expression: expression}, nil
}

// Eval runs the expression with files bound to the `files` variable.
func (m *FilesMatch) Eval(files []string) (bool, error) {
	if files == nil {
		files = []string{}
	}

	out, _, err := m.program.Eval(map[string]any{VarFiles: files})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", m.expression, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: %w, got %T", m.expression, ErrNotBool, out.Value())
	}

	return b, nil
}

func (m *FilesMatch) String() string {
	return m.expression
}
