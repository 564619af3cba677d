package expr

import (
	"path"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// pathLib adds the string and list extensions and the path functions.
type pathLib struct{}

func (pathLib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: files.exists(f, pathBase(f) == "Dockerfile").
		pathFunc("pathBase", path.Base),

		// `pathDir` returns all but the last element of the path.
		// Example: files.exists(f, pathDir(f).endsWith("/migrations")).
		pathFunc("pathDir", path.Dir),

		// `pathExt` returns the file extension of the path.
		// Example: files.exists(f, pathExt(f) in [".cypher", ".cql"]).
		pathFunc("pathExt", path.Ext),
	}
}

func (pathLib) ProgramOptions() []cel.ProgramOption {
	return nil
}

// pathFunc declares a CEL function name(string) string backed by fn.
// Backslashes are treated as separators so Windows paths behave the same.
func pathFunc(name string, fn func(string) string) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(name+"_string", []*cel.Type{cel.StringType}, cel.StringType,
			cel.UnaryBinding(func(val ref.Val) ref.Val {
				s, ok := val.(types.String)
				if !ok {
					return types.NewErr("%s: invalid string value", name)
				}

				return types.String(fn(strings.ReplaceAll(string(s), `\`, "/")))
			}),
		),
	)
}
