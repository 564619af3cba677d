package invoke

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// Variables that are always passed through from the caller.
var essentialVars = []string{"PATH", "HOME", "USER", "TERM", "COLORTERM", "LANG"}

// EnvVar is an environment variable set for the launched command.
type EnvVar struct {
	// ValueFrom copies the value from a variable of the caller.
	ValueFrom *CallerRef `json:"valueFrom,omitempty" jsonschema:"title=Value From"`
	// Name is the environment variable name.
	Name string `json:"name" jsonschema:"title=Name,minLength=1"`
	// Value is a static value.
	Value string `json:"value,omitempty" jsonschema:"title=Value"`
}

// CallerRef selects environment variables of the calling process.
type CallerRef struct {
	pattern *regexp.Regexp

	// Pattern matches variable names to inherit.
	Pattern string `json:"pattern,omitempty" jsonschema:"title=Pattern,format=regex"`
	// Name is a single variable name to inherit.
	Name string `json:"name,omitempty" jsonschema:"title=Name"`
}

// Compile compiles Pattern, if set. It is a no-op when already compiled.
func (c *CallerRef) Compile() error {
	if c.pattern != nil || c.Pattern == "" {
		return nil
	}

	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("compile pattern %q: %w", c.Pattern, err)
	}

	c.pattern = re

	return nil
}

// ParseEnv converts "KEY=value" pairs, as returned by [os.Environ], into a map.
func ParseEnv(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if ok {
			env[key] = value
		}
	}

	return env
}

// buildEnv returns the sorted environment for the launched command: the
// essential caller variables, then inherited, static and extra variables,
// later sources overriding earlier ones.
func (c *Config) buildEnv(base, extra map[string]string) []string {
	env := map[string]string{}

	for _, key := range essentialVars {
		if value, ok := base[key]; ok {
			env[key] = value
		}
	}

	for _, ref := range c.EnvFrom {
		if ref.pattern != nil {
			for key, value := range base {
				if ref.pattern.MatchString(key) {
					env[key] = value
				}
			}
		}

		if value, ok := base[ref.Name]; ok && ref.Name != "" {
			env[ref.Name] = value
		}
	}

	for _, v := range c.Env {
		switch {
		case v.Value != "":
			env[v.Name] = v.Value
		case v.ValueFrom != nil && v.ValueFrom.Name != "":
			if value, ok := base[v.ValueFrom.Name]; ok {
				env[v.Name] = value
			}
		}
	}

	maps.Copy(env, extra)

	out := make([]string, 0, len(env))
	for _, key := range slices.Sorted(maps.Keys(env)) {
		out = append(out, key+"="+env[key])
	}

	return out
}
