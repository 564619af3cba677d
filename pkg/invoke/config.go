package invoke

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/mattn/go-shellwords"
)

var (
	// ErrEmptyCommand is returned when no executable is configured.
	ErrEmptyCommand = errors.New("empty command")

	// ErrNotCompiled is returned when a [Config] is rendered before [Config.Compile].
	ErrNotCompiled = errors.New("invoke config was not compiled")
)

// Data is passed to argument templates.
type Data struct {
	// Agent is the agent ID.
	Agent string
	// Task is the prompt the agent should work on. It may be empty.
	Task string
	// Icon is the agent's display icon.
	Icon string
}

// Config describes how to launch the agent runner.
//
// Every element of Args and TaskArgs is a Go template rendered with [Data].
// TaskArgs are only appended when there is a task, so the same config yields
// both the displayed command and the launched one.
type Config struct {
	args     []*template.Template
	taskArgs []*template.Template

	// Command is the executable, looked up in PATH when it has no separator.
	Command string `json:"command" jsonschema:"title=Command,pattern=^\\S+$"`
	// Args are argument templates, e.g. "{{ .Agent }}".
	Args []string `json:"args,omitempty" jsonschema:"title=Arguments" yaml:"args,flow,omitempty"`
	// TaskArgs are argument templates appended when a task is given.
	TaskArgs []string `json:"taskArgs,omitempty" jsonschema:"title=Task Arguments" yaml:"taskArgs,flow,omitempty"`
	// Env sets environment variables.
	Env []EnvVar `json:"env,omitempty" jsonschema:"title=Environment Variables"`
	// EnvFrom inherits environment variables from the caller.
	EnvFrom []*CallerRef `json:"envFrom,omitempty" jsonschema:"title=Environment Variables From"`
}

// NewConfig returns the default runner configuration, which launches
// `claude code --agent <id> --task <prompt>`.
func NewConfig() *Config {
	c := &Config{
		Command:  "claude",
		Args:     []string{"code", "--agent", "{{ .Agent }}"},
		TaskArgs: []string{"--task", "{{ .Task }}"},
		EnvFrom: []*CallerRef{
			{Pattern: "^(ANTHROPIC|CLAUDE)_.+"},
		},
	}

	err := c.Compile()
	if err != nil {
		panic(err)
	}

	return c
}

// Parse creates a [Config] from a command line such as
// `claude code --agent {{ .Agent }}`. The line is split into words like a
// POSIX shell would, but it is never executed by one. Template actions stay
// in one word even when they contain spaces.
func Parse(commandLine string) (*Config, error) {
	words, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parse command line: %w", err)
	}

	words = joinActions(words)

	if len(words) == 0 {
		return nil, ErrEmptyCommand
	}

	c := &Config{
		Command: words[0],
		Args:    words[1:],
	}

	err = c.Compile()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// joinActions rejoins words that the shell split inside a template action,
// so `{{`, `.Agent` and `}}` become `{{ .Agent }}` again. A word with an
// action left open absorbs the following words until it is closed.
func joinActions(words []string) []string {
	joined := make([]string, 0, len(words))

	var open bool

	for _, w := range words {
		if open {
			joined[len(joined)-1] += " " + w
		} else {
			joined = append(joined, w)
		}

		last := joined[len(joined)-1]
		open = strings.Count(last, "{{") > strings.Count(last, "}}")
	}

	return joined
}

// Compile parses all templates and patterns. It is safe to call more than once.
func (c *Config) Compile() error {
	if strings.TrimSpace(c.Command) == "" {
		return ErrEmptyCommand
	}

	args, err := parseTemplates("args", c.Args)
	if err != nil {
		return err
	}

	taskArgs, err := parseTemplates("taskArgs", c.TaskArgs)
	if err != nil {
		return err
	}

	for i, ref := range c.EnvFrom {
		if ref == nil {
			continue
		}

		err := ref.Compile()
		if err != nil {
			return fmt.Errorf("envFrom[%d]: %w", i, err)
		}
	}

	for i, v := range c.Env {
		if v.Name == "" {
			return fmt.Errorf("env[%d]: name is required", i)
		}
	}

	c.args = args
	c.taskArgs = taskArgs

	return nil
}

// Argv renders the argument vector for an agent and task. The first element
// is the command.
func (c *Config) Argv(data Data) ([]string, error) {
	if c.args == nil && len(c.Args) > 0 || c.taskArgs == nil && len(c.TaskArgs) > 0 {
		return nil, ErrNotCompiled
	}

	argv := []string{c.Command}

	rendered, err := render(c.args, data)
	if err != nil {
		return nil, err
	}

	argv = append(argv, rendered...)

	if data.Task != "" {
		rendered, err = render(c.taskArgs, data)
		if err != nil {
			return nil, err
		}

		argv = append(argv, rendered...)
	}

	return argv, nil
}

// CommandLine renders the command for display, quoting arguments that
// contain whitespace or shell metacharacters.
func (c *Config) CommandLine(data Data) (string, error) {
	argv, err := c.Argv(data)
	if err != nil {
		return "", err
	}

	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = quote(arg)
	}

	return strings.Join(quoted, " "), nil
}

func parseTemplates(field string, texts []string) ([]*template.Template, error) {
	tmpls := make([]*template.Template, 0, len(texts))

	for i, text := range texts {
		tmpl, err := template.New(fmt.Sprintf("%s[%d]", field, i)).
			Option("missingkey=error").
			Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}

		tmpls = append(tmpls, tmpl)
	}

	return tmpls, nil
}

func render(tmpls []*template.Template, data Data) ([]string, error) {
	out := make([]string, 0, len(tmpls))

	for _, tmpl := range tmpls {
		var buf bytes.Buffer

		err := tmpl.Execute(&buf, data)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
		}

		out = append(out, buf.String())
	}

	return out, nil
}

func quote(s string) string {
	if s == "" {
		return "''"
	}

	if !strings.ContainsAny(s, " \t\n'\"\\$`|&;<>()*?[]#~!{}") {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
