package present

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/macropower/scout/pkg/invoke"
	"github.com/macropower/scout/pkg/suggest"
	"github.com/macropower/scout/pkg/yaml"
)

// ErrUnknownFormat is returned for output formats other than [AllFormats].
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// AllFormats lists the supported output formats.
var AllFormats = []string{string(FormatText), string(FormatJSON), string(FormatYAML)}

// GetFormat parses an output format.
func GetFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if !slices.Contains(AllFormats, string(f)) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return f, nil
}

const (
	noMatchMessage   = "No specific technology agent suggested for this context"
	noContextMessage = "No context provided. Use: echo 'your prompt' | scout"
	tipMessage       = "Use the primary agent for best results, or combine multiple agents for complex tasks"
	dividerWidth     = 50
)

// Command is a launchable agent in machine readable output.
type Command struct {
	suggest.Candidate `json:",inline"`

	// Command is the shell-quoted command line that launches the agent.
	Command string `json:"command"`
}

// Output is the document written by the json and yaml formats.
type Output struct {
	Primary   string    `json:"primary,omitempty"`
	Secondary []string  `json:"secondary"`
	Reasoning []string  `json:"reasoning"`
	Commands  []Command `json:"commands"`
}

// Presenter writes a [suggest.Result] in one [Format].
type Presenter struct {
	invoke *invoke.Config
	styles styles
	format Format
}

// PresenterOpt is a functional option for configuring a [Presenter].
type PresenterOpt func(*Presenter)

// WithFormat sets the output format. Defaults to [FormatText].
func WithFormat(format Format) PresenterOpt {
	return func(p *Presenter) {
		p.format = format
	}
}

// WithInvokeConfig sets the command used to display launch commands.
// Defaults to [invoke.NewConfig].
func WithInvokeConfig(cfg *invoke.Config) PresenterOpt {
	return func(p *Presenter) {
		p.invoke = cfg
	}
}

// WithColor enables or disables ANSI styling in text output.
func WithColor(colored bool) PresenterOpt {
	return func(p *Presenter) {
		r := lipgloss.NewRenderer(io.Discard)
		if colored {
			r.SetColorProfile(termenv.ANSI256)
		} else {
			r.SetColorProfile(termenv.Ascii)
		}

		p.styles = newStyles(r)
	}
}

// New creates a new [Presenter]. Text output is uncolored unless [WithColor]
// is given.
func New(opts ...PresenterOpt) *Presenter {
	p := &Presenter{
		format: FormatText,
		invoke: invoke.NewConfig(),
	}

	WithColor(false)(p)

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Render writes res to w.
func (p *Presenter) Render(w io.Writer, res *suggest.Result) error {
	switch p.format {
	case FormatText:
		return p.renderText(w, res)
	case FormatJSON:
		out, err := p.Output(res)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err = enc.Encode(out)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case FormatYAML:
		out, err := p.Output(res)
		if err != nil {
			return err
		}

		err = yaml.Write(w, out)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, p.format)
}

// RenderNoContext writes the message shown when no prompt was given.
func (p *Presenter) RenderNoContext(w io.Writer) error {
	if p.format != FormatText {
		return p.Render(w, &suggest.Result{Secondary: []string{}, Reasoning: []string{}})
	}

	_, err := fmt.Fprintln(w, p.styles.info.Render("ℹ️  "+noContextMessage))
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

// Commands returns the launch command line for each candidate, in rank order.
func (p *Presenter) Commands(res *suggest.Result) ([]Command, error) {
	cmds := make([]Command, 0, len(res.Candidates))

	for _, c := range res.Candidates {
		line, err := p.invoke.CommandLine(invoke.Data{Agent: c.Agent, Icon: c.Icon})
		if err != nil {
			return nil, fmt.Errorf("command for %s: %w", c.Agent, err)
		}

		cmds = append(cmds, Command{Candidate: c, Command: line})
	}

	return cmds, nil
}

// Output builds the machine readable document for res.
func (p *Presenter) Output(res *suggest.Result) (*Output, error) {
	cmds, err := p.Commands(res)
	if err != nil {
		return nil, err
	}

	return &Output{
		Primary:   res.Primary,
		Secondary: nonNil(res.Secondary),
		Reasoning: nonNil(res.Reasoning),
		Commands:  cmds,
	}, nil
}

func (p *Presenter) renderText(w io.Writer, res *suggest.Result) error {
	var b strings.Builder

	if !res.Found() {
		b.WriteString(p.styles.info.Render("ℹ️  " + noMatchMessage))
		b.WriteString("\n")

		return write(w, b.String())
	}

	cmds, err := p.Commands(res)
	if err != nil {
		return err
	}

	divider := p.styles.divider.Render(strings.Repeat("-", dividerWidth))

	b.WriteString("\n")
	b.WriteString(p.styles.header.Render("🤖 Agent Suggestions:"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")

	for i, c := range cmds {
		style := p.styles.secondary
		if i == 0 {
			style = p.styles.primary
		}

		b.WriteString("  ")
		b.WriteString(style.Render(strings.TrimSpace(c.Icon + " " + c.Command)))
		b.WriteString("\n")
	}

	if len(res.Reasoning) > 0 {
		b.WriteString("\n")
		b.WriteString(p.styles.header.Render("📝 Reasoning:"))
		b.WriteString("\n")

		for _, r := range res.Reasoning {
			b.WriteString("  • ")
			b.WriteString(p.styles.reason.Render(r))
			b.WriteString("\n")
		}
	}

	b.WriteString(divider)
	b.WriteString("\n\n")
	b.WriteString(p.styles.tip.Render("💡 Tip: " + tipMessage))
	b.WriteString("\n")

	return write(w, b.String())
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
