package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleSuggestAgents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	in SuggestAgentsInput,
) (*mcp.CallToolResult, SuggestAgentsOutput, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, SuggestAgentsOutput{}, ErrNoSnapshot
	}

	res := snap.Suggester.Suggest(ctx, in.Prompt, in.Files)

	doc, err := snap.Presenter.Output(res)
	if err != nil {
		return nil, SuggestAgentsOutput{}, fmt.Errorf("build output: %w", err)
	}

	out := SuggestAgentsOutput{
		Primary:     doc.Primary,
		Secondary:   doc.Secondary,
		Reasoning:   doc.Reasoning,
		Suggestions: make([]Suggestion, 0, len(doc.Commands)),
	}

	for _, c := range doc.Commands {
		out.Suggestions = append(out.Suggestions, Suggestion{
			Agent:    c.Agent,
			Icon:     c.Icon,
			Trigger:  c.Trigger,
			Source:   c.Source,
			Command:  c.Command,
			Priority: c.Priority,
		})
	}

	var text bytes.Buffer

	err = snap.Presenter.Render(&text, res)
	if err != nil {
		return nil, SuggestAgentsOutput{}, fmt.Errorf("render: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text.String()}},
	}, out, nil
}
