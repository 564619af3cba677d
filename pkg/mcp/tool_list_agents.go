package mcp

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleListAgents(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListAgentsInput,
) (*mcp.CallToolResult, ListAgentsOutput, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ListAgentsOutput{}, ErrNoSnapshot
	}

	reg := snap.Suggester.Registry()
	out := ListAgentsOutput{Agents: []AgentInfo{}}

	for _, id := range reg.IDs() {
		a, _ := reg.Get(id)

		info := AgentInfo{
			ID:          id,
			Icon:        a.Icon,
			Description: a.Description,
			Priority:    a.Priority,
			Triggers:    slices.Clone(a.Triggers),
			Rules:       []string{},
		}
		if info.Triggers == nil {
			info.Triggers = []string{}
		}

		for _, rl := range reg.RulesFor(id) {
			info.Rules = append(info.Rules, cmp.Or(rl.Pattern, rl.Match))
		}

		out.Agents = append(out.Agents, info)
	}

	slices.SortStableFunc(out.Agents, func(a, b AgentInfo) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	var text strings.Builder
	for _, a := range out.Agents {
		fmt.Fprintf(&text, "%s %s (%d)\n", a.Icon, a.ID, a.Priority)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text.String()}},
	}, out, nil
}
