// Package mcp serves agent suggestions over the Model Context Protocol.
package mcp

import (
	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/suggest"
)

const (
	name         = "scout"
	instructions = `MCP Server 'scout' recommends which specialized agent should handle a task, based on the task description and the files it touches.

When to use these tools:
- Before delegating work to a sub-agent, to pick the agent that fits the technologies involved
- When a task mentions frameworks, languages, or tools and you are unsure which specialist to use

Workflow:
1. Call 'suggest_agents' with the user's request as 'prompt', and any relevant file paths as 'files'
2. Use the returned 'primary' agent for the task. Consider the 'secondary' agents for multi-technology tasks
3. Call 'list_agents' to see every available agent, its triggers, and the file rules that imply it
`
)

// SuggestAgentsInput is the input of the suggest_agents tool.
type SuggestAgentsInput struct {
	Prompt string   `json:"prompt"          jsonschema:"The user's request or task description."`
	Files  []string `json:"files,omitempty" jsonschema:"Paths of files related to the task, relative or absolute."`
}

// Suggestion is one ranked agent.
type Suggestion struct {
	Agent    string         `json:"agent"             jsonschema:"The agent ID."`
	Icon     string         `json:"icon,omitempty"    jsonschema:"The agent's display icon."`
	Trigger  string         `json:"trigger,omitempty" jsonschema:"The trigger phrase that matched the prompt, if any."`
	Source   suggest.Source `json:"source"            jsonschema:"Which signal ranked the agent: text, file, or both."`
	Command  string         `json:"command"           jsonschema:"The command line that launches the agent."`
	Priority agent.Priority `json:"priority"          jsonschema:"The effective priority. Higher is better."`
}

// SuggestAgentsOutput is the output of the suggest_agents tool.
type SuggestAgentsOutput struct {
	Primary     string       `json:"primary,omitempty" jsonschema:"The best matching agent ID. Empty when nothing matched."`
	Secondary   []string     `json:"secondary"         jsonschema:"Alternative agent IDs, best first."`
	Reasoning   []string     `json:"reasoning"         jsonschema:"Why the agents were selected."`
	Suggestions []Suggestion `json:"suggestions"       jsonschema:"The primary and secondary agents, in rank order."`
}

// ListAgentsInput is the input of the list_agents tool.
type ListAgentsInput struct{}

// AgentInfo describes one registered agent.
type AgentInfo struct {
	ID          string         `json:"id"                    jsonschema:"The agent ID."`
	Icon        string         `json:"icon,omitempty"        jsonschema:"The agent's display icon."`
	Description string         `json:"description,omitempty" jsonschema:"A short summary of the agent."`
	Triggers    []string       `json:"triggers"              jsonschema:"Phrases that suggest the agent when found in a prompt."`
	Rules       []string       `json:"rules"                 jsonschema:"File rules that imply the agent."`
	Priority    agent.Priority `json:"priority"              jsonschema:"The ranking weight. Higher is better."`
}

// ListAgentsOutput is the output of the list_agents tool.
type ListAgentsOutput struct {
	Agents []AgentInfo `json:"agents" jsonschema:"All agents, by descending priority."`
}
