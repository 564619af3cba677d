package registry

import (
	"github.com/macropower/scout/pkg/agent"
	"github.com/macropower/scout/pkg/rule"
)

// DefaultAgents returns a new copy of the built-in agents.
func DefaultAgents() map[string]*agent.Agent {
	return map[string]*agent.Agent{
		"nextjs-architect": agent.MustNew(90,
			agent.WithIcon("🔷"),
			agent.WithDescription("Next.js routing, rendering and middleware"),
			agent.WithTriggers("next.js", "nextjs", "app router", "server component", "next/", "middleware.ts"),
		),
		"react-component-engineer": agent.MustNew(85,
			agent.WithIcon("⚛️"),
			agent.WithDescription("React components and hooks"),
			agent.WithTriggers("react", "component", "hooks", "useState", "useEffect", "jsx", "tsx"),
		),
		"typescript-guardian": agent.MustNew(80,
			agent.WithIcon("📘"),
			agent.WithDescription("TypeScript types and compiler configuration"),
			agent.WithTriggers("typescript", "type safety", "interface", "generics", "tsconfig", "type definition"),
		),
		"tailwind-css-designer": agent.MustNew(75,
			agent.WithIcon("🎨"),
			agent.WithDescription("Tailwind CSS styling"),
			agent.WithTriggers("tailwind", "className", "dark mode", "utility classes", "tailwind.config"),
		),
		"radix-ui-specialist": agent.MustNew(70,
			agent.WithIcon("♿"),
			agent.WithDescription("Accessible Radix UI primitives"),
			agent.WithTriggers("radix", "accessible", "aria", "dropdown", "dialog", "popover", "@radix-ui"),
		),
		"framer-motion-animator": agent.MustNew(65,
			agent.WithIcon("🎬"),
			agent.WithDescription("Framer Motion animations and gestures"),
			agent.WithTriggers("framer", "motion", "animation", "animate", "transition", "gesture"),
		),
		"copilotkit-integration-expert": agent.MustNew(95,
			agent.WithIcon("💬"),
			agent.WithDescription("CopilotKit chat and copilot integration"),
			agent.WithTriggers("copilotkit", "copilot", "conversation", "chat ui", "useCopilot"),
		),
		"n8n-workflow-engineer": agent.MustNew(90,
			agent.WithIcon("⚙️"),
			agent.WithDescription("n8n workflows, webhooks and custom nodes"),
			agent.WithTriggers("n8n", "workflow", "webhook", "trigger", "automation", "custom node"),
		),
		"prisma-database-architect": agent.MustNew(85,
			agent.WithIcon("🗃️"),
			agent.WithDescription("Prisma schema and migrations"),
			agent.WithTriggers("prisma", "migration", "database", "orm", "schema.prisma"),
		),
		"neo4j-graph-specialist": agent.MustNew(80,
			agent.WithIcon("🕸️"),
			agent.WithDescription("Neo4j graph modelling and Cypher"),
			agent.WithTriggers("neo4j", "cypher", "graph", "knowledge graph", "node relationship"),
		),
		"postgresql-performance-tuner": agent.MustNew(75,
			agent.WithIcon("🐘"),
			agent.WithDescription("PostgreSQL query and index tuning"),
			agent.WithTriggers("postgresql", "postgres", "query optimization", "index", "vacuum"),
		),
		"docker-orchestration-manager": agent.MustNew(70,
			agent.WithIcon("🐳"),
			agent.WithDescription("Dockerfiles and Compose stacks"),
			agent.WithTriggers("docker", "dockerfile", "container", "compose", "docker-compose"),
		),
		"redis-cache-optimizer": agent.MustNew(65,
			agent.WithIcon("⚡"),
			agent.WithDescription("Redis caching, sessions and pub/sub"),
			agent.WithTriggers("redis", "cache", "session", "pub/sub", "memory store"),
		),
		"websocket-communication-architect": agent.MustNew(60,
			agent.WithIcon("🔌"),
			agent.WithDescription("WebSocket and real-time messaging"),
			agent.WithTriggers("websocket", "socket.io", "real-time", "ws://", "broadcast"),
		),
		"vitest-testing-engineer": agent.MustNew(55,
			agent.WithIcon("🧪"),
			agent.WithDescription("Vitest unit tests and mocks"),
			agent.WithTriggers("vitest", "test", "spec", "describe", "expect", "mock"),
		),
		"npm-workspace-coordinator": agent.MustNew(50,
			agent.WithIcon("📦"),
			agent.WithDescription("npm workspaces and monorepo dependencies"),
			agent.WithTriggers("npm workspace", "monorepo", "package.json", "dependencies"),
		),
		"mcp-protocol-implementer": agent.MustNew(85,
			agent.WithIcon("🔧"),
			agent.WithDescription("Model Context Protocol servers and tools"),
			agent.WithTriggers("mcp", "model context protocol", "tool registration"),
		),
	}
}

// DefaultRules returns a new copy of the built-in file rules.
func DefaultRules() []*rule.Rule {
	return []*rule.Rule{
		rule.MustNew(`.*\.tsx$`, "react-component-engineer", "typescript-guardian"),
		rule.MustNew(`.*/app/.*\.tsx$`, "nextjs-architect"),
		rule.MustNew(`.*\.(spec|test)\.(ts|tsx)$`, "vitest-testing-engineer"),
		rule.MustNew(`.*schema\.prisma$`, "prisma-database-architect"),
		rule.MustNew(`.*(Dockerfile|docker-compose.*\.yml)$`, "docker-orchestration-manager"),
		rule.MustNew(`.*/n8n/.*\.ts$`, "n8n-workflow-engineer"),
		rule.MustNew(`.*\.css$`, "tailwind-css-designer"),
		rule.MustNew(`.*tailwind\.config\.(js|ts)$`, "tailwind-css-designer"),
		rule.MustNew(`.*/api/.*\.ts$`, "typescript-guardian"),
		rule.MustNew(`.*\.cypher$`, "neo4j-graph-specialist"),
	}
}
