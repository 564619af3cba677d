// Package registry joins the agent registry with the file rule registry.
//
// A [Registry] is validated once, when it is built: every rule's matcher is
// compiled and every agent reference is resolved to an [agent.Agent]. After a
// successful [Registry.Validate] the registry is read-only and may be shared
// between goroutines.
package registry
