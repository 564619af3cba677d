// Package invoke launches an external agent runner for a suggested agent.
//
// The runner is described by a [Config]: an executable and argument
// templates that are rendered one argument at a time. The result is always an
// argument vector passed directly to the executable. No shell is involved, so
// a prompt can never be interpreted as shell syntax.
package invoke
