// Package agent defines technology agent profiles.
//
// An agent has a set of trigger phrases, a [Priority] used for ranking, and a
// cosmetic icon. A trigger matches when it occurs anywhere in a prompt, after
// both have been case folded.
package agent
