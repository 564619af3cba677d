// Package suggest ranks agents for a prompt and a set of file paths.
//
// Text and file signals are matched independently against a
// [registry.Registry] and then merged: the strongest text matches keep their
// configured priority, while agents implied only by file rules are ranked
// slightly lower. The result is a primary agent, a short list of
// alternatives, and human readable reasoning.
package suggest
