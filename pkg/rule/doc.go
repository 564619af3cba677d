// Package rule determines which agents are implied by a set of file paths.
//
// A rule either carries a regular expression that is matched against each
// path from its start, or a CEL expression that is evaluated once against
// the whole file list.
package rule
