// Package expr compiles CEL (Common Expression Language) expressions for
// file rules.
//
// Expressions see one variable:
//   - `files` (list<string>): the file paths supplied with the prompt
//
// Besides the CEL string and list extensions they can call:
//   - pathBase(string): the last element of a path
//   - pathDir(string): all but the last element of a path
//   - pathExt(string): the file extension, including the dot
package expr
