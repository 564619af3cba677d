// Package config loads scout configuration documents.
//
// Every kind goes through the same steps: decode to an untyped document,
// validate it against the kind's JSON schema, decode it into the typed
// object, fill defaults, then run the object's own validation. Errors at any
// step are annotated with the offending lines of the source document.
package config
