// Package registry holds the category collections that discovery fills and
// the sealed Registry built from them.
//
// Discovery routes every declared provider into one of four typed
// collections (assemblers, weavers, runtimes, beliefs) keyed by the key the
// provider reports for itself, plus a plain map of named services. Build
// flattens all of it into a single immutable Registry: named services under
// their declared names, and each collection under its type key (see
// TypeKey). Once built, the collections are frozen and every further Put
// fails with ErrSealed.
//
// Reads on a built Registry need no locking.
package registry
