// Package discovery runs the one-time discovery pass that turns declaration
// sources into a sealed registry.
//
// An Engine enumerates sources through a source.Provider, evaluates each
// with a declaration.Evaluator and routes the providers into the registry's
// category collections, later sources overriding earlier ones on key
// collisions. The pass runs at most once per Engine, on the goroutine that
// first calls Discover; concurrent callers wait for it and share its
// outcome, success or failure. After the pass the engine is sealed and
// Register fails with a *SealedRegistryError.
//
// Failing to list sources is not fatal: the pass continues with no sources.
// Failing to open, read or evaluate a listed source aborts the pass.
//
// Provider factories run while the engine holds its lock. A factory must not
// call back into the engine that is constructing it; doing so deadlocks.
package discovery
