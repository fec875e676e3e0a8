// Package declaration defines what a single declaration source evaluates
// to: the five provider categories, the extension-point contracts whose
// self-reported keys decide where a provider is registered, and the
// Evaluator interface that turns source text into a Set.
//
// The text format itself belongs to the evaluator implementations (see the
// hcl and yamldecl packages); this package only fixes the result shape.
package declaration
