// Package visibility decides which inputs of a scenario are shown. Inputs
// carry an optional visible_if rule; an Evaluator resolves it against the
// values entered so far. The expr subpackage provides the default
// implementation.
package visibility
