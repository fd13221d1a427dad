// Package inputs describes the form a scenario asks the user to fill.
//
// A Scenario pairs a template with a List of inputs. Each input names the
// document path it writes to, relative to its parent: groups nest their
// children under their own key, lists repeat their children once per array
// element. Inputs are tagged by "type" when encoded:
//
//	{"type": "text", "key": "name", "name": "Name", "validate_regex": "[A-Z].*"}
//	{"type": "list", "key": "people", "name": "People", "inputs": [...]}
//
// Descriptors drive the terminal session only; the document store does not
// consult them.
package inputs
