// Package render produces the scenario output from the document data.
//
// Engine wraps a pongo2 template set: the scenario template is compiled once
// with SetTemplate and rendered after every edit with the current document.
// Top-level object keys are template variables and the whole document is
// also reachable as "data":
//
//	Hello {{ customer.name }}
//	{% for line in lines %}{{ line.label }}{% endfor %}
//	{{ data|tojson }}
//
// Diff summarises what changed between two renders.
package render
