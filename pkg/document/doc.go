// Package document stores one JSON value and edits it by dotted path.
//
// Values form a closed set (Null, Bool, Number, String, *Array, *Object)
// mirroring the JSON data model. Objects keep insertion order and numbers
// keep their source text, so a document survives a JSON or YAML round trip
// unchanged.
//
// Writes auto-vivify: InsertAt creates missing objects along the path and
// pads arrays with empty-object placeholders, while ResizeArrayAt turns
// whatever sits at a path into an array of the requested length. Reads never
// fail; a path that does not resolve simply reports false.
package document
