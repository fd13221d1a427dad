package document

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyPatch applies an RFC 6902 JSON patch to the document. The patch is
// applied to a serialized copy, so a failing patch leaves the document
// untouched. Object keys come back in lexical order.
func (d *Document) ApplyPatch(raw []byte) error {
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return fmt.Errorf("document: decode patch: %w", err)
	}
	current, err := json.Marshal(d.Root())
	if err != nil {
		return fmt.Errorf("document: encode: %w", err)
	}
	patched, err := patch.Apply(current)
	if err != nil {
		return fmt.Errorf("document: apply patch: %w", err)
	}
	v, err := Decode(patched)
	if err != nil {
		return err
	}
	d.root = v
	return nil
}

// MergePatch applies an RFC 7396 JSON merge patch to the document.
func (d *Document) MergePatch(raw []byte) error {
	current, err := json.Marshal(d.Root())
	if err != nil {
		return fmt.Errorf("document: encode: %w", err)
	}
	patched, err := jsonpatch.MergePatch(current, raw)
	if err != nil {
		return fmt.Errorf("document: merge patch: %w", err)
	}
	v, err := Decode(patched)
	if err != nil {
		return err
	}
	d.root = v
	return nil
}
