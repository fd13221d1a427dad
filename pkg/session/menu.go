package session

import (
	"fmt"

	"github.com/goliatone/go-formfill/pkg/inputs"
)

type actionKind int

const (
	actionEdit actionKind = iota
	actionAdd
	actionRemove
	actionDone
)

type listAction struct {
	kind  actionKind
	index int
	label string
}

type menu []listAction

func (m menu) labels() []string {
	out := make([]string, len(m))
	for i, action := range m {
		out[i] = action.label
	}
	return out
}

// listMenu lists one edit entry per element, then add and remove when the
// bounds allow them, then done.
func listMenu(in inputs.ListInput, n int) menu {
	out := make(menu, 0, n+3)
	for i := 0; i < n; i++ {
		out = append(out, listAction{kind: actionEdit, index: i, label: fmt.Sprintf("Edit element %d", i+1)})
	}
	if in.CanGrow(n) {
		out = append(out, listAction{kind: actionAdd, label: "Add element"})
	}
	if in.CanShrink(n) {
		out = append(out, listAction{kind: actionRemove, label: "Remove element"})
	}
	return append(out, listAction{kind: actionDone, label: "Done"})
}

func elementLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Element %d", i+1)
	}
	return out
}
