package rulematch

import (
	"strings"

	"golang.org/x/exp/slices"
)

// IDs returns the rule ids in ascending order.
func (r Rules) IDs() []RuleID {
	ids := make([]RuleID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// String returns the rule set in the textual rule syntax, one rule per line in
// ascending id order.
func (r Rules) String() string {
	w := &strings.Builder{}
	for i, id := range r.IDs() {
		if i > 0 {
			w.WriteString("\n")
		}
		w.WriteString(id.String())
		w.WriteString(": ")
		w.WriteString(r[id].String())
	}
	return w.String()
}
