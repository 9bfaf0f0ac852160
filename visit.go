package rulematch

type visitorFunc func(id RuleID, rule Rule, next func() error) error

// visit calls visitor once for every rule reachable from start. The visitor
// calls next to descend into the rules it references, in order of reference.
// Dangling references are skipped.
func (r Rules) visit(start RuleID, edges func(Rule) []RuleID, visitor visitorFunc) error {
	return r._visit(map[RuleID]bool{}, start, edges, visitor)
}

func (r Rules) _visit(seen map[RuleID]bool, id RuleID, edges func(Rule) []RuleID, visitor visitorFunc) error {
	if seen[id] {
		return nil
	}
	seen[id] = true
	rule, ok := r[id]
	if !ok {
		return nil
	}
	return visitor(id, rule, func() error {
		for _, ref := range edges(rule) {
			if err := r._visit(seen, ref, edges, visitor); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reachable returns the ids of every rule reachable from start, including start,
// in the order they are first referenced.
func (r Rules) Reachable(start RuleID) []RuleID {
	out := []RuleID{}
	_ = r.visit(start, Refs, func(id RuleID, _ Rule, next func() error) error {
		out = append(out, id)
		return next()
	})
	return out
}

// leftCycle returns a path of left corners from start back to start, or nil.
func (r Rules) leftCycle(start RuleID) []RuleID {
	var (
		path  []RuleID
		found []RuleID
	)
	_ = r.visit(start, leftCorners, func(id RuleID, rule Rule, next func() error) error {
		path = append(path, id)
		for _, ref := range leftCorners(rule) {
			if ref == start {
				found = append(append([]RuleID{}, path...), start)
				return errStop
			}
		}
		if err := next(); err != nil {
			return err
		}
		path = path[:len(path)-1]
		return nil
	})
	return found
}

// Unreachable returns the ids, ascending, of rules that can not be reached from
// start.
func (r Rules) Unreachable(start RuleID) []RuleID {
	reachable := map[RuleID]bool{}
	for _, id := range r.Reachable(start) {
		reachable[id] = true
	}
	out := []RuleID{}
	for _, id := range r.IDs() {
		if !reachable[id] {
			out = append(out, id)
		}
	}
	return out
}
