package rulematch

import (
	"fmt"
	"io"
	"strings"
)

// Trace each rule evaluation to "w".
//
// One line is written the first time a rule is applied at an offset, indented by
// nesting depth, with the rule and the unconsumed input. Writes are not
// synchronised, so "w" must be safe for concurrent use if messages are matched
// concurrently.
func Trace(w io.Writer) Option {
	return func(m *Matcher) error {
		m.trace = w
		return nil
	}
}

func (c *matchContext) traceRule(id RuleID, rule Rule, offset int) {
	fmt.Fprintf(c.trace, "%s%d: %s %q\n", strings.Repeat(" ", c.depth*2), id, rule, c.tail(offset))
}
