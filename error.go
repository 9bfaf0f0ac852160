package rulematch

import (
	"errors"
	"fmt"
	"strings"
)

var errStop = errors.New("stop")

// Error is implemented by every configuration error reported by the matcher.
//
// A message that does not match is not an error.
type Error interface {
	error
	// Unadorned message.
	Message() string
	// Rule the error was detected at.
	RuleID() RuleID
}

// UnknownRuleError is returned when a rule references an id that is not in the
// rule set.
type UnknownRuleError struct {
	Rule RuleID
	// Parent is the referencing rule, if HasParent is set.
	Parent    RuleID
	HasParent bool
}

func (u *UnknownRuleError) Error() string { return u.Message() }

func (u *UnknownRuleError) Message() string { // nolint: golint
	if u.HasParent {
		return fmt.Sprintf("rule %d references unknown rule %d", u.Parent, u.Rule)
	}
	return fmt.Sprintf("unknown rule %d", u.Rule)
}

func (u *UnknownRuleError) RuleID() RuleID { return u.Rule } // nolint: golint

// LeftRecursionError is returned when a rule can reach itself without consuming
// any input, which would never terminate.
type LeftRecursionError struct {
	// Path of left-most references, starting and ending at the same rule.
	Path []RuleID
}

func (l *LeftRecursionError) Error() string { return l.Message() }

func (l *LeftRecursionError) Message() string { // nolint: golint
	parts := make([]string, len(l.Path))
	for i, id := range l.Path {
		parts[i] = id.String()
	}
	return fmt.Sprintf("rule %d is left recursive: %s", l.RuleID(), strings.Join(parts, " -> "))
}

func (l *LeftRecursionError) RuleID() RuleID { // nolint: golint
	if len(l.Path) == 0 {
		return 0
	}
	return l.Path[0]
}

// InvalidRuleError is returned for a rule body that can not be matched.
type InvalidRuleError struct {
	Rule   RuleID
	Reason string
}

func (i *InvalidRuleError) Error() string { return i.Message() }

func (i *InvalidRuleError) Message() string { // nolint: golint
	return fmt.Sprintf("rule %d %s", i.Rule, i.Reason)
}

func (i *InvalidRuleError) RuleID() RuleID { return i.Rule } // nolint: golint

// Matching panics with an Error when it encounters a configuration problem.
func recoverToError(err *error) {
	if msg := recover(); msg != nil {
		switch msg := msg.(type) {
		case Error:
			*err = msg
		default:
			panic(msg)
		}
	}
}

func panicf(f string, args ...interface{}) {
	panic(fmt.Sprintf(f, args...))
}
