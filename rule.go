package rulematch

import (
	"strconv"
	"unicode/utf8"
)

// RuleID identifies a rule within a Rules set.
type RuleID uint

func (r RuleID) String() string { return strconv.FormatUint(uint64(r), 10) }

// A Rule is the body of a production.
//
// It is one of Literal, Sequence or Alternation.
type Rule interface {
	// String returns the body in the textual rule syntax.
	String() string
	rule()
}

// Literal matches exactly one symbol.
type Literal struct {
	Symbol rune
}

func (Literal) rule() {}

func (l Literal) String() string { return strconv.Quote(string(l.Symbol)) }

// Sequence matches each referenced rule in order, each consuming a prefix of what
// the previous one left behind.
type Sequence []RuleID

func (Sequence) rule() {}

func (s Sequence) String() (out string) {
	for i, id := range s {
		if i > 0 {
			out += " "
		}
		out += id.String()
	}
	return
}

// Alternation matches if any of its sequences matches. Every successful
// alternative contributes to the result.
type Alternation []Sequence

func (Alternation) rule() {}

func (a Alternation) String() (out string) {
	for i, seq := range a {
		if i > 0 {
			out += " | "
		}
		out += seq.String()
	}
	return
}

// Refs returns the rule ids referenced by a body, in order of appearance.
func Refs(rule Rule) []RuleID {
	switch rule := rule.(type) {
	case nil, Literal:
		return nil
	case Sequence:
		return append([]RuleID(nil), rule...)
	case Alternation:
		out := []RuleID{}
		for _, seq := range rule {
			out = append(out, seq...)
		}
		return out
	default:
		panicf("unsupported rule type %T", rule)
	}
	return nil
}

// Rules is a grammar: rule bodies keyed by id.
//
// References between rules are plain ids, so a set may contain cycles. A Rules
// value must not be mutated while it is being matched against; use Replace to
// derive a modified set.
type Rules map[RuleID]Rule

// Replace returns a copy of the rule set with the body of "id" replaced by
// "body", adding it if absent. The receiver is left untouched.
func (r Rules) Replace(id RuleID, body Rule) Rules {
	out := make(Rules, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[id] = body
	return out
}

// Validate checks that the rule set can be matched against: every referenced id
// exists, no sequence is empty, and no rule reaches itself without consuming
// input. Rules are checked in ascending id order.
func (r Rules) Validate() error {
	ids := r.IDs()
	for _, id := range ids {
		rule := r[id]
		if rule == nil {
			return &InvalidRuleError{Rule: id, Reason: "has no body"}
		}
		if literal, ok := rule.(Literal); ok && !utf8.ValidRune(literal.Symbol) {
			return &InvalidRuleError{Rule: id, Reason: "has an invalid literal symbol"}
		}
		if isEmpty(rule) {
			return &InvalidRuleError{Rule: id, Reason: "contains an empty sequence"}
		}
		for _, ref := range Refs(rule) {
			if _, ok := r[ref]; !ok {
				return &UnknownRuleError{Rule: ref, Parent: id, HasParent: true}
			}
		}
	}
	for _, id := range ids {
		if path := r.leftCycle(id); path != nil {
			return &LeftRecursionError{Path: path}
		}
	}
	return nil
}

// An empty sequence would match the empty string.
func isEmpty(rule Rule) bool {
	switch rule := rule.(type) {
	case Sequence:
		return len(rule) == 0
	case Alternation:
		for _, seq := range rule {
			if len(seq) == 0 {
				return true
			}
		}
	}
	return false
}

// leftCorners returns the rules that a body may start matching with at the same
// offset. Bodies never match the empty string, so only the first reference of
// each sequence counts.
func leftCorners(rule Rule) []RuleID {
	switch rule := rule.(type) {
	case Sequence:
		if len(rule) > 0 {
			return []RuleID{rule[0]}
		}
	case Alternation:
		out := []RuleID{}
		for _, seq := range rule {
			if len(seq) > 0 {
				out = append(out, seq[0])
			}
		}
		return out
	}
	return nil
}
