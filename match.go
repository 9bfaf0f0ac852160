package rulematch

import (
	"io"
	"unicode/utf8"
)

// A Matcher matches messages against a validated rule set.
//
// A Matcher is safe for concurrent use as long as the rule set is not mutated.
type Matcher struct {
	rules Rules
	trace io.Writer
}

// NewMatcher validates rules and returns a Matcher for them.
func NewMatcher(rules Rules, options ...Option) (*Matcher, error) {
	m := &Matcher{rules: rules}
	for _, option := range options {
		if err := option(m); err != nil {
			return nil, err
		}
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNewMatcher calls NewMatcher and panics on error.
func MustNewMatcher(rules Rules, options ...Option) *Matcher {
	m, err := NewMatcher(rules, options...)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether rule "start" consumes all of message.
func Match(rules Rules, start RuleID, message string) (bool, error) {
	m, err := NewMatcher(rules)
	if err != nil {
		return false, err
	}
	return m.Match(start, message)
}

// Rules the Matcher was built with.
func (m *Matcher) Rules() Rules { return m.rules }

// Match reports whether rule "start" consumes all of message.
//
// An error is only returned for configuration problems, never because the
// message did not match.
func (m *Matcher) Match(start RuleID, message string) (bool, error) {
	ctx, rest, err := m.consume(start, message)
	if err != nil {
		return false, err
	}
	return rest.has(len(ctx.symbols)), nil
}

// Consume returns every distinct tail of message that rule "start" can leave
// unconsumed, longest first. The empty string is present if the message matches.
func (m *Matcher) Consume(start RuleID, message string) ([]string, error) {
	ctx, rest, err := m.consume(start, message)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, rest.len())
	rest.each(func(offset int) {
		out = append(out, ctx.tail(offset))
	})
	return out, nil
}

func (m *Matcher) consume(start RuleID, message string) (ctx *matchContext, rest suffixSet, err error) {
	defer recoverToError(&err)
	if _, ok := m.rules[start]; !ok {
		return nil, suffixSet{}, &UnknownRuleError{Rule: start}
	}
	ctx = newMatchContext(m, message)
	return ctx, ctx.consumeRule(start, newSuffixSet(0, 0)), nil
}

type memoKey struct {
	rule   RuleID
	offset int
}

// matchContext holds the state of matching a single message.
type matchContext struct {
	rules   Rules
	message string
	symbols []rune
	// starts[i] is the byte offset of symbols[i] in message.
	starts []int
	trace  io.Writer
	depth  int
	memo   map[memoKey]suffixSet
}

func newMatchContext(m *Matcher, message string) *matchContext {
	symbols, starts := decodeSymbols(message)
	return &matchContext{
		rules:   m.rules,
		message: message,
		symbols: symbols,
		starts:  starts,
		trace:   m.trace,
		memo:    map[memoKey]suffixSet{},
	}
}

// decodeSymbols splits message into runes. Each byte of invalid UTF-8 becomes a
// negative symbol of its own, which no valid Literal can match.
func decodeSymbols(message string) (symbols []rune, starts []int) {
	symbols = make([]rune, 0, len(message))
	starts = make([]int, 0, len(message)+1)
	for i := 0; i < len(message); {
		r, size := utf8.DecodeRuneInString(message[i:])
		if r == utf8.RuneError && size == 1 {
			r = -1 - rune(message[i])
		}
		symbols = append(symbols, r)
		starts = append(starts, i)
		i += size
	}
	starts = append(starts, len(message))
	return symbols, starts
}

// tail returns the unconsumed message from a symbol offset, byte for byte.
func (c *matchContext) tail(offset int) string { return c.message[c.starts[offset]:] }

// consumeRule applies rule "id" to every tail in "in" and returns the union of
// what is left behind.
func (c *matchContext) consumeRule(id RuleID, in suffixSet) suffixSet {
	if in.empty() {
		return in
	}
	// Every rule consumes at least one symbol.
	out := newSuffixSet(in.min() + 1)
	in.each(func(offset int) {
		out.union(c.at(id, offset))
	})
	return out
}

// at returns the tails rule "id" leaves behind when applied at offset. Results
// are memoised, so each rule is evaluated once per offset.
func (c *matchContext) at(id RuleID, offset int) suffixSet {
	key := memoKey{id, offset}
	if out, ok := c.memo[key]; ok {
		return out
	}
	rule, ok := c.rules[id]
	if !ok {
		panic(&UnknownRuleError{Rule: id})
	}
	if c.trace != nil {
		c.traceRule(id, rule, offset)
		c.depth++
		defer func() { c.depth-- }()
	}
	var out suffixSet
	switch rule := rule.(type) {
	case Literal:
		out = newSuffixSet(offset + 1)
		if offset < len(c.symbols) && c.symbols[offset] == rule.Symbol {
			out.add(offset + 1)
		}

	case Sequence:
		out = c.consumeSequence(rule, newSuffixSet(offset, offset))

	case Alternation:
		out = newSuffixSet(offset + 1)
		for _, seq := range rule {
			out.union(c.consumeSequence(seq, newSuffixSet(offset, offset)))
		}

	default:
		panicf("unsupported rule type %T", rule)
	}
	c.memo[key] = out
	return out
}

func (c *matchContext) consumeSequence(seq Sequence, in suffixSet) suffixSet {
	for _, id := range seq {
		in = c.consumeRule(id, in)
		if in.empty() {
			break
		}
	}
	return in
}
