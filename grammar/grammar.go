// Package grammar parses the line-oriented rule and message format.
//
// Rules come first, one per line, up to the first blank line. Every non-empty
// line after it is a message.
//
//	Input    = Rule* <blank-line> Message* .
//	Rule     = <int> ":" Body <eol> .
//	Body     = <string> | Sequence ("|" Sequence)* .
//	Sequence = <int>+ .
//
// A string body must contain exactly one character.
package grammar

import (
	"bufio"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/alecthomas/rulematch"
)

var (
	ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
		{"Int", `\d+`},
		{"String", `"(?:\\.|[^"\\])*"`},
		{"Punct", `[:|]`},
		{"EOL", `\r?\n`},
		{"whitespace", `[ \t]+`},
	})
	options = []participle.Option{
		participle.Lexer(ruleLexer),
		participle.Unquote("String"),
		participle.Elide("whitespace"),
	}
	fileParser = participle.MustBuild[ruleFile](options...)
	ruleParser = participle.MustBuild[ruleDef](options...)
	bodyParser = participle.MustBuild[body](options...)
)

type ruleFile struct {
	Rules []*ruleDef `( @@ EOL | EOL )*`
}

type ruleDef struct {
	Pos lexer.Position

	ID   uint  `@Int ":"`
	Body *body `@@`
}

type body struct {
	Pos lexer.Position

	Literal      *string     `  @String`
	Alternatives []*sequence `| @@ ( "|" @@ )*`
}

type sequence struct {
	IDs []uint `@Int+`
}

func (b *body) rule() (rulematch.Rule, error) {
	// The sequence branch always captures at least one id.
	if b.Literal != nil || len(b.Alternatives) == 0 {
		var literal string
		if b.Literal != nil {
			literal = *b.Literal
		}
		symbols := []rune(literal)
		if len(symbols) != 1 {
			return nil, participle.Errorf(b.Pos, "literal %q must be a single character", literal)
		}
		return rulematch.Literal{Symbol: symbols[0]}, nil
	}
	alternatives := make(rulematch.Alternation, 0, len(b.Alternatives))
	for _, seq := range b.Alternatives {
		ids := make(rulematch.Sequence, len(seq.IDs))
		for i, id := range seq.IDs {
			ids[i] = rulematch.RuleID(id)
		}
		alternatives = append(alternatives, ids)
	}
	if len(alternatives) == 1 {
		return alternatives[0], nil
	}
	return alternatives, nil
}

// Input is a parsed rule set and the messages that followed it.
type Input struct {
	Rules    rulematch.Rules
	Messages []string
}

// Parse rules and messages from r.
//
// Rule syntax errors are reported as participle.Error values with positions
// relative to the start of r.
func Parse(filename string, r io.Reader) (*Input, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	rules := &strings.Builder{}
	messages := []string{}
	inRules := true
	for scanner.Scan() {
		line := scanner.Text()
		if inRules {
			if strings.TrimSpace(line) == "" {
				inRules = false
				continue
			}
			rules.WriteString(line)
			rules.WriteString("\n")
			continue
		}
		if line != "" {
			messages = append(messages, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	set, err := ParseRules(filename, rules.String())
	if err != nil {
		return nil, err
	}
	return &Input{Rules: set, Messages: messages}, nil
}

// ParseString parses rules and messages from a string.
func ParseString(filename, s string) (*Input, error) {
	return Parse(filename, strings.NewReader(s))
}

// ParseRules parses rule definitions, one per line. Blank lines are ignored.
func ParseRules(filename, s string) (rulematch.Rules, error) {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	file, err := fileParser.ParseString(filename, s)
	if err != nil {
		return nil, err
	}
	out := rulematch.Rules{}
	for _, def := range file.Rules {
		id := rulematch.RuleID(def.ID)
		if _, ok := out[id]; ok {
			return nil, participle.Errorf(def.Pos, "duplicate rule %d", id)
		}
		rule, err := def.Body.rule()
		if err != nil {
			return nil, err
		}
		out[id] = rule
	}
	return out, nil
}

// ParseBody parses a single rule body, such as `42 | 42 8`.
func ParseBody(s string) (rulematch.Rule, error) {
	b, err := bodyParser.ParseString("", s)
	if err != nil {
		return nil, err
	}
	return b.rule()
}

// ParseReplacement parses a single rule definition, such as `8: 42 | 42 8`.
func ParseReplacement(s string) (rulematch.RuleID, rulematch.Rule, error) {
	def, err := ruleParser.ParseString("", s)
	if err != nil {
		return 0, nil, err
	}
	rule, err := def.Body.rule()
	if err != nil {
		return 0, nil, err
	}
	return rulematch.RuleID(def.ID), rule, nil
}

// Replace applies replacements in the form accepted by ParseReplacement to
// rules, returning the patched copy.
func Replace(rules rulematch.Rules, replacements ...string) (rulematch.Rules, error) {
	for _, replacement := range replacements {
		id, rule, err := ParseReplacement(replacement)
		if err != nil {
			return nil, err
		}
		rules = rules.Replace(id, rule)
	}
	return rules, nil
}
