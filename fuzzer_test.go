package rulematch_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alecthomas/repr"
	"github.com/stretchr/testify/require"

	"github.com/alecthomas/rulematch"
)

const fuzzAlphabet = "abc"

// randomRules builds a grammar of n rules with no empty or left recursive
// productions: the first reference of every sequence points at a higher id, and
// the highest ids are literals. Later references may point anywhere, including
// back at the rule itself.
func randomRules(rnd *rand.Rand, n int) rulematch.Rules {
	rules := rulematch.Rules{}
	literals := 1 + rnd.Intn(len(fuzzAlphabet))
	for id := n - literals; id < n; id++ {
		rules[rulematch.RuleID(id)] = rulematch.Literal{Symbol: rune(fuzzAlphabet[rnd.Intn(len(fuzzAlphabet))])}
	}
	for id := 0; id < n-literals; id++ {
		alternation := rulematch.Alternation{}
		alternatives := 1 + rnd.Intn(3)
		for a := 0; a < alternatives; a++ {
			seq := rulematch.Sequence{rulematch.RuleID(id + 1 + rnd.Intn(n-id-1))}
			tail := rnd.Intn(3)
			for s := 0; s < tail; s++ {
				seq = append(seq, rulematch.RuleID(rnd.Intn(n)))
			}
			alternation = append(alternation, seq)
		}
		if len(alternation) == 1 {
			rules[rulematch.RuleID(id)] = alternation[0]
		} else {
			rules[rulematch.RuleID(id)] = alternation
		}
	}
	return rules
}

// generate a random message derivable from rule id, giving up once it grows past
// limit symbols.
func generate(rnd *rand.Rand, rules rulematch.Rules, id rulematch.RuleID, limit int, out *[]rune) bool {
	if len(*out) > limit {
		return false
	}
	var seq rulematch.Sequence
	switch rule := rules[id].(type) {
	case rulematch.Literal:
		*out = append(*out, rule.Symbol)
		return true
	case rulematch.Sequence:
		seq = rule
	case rulematch.Alternation:
		seq = rule[rnd.Intn(len(rule))]
	}
	for _, ref := range seq {
		if !generate(rnd, rules, ref, limit, out) {
			return false
		}
	}
	return true
}

// derives is an independent chart based recogniser: can rule id derive
// message[i:j]?
type derives struct {
	rules   rulematch.Rules
	message []rune
	memo    map[[3]int]bool
}

func (d *derives) rule(id rulematch.RuleID, i, j int) bool {
	key := [3]int{int(id), i, j}
	if v, ok := d.memo[key]; ok {
		return v
	}
	var out bool
	switch rule := d.rules[id].(type) {
	case rulematch.Literal:
		out = j == i+1 && d.message[i] == rule.Symbol
	case rulematch.Sequence:
		out = d.sequence(rule, i, j)
	case rulematch.Alternation:
		for _, seq := range rule {
			if d.sequence(seq, i, j) {
				out = true
				break
			}
		}
	}
	d.memo[key] = out
	return out
}

// Every rule consumes at least one symbol.
func (d *derives) sequence(seq rulematch.Sequence, i, j int) bool {
	if len(seq) == 1 {
		return d.rule(seq[0], i, j)
	}
	for k := i + 1; k <= j-len(seq)+1; k++ {
		if d.rule(seq[0], i, k) && d.sequence(seq[1:], k, j) {
			return true
		}
	}
	return false
}

func reference(rules rulematch.Rules, message string) bool {
	d := &derives{rules: rules, message: []rune(message), memo: map[[3]int]bool{}}
	return len(d.message) > 0 && d.rule(0, 0, len(d.message))
}

func TestFuzzAgainstReference(t *testing.T) {
	rnd := rand.New(rand.NewSource(0))
	done := make(chan struct{})
	failures := make(chan string, 1)
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			rules := randomRules(rnd, 3+rnd.Intn(10))
			m, err := rulematch.NewMatcher(rules)
			if err != nil {
				failures <- "invalid grammar: " + err.Error() + "\n" + rules.String()
				return
			}
			messages := []string{}
			for j := 0; j < 20; j++ {
				out := []rune{}
				if generate(rnd, rules, 0, 16, &out) {
					messages = append(messages, string(out))
				}
				random := make([]rune, rnd.Intn(10))
				for k := range random {
					random[k] = rune(fuzzAlphabet[rnd.Intn(len(fuzzAlphabet))])
				}
				messages = append(messages, string(random))
			}
			for _, message := range messages {
				matched, err := m.Match(0, message)
				if err != nil {
					failures <- err.Error()
					return
				}
				if matched != reference(rules, message) {
					failures <- repr.String(message) + " disagrees with reference for\n" + rules.String()
					return
				}
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("matching did not terminate")
	}
	select {
	case failure := <-failures:
		t.Fatal(failure)
	default:
	}
}

func TestFuzzGeneratedMessagesMatch(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		rules := randomRules(rnd, 3+rnd.Intn(8))
		m := rulematch.MustNewMatcher(rules)
		for j := 0; j < 10; j++ {
			out := []rune{}
			if !generate(rnd, rules, 0, 24, &out) {
				continue
			}
			matched, err := m.Match(0, string(out))
			require.NoError(t, err)
			require.True(t, matched, "%q\n%s", string(out), rules)
		}
	}
}
