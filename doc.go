// Package rulematch decides whether messages are derivable from a numbered set of
// context-free grammar rules.
//
// Rule bodies are one of three kinds:
//
//	4: "a"          Literal, matches exactly one symbol.
//	0: 4 1 5        Sequence, matches each referenced rule in order.
//	1: 2 3 | 3 2    Alternation, matches if any sequence matches.
//
// Rules may reference each other cyclically, which is how repetition and
// nesting are expressed:
//
//	8: 42 | 42 8
//	11: 42 31 | 42 11 31
//
// Matching tracks the set of every suffix a rule can leave behind, rather than a
// single cursor, so ambiguous and self-referential grammars are handled without
// backtracking. A message matches when some derivation leaves nothing behind.
//
// Rules that reach themselves without consuming a symbol (left recursion) are
// rejected with a LeftRecursionError. Rules that match the empty string are not
// expressible.
//
// The textual rule syntax is parsed by the grammar subpackage.
package rulematch
