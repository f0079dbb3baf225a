package insts

import "slices"

// Word is the set of machine word types a rule table can classify.
type Word interface {
	~uint16 | ~uint32
}

// Rule is a single mask/pattern test. A word matches when the bits
// selected by Mask equal Pattern.
type Rule[W Word] struct {
	Mask     W
	Pattern  W
	Category Category
}

// Matches reports whether word satisfies the rule.
func (r Rule[W]) Matches(word W) bool {
	return word&r.Mask == r.Pattern
}

// RuleTable is an ordered list of rules evaluated until the first match.
// Several masks overlap, so the order is significant.
type RuleTable[W Word] struct {
	Rules    []Rule[W]
	Fallback Category
}

// Match returns the category of the first matching rule, or the fallback
// when no rule matches.
func (t RuleTable[W]) Match(word W) Category {
	if i := t.Index(word); i >= 0 {
		return t.Rules[i].Category
	}
	return t.Fallback
}

// Index returns the position of the first rule matching word, or -1.
func (t RuleTable[W]) Index(word W) int {
	for i, r := range t.Rules {
		if r.Matches(word) {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the table that shares no storage with t.
func (t RuleTable[W]) Clone() RuleTable[W] {
	return RuleTable[W]{
		Rules:    slices.Clone(t.Rules),
		Fallback: t.Fallback,
	}
}
