// Package insts provides ARM and Thumb instruction format classification.
//
// This package sorts raw ARM7TDMI machine words into their encoding format
// class. It does not decode operands or produce mnemonics. It supports:
//   - ARM (32-bit) words: 13 format classes plus an illegal fallback
//   - Thumb (16-bit) words: 19 format classes plus an illegal fallback
//
// Both instruction sets are classified by an ordered list of mask/pattern
// rules where the first matching rule wins.
//
// Usage:
//
//	c := insts.NewClassifier()
//	cat := c.Classify(insts.ISAARM, 0xE12FFF1E) // BX LR
//	fmt.Printf("%s: %s\n", cat.ISA(), cat) // ARM: Branch and exchange
package insts
