package insts

// armRules lists the ARM format tests in priority order.
//
// Data processing (bits [27:26] == 00) overlaps the swap, multiply,
// halfword and PSR encodings and must stay last.
var armRules = RuleTable[uint32]{
	Rules: []Rule[uint32]{
		{Mask: 0x0FFFFFF0, Pattern: 0x012FFF10, Category: ARMBranchExchange},
		{Mask: 0x0E000000, Pattern: 0x08000000, Category: ARMBlockDataTransfer},
		{Mask: 0x0E000000, Pattern: 0x0A000000, Category: ARMBranch},
		{Mask: 0x0F000000, Pattern: 0x0F000000, Category: ARMSoftwareInterrupt},
		{Mask: 0x0E000010, Pattern: 0x06000010, Category: ARMUndefined},
		{Mask: 0x0C000000, Pattern: 0x04000000, Category: ARMSingleDataTransfer},
		{Mask: 0x0F800FF0, Pattern: 0x01000090, Category: ARMSingleDataSwap},
		{Mask: 0x0F0000F0, Pattern: 0x00000090, Category: ARMMultiply},
		{Mask: 0x0E400F90, Pattern: 0x00000090, Category: ARMHalfwordRegister},
		{Mask: 0x0E400090, Pattern: 0x00400090, Category: ARMHalfwordImmediate},
		{Mask: 0x0FBF0000, Pattern: 0x010F0000, Category: ARMPSRTransferMRS},
		{Mask: 0x0DB0F000, Pattern: 0x0120F000, Category: ARMPSRTransferMSR},
		{Mask: 0x0C000000, Pattern: 0x00000000, Category: ARMDataProcessing},
	},
	Fallback: ARMIllegal,
}

// thumbRules lists the Thumb format tests in priority order.
var thumbRules = RuleTable[uint16]{
	Rules: []Rule[uint16]{
		{Mask: 0xFF00, Pattern: 0xDF00, Category: ThumbSoftwareInterrupt},
		{Mask: 0xF800, Pattern: 0xE000, Category: ThumbUnconditionalBranch},
		{Mask: 0xF000, Pattern: 0xD000, Category: ThumbConditionalBranch},
		{Mask: 0xF000, Pattern: 0xC000, Category: ThumbMultipleLoadStore},
		{Mask: 0xF000, Pattern: 0xF000, Category: ThumbLongBranchLink},
		{Mask: 0xFF00, Pattern: 0xB000, Category: ThumbAddOffsetSP},
		{Mask: 0xF600, Pattern: 0xB400, Category: ThumbPushPop},
		{Mask: 0xF000, Pattern: 0x8000, Category: ThumbLoadStoreHalfword},
		{Mask: 0xF000, Pattern: 0x9000, Category: ThumbSPRelativeLoadStore},
		{Mask: 0xF000, Pattern: 0xA000, Category: ThumbLoadAddress},
		{Mask: 0xE000, Pattern: 0x6000, Category: ThumbLoadStoreImmediate},
		{Mask: 0xF200, Pattern: 0x5000, Category: ThumbLoadStoreRegister},
		{Mask: 0xF200, Pattern: 0x5200, Category: ThumbLoadStoreSignExtended},
		{Mask: 0xF800, Pattern: 0x4800, Category: ThumbPCRelativeLoad},
		{Mask: 0xFC00, Pattern: 0x4400, Category: ThumbHiRegisterBX},
		{Mask: 0xFC00, Pattern: 0x4000, Category: ThumbALU},
		{Mask: 0xE000, Pattern: 0x2000, Category: ThumbImmediate},
		{Mask: 0xF800, Pattern: 0x1800, Category: ThumbAddSubtract},
		{Mask: 0xE000, Pattern: 0x0000, Category: ThumbMoveShifted},
	},
	Fallback: ThumbIllegal,
}

// ClassifyARM returns the format category of a 32-bit ARM word.
func ClassifyARM(word uint32) Category {
	return armRules.Match(word)
}

// ClassifyThumb returns the format category of a 16-bit Thumb word.
func ClassifyThumb(word uint16) Category {
	return thumbRules.Match(word)
}

// Classifier classifies instruction words of either instruction set.
// It holds no state and is safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a new instruction format classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the format category of word interpreted in the given
// instruction set. Thumb words use only the low 16 bits.
func (c *Classifier) Classify(isa ISA, word uint32) Category {
	if isa == ISAThumb {
		return ClassifyThumb(uint16(word))
	}
	return ClassifyARM(word)
}

// ARMRules returns a copy of the ARM rule table.
func (c *Classifier) ARMRules() RuleTable[uint32] {
	return armRules.Clone()
}

// ThumbRules returns a copy of the Thumb rule table.
func (c *Classifier) ThumbRules() RuleTable[uint16] {
	return thumbRules.Clone()
}
