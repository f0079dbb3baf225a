package insts

import "fmt"

// ISA identifies an instruction set of the ARM7TDMI.
type ISA uint8

// Instruction sets.
const (
	ISAARM   ISA = iota // 32-bit ARM state
	ISAThumb            // 16-bit Thumb state
)

// String returns the name printed in front of a classification result.
func (i ISA) String() string {
	switch i {
	case ISAARM:
		return "ARM"
	case ISAThumb:
		return "THUMB"
	default:
		return fmt.Sprintf("ISA(%d)", uint8(i))
	}
}

// Width returns the size of one instruction word in bytes.
func (i ISA) Width() int {
	if i == ISAThumb {
		return 2
	}
	return 4
}

// HexDigits returns the number of hex digits in one instruction word.
func (i ISA) HexDigits() int {
	return i.Width() * 2
}

// Category represents an instruction encoding format class.
type Category uint8

// Format categories. ARM categories come first, followed by the Thumb
// categories. Within each set the order follows rule priority.
const (
	CategoryUnknown Category = iota

	ARMBranchExchange     // Branch and exchange
	ARMBlockDataTransfer  // LDM/STM
	ARMBranch             // B, BL
	ARMSoftwareInterrupt  // SWI
	ARMUndefined          // Undefined instruction space
	ARMSingleDataTransfer // LDR/STR
	ARMSingleDataSwap     // SWP
	ARMMultiply           // MUL, MLA, UMULL, ...
	ARMHalfwordRegister   // LDRH/STRH/LDRSB/LDRSH, register offset
	ARMHalfwordImmediate  // LDRH/STRH/LDRSB/LDRSH, immediate offset
	ARMPSRTransferMRS     // MRS
	ARMPSRTransferMSR     // MSR
	ARMDataProcessing     // ALU operations
	ARMIllegal

	ThumbSoftwareInterrupt
	ThumbUnconditionalBranch
	ThumbConditionalBranch
	ThumbMultipleLoadStore
	ThumbLongBranchLink
	ThumbAddOffsetSP
	ThumbPushPop
	ThumbLoadStoreHalfword
	ThumbSPRelativeLoadStore
	ThumbLoadAddress
	ThumbLoadStoreImmediate
	ThumbLoadStoreRegister
	ThumbLoadStoreSignExtended
	ThumbPCRelativeLoad
	ThumbHiRegisterBX
	ThumbALU
	ThumbImmediate
	ThumbAddSubtract
	ThumbMoveShifted
	ThumbIllegal

	numCategories
)

var categoryNames = [numCategories]string{
	CategoryUnknown: "Unknown",

	ARMBranchExchange:     "Branch and exchange",
	ARMBlockDataTransfer:  "Block data transfer",
	ARMBranch:             "Branch/branch with link",
	ARMSoftwareInterrupt:  "SWI",
	ARMUndefined:          "Undefined",
	ARMSingleDataTransfer: "Single data transfer",
	ARMSingleDataSwap:     "Single data swap",
	ARMMultiply:           "Multiply and multiply long",
	ARMHalfwordRegister:   "Halfword transfer register",
	ARMHalfwordImmediate:  "Halfword transfer immediate",
	ARMPSRTransferMRS:     "PSR transfer MRS",
	ARMPSRTransferMSR:     "PSR transfer MSR",
	ARMDataProcessing:     "Data processing",
	ARMIllegal:            "Illegal instruction",

	ThumbSoftwareInterrupt:     "Software interrupt",
	ThumbUnconditionalBranch:   "Unconditional branch",
	ThumbConditionalBranch:     "Conditional branch",
	ThumbMultipleLoadStore:     "Multiple load/store",
	ThumbLongBranchLink:        "Long branch w/link",
	ThumbAddOffsetSP:           "Add offset to SP",
	ThumbPushPop:               "Push/pop registers",
	ThumbLoadStoreHalfword:     "Load/store halfword",
	ThumbSPRelativeLoadStore:   "SP relative load/store",
	ThumbLoadAddress:           "Load address",
	ThumbLoadStoreImmediate:    "Load/store w/immediate offset",
	ThumbLoadStoreRegister:     "Load/store w/register offset",
	ThumbLoadStoreSignExtended: "Load/store sign-extended byte/halfword",
	ThumbPCRelativeLoad:        "PC relative load",
	ThumbHiRegisterBX:          "Hi register operations/branch exchange",
	ThumbALU:                   "ALU operations",
	ThumbImmediate:             "Move/compare/add/subtract immediate",
	ThumbAddSubtract:           "Add/subtract",
	ThumbMoveShifted:           "Move shifted register",
	ThumbIllegal:               "Illegal instruction",
}

// String returns the human readable format name.
func (c Category) String() string {
	if c >= numCategories {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// ISA returns the instruction set the category belongs to.
// CategoryUnknown reports ISAARM.
func (c Category) ISA() ISA {
	if c >= ThumbSoftwareInterrupt && c <= ThumbIllegal {
		return ISAThumb
	}
	return ISAARM
}

// IsIllegal reports whether c is the fallback of either instruction set.
func (c Category) IsIllegal() bool {
	return c == ARMIllegal || c == ThumbIllegal
}

// Categories returns every category of the given instruction set in rule
// priority order, ending with the illegal fallback.
func Categories(isa ISA) []Category {
	first, last := ARMBranchExchange, ARMIllegal
	if isa == ISAThumb {
		first, last = ThumbSoftwareInterrupt, ThumbIllegal
	}

	cats := make([]Category, 0, last-first+1)
	for c := first; c <= last; c++ {
		cats = append(cats, c)
	}
	return cats
}
