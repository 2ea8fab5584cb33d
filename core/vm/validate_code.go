package vm

import (
	"encoding/binary"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/params"
)

// worklistEntry is the stack height asserted by an incoming control-flow
// edge, and whether that edge is (still) reachable.
type worklistEntry struct {
	height    int
	reachable bool
}

// validateCode performs the per-code-section static analysis of §4.5.2: a
// forward symbolic-execution pass that tracks stack height and records
// every branch target's asserted height in a worklist, followed by a
// second linear pass that checks reachability. function is the index of
// this code section into types; types is the container's Type section.
func validateCode(code []byte, function int, types []TypeEntry) error {
	worklist := make(map[int]worklistEntry)
	stackHeights := make(map[int]int)
	immediates := mapset.NewThreadUnsafeSet[int]()
	rjumpdests := mapset.NewThreadUnsafeSet[int]()

	currentHeight := int(types[function].Inputs)
	maxHeight := currentHeight
	endsWithTerminating := false
	reachable := true

	worklist[0] = worklistEntry{height: currentHeight, reachable: reachable}

	for pc := 0; pc < len(code); {
		op := OpCode(code[pc])
		if !op.IsDefined() {
			return ErrUndefinedInstruction{Op: code[pc]}
		}

		if currentHeight < op.StackInputs() {
			return ErrStackUnderflow{StackLen: currentHeight, Required: op.StackInputs()}
		}
		stackHeights[pc] = currentHeight
		currentHeight = currentHeight - op.StackInputs() + op.StackOutputs()
		if currentHeight > maxHeight {
			maxHeight = currentHeight
		}

		immediate := op.Immediate()
		if immediate > len(code)-pc-1 {
			return ErrTruncatedImmediate
		}

		extra := 0
		switch op {
		case CALLF:
			section := int(binary.BigEndian.Uint16(code[pc+1 : pc+3]))
			if section >= len(types) {
				return ErrInvalidSectionArgument
			}
			if have, limit := currentHeight+int(types[section].MaxStackHeight), int(params.StackLimit); have > limit {
				return ErrStackOverflow{StackLen: have, Limit: limit}
			}

		case RJUMP, RJUMPI:
			offset := int(int16(binary.BigEndian.Uint16(code[pc+1 : pc+3])))
			dest := pc + 1 + immediate + offset
			if dest < 0 || dest >= len(code) {
				return ErrInvalidJumpDest
			}
			rjumpdests.Add(dest)
			if op == RJUMPI {
				worklist[dest] = worklistEntry{height: currentHeight, reachable: true}
			}

		case RJUMPV:
			count := int(code[pc+1])
			if count == 0 {
				return ErrInvalidBranchCount
			}
			if pc+2+count*2 > len(code) {
				return ErrTruncatedImmediate
			}
			for i := 0; i < count*2; i++ {
				immediates.Add(pc + 2 + i)
			}
			instEnd := pc + 1 + immediate + count*2
			rjumpdests.Add(instEnd)
			worklist[instEnd] = worklistEntry{height: currentHeight, reachable: true}
			for i := 0; i < count; i++ {
				offset := int(int16(binary.BigEndian.Uint16(code[pc+2+2*i : pc+4+2*i])))
				dest := instEnd + offset
				if dest < 0 || dest >= len(code) {
					return ErrInvalidJumpDest
				}
				rjumpdests.Add(dest)
				worklist[dest] = worklistEntry{height: currentHeight, reachable: true}
			}
			extra = count * 2

		case RETF:
			if currentHeight != int(types[function].Outputs) {
				return ErrInvalidOutputs
			}
		}

		for i := 1; i <= immediate; i++ {
			immediates.Add(pc + i)
		}
		pc += 1 + immediate + extra

		if op.IsTerminating() || op == RJUMP {
			endsWithTerminating = true
			reachable = false
		} else {
			endsWithTerminating = false
		}
	}

	if !immediates.Intersect(rjumpdests).IsEmpty() {
		return ErrInvalidJumpDest
	}
	for pc, entry := range worklist {
		if height, ok := stackHeights[pc]; ok && height != entry.height {
			return ErrConflictingStack
		}
	}
	if maxHeight != int(types[function].MaxStackHeight) {
		return ErrInvalidMaxStackHeight
	}
	if !endsWithTerminating {
		return ErrInvalidCodeTermination
	}

	return checkReachability(code, worklist)
}

// checkReachability is the second linear pass of §4.5.2: it walks the
// code once more, consulting the worklist at every pc that has an entry,
// and fails closed the moment the current basic block is unreachable.
func checkReachability(code []byte, worklist map[int]worklistEntry) error {
	reachable := true
	for pc := 0; pc < len(code); {
		if entry, ok := worklist[pc]; ok {
			reachable = entry.reachable
		}
		op := OpCode(code[pc])
		if !reachable {
			return ErrUnreachableCode
		}
		if op.IsTerminating() || op == RJUMPI || op == RJUMPV {
			reachable = false
		}
		if op == RJUMPV {
			count := int(code[pc+1])
			pc += 1 + op.Immediate() + count*2
		} else {
			pc += 1 + op.Immediate()
		}
	}
	return nil
}
