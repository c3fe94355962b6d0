// code.go defines the fixed instruction shape and opcode table (§3
// "Instruction", §4.4 "Instruction semantics"): every instruction is
// exactly five int32 fields, opcode plus four operands, generalized from
// the teacher's variable-width byte-packed format in the original
// compiler/code.go.

package compiler

import (
	"fmt"
	"strings"
)

type Opcode int32

const (
	NOP Opcode = iota
	LOAD_CONST
	LOAD_CONST_FLOAT
	LOAD_CONST_STR
	MOVE
	ADD
	SUB
	MUL
	DIV
	EQ
	NEQ
	JUMP
	JUMP_IF_ZERO
	CALL
	CALL_NATIVE
	RET
	HALT
	NEWOBJ
	SETPROP
	GETPROP
	CORO_INIT
	CORO_YIELD
	CORO_RESUME
)

var opcodeNames = map[Opcode]string{
	NOP:              "NOP",
	LOAD_CONST:       "LOAD_CONST",
	LOAD_CONST_FLOAT: "LOAD_CONST_FLOAT",
	LOAD_CONST_STR:   "LOAD_CONST_STR",
	MOVE:             "MOVE",
	ADD:              "ADD",
	SUB:              "SUB",
	MUL:              "MUL",
	DIV:              "DIV",
	EQ:               "EQ",
	NEQ:              "NEQ",
	JUMP:             "JUMP",
	JUMP_IF_ZERO:     "JUMP_IF_ZERO",
	CALL:             "CALL",
	CALL_NATIVE:      "CALL_NATIVE",
	RET:              "RET",
	HALT:             "HALT",
	NEWOBJ:           "NEWOBJ",
	SETPROP:          "SETPROP",
	GETPROP:          "GETPROP",
	CORO_INIT:        "CORO_INIT",
	CORO_YIELD:       "CORO_YIELD",
	CORO_RESUME:      "CORO_RESUME",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(op))
}

// Instruction is the fixed 5xint32 shape every opcode shares (§3).
type Instruction struct {
	Op  Opcode
	Op1 int32
	Op2 int32
	Op3 int32
	Op4 int32
}

// MakeInstruction builds an Instruction, zero-filling any operand the
// caller doesn't supply.
func MakeInstruction(op Opcode, operands ...int32) Instruction {
	instr := Instruction{Op: op}
	if len(operands) > 0 {
		instr.Op1 = operands[0]
	}
	if len(operands) > 1 {
		instr.Op2 = operands[1]
	}
	if len(operands) > 2 {
		instr.Op3 = operands[2]
	}
	if len(operands) > 3 {
		instr.Op4 = operands[3]
	}
	return instr
}

// Bytecode is the compiler's output (§3 "Bytecode"): the instruction
// list plus the string constant pool. A float pool is carried alongside
// per §9's note that LOAD_CONST_FLOAT needs a real backing store instead
// of the source's Float(0.0) placeholder.
type Bytecode struct {
	Instructions   []Instruction
	Constants      []string
	FloatConstants []float64
}

// addConstant interns s into the string pool, reusing an existing index
// when present (constant pool indices are stable once assigned, §3).
func (b *Bytecode) addConstant(s string) int32 {
	for i, existing := range b.Constants {
		if existing == s {
			return int32(i)
		}
	}
	b.Constants = append(b.Constants, s)
	return int32(len(b.Constants) - 1)
}

func (b *Bytecode) addFloatConstant(f float64) int32 {
	for i, existing := range b.FloatConstants {
		if existing == f {
			return int32(i)
		}
	}
	b.FloatConstants = append(b.FloatConstants, f)
	return int32(len(b.FloatConstants) - 1)
}

// DisassembleInstruction renders one instruction in a flat, human
// readable form: opcode name followed by its four operands.
func DisassembleInstruction(instr Instruction) string {
	return fmt.Sprintf("%-14s %d %d %d %d", instr.Op.String(), instr.Op1, instr.Op2, instr.Op3, instr.Op4)
}

// Disassemble renders the full instruction list, one instruction per
// line prefixed by its index, mirroring the teacher's DiassembleBytecode
// but over the fixed-width instruction record instead of raw bytes.
func (b Bytecode) Disassemble() string {
	var builder strings.Builder
	for i, instr := range b.Instructions {
		builder.WriteString(fmt.Sprintf("%04d  %s\n", i, DisassembleInstruction(instr)))
	}
	return builder.String()
}
