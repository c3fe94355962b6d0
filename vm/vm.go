// vm.go is the register-machine runtime (§4.4 "Virtual machine"): a
// dispatch loop over Bytecode's fixed-shape instructions, generalized
// from the teacher's byte-packed stack interpreter into the register
// file / call-stack / object-pool / coroutine-table architecture §4.4
// specifies.

package vm

import (
	"fmt"

	"osfl/compiler"
)

const registerCount = 16

// VM is the runtime environment where compiled bytecode executes.
type VM struct {
	registers [registerCount]Value
	pc        int32
	running   bool
	debug     bool

	calls     *callStack
	pool      *objectPool
	coros     *coroutineTable
	natives   *nativeRegistry

	LastError error
}

func New() *VM {
	return &VM{
		calls:   newCallStack(),
		pool:    newObjectPool(),
		coros:   newCoroutineTable(),
		natives: newNativeRegistry(),
	}
}

// SetDebug records the debug flag. Run does not consult it and produces
// no trace output.
func (vm *VM) SetDebug(debug bool) {
	vm.debug = debug
}

// RegisterNative implements `register_native(vm, name, fn) -> bool`.
func (vm *VM) RegisterNative(name string, fn NativeFunc) bool {
	return vm.natives.register(name, fn)
}

// CallNative implements `call_native(vm, name, argc, argv) -> Value`,
// the out-of-band entry point distinct from the CALL_NATIVE opcode path.
func (vm *VM) CallNative(name string, argv []Value) (Value, error) {
	fn, found := vm.natives.lookup(name)
	if !found {
		return NullValue(), fmt.Errorf("unknown native function %q", name)
	}
	return fn(argv)
}

// DumpRegisters implements `dump_registers(vm)`.
func (vm *VM) DumpRegisters() []Value {
	out := make([]Value, registerCount)
	copy(out[:], vm.registers[:])
	return out
}

func (vm *VM) halt(message string) error {
	vm.running = false
	err := CreateRuntimeError(vm.pc, message)
	vm.LastError = err
	return err
}

func (vm *VM) checkRegister(r int32) bool {
	return r >= 0 && r < registerCount
}

// Run implements the dispatch loop: `while running && pc < instruction_count:
// execute(instructions[pc])`. Default, each opcode advances pc by 1; jumps
// and returns set it explicitly (§4.4 "Dispatch").
func (vm *VM) Run(bytecode compiler.Bytecode) error {
	vm.running = true
	vm.pc = 0

	for vm.running && int(vm.pc) < len(bytecode.Instructions) {
		instr := bytecode.Instructions[vm.pc]
		advance := int32(1)

		switch instr.Op {
		case compiler.NOP:
			// no-op

		case compiler.LOAD_CONST:
			if !vm.checkRegister(instr.Op1) {
				return vm.halt(fmt.Sprintf("invalid register %d in LOAD_CONST", instr.Op1))
			}
			vm.registers[instr.Op1] = IntValue(int64(instr.Op2))

		case compiler.LOAD_CONST_FLOAT:
			if !vm.checkRegister(instr.Op1) {
				return vm.halt(fmt.Sprintf("invalid register %d in LOAD_CONST_FLOAT", instr.Op1))
			}
			if instr.Op2 < 0 || int(instr.Op2) >= len(bytecode.FloatConstants) {
				return vm.halt(fmt.Sprintf("float constant index %d out of range", instr.Op2))
			}
			vm.registers[instr.Op1] = FloatValue(bytecode.FloatConstants[instr.Op2])

		case compiler.LOAD_CONST_STR:
			if !vm.checkRegister(instr.Op1) {
				return vm.halt(fmt.Sprintf("invalid register %d in LOAD_CONST_STR", instr.Op1))
			}
			if instr.Op2 < 0 || int(instr.Op2) >= len(bytecode.Constants) {
				return vm.halt(fmt.Sprintf("constant pool index %d out of range", instr.Op2))
			}
			vm.registers[instr.Op1] = StringValue(bytecode.Constants[instr.Op2])

		case compiler.MOVE:
			if !vm.checkRegister(instr.Op1) || !vm.checkRegister(instr.Op2) {
				return vm.halt("invalid register in MOVE")
			}
			vm.registers[instr.Op1] = vm.registers[instr.Op2]

		case compiler.ADD, compiler.SUB, compiler.MUL, compiler.DIV:
			result, err := vm.arith(instr.Op, instr.Op1, instr.Op2, instr.Op3)
			if err != nil {
				return vm.halt(err.Error())
			}
			vm.registers[instr.Op1] = result

		case compiler.EQ, compiler.NEQ:
			if !vm.checkRegister(instr.Op1) || !vm.checkRegister(instr.Op2) || !vm.checkRegister(instr.Op3) {
				return vm.halt("invalid register in EQ/NEQ")
			}
			left := vm.registers[instr.Op2]
			right := vm.registers[instr.Op3]
			equal := left.Kind == Int && right.Kind == Int && left.IntVal == right.IntVal
			if instr.Op == compiler.NEQ {
				equal = !equal
			}
			vm.registers[instr.Op1] = BoolToInt(equal)

		case compiler.JUMP:
			if instr.Op1 < 0 || int(instr.Op1) >= len(bytecode.Instructions) {
				return vm.halt(fmt.Sprintf("jump target %d out of range", instr.Op1))
			}
			vm.pc = instr.Op1
			advance = 0

		case compiler.JUMP_IF_ZERO:
			if !vm.checkRegister(instr.Op2) {
				return vm.halt("invalid register in JUMP_IF_ZERO")
			}
			cond := vm.registers[instr.Op2]
			if cond.Kind != Int {
				return vm.halt(fmt.Sprintf("JUMP_IF_ZERO requires an Int register, got %s", cond.Kind))
			}
			if cond.IntVal == 0 {
				if instr.Op1 < 0 || int(instr.Op1) >= len(bytecode.Instructions) {
					return vm.halt(fmt.Sprintf("jump target %d out of range", instr.Op1))
				}
				vm.pc = instr.Op1
				advance = 0
			}

		case compiler.CALL:
			if instr.Op1 < 0 || int(instr.Op1) >= len(bytecode.Instructions) {
				return vm.halt(fmt.Sprintf("call target %d out of range", instr.Op1))
			}
			calleeFrame := newFrame(vm.calls.current())
			if !vm.calls.push(calleeFrame, vm.pc+1) {
				return vm.halt("call stack overflow")
			}
			vm.pc = instr.Op1
			advance = 0

		case compiler.CALL_NATIVE:
			result, err := vm.callNativeOpcode(bytecode, instr)
			if err != nil {
				return vm.halt(err.Error())
			}
			if vm.checkRegister(instr.Op1) {
				vm.registers[instr.Op1] = result
			}

		case compiler.RET:
			returnAddr, ok := vm.calls.pop()
			if !ok {
				// Per §4.4: an empty call stack on RET halts quietly —
				// Run itself returns nil — but still records a
				// RuntimeError via LastError, same as every other
				// failure case in this switch.
				vm.halt("RET with an empty call stack")
				return nil
			}
			vm.pc = returnAddr
			advance = 0

		case compiler.HALT:
			vm.running = false
			advance = 0

		case compiler.NEWOBJ:
			if !vm.checkRegister(instr.Op1) {
				return vm.halt("invalid register in NEWOBJ")
			}
			handle := vm.pool.allocate()
			vm.registers[instr.Op1] = ObjectValue(handle)

		case compiler.SETPROP:
			if !vm.checkRegister(instr.Op1) || !vm.checkRegister(instr.Op2) || !vm.checkRegister(instr.Op3) {
				return vm.halt("invalid register in SETPROP")
			}
			objVal := vm.registers[instr.Op1]
			if objVal.Kind != Object {
				return vm.halt("SETPROP target is not an Object")
			}
			obj, ok := vm.pool.get(objVal.Handle)
			if !ok {
				return vm.halt(fmt.Sprintf("SETPROP on a dead or invalid object handle %d", objVal.Handle))
			}
			key := vm.registers[instr.Op2].AsKey()
			obj.setProperty(key, vm.registers[instr.Op3])

		case compiler.GETPROP:
			if !vm.checkRegister(instr.Op1) || !vm.checkRegister(instr.Op2) || !vm.checkRegister(instr.Op3) {
				return vm.halt("invalid register in GETPROP")
			}
			objVal := vm.registers[instr.Op2]
			if objVal.Kind != Object {
				vm.registers[instr.Op1] = NullValue()
				break
			}
			obj, ok := vm.pool.get(objVal.Handle)
			if !ok {
				vm.registers[instr.Op1] = NullValue()
				break
			}
			key := vm.registers[instr.Op3].AsKey()
			vm.registers[instr.Op1] = obj.getProperty(key)

		case compiler.CORO_INIT:
			if !vm.coros.init(instr.Op1) {
				return vm.halt(fmt.Sprintf("invalid coroutine slot %d in CORO_INIT", instr.Op1))
			}

		case compiler.CORO_YIELD:
			vm.coros.save(vm.pc+1, vm.registers, vm.calls.current())
			next := vm.coros.nextActive()
			pc, regs, _ := vm.coros.switchTo(next)
			vm.registers = regs
			vm.pc = pc
			advance = 0

		case compiler.CORO_RESUME:
			vm.coros.save(vm.pc+1, vm.registers, vm.calls.current())
			target := int(instr.Op1)
			if target < 0 || target >= MaxCoroutines || !vm.coros.slots[target].active {
				return vm.halt(fmt.Sprintf("CORO_RESUME target slot %d is not active", instr.Op1))
			}
			pc, regs, _ := vm.coros.switchTo(target)
			vm.registers = regs
			vm.pc = pc
			advance = 0

		default:
			return vm.halt(fmt.Sprintf("unknown opcode %v", instr.Op))
		}

		vm.pc += advance
	}

	return nil
}

// BoolToInt encodes a boolean as §4.4's `Int(1 or 0)` comparison result.
func BoolToInt(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

func (vm *VM) arith(op compiler.Opcode, dest, left, right int32) (Value, error) {
	if !vm.checkRegister(dest) || !vm.checkRegister(left) || !vm.checkRegister(right) {
		return NullValue(), fmt.Errorf("invalid register in arithmetic instruction")
	}
	l := vm.registers[left]
	r := vm.registers[right]
	if l.Kind != Int || r.Kind != Int {
		return NullValue(), fmt.Errorf("arithmetic operands must be Int, got %s and %s", l.Kind, r.Kind)
	}
	switch op {
	case compiler.ADD:
		return IntValue(l.IntVal + r.IntVal), nil
	case compiler.SUB:
		return IntValue(l.IntVal - r.IntVal), nil
	case compiler.MUL:
		return IntValue(l.IntVal * r.IntVal), nil
	case compiler.DIV:
		if r.IntVal == 0 {
			return NullValue(), fmt.Errorf("division by zero")
		}
		return IntValue(l.IntVal / r.IntVal), nil
	default:
		return NullValue(), fmt.Errorf("not an arithmetic opcode: %v", op)
	}
}

// callNativeOpcode implements the CALL_NATIVE instruction semantics:
// copy arg_count values starting at R[op4] into a temp buffer, invoke
// pool[op2] via the registry (§4.4).
func (vm *VM) callNativeOpcode(bytecode compiler.Bytecode, instr compiler.Instruction) (Value, error) {
	if instr.Op2 < 0 || int(instr.Op2) >= len(bytecode.Constants) {
		return NullValue(), fmt.Errorf("constant pool index %d out of range in CALL_NATIVE", instr.Op2)
	}
	name := bytecode.Constants[instr.Op2]
	argCount := int(instr.Op3)
	base := instr.Op4

	args := make([]Value, argCount)
	for i := 0; i < argCount; i++ {
		reg := base + int32(i)
		if !vm.checkRegister(reg) {
			return NullValue(), fmt.Errorf("invalid argument register %d in CALL_NATIVE", reg)
		}
		args[i] = vm.registers[reg]
	}

	fn, found := vm.natives.lookup(name)
	if !found {
		return NullValue(), fmt.Errorf("unknown native function %q", name)
	}
	return fn(args)
}
