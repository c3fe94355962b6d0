package vm

import (
	"testing"

	"osfl/compiler"
)

func TestRunArithmeticLoadsSum(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.LOAD_CONST, 0, 10),
			compiler.MakeInstruction(compiler.LOAD_CONST, 1, 20),
			compiler.MakeInstruction(compiler.ADD, 2, 0, 1),
			compiler.MakeInstruction(compiler.HALT),
		},
	}

	machine := New()
	if err := machine.Run(bc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := machine.DumpRegisters()[2]
	if got.Kind != Int || got.IntVal != 30 {
		t.Errorf("R2 = %v, want Int(30)", got)
	}
}

func TestRunBranchTaken(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.LOAD_CONST, 0, 0),
			compiler.MakeInstruction(compiler.JUMP_IF_ZERO, 4, 0),
			compiler.MakeInstruction(compiler.LOAD_CONST, 1, 999),
			compiler.MakeInstruction(compiler.HALT),
			compiler.MakeInstruction(compiler.LOAD_CONST, 1, 123),
			compiler.MakeInstruction(compiler.HALT),
		},
	}

	machine := New()
	if err := machine.Run(bc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := machine.DumpRegisters()[1]
	if got.Kind != Int || got.IntVal != 123 {
		t.Errorf("R1 = %v, want Int(123)", got)
	}
}

func TestRunFunctionCallAndReturn(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.LOAD_CONST, 0, 10),
			compiler.MakeInstruction(compiler.CALL, 5),
			compiler.MakeInstruction(compiler.HALT),
			compiler.MakeInstruction(compiler.NOP),
			compiler.MakeInstruction(compiler.NOP),
			compiler.MakeInstruction(compiler.LOAD_CONST, 0, 99),
			compiler.MakeInstruction(compiler.RET),
		},
	}

	machine := New()
	if err := machine.Run(bc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := machine.DumpRegisters()[0]
	if got.Kind != Int || got.IntVal != 99 {
		t.Errorf("R0 = %v, want Int(99)", got)
	}
}

func TestRunNativeDispatchReceivesString(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.LOAD_CONST_STR, 0, 0),
			compiler.MakeInstruction(compiler.CALL_NATIVE, 1, 1, 1, 0),
			compiler.MakeInstruction(compiler.HALT),
		},
		Constants: []string{"hello", "print"},
	}

	var captured string
	machine := New()
	machine.RegisterNative("print", func(args []Value) (Value, error) {
		if len(args) > 0 {
			captured = args[0].StringVal
		}
		return NullValue(), nil
	})

	if err := machine.Run(bc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured != "hello" {
		t.Errorf("native received %q, want %q", captured, "hello")
	}
}

func TestRunRefcountInvariant(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.NEWOBJ, 0),
			compiler.MakeInstruction(compiler.LOAD_CONST_STR, 1, 0),
			compiler.MakeInstruction(compiler.LOAD_CONST, 2, 42),
			compiler.MakeInstruction(compiler.SETPROP, 0, 1, 2),
			compiler.MakeInstruction(compiler.GETPROP, 3, 0, 1),
			compiler.MakeInstruction(compiler.HALT),
		},
		Constants: []string{"key"},
	}

	machine := New()
	if err := machine.Run(bc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handle := machine.DumpRegisters()[0].Handle
	obj, ok := machine.pool.get(handle)
	if !ok {
		t.Fatal("expected object to still be live in the pool")
	}
	if obj.refcount < 1 {
		t.Errorf("refcount = %d, want >= 1", obj.refcount)
	}

	got := machine.DumpRegisters()[3]
	if got.Kind != Int || got.IntVal != 42 {
		t.Errorf("GETPROP result = %v, want Int(42)", got)
	}
}

func TestRunDivisionByZeroHalts(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.LOAD_CONST, 0, 10),
			compiler.MakeInstruction(compiler.LOAD_CONST, 1, 0),
			compiler.MakeInstruction(compiler.DIV, 2, 0, 1),
			compiler.MakeInstruction(compiler.HALT),
		},
	}

	machine := New()
	if err := machine.Run(bc); err == nil {
		t.Fatal("expected division by zero to produce an error")
	}
	if machine.running {
		t.Error("expected the VM to stop running after a division by zero")
	}
}

func TestRunUnknownNativeHalts(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.CALL_NATIVE, 0, 0, 0, 0),
			compiler.MakeInstruction(compiler.HALT),
		},
		Constants: []string{"does_not_exist"},
	}

	machine := New()
	if err := machine.Run(bc); err == nil {
		t.Fatal("expected an unknown native name to halt the VM")
	}
}

func TestRunCallStackUnderflowOnBareRet(t *testing.T) {
	bc := compiler.Bytecode{
		Instructions: []compiler.Instruction{
			compiler.MakeInstruction(compiler.RET),
		},
	}

	machine := New()
	if err := machine.Run(bc); err != nil {
		t.Fatalf("RET with an empty call stack halts quietly, not an error: %v", err)
	}
	if machine.running {
		t.Error("expected running to be false after a RET with an empty call stack")
	}
	if machine.LastError == nil {
		t.Error("expected LastError to record a diagnostic for the underflow")
	}
}

func TestNativeRegistryUpdatesInPlace(t *testing.T) {
	registry := newNativeRegistry()
	calls := 0
	registry.register("f", func(args []Value) (Value, error) {
		calls = 1
		return NullValue(), nil
	})
	registry.register("f", func(args []Value) (Value, error) {
		calls = 2
		return NullValue(), nil
	})

	fn, found := registry.lookup("f")
	if !found {
		t.Fatal("expected 'f' to be registered")
	}
	fn(nil)
	if calls != 2 {
		t.Errorf("expected the second registration to win, calls = %d", calls)
	}
}

func TestObjectPoolReleaseFreesOnZeroRefcount(t *testing.T) {
	pool := newObjectPool()
	handle := pool.allocate()

	obj, ok := pool.get(handle)
	if !ok {
		t.Fatal("expected freshly allocated object to be live")
	}
	if obj.refcount != 1 {
		t.Errorf("refcount = %d, want 1", obj.refcount)
	}

	pool.release(handle)
	if _, ok := pool.get(handle); ok {
		t.Error("expected object to be released after its refcount reached zero")
	}
}
