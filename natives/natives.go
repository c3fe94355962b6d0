// Package natives implements the reference native-function library §6
// describes as "the out-of-scope runtime library" boundary: a minimal
// set of functions registered into a vm.VM before `run`. Grounded on
// §4.4's native dispatch contract and §8 scenario 4's `print("hello")`
// example.

package natives

import (
	"fmt"

	"osfl/vm"
)

// Register installs the reference library into machine: print, len,
// str, and type_of. Each has the vm.NativeFunc shape: it takes the
// argument slice and returns a Value and an error.
func Register(machine *vm.VM) {
	machine.RegisterNative("print", nativePrint)
	machine.RegisterNative("len", nativeLen)
	machine.RegisterNative("str", nativeStr)
	machine.RegisterNative("type_of", nativeTypeOf)
}

func nativePrint(args []vm.Value) (vm.Value, error) {
	for i, arg := range args {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(arg.String())
	}
	fmt.Println()
	return vm.NullValue(), nil
}

func nativeLen(args []vm.Value) (vm.Value, error) {
	if len(args) != 1 {
		return vm.NullValue(), fmt.Errorf("len: expected 1 argument, got %d", len(args))
	}
	switch args[0].Kind {
	case vm.String:
		return vm.IntValue(int64(len(args[0].StringVal))), nil
	case vm.List:
		return vm.IntValue(int64(len(args[0].ListVal))), nil
	default:
		return vm.NullValue(), fmt.Errorf("len: unsupported argument kind %s", args[0].Kind)
	}
}

// nativeStr backs the compiler's string-interpolation lowering (§4.3
// "Interpolation"): the inner expression's value is converted to its
// String form.
func nativeStr(args []vm.Value) (vm.Value, error) {
	if len(args) != 1 {
		return vm.NullValue(), fmt.Errorf("str: expected 1 argument, got %d", len(args))
	}
	return vm.StringValue(args[0].String()), nil
}

func nativeTypeOf(args []vm.Value) (vm.Value, error) {
	if len(args) != 1 {
		return vm.NullValue(), fmt.Errorf("type_of: expected 1 argument, got %d", len(args))
	}
	return vm.StringValue(args[0].Kind.String()), nil
}
