package vm

import "fmt"

// RuntimeError is the VM's diagnostic type (§7 "Runtime (exceptions
// during execution)"). The VM never throws: it records one RuntimeError
// and sets running = false (§4.4 "Failure cases").
type RuntimeError struct {
	PC      int32
	Message string
}

func CreateRuntimeError(pc int32, message string) RuntimeError {
	return RuntimeError{PC: pc, Message: message}
}

func (e RuntimeError) Error() string {
	return fmt.Sprintf("pc:%d - %s", e.PC, e.Message)
}
