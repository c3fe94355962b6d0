package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"osfl/compiler"
	"osfl/lexer"
	"osfl/parser"
)

// disasmCmd compiles a source file and prints its disassembled
// bytecode, mirroring the teacher's cmd_emit_bytecode.go -diassemble
// flag as a standalone subcommand.
type disasmCmd struct {
	outputFile string
}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Compile an OSFL source file and print its bytecode" }
func (*disasmCmd) Usage() string {
	return `disasm [-o file] <input_file>:
  Lex, parse, and compile the given file, printing (or writing) its
  disassembled bytecode.
`
}

func (c *disasmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "write the disassembly to this file instead of stdout")
}

func (c *disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file provided")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	source, err := readSourceFile(filename)
	if err != nil {
		reportPipelineError(filename, err)
		return subcommands.ExitFailure
	}

	lex := lexer.New(source, lexer.DefaultConfig(filename))
	tokens, err := lex.Scan()
	if err != nil {
		reportPipelineError(filename, err)
		return subcommands.ExitFailure
	}

	statements, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) > 0 {
		for _, pErr := range parseErrs {
			reportPipelineError(filename, pErr)
		}
		return subcommands.ExitFailure
	}

	astCompiler := compiler.NewASTCompiler()
	bytecode, compileErrs := astCompiler.CompileAST(statements)
	if len(compileErrs) > 0 {
		for _, cErr := range compileErrs {
			reportPipelineError(filename, cErr)
		}
		return subcommands.ExitFailure
	}

	disassembly := bytecode.Disassemble()
	if c.outputFile != "" {
		if err := os.WriteFile(c.outputFile, []byte(disassembly), 0644); err != nil {
			reportPipelineError(filename, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	fmt.Print(disassembly)
	return subcommands.ExitSuccess
}
