package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"osfl/compiler"
	"osfl/config"
	"osfl/lexer"
	"osfl/natives"
	"osfl/parser"
	"osfl/semantic"
	"osfl/vm"
)

// configFileName is the config file §6 looks for in the working
// directory before falling back to config.DefaultConfig.
const configFileName = "osfl.toml"

// runCmd implements §6's `osfl [options] <input_file>` contract: lex,
// parse, run the non-fatal semantic pass, compile, then execute.
type runCmd struct {
	outputFile string
	debug      bool
	noOptimize bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Execute an OSFL source file" }
func (*runCmd) Usage() string {
	return `run [options] <input_file>:
  Lex, parse, compile, and execute an OSFL source file.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.outputFile, "o", "", "write disassembled bytecode to this file")
	f.BoolVar(&r.debug, "d", false, "enable verbose diagnostics")
	f.BoolVar(&r.debug, "debug", false, "enable verbose diagnostics")
	f.BoolVar(&r.noOptimize, "no-optimize", false, "accepted for compatibility; no optimizer exists yet")
}

func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file provided")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	cfg, err := config.Load(configFileName)
	if err != nil {
		reportPipelineError(configFileName, err)
		return subcommands.ExitFailure
	}
	cfg.InputFile = filename
	if r.outputFile != "" {
		cfg.OutputFile = r.outputFile
	}
	if r.debug {
		cfg.DebugMode = true
	}
	if r.noOptimize {
		cfg.Optimize = false
	}

	source, err := readSourceFile(filename)
	if err != nil {
		reportPipelineError(filename, err)
		return subcommands.ExitFailure
	}

	lexCfg := lexer.DefaultConfig(filename)
	lexCfg.TabWidth = int(cfg.TabWidth)
	lexCfg.IncludeComments = cfg.IncludeComments
	lex := lexer.New(source, lexCfg)
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

	if cfg.DebugMode {
		for _, sErr := range semantic.NewAnalyzer().Analyze(statements) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", sErr.Error())
		}
	}

	astCompiler := compiler.NewASTCompiler()
	bytecode, compileErrs := astCompiler.CompileAST(statements)
	if len(compileErrs) > 0 {
		for _, cErr := range compileErrs {
			reportPipelineError(filename, cErr)
		}
		return subcommands.ExitFailure
	}

	if cfg.OutputFile != "" {
		if err := os.WriteFile(cfg.OutputFile, []byte(bytecode.Disassemble()), 0644); err != nil {
			reportPipelineError(filename, err)
			return subcommands.ExitFailure
		}
	}

	machine := vm.New()
	machine.SetDebug(cfg.DebugMode)
	natives.Register(machine)

	if err := machine.Run(bytecode); err != nil {
		reportPipelineError(filename, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// reportPipelineError prints a diagnostic to stderr. Stage error types
// (lexer.LexError, parser.SyntaxError, compiler.CompileError,
// vm.RuntimeError) already carry their own location-aware Error()
// rendering; this just routes it to the user per §6's "on any
// non-success exit... prints the last error".
func reportPipelineError(file string, err error) {
	fmt.Fprintf(os.Stderr, "Error in %s:\nError: %s\n", file, err.Error())
}
