package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"osfl/lexer"
	"osfl/parser"
)

// astCmd dumps the parsed AST as JSON, mirroring the teacher's
// cmd_repl_compiled.go -dumpAST flag but as a standalone subcommand
// over a file, using parser.WriteASTJSONToFile / PrintASTJSON.
type astCmd struct {
	outputFile string
}

func (*astCmd) Name() string     { return "ast" }
func (*astCmd) Synopsis() string { return "Dump the parsed AST for an OSFL source file as JSON" }
func (*astCmd) Usage() string {
	return `ast [-o file] <input_file>:
  Lex and parse the given file and print its AST as JSON. Without -o the
  JSON is printed twice: once framed by colored header lines, then plain.
  With -o the framed copy is printed and the JSON is also written to file.
`
}

func (c *astCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "also write the AST JSON to this file")
}

func (c *astCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.outputFile != "" {
		if err := parser.WriteASTJSONToFile(statements, c.outputFile); err != nil {
			reportPipelineError(filename, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out, err := parser.PrintASTJSON(statements)
	if err != nil {
		reportPipelineError(filename, err)
		return subcommands.ExitFailure
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}
