package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"osfl/lexer"
)

// tokensCmd dumps the token stream for a source file, mirroring the
// teacher's cmd_emit_bytecode.go debug-dump shape but for the lexer
// stage.
type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Dump the token stream for an OSFL source file" }
func (*tokensCmd) Usage() string {
	return `tokens <input_file>:
  Lex the given file and print its token stream.
`
}
func (*tokensCmd) SetFlags(f *flag.FlagSet) {}

func (*tokensCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	for _, tok := range tokens {
		fmt.Println(tok.String())
	}
	return subcommands.ExitSuccess
}
