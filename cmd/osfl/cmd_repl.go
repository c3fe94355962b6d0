package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"osfl/compiler"
	"osfl/config"
	"osfl/lexer"
	"osfl/natives"
	"osfl/parser"
	"osfl/token"
	"osfl/vm"
)

// replCmd implements the interactive session, generalizing the
// teacher's cmd_repl_compiled.go brace-balance `isInputReady` check to
// the new statement set and swapping its bare bufio.Scanner loop for
// chzyer/readline's history and line editing.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive OSFL session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive OSFL session.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(configFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load %s: %v\n", configFileName, err)
		return subcommands.ExitFailure
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     replHistoryFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start REPL: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("Welcome to OSFL!")

	astCompiler := compiler.NewASTCompiler()
	machine := vm.New()
	machine.SetDebug(cfg.DebugMode)
	natives.Register(machine)

	replLexCfg := lexer.DefaultConfig("<repl>")
	replLexCfg.TabWidth = int(cfg.TabWidth)
	replLexCfg.IncludeComments = cfg.IncludeComments

	var buffer strings.Builder
	for {
		if buffer.Len() > 0 {
			rl.SetPrompt("... ")
		} else {
			rl.SetPrompt(">>> ")
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		lex := lexer.New(source, replLexCfg)
		tokens, err := lex.Scan()
		if err != nil {
			fmt.Println(err)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		statements, parseErrs := parser.Make(tokens).Parse()
		if len(parseErrs) > 0 {
			if allParseErrorsAtEOF(parseErrs, tokens[len(tokens)-1]) {
				continue
			}
			for _, pErr := range parseErrs {
				fmt.Fprintln(os.Stderr, pErr)
			}
			buffer.Reset()
			continue
		}

		bytecode, compileErrs := astCompiler.CompileAST(statements)
		if len(compileErrs) > 0 {
			for _, cErr := range compileErrs {
				fmt.Fprintln(os.Stderr, cErr)
			}
			buffer.Reset()
			continue
		}

		if err := machine.Run(bytecode); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		buffer.Reset()
	}
}

func replHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".osfl_history"
	}
	return home + "/.osfl_history"
}

// isInputReady reports whether the accumulated buffer's braces are
// balanced and its last token doesn't obviously expect a continuation,
// the same heuristic the teacher's cmd_repl_compiled.go applies,
// generalized to the current token set (frame/class/switch/try/catch
// added alongside the teacher's if/while/for/func).
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN, token.ADD, token.SUB, token.MULT, token.DIV, token.MOD,
		token.BANG, token.EQUAL_EQUAL, token.NOT_EQUAL,
		token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL,
		token.ANDAND, token.OROR,
		token.COMMA, token.LPA, token.LCUR,
		token.IF, token.ELSE, token.ELIF, token.WHILE, token.FOR,
		token.FRAME, token.FUNC, token.CLASS, token.SWITCH, token.CASE,
		token.TRY, token.CATCH, token.ON_ERROR,
		token.RETURN, token.VAR, token.CONST, token.AND, token.OR:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF reports whether every parse error is a SyntaxError
// located at the EOF token's position — meaning the user hasn't finished
// typing yet, rather than made a mistake.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, pErr := range parseErrs {
		syntaxErr, ok := pErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Line != eof.Line || syntaxErr.Column != eof.Column {
			return false
		}
	}
	return len(parseErrs) > 0
}
